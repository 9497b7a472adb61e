package models

import (
	"encoding/json"
	"strings"
)

// Section groups related metric values within a snapshot.
type Section map[string]float64

// Snapshot is a point-in-time mapping of named metrics grouped into sections
// (cohort_new, performance, toxic, inventory, ...). The schema is open:
// sections and keys that are absent read as zero, and sections this tool does
// not know about are carried along untouched.
type Snapshot map[string]Section

// Value returns the metric stored at section/key, or 0 when either the
// section or the key is absent.
func (s Snapshot) Value(section, key string) float64 {
	sec, ok := s[section]
	if !ok {
		return 0
	}
	return sec[key]
}

// Lookup resolves a dot-separated path like "toxic.remaining_count".
// Anything other than a two-level path resolves to 0.
func (s Snapshot) Lookup(path string) float64 {
	parts := strings.SplitN(path, ".", 2)
	if len(parts) != 2 {
		return 0
	}
	return s.Value(parts[0], parts[1])
}

// SnapshotFromRaw builds a Snapshot from a generically decoded document.
// Only object-valued fields with numeric entries become sections; everything
// else (dates, alert lists, nested geographic breakdowns) is ignored.
func SnapshotFromRaw(raw map[string]any) Snapshot {
	snap := make(Snapshot)
	for name, value := range raw {
		fields, ok := value.(map[string]any)
		if !ok {
			continue
		}
		sec := make(Section)
		for key, v := range fields {
			if f, ok := toFloat(v); ok {
				sec[key] = f
			}
		}
		if len(sec) > 0 {
			snap[name] = sec
		}
	}
	return snap
}

// toFloat coerces the numeric types produced by the JSON and YAML decoders.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
