package parser

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/maam00/glasshouse/internal/models"
)

func ParseYAMLSnapshot(reader io.Reader) (models.Snapshot, error) {
	var raw map[string]any
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML snapshot: %w", err)
	}

	return models.SnapshotFromRaw(raw), nil
}
