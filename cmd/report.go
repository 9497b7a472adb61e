package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maam00/glasshouse/internal/config"
	"github.com/maam00/glasshouse/internal/history"
	"github.com/maam00/glasshouse/internal/models"
	"github.com/maam00/glasshouse/internal/monitor"
	"github.com/maam00/glasshouse/internal/parser"
	"github.com/maam00/glasshouse/internal/signals"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Evaluate alerts for the latest snapshots",
	Long: `Load the current and previous metric snapshots, evaluate the fixed
alert thresholds, and print the daily brief. Snapshots come from the history
database unless --current/--previous point at files.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("current", "", "Current snapshot file (JSON/YAML; default: latest recorded)")
	reportCmd.Flags().String("previous", "", "Previous snapshot file (JSON/YAML; default: the one before latest)")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	currentPath, _ := cmd.Flags().GetString("current")
	previousPath, _ := cmd.Flags().GetString("previous")

	current, previous, asOf, err := loadSnapshotPair(cfg, currentPath, previousPath)
	if err != nil {
		return err
	}

	alerts := monitor.New(current, previous).CheckAll()

	fmt.Printf("GLASS HOUSE — Daily Brief (%s)\n\n", asOf)

	fmt.Println("ALERTS")
	if len(alerts) == 0 {
		fmt.Println("  none — all tracked metrics within thresholds")
	} else {
		for _, line := range monitor.FormatAlerts(alerts) {
			fmt.Printf("  %s\n", line)
		}
	}

	printSignals(current)

	return nil
}

// loadSnapshotPair resolves the current and previous snapshots from files or
// from the history store, returning a display date for the brief.
func loadSnapshotPair(cfg *config.Config, currentPath, previousPath string) (models.Snapshot, models.Snapshot, string, error) {
	var current, previous models.Snapshot
	asOf := "latest"

	if currentPath != "" {
		snap, err := loadSnapshotFile(currentPath)
		if err != nil {
			return nil, nil, "", err
		}
		current = snap
		asOf = filepath.Base(currentPath)
	}

	if previousPath != "" {
		snap, err := loadSnapshotFile(previousPath)
		if err != nil {
			return nil, nil, "", err
		}
		previous = snap
	}

	if current != nil {
		return current, previous, asOf, nil
	}

	store, err := history.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	date, snap, err := store.Latest()
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return nil, nil, "", fmt.Errorf("no snapshots recorded yet: run 'glasshouse snapshot record' or pass --current")
		}
		return nil, nil, "", err
	}
	current = snap
	asOf = date

	if previous == nil {
		if _, prev, err := store.Previous(date); err == nil {
			previous = prev
		} else if !errors.Is(err, history.ErrNotFound) {
			return nil, nil, "", err
		}
	}

	return current, previous, asOf, nil
}

// loadSnapshotFile parses a snapshot file based on its extension.
func loadSnapshotFile(path string) (models.Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return parser.ParseJSONSnapshot(file)
	case ".yaml", ".yml":
		return parser.ParseYAMLSnapshot(file)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .json, .yaml, .yml)", ext)
	}
}

// printSignals grades the headline metrics that have signal bands defined.
func printSignals(current models.Snapshot) {
	type row struct {
		label  string
		metric string
		value  float64
	}

	rows := []row{
		{"Win rate", "win_rate", current.Value("performance", "win_rate")},
		{"New cohort win rate", "kaz_win_rate", current.Value("cohort_new", "win_rate")},
	}

	// Toxic share needs both counts present to be meaningful.
	total := current.Value("inventory", "total")
	if total > 0 {
		toxicPct := current.Value("inventory", "toxic_count") / total * 100
		rows = append(rows, row{"Toxic share", "toxic_pct", toxicPct})
	}

	fmt.Println("\nSIGNALS")
	for _, r := range rows {
		if r.value <= 0 {
			continue
		}
		status := signals.ForMetric(r.metric, r.value)
		fmt.Printf("  %-20s %6.1f%%  [%s]\n", r.label, r.value, strings.ToUpper(string(status)))
	}
}
