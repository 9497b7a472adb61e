package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maam00/glasshouse/internal/config"
	"github.com/maam00/glasshouse/internal/history"
	"github.com/maam00/glasshouse/internal/models"
	"github.com/maam00/glasshouse/internal/parser"
	"github.com/maam00/glasshouse/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run data-accuracy checks",
	Long: `Run automated validation checks over the dashboard data to catch
accuracy issues early: reported vs recalculated revenue and win rate, minimum
sales counts, and cross-source inventory totals.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().String("data", "", "Dashboard data file (JSON, required)")
	validateCmd.Flags().String("snapshot", "", "Snapshot file for cross-source checks (default: latest recorded)")
	validateCmd.Flags().String("check", "", "Run a single check (min-sales/revenue/win-rate/cross-source)")
	validateCmd.Flags().Bool("strict", false, "Fail with a non-zero exit on any critical check failure")
	validateCmd.MarkFlagRequired("data")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Parse flags
	dataPath, _ := cmd.Flags().GetString("data")
	snapshotPath, _ := cmd.Flags().GetString("snapshot")
	check, _ := cmd.Flags().GetString("check")
	strict, _ := cmd.Flags().GetBool("strict")

	dashboard, err := loadDashboardFile(dataPath)
	if err != nil {
		return err
	}

	snap, err := resolveSnapshot(cfg, snapshotPath)
	if err != nil {
		return err
	}

	report, err := validate.Run(dashboard, snap, check)
	if err != nil {
		return err
	}

	for _, r := range report.Results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		fmt.Printf("[%s] %-12s %s\n", status, r.Name, r.Message)
	}

	fmt.Printf("\nReport %s: %d checks", report.ID, len(report.Results))
	if report.Passed() {
		fmt.Println(", all passed")
		return nil
	}
	critical := report.CriticalFailures()
	fmt.Printf(", %d critical failures\n", critical)

	if strict && critical > 0 {
		return fmt.Errorf("validation failed: %d critical checks", critical)
	}

	return nil
}

func loadDashboardFile(path string) (*models.Dashboard, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	return parser.ParseJSONDashboard(file)
}

// resolveSnapshot loads the snapshot from a file when given, otherwise tries
// the latest recorded one. A missing snapshot is not an error: the
// cross-source check degrades to a skip.
func resolveSnapshot(cfg *config.Config, path string) (models.Snapshot, error) {
	if path != "" {
		return loadSnapshotFile(path)
	}

	store, err := history.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	_, snap, err := store.Latest()
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return snap, nil
}
