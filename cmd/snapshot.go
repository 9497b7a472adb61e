package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maam00/glasshouse/internal/config"
	"github.com/maam00/glasshouse/internal/date"
	"github.com/maam00/glasshouse/internal/history"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage the snapshot history",
	Long:  "Record daily metric snapshots into the history database and list them",
}

var snapshotRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a snapshot for a date",
	Long:  "Parse a snapshot file and store it under its date, replacing any earlier snapshot for that date",
	RunE:  snapshotRecord,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded snapshots",
	RunE:  snapshotList,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotRecordCmd)
	snapshotCmd.AddCommand(snapshotListCmd)

	// Record command flags
	snapshotRecordCmd.Flags().String("file", "", "Snapshot file to record (JSON/YAML, required)")
	snapshotRecordCmd.Flags().String("date", "", "Snapshot date (default: today)")
	snapshotRecordCmd.MarkFlagRequired("file")

	// List command flags
	snapshotListCmd.Flags().Int("limit", 14, "Number of snapshots to list")
}

func snapshotRecord(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Parse flags
	path, _ := cmd.Flags().GetString("file")
	dateStr, _ := cmd.Flags().GetString("date")

	key := date.Today()
	if dateStr != "" {
		day, err := date.Parse(dateStr)
		if err != nil {
			return err
		}
		key = date.Key(day)
	}

	snap, err := loadSnapshotFile(path)
	if err != nil {
		return err
	}
	if len(snap) == 0 {
		return fmt.Errorf("no metric sections found in %s", path)
	}

	store, err := history.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	if err := store.Save(key, snap); err != nil {
		return err
	}

	fmt.Printf("Recorded snapshot for %s (%d sections)\n", key, len(snap))

	return nil
}

func snapshotList(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	days, err := store.Recent(limit)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		fmt.Println("No snapshots recorded yet")
		return nil
	}

	fmt.Printf("%-12s %9s %8s %7s %10s\n", "DATE", "WIN RATE", "MARGIN", "TOXIC", "INVENTORY")
	for _, d := range days {
		fmt.Printf("%-12s %8.1f%% %7.2f%% %7.0f %10.0f\n",
			d.Date,
			d.Snapshot.Value("performance", "win_rate"),
			d.Snapshot.Value("performance", "contribution_margin"),
			d.Snapshot.Value("toxic", "remaining_count"),
			d.Snapshot.Value("inventory", "total"),
		)
	}

	return nil
}
