package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maam00/glasshouse/internal/config"
	"github.com/maam00/glasshouse/internal/history"
	"github.com/maam00/glasshouse/internal/insight"
	"github.com/maam00/glasshouse/internal/logger"
	"github.com/maam00/glasshouse/internal/models"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Generate AI insights for the dashboard",
	Long: `Call the language-model API with the aggregated dashboard metrics and
merge the generated narrative insights back into the dashboard data file.`,
	RunE: runInsights,
}

func init() {
	rootCmd.AddCommand(insightsCmd)

	insightsCmd.Flags().String("data", "", "Dashboard data file to read and update (JSON, required)")
	insightsCmd.Flags().Bool("dry-run", false, "Print the analyst context without calling the API")
	insightsCmd.MarkFlagRequired("data")
}

func runInsights(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Parse flags
	dataPath, _ := cmd.Flags().GetString("data")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	dashboard, err := loadDashboardFile(dataPath)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Println(insight.BuildContext(dashboard))
		return nil
	}

	client, err := insight.NewClient(cfg)
	if err != nil {
		return err
	}

	// Per-request timeouts live in the HTTP client; retries run to completion.
	insights, err := client.Generate(context.Background(), dashboard)
	if err != nil {
		return err
	}

	fmt.Println("Generated insights:")
	fmt.Printf("  Velocity: %s\n", insights.VelocityInsight)
	fmt.Printf("  Guidance: %s\n", insights.GuidanceInsight)
	fmt.Printf("  Pattern:  %s\n", insights.PatternInsight)

	if err := mergeInsights(dataPath, insights); err != nil {
		return err
	}
	fmt.Printf("Updated %s with AI insights\n", dataPath)

	recordInsightRun(cfg, insights)

	return nil
}

// mergeInsights rewrites the dashboard file with ai_insights set, going
// through a raw decode so fields this tool does not model survive untouched.
func mergeInsights(path string, insights *models.Insights) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return fmt.Errorf("failed to parse dashboard data: %w", err)
	}
	raw["ai_insights"] = insights

	updated, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dashboard data: %w", err)
	}

	if err := os.WriteFile(path, updated, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}

// recordInsightRun archives the run in the history database. Best effort:
// the insights are already in the dashboard file, so failures only log.
func recordInsightRun(cfg *config.Config, insights *models.Insights) {
	log := logger.WithComponent("insights")

	store, err := history.Open(cfg.DBPath)
	if err != nil {
		log.Warn().Err(err).Msg("skipping insight run archive")
		return
	}
	defer store.Close()

	runID, err := store.SaveInsights(insights)
	if err != nil {
		log.Warn().Err(err).Msg("failed to archive insight run")
		return
	}
	log.Info().Str("run_id", runID).Msg("insight run archived")
}
