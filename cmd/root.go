package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/maam00/glasshouse/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "glasshouse",
	Short: "Glass House operational metrics tracker",
	Long: `Data-pipeline tooling for the Glass House stock-analysis dashboard.
Records daily metric snapshots, evaluates threshold alerts, validates data
accuracy across sources, and generates narrative insights from aggregated
metrics.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("db", "", "History database path (overrides GLASSHOUSE_DB_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (trace/debug/info/warn/error)")
	viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// Environment variables
	viper.SetEnvPrefix("GLASSHOUSE")
	viper.AutomaticEnv()

	// The insight API key follows the provider's conventional variable
	viper.BindEnv("api_key", "ANTHROPIC_API_KEY")

	// Set defaults
	viper.SetDefault("db_path", "data/glasshouse.db")
	viper.SetDefault("api_base_url", "https://api.anthropic.com")
	viper.SetDefault("model", "claude-sonnet-4-20250514")
	viper.SetDefault("max_tokens", 300)
	viper.SetDefault("request_timeout", "30s")
	viper.SetDefault("log_level", "info")

	logger.Init(viper.GetString("log_level"))
}
