package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Valid log levels accepted by --log-level / GLASSHOUSE_LOG_LEVEL.
var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "error": true,
}

type Config struct {
	DBPath         string
	APIBaseURL     string
	APIKey         string
	Model          string
	MaxTokens      int
	RequestTimeout time.Duration
	LogLevel       string
}

func New() *Config {
	return &Config{
		DBPath:         viper.GetString("db_path"),
		APIBaseURL:     viper.GetString("api_base_url"),
		APIKey:         viper.GetString("api_key"),
		Model:          viper.GetString("model"),
		MaxTokens:      viper.GetInt("max_tokens"),
		RequestTimeout: viper.GetDuration("request_timeout"),
		LogLevel:       viper.GetString("log_level"),
	}
}

func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("invalid max tokens: %d (must be positive)", c.MaxTokens)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout: %s (must be positive)", c.RequestTimeout)
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (valid: trace, debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// RequireAPIKey checks the settings the insight client needs on top of
// Validate. The key is only required when actually calling the API.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key is required: set ANTHROPIC_API_KEY or GLASSHOUSE_API_KEY")
	}
	return nil
}
