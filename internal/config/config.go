// Package config provides configuration loading and validation for the
// server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config is the application configuration. It can be loaded from a JSON
// file, from environment variables, or both; explicit values win over
// file values, which win over defaults.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// AI provider
	APIKey   string `json:"api_key,omitempty"`  // Provider API key
	Provider string `json:"provider,omitempty"` // "gemini" or "openai"

	// Review behavior
	SuggestionMin        int `json:"suggestion_min,omitempty"`         // Lower bound for full-scan suggestion count
	SuggestionMax        int `json:"suggestion_max,omitempty"`         // Upper bound for full-scan suggestion count
	ReviewTimeoutSeconds int `json:"review_timeout_seconds,omitempty"` // Per-round AI deadline

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:                 8080,
		Provider:             "gemini",
		SuggestionMin:        20,
		SuggestionMax:        50,
		ReviewTimeoutSeconds: 60,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills unset fields from environment variables.
func (c *Config) FromEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Provider == "" {
		c.Provider = os.Getenv("LLM_PROVIDER")
	}
	if c.Port == 0 {
		if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
			c.Port = port
		}
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.SuggestionMin < 0 || c.SuggestionMax < 0 {
		return fmt.Errorf("config error: suggestion counts must be non-negative")
	}
	if c.SuggestionMax != 0 && c.SuggestionMin > c.SuggestionMax {
		return fmt.Errorf("config error: 'suggestion_min' exceeds 'suggestion_max'")
	}
	if c.ReviewTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'review_timeout_seconds' must be non-negative")
	}
	switch c.Provider {
	case "", "gemini", "openai":
	default:
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. CLI flag values should be applied before calling this.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.SuggestionMin == 0 {
		result.SuggestionMin = defaults.SuggestionMin
	}
	if result.SuggestionMax == 0 {
		result.SuggestionMax = defaults.SuggestionMax
	}
	if result.ReviewTimeoutSeconds == 0 {
		result.ReviewTimeoutSeconds = defaults.ReviewTimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
