package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigPrecedence(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env-url")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("PORT", "")

	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"port": 9000, "provider": "openai"}`), 0o644))

	t.Cleanup(func() {
		servePort = 0
		serveConfig = ""
	})

	// File value wins over defaults.
	serveConfig = configPath
	servePort = 0
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "postgres://env-url", cfg.DatabaseURL)
	assert.Equal(t, "env-key", cfg.APIKey)

	// Flag wins over file.
	servePort = 9100
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)

	// Defaults fill the rest.
	assert.Equal(t, 20, cfg.SuggestionMin)
	assert.Equal(t, 50, cfg.SuggestionMax)
	assert.Equal(t, 60, cfg.ReviewTimeoutSeconds)
}

func TestLoadConfigMissingDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("OPENAI_API_KEY", "")

	servePort = 0
	serveConfig = ""
	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadConfigMissingAPIKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env-url")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	servePort = 0
	serveConfig = ""
	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
}
