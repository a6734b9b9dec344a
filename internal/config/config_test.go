package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"port": 9090,
		"database_url": "postgres://localhost/essays",
		"provider": "openai",
		"suggestion_min": 15,
		"suggestion_max": 30
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/essays", cfg.DatabaseURL)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, 15, cfg.SuggestionMin)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeConfig(t, `{not json`)
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())

	bad := Config{Port: 70000}
	assert.Error(t, bad.Validate())

	bad = Config{SuggestionMin: 40, SuggestionMax: 20}
	assert.Error(t, bad.Validate())

	bad = Config{Provider: "watson"}
	assert.Error(t, bad.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Port: 3000, Provider: "openai"}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 3000, merged.Port)
	assert.Equal(t, "openai", merged.Provider)
	assert.Equal(t, 20, merged.SuggestionMin)
	assert.Equal(t, 50, merged.SuggestionMax)
	assert.Equal(t, 60, merged.ReviewTimeoutSeconds)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/essays")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("PORT", "4000")

	var cfg Config
	cfg.FromEnv()
	assert.Equal(t, "postgres://env/essays", cfg.DatabaseURL)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, 4000, cfg.Port)

	// Explicit values are not overwritten
	cfg = Config{DatabaseURL: "postgres://explicit"}
	cfg.FromEnv()
	assert.Equal(t, "postgres://explicit", cfg.DatabaseURL)
}

func TestNewJWTConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Nil(t, cfg, "unset secret disables auth")

	t.Setenv("JWT_SECRET", "topsecret")
	cfg, err = NewJWTConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 24, cfg.ExpirationHours)

	t.Setenv("JWT_EXPIRATION_HOURS", "0")
	_, err = NewJWTConfig()
	assert.Error(t, err)
}
