package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no stray .env is read.
func chdirTemp(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "google", cfg.SerpAPIEngine)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 1500*time.Millisecond, cfg.PacingDelay())
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL())
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Contains(t, cfg.ExcludedFeatures, "search_parameters")
	assert.ErrorIs(t, cfg.Validate(), ErrNoSource)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SERPAPI_KEY", "k")
	t.Setenv("PACING_DELAY", "0")
	t.Setenv("EXCLUDED_FEATURES", "search_metadata, pagination")
	t.Setenv("SERPAPI_GL", "de")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "k", cfg.SerpAPIKey)
	assert.Equal(t, time.Duration(0), cfg.PacingDelay())
	assert.Equal(t, []string{"search_metadata", "pagination"}, cfg.ExcludedFeatures)
	assert.Equal(t, "google///de", cfg.CacheNamespace())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ExcludeNothing(t *testing.T) {
	chdirTemp(t)
	t.Setenv("EXCLUDED_FEATURES", "none")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Empty(t, cfg.ExcludedFeatures)
}

func TestLoad_DotEnvFile(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile(".env", []byte("PAYLOAD_DIR=fixtures\nLOG_LEVEL=debug\n"), 0o644))

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "fixtures", cfg.PayloadDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Negative(t *testing.T) {
	cfg := &Config{PayloadDir: "x", PacingDelayMS: -1}
	assert.Error(t, cfg.Validate())
}
