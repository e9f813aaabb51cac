package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "debug"
  log_raw_pii: true

storage:
  type: "local"
  local_path: "./test-data"

hunter:
  api_key: "test-api-key"
  base_url: "https://hunter.test"
  timeout_seconds: 45
  min_confidence: 70
  enabled: true

neverbounce:
  api_key: "nb-key"
  rate_per_minute: 30
  base_delay_seconds: 2
  max_backoff_seconds: 60
  strict_valid: true

enrich:
  pattern_cache_path: "./cache.json"
  flush_every: 10
  pace_millis: 50
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	// Test logging config
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.LogRawPII)

	// Test storage config
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "./test-data", cfg.Storage.LocalPath)

	// Test Hunter config
	assert.Equal(t, "test-api-key", cfg.Hunter.APIKey)
	assert.Equal(t, "https://hunter.test", cfg.Hunter.BaseURL)
	assert.Equal(t, 45, cfg.Hunter.TimeoutSeconds)
	assert.Equal(t, 70, cfg.Hunter.MinConfidence)
	assert.True(t, cfg.Hunter.Enabled)

	// Test NeverBounce config
	assert.Equal(t, "nb-key", cfg.NeverBounce.APIKey)
	assert.Equal(t, 30, cfg.NeverBounce.RatePerMinute)
	assert.Equal(t, 2, cfg.NeverBounce.BaseDelaySeconds)
	assert.Equal(t, 60, cfg.NeverBounce.MaxBackoffSeconds)
	assert.True(t, cfg.NeverBounce.StrictValid)

	// Test enrich config
	assert.Equal(t, "./cache.json", cfg.Enrich.PatternCachePath)
	assert.Equal(t, 10, cfg.Enrich.FlushEvery)
	assert.Equal(t, 50, cfg.Enrich.PaceMillis)
}

func TestLoadDefaults(t *testing.T) {
	// Create a minimal config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
hunter:
  api_key: "test-key"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	// Verify defaults are applied
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "https://api.hunter.io", cfg.Hunter.BaseURL)
	assert.Equal(t, 30, cfg.Hunter.TimeoutSeconds)
	assert.Equal(t, 50, cfg.Hunter.MinConfidence)
	assert.Equal(t, "https://api.neverbounce.com", cfg.NeverBounce.BaseURL)
	assert.Equal(t, 1, cfg.NeverBounce.BaseDelaySeconds)
	assert.Equal(t, 30, cfg.NeverBounce.MaxBackoffSeconds)
	assert.False(t, cfg.NeverBounce.StrictValid)
	assert.Equal(t, "anthropic.claude-3-sonnet-20240229-v1:0", cfg.Bedrock.ModelID)
	assert.Equal(t, "email_pattern_cache.json", cfg.Enrich.PatternCachePath)
	assert.Equal(t, 25, cfg.Enrich.FlushEvery)
	assert.Equal(t, 200, cfg.Enrich.PaceMillis)
	assert.Equal(t, 60, cfg.Enrich.LockTTLSeconds)
}

func TestLoadFromEnv(t *testing.T) {
	// Create a minimal config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
hunter:
  api_key: "file-key"
  base_url: "https://file-url.com"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	// Set environment variables
	os.Setenv("HUNTER_API_KEY", "env-key")
	os.Setenv("HUNTER_BASE_URL", "https://env-url.com")
	os.Setenv("REDIS_URL", "redis://localhost:6379/0")
	defer func() {
		os.Unsetenv("HUNTER_API_KEY")
		os.Unsetenv("HUNTER_BASE_URL")
		os.Unsetenv("REDIS_URL")
	}()

	cfg, err := LoadFromEnv(configPath)
	require.NoError(t, err)

	// Environment variables should override file values
	assert.Equal(t, "env-key", cfg.Hunter.APIKey)
	assert.Equal(t, "https://env-url.com", cfg.Hunter.BaseURL)
	assert.True(t, cfg.Hunter.Enabled)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadFromEnvWithoutFile(t *testing.T) {
	os.Setenv("NEVERBOUNCE_API_KEY", "env-key")
	defer os.Unsetenv("NEVERBOUNCE_API_KEY")

	// No config file at all: defaults plus env vars
	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "https://api.neverbounce.com", cfg.NeverBounce.BaseURL)
	assert.Equal(t, "env-key", cfg.NeverBounce.APIKey)
	assert.True(t, cfg.NeverBounce.Enabled)
}

func TestTimeout(t *testing.T) {
	cfg := HunterConfig{TimeoutSeconds: 45}
	assert.Equal(t, 45*1000000000, int(cfg.Timeout().Nanoseconds()))
}

func TestBackoffDurations(t *testing.T) {
	cfg := NeverBounceConfig{BaseDelaySeconds: 2, MaxBackoffSeconds: 60}
	assert.Equal(t, 2*1000000000, int(cfg.BaseDelay().Nanoseconds()))
	assert.Equal(t, 60*1000000000, int(cfg.MaxBackoff().Nanoseconds()))
}
