package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guarzo/freestuff/client"
)

var allVars = []string{
	"FREESTUFF_API_KEY",
	"FREESTUFF_API_DOMAIN",
	"FREESTUFF_TIMEOUT",
	"FREESTUFF_RPS",
	"FREESTUFF_BURST",
	"FREESTUFF_LOG_LEVEL",
	"FREESTUFF_WATCH_SCHEDULE",
	"FREESTUFF_CATEGORY",
	"FREESTUFF_BATCH_SIZE",
	"FREESTUFF_CONCURRENCY",
}

// clearEnv unsets every FREESTUFF_ variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allVars {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("FREESTUFF_API_KEY", "abc")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.APIKey)
	assert.Equal(t, "https://api.freestuffbot.xyz", cfg.APIDomain)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Zero(t, cfg.RPS)
	assert.Equal(t, 1, cfg.Burst)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "@every 30m", cfg.WatchSchedule)
	assert.Equal(t, "free", cfg.Category)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, 2, cfg.Concurrency)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FREESTUFF_API_KEY", "abc")
	t.Setenv("FREESTUFF_API_DOMAIN", "https://staging.example.com")
	t.Setenv("FREESTUFF_TIMEOUT", "5s")
	t.Setenv("FREESTUFF_RPS", "2.5")
	t.Setenv("FREESTUFF_BURST", "3")
	t.Setenv("FREESTUFF_BATCH_SIZE", "2")
	t.Setenv("FREESTUFF_CATEGORY", "approved")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com", cfg.APIDomain)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.InDelta(t, 2.5, cfg.RPS, 1e-9)
	assert.Equal(t, 3, cfg.Burst)
	assert.Equal(t, 2, cfg.BatchSize)
	assert.Equal(t, "approved", cfg.Category)
}

func TestLoad_MissingKey(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("FREESTUFF_API_KEY", "   ")
	_, err = Load("")
	assert.ErrorIs(t, err, client.ErrNoAPIKey)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"FREESTUFF_TIMEOUT":     "soon",
		"FREESTUFF_BATCH_SIZE":  "6",
		"FREESTUFF_CONCURRENCY": "0",
		"FREESTUFF_RPS":         "-1",
	}

	for k, v := range tests {
		t.Run(k, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("FREESTUFF_API_KEY", "abc")
			t.Setenv(k, v)

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FREESTUFF_API_KEY=from-file\nFREESTUFF_CATEGORY=all\n"), 0o600))
	t.Setenv("FREESTUFF_CATEGORY", "approved")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "approved", cfg.Category, "environment should win over the file")
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("FREESTUFF_API_KEY", "abc")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.APIKey)
}

func TestClientConfig(t *testing.T) {
	cfg := &Config{
		APIKey:    "abc",
		APIDomain: "https://api.example.com",
		Timeout:   10 * time.Second,
		RPS:       1,
		Burst:     4,
	}

	cc := cfg.ClientConfig()
	assert.Equal(t, "abc", cc.APIKey)
	assert.Equal(t, "https://api.example.com", cc.APIDomain)
	assert.Equal(t, 10*time.Second, cc.Timeout)
	assert.InDelta(t, 1.0, cc.RequestsPerSecond, 1e-9)
	assert.Equal(t, 4, cc.Burst)
	assert.Equal(t, client.DefaultUserAgent, cc.UserAgent)

	_, err := client.New(cc)
	assert.NoError(t, err)
}
