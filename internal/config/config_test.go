package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eshaffer321/flowmoney-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		APIURL:   "http://localhost:8080/api/v1",
		Timeout:  10 * time.Second,
		LogLevel: "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		errorString string
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "empty url", mutate: func(c *Config) { c.APIURL = "" }, errorString: "API URL cannot be empty"},
		{name: "bad scheme", mutate: func(c *Config) { c.APIURL = "ftp://example.com" }, errorString: "invalid API URL scheme 'ftp'"},
		{name: "timeout too short", mutate: func(c *Config) { c.Timeout = 10 * time.Millisecond }, errorString: "must be at least 1 second"},
		{name: "timeout too long", mutate: func(c *Config) { c.Timeout = time.Hour }, errorString: "must be at most 5 minutes"},
		{name: "negative retries", mutate: func(c *Config) { c.RetryMax = -1 }, errorString: "invalid retry count -1"},
		{name: "negative rate", mutate: func(c *Config) { c.RateLimit = -2 }, errorString: "invalid rate limit -2"},
		{name: "unknown level", mutate: func(c *Config) { c.LogLevel = "trace" }, errorString: "invalid log level 'trace'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.errorString == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("FLOW_API_URL", "https://flow.example.com/api/v1")
	t.Setenv("FLOW_TOKEN", "tok")
	t.Setenv("FLOW_SESSION_FILE", "/tmp/flow-session.json")
	t.Setenv("FLOW_TIMEOUT", "30s")
	t.Setenv("FLOW_RETRY_MAX", "3")
	t.Setenv("FLOW_RATE_LIMIT", "2.5")
	t.Setenv("FLOW_LOG_LEVEL", "DEBUG")
	t.Setenv("SENTRY_DSN", "")
	t.Setenv("FLOW_METRICS_ADDR", ":9090")

	cfg := FromEnv()

	assert.Equal(t, "https://flow.example.com/api/v1", cfg.APIURL)
	assert.Equal(t, "tok", cfg.Token)
	assert.Equal(t, "/tmp/flow-session.json", cfg.SessionFile)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.RetryMax)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.NoError(t, cfg.Validate())

	retry := cfg.RetryConfig()
	require.NotNil(t, retry)
	assert.Equal(t, 3, retry.MaxRetries)
}

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"FLOW_API_URL", "FLOW_TOKEN", "FLOW_TIMEOUT", "FLOW_RETRY_MAX", "FLOW_RATE_LIMIT", "FLOW_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	t.Setenv("FLOW_TIMEOUT", "soon")

	cfg := FromEnv()

	assert.Equal(t, types.DefaultBaseURL, cfg.APIURL)
	assert.Equal(t, types.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Nil(t, cfg.RetryConfig())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FLOW_METRICS_ADDR=:9191\n"), 0600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// godotenv never overrides variables that are already set
	t.Setenv("FLOW_METRICS_ADDR", "")
	require.NoError(t, os.Unsetenv("FLOW_METRICS_ADDR"))

	cfg := Load()
	assert.Equal(t, ":9191", cfg.MetricsAddr)
}
