package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/eshaffer321/flowmoney-go/internal/types"
	"github.com/joho/godotenv"
)

// Config holds the settings shared by the CLI and the MCP server
type Config struct {
	// API
	APIURL      string
	Token       string
	SessionFile string
	Timeout     time.Duration

	// Client behaviour
	RetryMax  int
	RateLimit float64

	// Observability
	LogLevel    string
	SentryDSN   string
	MetricsAddr string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; variables already set in
// the environment win.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the configuration from the environment only
func FromEnv() *Config {
	return &Config{
		APIURL:      getEnv("FLOW_API_URL", types.DefaultBaseURL),
		Token:       getEnv("FLOW_TOKEN", ""),
		SessionFile: getEnv("FLOW_SESSION_FILE", DefaultSessionFile()),
		Timeout:     getEnvDuration("FLOW_TIMEOUT", types.DefaultTimeout),

		RetryMax:  getEnvInt("FLOW_RETRY_MAX", 0),
		RateLimit: getEnvFloat("FLOW_RATE_LIMIT", 0),

		LogLevel:    strings.ToLower(getEnv("FLOW_LOG_LEVEL", "info")),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
		MetricsAddr: getEnv("FLOW_METRICS_ADDR", ""),
	}
}

// DefaultSessionFile is ~/.flow/session.json, or a relative path when the
// home directory is unknown.
func DefaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".flow", "session.json")
	}
	return filepath.Join(home, ".flow", "session.json")
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.APIURL == "" {
		errors = append(errors, "API URL cannot be empty")
	} else if u, err := url.Parse(c.APIURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid API URL '%s': %v", c.APIURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid API URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	}

	if c.Timeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid timeout %v: must be at least 1 second", c.Timeout))
	} else if c.Timeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid timeout %v: must be at most 5 minutes", c.Timeout))
	}

	if c.RetryMax < 0 || c.RetryMax > 10 {
		errors = append(errors, fmt.Sprintf("invalid retry count %d: must be between 0 and 10", c.RetryMax))
	}

	if c.RateLimit < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %v: must not be negative", c.RateLimit))
	}

	if _, ok := levels[c.LogLevel]; !ok {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// RetryConfig returns nil when retries are disabled
func (c *Config) RetryConfig() *types.RetryConfig {
	if c.RetryMax <= 0 {
		return nil
	}
	return &types.RetryConfig{
		MaxRetries: c.RetryMax,
		RetryWait:  500 * time.Millisecond,
		MaxWait:    5 * time.Second,
	}
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Level maps LogLevel to a slog level, defaulting to info
func (c *Config) Level() slog.Level {
	if l, ok := levels[c.LogLevel]; ok {
		return l
	}
	return slog.LevelInfo
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
