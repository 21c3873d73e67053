package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string

	CalendarID      string
	CredentialsPath string
	TokenPath       string
	StatePath       string

	HTTPTimeout      time.Duration
	RetryMaxAttempts int
	APIRateLimit     float64

	MetricsPushURL string
	MetricsJob     string
}

// Load resolves configuration from the environment (a .env file is
// honored when present) and applies an optional YAML overlay named by
// OPTIMIZER_CONFIG.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		LogLevel: mustEnv("OPTIMIZER_LOG_LEVEL", "info"),

		CalendarID:      mustEnv("OPTIMIZER_CALENDAR_ID", "primary"),
		CredentialsPath: mustEnv("OPTIMIZER_CREDENTIALS_PATH", "credentials.json"),
		TokenPath:       mustEnv("OPTIMIZER_TOKEN_PATH", "token.json"),
		StatePath:       mustEnv("OPTIMIZER_STATE_PATH", "last_success.txt"),

		HTTPTimeout:      time.Duration(mustEnvInt("OPTIMIZER_HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		RetryMaxAttempts: mustEnvInt("OPTIMIZER_RETRY_MAX_ATTEMPTS", 5),
		APIRateLimit:     mustEnvFloat("OPTIMIZER_API_RATE_LIMIT", 5),

		MetricsPushURL: mustEnv("OPTIMIZER_METRICS_PUSH_URL", ""),
		MetricsJob:     mustEnv("OPTIMIZER_METRICS_JOB", "recurring-meeting-optimizer"),
	}

	if path := os.Getenv("OPTIMIZER_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// fileOverlay mirrors Config in YAML; only set keys override.
type fileOverlay struct {
	LogLevel           string   `yaml:"log_level"`
	CalendarID         string   `yaml:"calendar_id"`
	CredentialsPath    string   `yaml:"credentials_path"`
	TokenPath          string   `yaml:"token_path"`
	StatePath          string   `yaml:"state_path"`
	HTTPTimeoutSeconds *int     `yaml:"http_timeout_seconds"`
	RetryMaxAttempts   *int     `yaml:"retry_max_attempts"`
	APIRateLimit       *float64 `yaml:"api_rate_limit"`
	MetricsPushURL     string   `yaml:"metrics_push_url"`
	MetricsJob         string   `yaml:"metrics_job"`
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var overlay fileOverlay
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}

	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.CalendarID != "" {
		c.CalendarID = overlay.CalendarID
	}
	if overlay.CredentialsPath != "" {
		c.CredentialsPath = overlay.CredentialsPath
	}
	if overlay.TokenPath != "" {
		c.TokenPath = overlay.TokenPath
	}
	if overlay.StatePath != "" {
		c.StatePath = overlay.StatePath
	}
	if overlay.HTTPTimeoutSeconds != nil {
		c.HTTPTimeout = time.Duration(*overlay.HTTPTimeoutSeconds) * time.Second
	}
	if overlay.RetryMaxAttempts != nil {
		c.RetryMaxAttempts = *overlay.RetryMaxAttempts
	}
	if overlay.APIRateLimit != nil {
		c.APIRateLimit = *overlay.APIRateLimit
	}
	if overlay.MetricsPushURL != "" {
		c.MetricsPushURL = overlay.MetricsPushURL
	}
	if overlay.MetricsJob != "" {
		c.MetricsJob = overlay.MetricsJob
	}
	return nil
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
