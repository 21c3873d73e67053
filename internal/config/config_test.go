package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearOptimizerEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPTIMIZER_LOG_LEVEL",
		"OPTIMIZER_CALENDAR_ID",
		"OPTIMIZER_CREDENTIALS_PATH",
		"OPTIMIZER_TOKEN_PATH",
		"OPTIMIZER_STATE_PATH",
		"OPTIMIZER_HTTP_TIMEOUT_SECONDS",
		"OPTIMIZER_RETRY_MAX_ATTEMPTS",
		"OPTIMIZER_API_RATE_LIMIT",
		"OPTIMIZER_METRICS_PUSH_URL",
		"OPTIMIZER_METRICS_JOB",
		"OPTIMIZER_CONFIG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearOptimizerEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.CalendarID != "primary" {
		t.Errorf("CalendarID = %q", cfg.CalendarID)
	}
	if cfg.CredentialsPath != "credentials.json" || cfg.TokenPath != "token.json" {
		t.Errorf("paths = %q, %q", cfg.CredentialsPath, cfg.TokenPath)
	}
	if cfg.StatePath != "last_success.txt" {
		t.Errorf("StatePath = %q", cfg.StatePath)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.RetryMaxAttempts != 5 {
		t.Errorf("RetryMaxAttempts = %d", cfg.RetryMaxAttempts)
	}
	if cfg.APIRateLimit != 5 {
		t.Errorf("APIRateLimit = %v", cfg.APIRateLimit)
	}
	if cfg.MetricsPushURL != "" || cfg.MetricsJob != "recurring-meeting-optimizer" {
		t.Errorf("metrics = %q, %q", cfg.MetricsPushURL, cfg.MetricsJob)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearOptimizerEnv(t)
	t.Setenv("OPTIMIZER_LOG_LEVEL", "debug")
	t.Setenv("OPTIMIZER_CALENDAR_ID", "team@example.com")
	t.Setenv("OPTIMIZER_HTTP_TIMEOUT_SECONDS", "10")
	t.Setenv("OPTIMIZER_RETRY_MAX_ATTEMPTS", "2")
	t.Setenv("OPTIMIZER_API_RATE_LIMIT", "1.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.CalendarID != "team@example.com" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.HTTPTimeout != 10*time.Second || cfg.RetryMaxAttempts != 2 || cfg.APIRateLimit != 1.5 {
		t.Errorf("numeric overrides not applied: %+v", cfg)
	}
}

func TestLoadMalformedNumbersFallBack(t *testing.T) {
	clearOptimizerEnv(t)
	t.Setenv("OPTIMIZER_HTTP_TIMEOUT_SECONDS", "soon")
	t.Setenv("OPTIMIZER_API_RATE_LIMIT", "fast")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTPTimeout != 30*time.Second || cfg.APIRateLimit != 5 {
		t.Errorf("fallbacks not applied: %+v", cfg)
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	clearOptimizerEnv(t)
	t.Setenv("OPTIMIZER_CALENDAR_ID", "env@example.com")

	path := filepath.Join(t.TempDir(), "optimizer.yaml")
	overlay := "calendar_id: file@example.com\nretry_max_attempts: 7\nmetrics_push_url: http://pushgateway:9091\n"
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatalf("write overlay: %v", err)
	}
	t.Setenv("OPTIMIZER_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CalendarID != "file@example.com" {
		t.Errorf("file overlay should win over env: %q", cfg.CalendarID)
	}
	if cfg.RetryMaxAttempts != 7 {
		t.Errorf("RetryMaxAttempts = %d", cfg.RetryMaxAttempts)
	}
	if cfg.MetricsPushURL != "http://pushgateway:9091" {
		t.Errorf("MetricsPushURL = %q", cfg.MetricsPushURL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unset overlay keys should keep defaults: %q", cfg.LogLevel)
	}
}

func TestLoadMissingOverlayFileFails(t *testing.T) {
	clearOptimizerEnv(t)
	t.Setenv("OPTIMIZER_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing overlay file")
	}
}
