package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing config file must not error: %v", err)
	}
	if cfg.GradingURL != DefaultGradingURL || cfg.AuthURL != DefaultAuthURL || cfg.PQRSURL != DefaultPQRSURL {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Timeout != DefaultTimeout || cfg.PollInterval != DefaultPollInterval {
		t.Fatalf("duration defaults not applied: %+v", cfg)
	}
	if cfg.PageSize != DefaultPageSize || cfg.StatePath != DefaultStatePath {
		t.Fatalf("paging/state defaults not applied: %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	content := []byte(`
gradingURL: http://grading.test
pollInterval: 1s
pageSize: 25
logLevel: debug
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.GradingURL != "http://grading.test" {
		t.Fatalf("file value not applied, got %q", cfg.GradingURL)
	}
	if cfg.PollInterval != time.Second || cfg.PageSize != 25 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug level, got %q", cfg.LogLevel)
	}
	// Unset fields still fall back.
	if cfg.AuthURL != DefaultAuthURL {
		t.Fatalf("expected default auth url, got %q", cfg.AuthURL)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("gradingURL: http://file.test\n"), 0o600); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	t.Setenv("VJUDGE_API_URL", "http://env.test")
	t.Setenv("VJUDGE_POLL_INTERVAL", "500ms")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.GradingURL != "http://env.test" {
		t.Fatalf("env must override file, got %q", cfg.GradingURL)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Fatalf("env interval not applied, got %v", cfg.PollInterval)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("gradingURL: [unclosed\n"), 0o600); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
