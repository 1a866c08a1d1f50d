package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath == "" || cfg.Coordinator.Workers == 0 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Judge.Provider != "heuristic" {
		t.Errorf("default judge = %q, want heuristic", cfg.Judge.Provider)
	}
	if cfg.Lifecycle.RestoreWindow() != 30*24*time.Hour {
		t.Errorf("restore window = %s, want 30 days", cfg.Lifecycle.RestoreWindow())
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
db_path: /tmp/custom.db
log:
  level: debug
coordinator:
  workers: 8
judge:
  provider: gemini
  api_key: file-key
lifecycle:
  restore_window_days: 7
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/custom.db" || cfg.Coordinator.Workers != 8 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("partial section lost defaults: %+v", cfg.Log)
	}
	if cfg.Lifecycle.RestoreWindowDays != 7 {
		t.Errorf("restore window days = %d", cfg.Lifecycle.RestoreWindowDays)
	}
}

func TestEnvOverridesAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Judge.APIKey != "env-key" {
		t.Errorf("api key = %q, want env override", cfg.Judge.APIKey)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("db_path: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed config accepted")
	}
}
