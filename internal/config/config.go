// Package config loads the aegis YAML configuration. Every field has a
// default; a missing file means "all defaults", so the CLI works with no
// setup at all.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"aegis/internal/coordinate"
	"aegis/internal/judge"
	"aegis/internal/store"
)

// DefaultPath is where the CLI looks for configuration when --config is not
// given.
const DefaultPath = ".aegis/config.yaml"

// LogConfig tunes structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// LifecycleConfig tunes soft-deletion handling.
type LifecycleConfig struct {
	RestoreWindowDays int           `yaml:"restore_window_days"`
	SweepInterval     time.Duration `yaml:"sweep_interval"`
}

// RestoreWindow returns the configured window as a duration.
func (l LifecycleConfig) RestoreWindow() time.Duration {
	return time.Duration(l.RestoreWindowDays) * 24 * time.Hour
}

// Config is the full aegis configuration.
type Config struct {
	DBPath      string            `yaml:"db_path"`
	Log         LogConfig         `yaml:"log"`
	Coordinator coordinate.Config `yaml:"coordinator"`
	Judge       judge.Config      `yaml:"judge"`
	Lifecycle   LifecycleConfig   `yaml:"lifecycle"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DBPath:      store.DefaultDBPath,
		Log:         LogConfig{Level: "info", Format: "text"},
		Coordinator: coordinate.DefaultConfig(),
		Judge:       judge.Config{Provider: "heuristic"},
		Lifecycle: LifecycleConfig{
			RestoreWindowDays: 30,
			SweepInterval:     time.Hour,
		},
	}
}

// Load reads the config file at path, layering it over the defaults. A
// missing file is not an error; a malformed one is. The GEMINI_API_KEY
// environment variable overrides the judge api_key field so the key can stay
// out of the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Lifecycle.RestoreWindowDays <= 0 {
		cfg.Lifecycle.RestoreWindowDays = 30
	}
	if cfg.Lifecycle.SweepInterval <= 0 {
		cfg.Lifecycle.SweepInterval = time.Hour
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Judge.APIKey = key
	}
}
