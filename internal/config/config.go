// Package config loads the server's YAML configuration and optionally
// watches the snapshot file so a running server can hot-reload its
// graph when the file is rewritten.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration file.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`
	// Snapshot configures where graph contents are loaded from.
	Snapshot SnapshotConfig `yaml:"snapshot"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// SnapshotConfig selects the snapshot backend.
type SnapshotConfig struct {
	// Backend is "file" (JSON) or "sqlite".
	Backend string `yaml:"backend"`
	// Path is the snapshot file path (JSON document or SQLite database).
	Path string `yaml:"path"`
	// Watch enables hot-reloading the graph when the snapshot file
	// changes. Only meaningful for the file backend.
	Watch bool `yaml:"watch"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Addr:     ":8080",
		Snapshot: SnapshotConfig{Backend: "file"},
		LogLevel: "info",
	}
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func Validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("config: addr must not be empty")
	}
	switch cfg.Snapshot.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("config: unknown snapshot backend %q", cfg.Snapshot.Backend)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", cfg.LogLevel)
	}
	return nil
}
