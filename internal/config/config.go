// Package config loads goskim configuration: defaults, then an optional
// YAML file, then GOSKIM_* environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all goskim settings.
type Config struct {
	// Mode is the default transformation mode.
	Mode string `yaml:"mode"`

	// Cache configures the transform cache.
	Cache CacheConfig `yaml:"cache"`

	// Output configures multi-file output.
	Output OutputConfig `yaml:"output"`

	// Jobs caps parallel file processing; 0 means NumCPU.
	Jobs int `yaml:"jobs"`
}

// CacheConfig configures the sqlite transform cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	// Path overrides the cache database location; empty uses the
	// platform default.
	Path string `yaml:"path"`
}

// OutputConfig configures how results are written.
type OutputConfig struct {
	// NoHeader suppresses per-file headers in multi-file output.
	NoHeader bool `yaml:"no_header"`
	// ShowStats prints token reduction statistics to stderr.
	ShowStats bool `yaml:"show_stats"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Mode: "structure",
		Cache: CacheConfig{
			Enabled: true,
		},
	}
}

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/goskim/config.yaml (or the platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determine config directory: %w", err)
	}
	return filepath.Join(dir, "goskim", "config.yaml"), nil
}

// Load builds the effective configuration. A non-empty path must exist; an
// empty path falls back to DefaultPath and tolerates its absence.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		var err error
		path, err = DefaultPath()
		if err != nil {
			path = ""
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err) && !explicit:
			// No config file is the common case.
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies GOSKIM_* environment variables on top of the
// loaded configuration.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GOSKIM_MODE"); v != "" {
		c.Mode = v
	}
	if v := os.Getenv("GOSKIM_NO_CACHE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = !b
		}
	}
	if v := os.Getenv("GOSKIM_CACHE_PATH"); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv("GOSKIM_JOBS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Jobs = n
		}
	}
}
