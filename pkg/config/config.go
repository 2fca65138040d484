// Package config loads stocktrack settings from YAML with environment overrides.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Startup modes for the inventory file.
const (
	StartupLoad  = "load"
	StartupReset = "reset"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "stocktrack.yaml"

// Config holds all stocktrack configuration.
type Config struct {
	// Inventory file
	DataPath string `yaml:"data_path"`

	// Items strictly below this quantity are reported as low
	LowThreshold float64 `yaml:"low_threshold"`

	// load: read DataPath on startup; reset: start empty
	Startup string `yaml:"startup"`

	// How long callers wait on the inventory service
	QueueTimeout string `yaml:"queue_timeout"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataPath:     "inventory.json",
		LowThreshold: 5,
		Startup:      StartupLoad,
		QueueTimeout: "2s",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the defaults.
// Variables from a .env file in the working directory are applied before env overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// A missing .env is the common case.
	_ = godotenv.Load()
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies STOCKTRACK_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if path := os.Getenv("STOCKTRACK_DATA"); path != "" {
		c.DataPath = path
	}
	if raw := os.Getenv("STOCKTRACK_LOW_THRESHOLD"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid STOCKTRACK_LOW_THRESHOLD %q: %w", raw, err)
		}
		c.LowThreshold = threshold
	}
	if level := os.Getenv("STOCKTRACK_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	return nil
}

// GetQueueTimeout returns the queue timeout, falling back to 2s when unset or invalid.
func (c *Config) GetQueueTimeout() time.Duration {
	if d, err := time.ParseDuration(c.QueueTimeout); err == nil && d > 0 {
		return d
	}
	return 2 * time.Second
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return fmt.Errorf("data_path is required")
	}
	if math.IsNaN(c.LowThreshold) || math.IsInf(c.LowThreshold, 0) {
		return fmt.Errorf("low_threshold must be a finite number")
	}
	switch c.Startup {
	case StartupLoad, StartupReset:
	default:
		return fmt.Errorf("startup must be %q or %q, got %q", StartupLoad, StartupReset, c.Startup)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	if c.QueueTimeout != "" {
		if _, err := time.ParseDuration(c.QueueTimeout); err != nil {
			return fmt.Errorf("invalid queue_timeout: %w", err)
		}
	}
	return nil
}
