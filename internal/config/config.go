// Package config provides configuration management for radonsim.
// Configuration is loaded from ~/.radonsim/config.yaml, then overridden by
// RADONSIM_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/nvandessel/radonsim/internal/backup"
	"github.com/nvandessel/radonsim/internal/constants"
	"github.com/nvandessel/radonsim/internal/logging"
)

// Config is the complete radonsim configuration.
type Config struct {
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Metrics    MetricsConfig    `json:"metrics" yaml:"metrics"`
	Backup     BackupConfig     `json:"backup" yaml:"backup"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	// Level is "info", "debug" or "trace".
	Level string `json:"level" yaml:"level" env:"RADONSIM_LOG_LEVEL"`
}

// SimulationConfig holds defaults for `radonsim simulate`.
type SimulationConfig struct {
	// Max is the number of random campaigns; 0 runs the exhaustive sweep.
	Max           int   `json:"max" yaml:"max" env:"RADONSIM_SIMULATION_MAX"`
	Seed          int64 `json:"seed" yaml:"seed" env:"RADONSIM_SIMULATION_SEED"`
	Workers       int   `json:"workers" yaml:"workers" env:"RADONSIM_SIMULATION_WORKERS"`
	KeepCampaigns bool  `json:"keep_campaigns" yaml:"keep_campaigns" env:"RADONSIM_SIMULATION_KEEP_CAMPAIGNS"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Driver is "sqlite" or "memory".
	Driver string `json:"driver" yaml:"driver" env:"RADONSIM_STORE_DRIVER"`
	// Path overrides the database location. Empty means <data dir>/radonsim.db.
	Path string `json:"path,omitempty" yaml:"path,omitempty" env:"RADONSIM_STORE_PATH"`
}

// MetricsConfig controls Prometheus textfile export.
type MetricsConfig struct {
	// Textfile, when set, receives the metrics after every simulation.
	Textfile string `json:"textfile,omitempty" yaml:"textfile,omitempty" env:"RADONSIM_METRICS_TEXTFILE"`
}

// BackupConfig controls archive location and retention.
type BackupConfig struct {
	Dir       string `json:"dir,omitempty" yaml:"dir,omitempty" env:"RADONSIM_BACKUP_DIR"`
	KeepCount int    `json:"keep_count" yaml:"keep_count" env:"RADONSIM_BACKUP_KEEP_COUNT"`
	MaxAge    string `json:"max_age,omitempty" yaml:"max_age,omitempty" env:"RADONSIM_BACKUP_MAX_AGE"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Simulation: SimulationConfig{
			Max:     constants.DefaultRandomCampaigns,
			Seed:    0,
			Workers: constants.DefaultWorkers,
		},
		Store: StoreConfig{
			Driver: "sqlite",
		},
		Backup: BackupConfig{
			KeepCount: 10,
		},
	}
}

// Path returns the config file location: ~/.radonsim/config.yaml.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, constants.DataDirName, "config.yaml"), nil
}

// Load reads configuration from the default location with environment
// overrides applied. A missing file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	if configPath, err := Path(); err == nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			cfg = fileConfig
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads configuration from a YAML file. Fields missing from the
// file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.Store.Path = expandEnvVars(cfg.Store.Path)
	cfg.Metrics.Textfile = expandEnvVars(cfg.Metrics.Textfile)
	cfg.Backup.Dir = expandEnvVars(cfg.Backup.Dir)

	return cfg, nil
}

// ApplyEnv overrides cfg with RADONSIM_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Save writes the configuration to path, creating its directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %s, or empty for default)",
			c.Logging.Level, strings.Join(logging.Levels, ", "))
	}

	if c.Simulation.Max < 0 {
		return fmt.Errorf("simulation.max must be non-negative, got %d", c.Simulation.Max)
	}
	if c.Simulation.Workers < 1 {
		return fmt.Errorf("simulation.workers must be at least 1, got %d", c.Simulation.Workers)
	}

	switch c.Store.Driver {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("invalid store driver: %s (valid: sqlite, memory)", c.Store.Driver)
	}

	if c.Backup.KeepCount < 0 {
		return fmt.Errorf("backup.keep_count must be non-negative, got %d", c.Backup.KeepCount)
	}
	if c.Backup.MaxAge != "" {
		if _, err := backup.ParseDuration(c.Backup.MaxAge); err != nil {
			return fmt.Errorf("backup.max_age: %w", err)
		}
	}

	return nil
}

// expandEnvVars expands ${VAR} references.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
