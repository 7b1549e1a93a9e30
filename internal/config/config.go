// Package config provides configuration file and environment variable support for buzz.
//
// Configuration priority (highest to lowest):
//  1. Command-line flags
//  2. Environment variables (BUZZ_*)
//  3. Config file (~/.buzz/config.toml)
//  4. Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/spetersoncode/buzz/internal/timeago"
)

// Config represents the buzz configuration.
type Config struct {
	// DB is the path to the database file. Empty means ~/.buzz/buzz.db.
	DB string `toml:"db"`

	// NoColor disables colored output.
	NoColor bool `toml:"no_color"`

	// Username is recorded as the author of new posts and issues.
	Username string `toml:"username"`

	// EpochUnit controls how numeric timestamps are read: auto, seconds or milliseconds.
	EpochUnit string `toml:"epoch_unit"`

	// ClampFuture renders timestamps later than now as "0 seconds ago".
	ClampFuture bool `toml:"clamp_future"`

	Backup BackupConfig `toml:"backup"`
}

// BackupConfig controls automatic database backups.
type BackupConfig struct {
	Enabled       bool   `toml:"enabled" json:"enabled"`
	IntervalHours int    `toml:"interval_hours" json:"interval_hours"`
	MaxCount      int    `toml:"max_count" json:"max_count"`
	Path          string `toml:"path" json:"path,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Username:  "anonymous",
		EpochUnit: "auto",
		Backup: BackupConfig{
			Enabled:       true,
			IntervalHours: 24,
			MaxCount:      3,
		},
	}
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".buzz", "config.toml")
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load loads configuration from the default file and the environment.
func Load() (*Config, error) {
	return LoadFromPath(DefaultConfigPath())
}

// LoadFromPath loads configuration from a specific file path.
// A missing file is not an error; defaults are used instead.
func LoadFromPath(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if _, err := toml.DecodeFile(configPath, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", configPath, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if db := os.Getenv("BUZZ_DB"); db != "" {
		c.DB = db
	}
	// BUZZ_DB_PATH wins over BUZZ_DB
	if dbPath := os.Getenv("BUZZ_DB_PATH"); dbPath != "" {
		c.DB = dbPath
	}

	if _, ok := os.LookupEnv("BUZZ_NO_COLOR"); ok {
		c.NoColor = true
	}

	if user := os.Getenv("BUZZ_USERNAME"); user != "" {
		c.Username = user
	}

	if unit := os.Getenv("BUZZ_EPOCH_UNIT"); unit != "" {
		if _, err := timeago.ParseEpochUnit(unit); err == nil {
			c.EpochUnit = unit
		}
	}

	if clamp := os.Getenv("BUZZ_CLAMP_FUTURE"); clamp != "" {
		if b, err := strconv.ParseBool(clamp); err == nil {
			c.ClampFuture = b
		}
	}
}

// Validate checks values that came from the config file.
func (c *Config) Validate() error {
	if _, err := timeago.ParseEpochUnit(c.EpochUnit); err != nil {
		return fmt.Errorf("epoch_unit: %w", err)
	}
	if c.Backup.IntervalHours < 0 {
		return fmt.Errorf("backup.interval_hours must not be negative")
	}
	if c.Backup.Enabled && c.Backup.MaxCount < 1 {
		return fmt.Errorf("backup.max_count must be at least 1 when backups are enabled")
	}
	return nil
}

// Formatter returns a time ago formatter configured from c.
func (c *Config) Formatter() *timeago.Formatter {
	unit, _ := timeago.ParseEpochUnit(c.EpochUnit)
	return &timeago.Formatter{
		EpochUnit:   unit,
		ClampFuture: c.ClampFuture,
	}
}

// SampleConfig returns a sample configuration file content.
func SampleConfig() string {
	return `# Buzz Configuration File
# Location: ~/.buzz/config.toml
#
# Configuration priority (highest to lowest):
#   1. Command-line flags
#   2. Environment variables (BUZZ_*)
#   3. This config file
#   4. Built-in defaults

# Path to the database file
# Default: ~/.buzz/buzz.db
# Environment: BUZZ_DB or BUZZ_DB_PATH (BUZZ_DB_PATH takes precedence)
# db = "/path/to/buzz.db"

# Disable colored output
# Environment: BUZZ_NO_COLOR (any value = true)
# no_color = false

# Author name for new posts and issues
# Default: anonymous
# Environment: BUZZ_USERNAME
# username = "octocat"

# How numeric timestamps are read: auto, seconds or milliseconds.
# auto treats 10-digit numbers as seconds and everything else as milliseconds.
# Environment: BUZZ_EPOCH_UNIT
# epoch_unit = "auto"

# Show timestamps in the future as "0 seconds ago" instead of a negative count
# Environment: BUZZ_CLAMP_FUTURE
# clamp_future = false

[backup]
# Copy the database before commands when the newest backup is older than interval_hours
# enabled = true
# interval_hours = 24
# max_count = 3
# Directory for backups. Default: next to the database
# path = "/path/to/backups"
`
}

// WriteConfigFile writes the sample config file to path, creating parent
// directories if needed.
func WriteConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(SampleConfig()), 0644)
}
