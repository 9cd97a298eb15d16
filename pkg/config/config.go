package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration for the engine.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig holds snapshot persistence configuration.
type DatabaseConfig struct {
	SnapshotPath string `mapstructure:"snapshot_path"`
	AutoLoad     bool   `mapstructure:"auto_load"`
}

// AuditConfig holds audit-log sink configuration.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console, json
}

// DefaultConfig returns configuration with sensible default values.
func DefaultConfig() *Config {
	configDir := ConfigPath()

	return &Config{
		Database: DatabaseConfig{
			SnapshotPath: filepath.Join(configDir, "snapshot.db"),
			AutoLoad:     true,
		},
		Audit: AuditConfig{
			Enabled: true,
			Path:    filepath.Join(configDir, "audit.log"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file with fallback to defaults.
// Searches in multiple locations:
//  1. ./config.yaml (current directory)
//  2. ~/.miniql/config.yaml (user home)
//  3. /etc/miniql/config.yaml (system-wide)
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	v.AddConfigPath(ConfigPath())
	v.AddConfigPath("/etc/miniql")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values in Viper.
func setDefaults(v *viper.Viper) {
	configDir := ConfigPath()

	v.SetDefault("database.snapshot_path", filepath.Join(configDir, "snapshot.db"))
	v.SetDefault("database.auto_load", true)

	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.path", filepath.Join(configDir, "audit.log"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Database.SnapshotPath == "" {
		return fmt.Errorf("database.snapshot_path is required")
	}

	if c.Audit.Enabled && c.Audit.Path == "" {
		return fmt.Errorf("audit.path is required when audit logging is enabled")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: console, json")
	}

	return nil
}

// EnsureConfigDir creates the snapshot directory if it doesn't exist.
func (c *Config) EnsureConfigDir() error {
	dir := filepath.Dir(c.Database.SnapshotPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// ConfigPath returns the path to the configuration directory.
func ConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".miniql")
}

// SnapshotPath returns the default snapshot file path.
func SnapshotPath() string {
	return filepath.Join(ConfigPath(), "snapshot.db")
}
