/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the bdsm configuration
type Config struct {
	DataFile   string  `yaml:"data_file"`
	ArchiveDir string  `yaml:"archive_dir"`
	Shell      Shell   `yaml:"shell"`
	Logging    Logging `yaml:"logging"`
	Metrics    Metrics `yaml:"metrics"`
}

// Shell contains interactive shell settings
type Shell struct {
	Prompt string `yaml:"prompt"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Metrics contains the optional Prometheus listener configuration
type Metrics struct {
	Addr string `yaml:"addr"` // empty disables the listener
}

// Environment variables that override file settings
const (
	EnvDataFile    = "BDSM_DATA_FILE"
	EnvArchiveDir  = "BDSM_ARCHIVE_DIR"
	EnvLogLevel    = "BDSM_LOG_LEVEL"
	EnvMetricsAddr = "BDSM_METRICS_ADDR"
)

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataFile:   "",
		ArchiveDir: "./snapshots",
		Shell: Shell{
			Prompt: "> ",
		},
		Logging: Logging{
			Level:  "warn",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from the specified path.
// Settings missing from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvFile loads variables from a dotenv file into the process
// environment. Variables that are already set win. A missing file is ignored.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config fields from BDSM_* environment variables
func (c *Config) ApplyEnv() {
	c.DataFile = getenv(EnvDataFile, c.DataFile)
	c.ArchiveDir = getenv(EnvArchiveDir, c.ArchiveDir)
	c.Logging.Level = getenv(EnvLogLevel, c.Logging.Level)
	c.Metrics.Addr = getenv(EnvMetricsAddr, c.Metrics.Addr)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./bdsm.yaml"
	}

	// For Linux/macOS, use ~/.config/bdsm/config.yaml
	configDir := filepath.Join(homeDir, ".config", "bdsm")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
