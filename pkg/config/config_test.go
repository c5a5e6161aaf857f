package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Empty(t, config.DataFile)
	assert.Equal(t, "./snapshots", config.ArchiveDir)
	assert.Equal(t, "> ", config.Shell.Prompt)
	assert.Equal(t, "warn", config.Logging.Level)
	assert.Equal(t, "console", config.Logging.Format)
	assert.Empty(t, config.Metrics.Addr)
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		expectedConfig := &Config{
			DataFile:   "/custom/bookstore.dat",
			ArchiveDir: "/custom/snapshots",
			Shell:      Shell{Prompt: "bdsm> "},
			Logging:    Logging{Level: "debug", Format: "json"},
			Metrics:    Metrics{Addr: ":9100"},
		}

		require.NoError(t, SaveConfig(expectedConfig, configPath))

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("data_file: store.dat\n"), 0600))

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "store.dat", loadedConfig.DataFile)
		assert.Equal(t, "> ", loadedConfig.Shell.Prompt)
		assert.Equal(t, "warn", loadedConfig.Logging.Level)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/path/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "invalid.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("data_file: [unclosed\n"), 0600))

		_, err := LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestSaveConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, SaveConfig(DefaultConfig(), configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Contains(t, raw, "archive_dir")
	assert.Contains(t, raw, "logging")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDataFile, "env.dat")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvArchiveDir, "")

	config := DefaultConfig()
	config.ApplyEnv()

	assert.Equal(t, "env.dat", config.DataFile)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "./snapshots", config.ArchiveDir, "empty variables do not override")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte(EnvMetricsAddr+"=:9200\n"), 0600))

	t.Setenv(EnvMetricsAddr, "")
	os.Unsetenv(EnvMetricsAddr)

	require.NoError(t, LoadEnvFile(envPath))
	assert.Equal(t, ":9200", os.Getenv(EnvMetricsAddr))

	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
}

func TestConfigExists(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	assert.False(t, ConfigExists(configPath))

	require.NoError(t, SaveConfig(DefaultConfig(), configPath))
	assert.True(t, ConfigExists(configPath))
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.Equal(t, "config.yaml", filepath.Base(path))
}
