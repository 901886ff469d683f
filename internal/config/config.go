// Package config loads and merges the TOML configuration consumed by the
// wsmgr core, with live reload via fsnotify.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultConfig returns a Config populated entirely from defaults.
func DefaultConfig() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// Load reads a single TOML file from path, applies schema migrations,
// fills in defaults, and validates the result. This is the entrypoint used
// when no project-local override is in play.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	raw := map[string]interface{}{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	ApplyMigrations(raw)

	migrated, err := toml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to re-marshal migrated config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(migrated, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode migrated config: %w", err)
	}

	cfg.ConfigFile = path
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories as needed
// and writing atomically via a temp-file rename.
func Save(cfg *Config, path string) error {
	cfg.LastModified = time.Now()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// LoadOrCreate loads the config at path, writing a default one first if it
// doesn't exist.
func LoadOrCreate(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := Save(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}
	return Load(path)
}

// GetConfigPath returns the user's global wsmgr config directory,
// respecting XDG_CONFIG_HOME when set.
func GetConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, ConfigDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+ConfigDirName)
	}
	return filepath.Join(home, ".config", ConfigDirName)
}

// GetProjectConfigPath returns the project-local override file path for a
// given project directory.
func GetProjectConfigPath(projectPath string) string {
	return filepath.Join(projectPath, ProjectDirName, ConfigFileName)
}
