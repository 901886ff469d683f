package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	ConfigFileName = "config.toml"
	ConfigDirName  = "wsmgr"
	ProjectDirName = ".wsmgr"
)

// Manager owns a global and an optional project-local viper instance and
// produces the merged, defaulted, validated Config the core consumes.
type Manager struct {
	global  *viper.Viper
	project *viper.Viper
	merged  *Config
}

// NewManager constructs a Manager with fresh, unconfigured viper instances.
func NewManager() *Manager {
	return &Manager{
		global:  viper.New(),
		project: viper.New(),
	}
}

// InitGlobal points the global instance at the user's config directory and
// reads it if present; a missing file is not an error (defaults apply).
func (m *Manager) InitGlobal(configPath string) error {
	m.global.SetConfigName("config")
	m.global.SetConfigType("toml")
	m.global.AddConfigPath(configPath)
	m.bindEnvironment(m.global)

	if err := m.global.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read global config: %w", err)
		}
	}
	return nil
}

// InitProject points the project instance at <projectPath>/.wsmgr/config.toml.
// A missing project override file is not an error.
func (m *Manager) InitProject(projectPath string) error {
	m.project.SetConfigName("config")
	m.project.SetConfigType("toml")
	m.project.AddConfigPath(filepath.Join(projectPath, ProjectDirName))
	_ = m.project.ReadInConfig()
	return nil
}

// Merged unmarshals, defaults, merges, and validates global + project
// config, returning the result the core should use.
func (m *Manager) Merged() (*Config, error) {
	// Config carries toml tags only, while viper's own Unmarshal matches
	// mapstructure names, so settings are decoded through a TOML round trip.
	decode := func(v *viper.Viper, out *Config) error {
		data, err := toml.Marshal(v.AllSettings())
		if err != nil {
			return err
		}
		return toml.Unmarshal(data, out)
	}

	var global Config
	if err := decode(m.global, &global); err != nil {
		return nil, fmt.Errorf("failed to unmarshal global config: %w", err)
	}
	global.SetDefaults()

	var projectPtr *Config
	if m.project.ConfigFileUsed() != "" {
		var project Config
		if err := decode(m.project, &project); err == nil {
			projectPtr = &project
		}
	}

	merged := MergeConfigs(&global, projectPtr)
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("merged config validation failed: %w", err)
	}

	m.merged = merged
	return merged, nil
}

// Watch installs fsnotify watchers on whichever config files were loaded
// and re-merges on every change, invoking onChange with the fresh result.
func (m *Manager) Watch(onChange func(*Config)) {
	m.global.WatchConfig()
	m.global.OnConfigChange(func(e fsnotify.Event) {
		if cfg, err := m.Merged(); err == nil {
			onChange(cfg)
		}
	})

	if m.project.ConfigFileUsed() != "" {
		m.project.WatchConfig()
		m.project.OnConfigChange(func(e fsnotify.Event) {
			if cfg, err := m.Merged(); err == nil {
				onChange(cfg)
			}
		})
	}
}

func (m *Manager) bindEnvironment(v *viper.Viper) {
	v.SetEnvPrefix("WSMGR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}
