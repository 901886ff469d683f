package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the TOML-persisted configuration consumed by the core, covering
// discovery, the observers, multiplexer, hooks, and the ambient logging keys.
type Config struct {
	SchemaVersion int `toml:"schema_version"`

	SearchPaths  []string `toml:"search_paths"`
	MaxScanDepth int      `toml:"max_scan_depth"`
	SocketPath   string   `toml:"socket_path"`

	Worktree    WorktreeConfig    `toml:"worktree"`
	Logwatch    LogwatchConfig    `toml:"logwatch"`
	Multiplexer MultiplexerConfig `toml:"multiplexer"`
	Hooks       HooksConfig       `toml:"hooks"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// ConfigFile is the path this config was loaded from; not persisted.
	ConfigFile string `toml:"-"`
	// LastModified is set by Save, not read from disk.
	LastModified time.Time `toml:"-"`
}

// WorktreeConfig controls worktree path generation.
type WorktreeConfig struct {
	PathStyle         string `toml:"path_style"` // parallel | ghq | subdirectory | custom
	CustomTemplate    string `toml:"custom_template"`
	GhqRoot           string `toml:"ghq_root"`
	DefaultRemote     string `toml:"default_remote"`
	MaxRemoteBranches int    `toml:"max_remote_branches"` // 0 = unlimited
}

// LogwatchConfig controls the Claude and Kiro observers.
type LogwatchConfig struct {
	Enabled                bool   `toml:"enabled"`
	ClaudeHooksEnabled     bool   `toml:"claude_hooks_enabled"`
	ClaudeHome             string `toml:"claude_home"`
	KiroPollingEnabled     bool   `toml:"kiro_polling_enabled"`
	KiroPollingIntervalSec int    `toml:"kiro_polling_interval_secs"`
	KiroDBPath             string `toml:"kiro_db_path"`
}

// MultiplexerConfig controls backend selection.
type MultiplexerConfig struct {
	Backend         string `toml:"backend"` // auto | zellij | tmux | none
	SessionName     string `toml:"session_name"`
	TabNameTemplate string `toml:"tab_name_template"` // default "{repo}/{branch}"
}

// HooksConfig controls shell hooks fired on session status transitions and
// worktree lifecycle events — wsmgr shells out to the configured script,
// it does not interpret it.
type HooksConfig struct {
	StatusHooks   StatusHooksConfig   `toml:"status"`
	WorktreeHooks WorktreeHooksConfig `toml:"worktree"`
}

// StatusHooksConfig fires when a session's Status changes, one hook per
// destination status.
type StatusHooksConfig struct {
	Enabled    bool       `toml:"enabled"`
	IdleHook   HookConfig `toml:"idle"`
	BusyHook   HookConfig `toml:"busy"`
	WaitHook   HookConfig `toml:"waiting"`
}

// WorktreeHooksConfig fires on worktree creation and on a worktree being
// brought to the foreground (its window focused or a session attached).
type WorktreeHooksConfig struct {
	Enabled        bool       `toml:"enabled"`
	CreationHook   HookConfig `toml:"creation"`
	ActivationHook HookConfig `toml:"activation"`
}

// HookConfig is one configured hook script.
type HookConfig struct {
	Enabled bool   `toml:"enabled"`
	Script  string `toml:"script"`
	Timeout int    `toml:"timeout_secs"`
	Async   bool   `toml:"async"`
}

const CurrentSchemaVersion = 1

// SetDefaults fills in zero-valued fields with their defaults. Unknown keys
// present in a loaded TOML document are ignored by viper's unmarshal.
func (c *Config) SetDefaults() {
	if c.SchemaVersion == 0 {
		c.SchemaVersion = CurrentSchemaVersion
	}
	if len(c.SearchPaths) == 0 {
		c.SearchPaths = []string{"~/work"}
	}
	if c.MaxScanDepth == 0 {
		c.MaxScanDepth = 4
	}
	if c.SocketPath == "" {
		c.SocketPath = "~/.local/state/wsmgr/notify.sock"
	}

	c.Worktree.SetDefaults()
	c.Logwatch.SetDefaults()
	c.Multiplexer.SetDefaults()
	c.Hooks.SetDefaults()

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

func (w *WorktreeConfig) SetDefaults() {
	if w.PathStyle == "" {
		w.PathStyle = "parallel"
	}
	if w.DefaultRemote == "" {
		w.DefaultRemote = "origin"
	}
	// MaxRemoteBranches zero value (0) legitimately means "unlimited"; no
	// default needed.
}

func (l *LogwatchConfig) SetDefaults() {
	// Enabled, ClaudeHooksEnabled and KiroPollingEnabled are not defaulted:
	// Go's zero value for bool cannot be told apart from an explicit false,
	// so each stays false unless a loaded document sets it true.
	if l.ClaudeHome == "" {
		l.ClaudeHome = "~/.claude"
	}
	if l.KiroPollingIntervalSec == 0 {
		l.KiroPollingIntervalSec = 3
	}
	if l.KiroDBPath == "" {
		l.KiroDBPath = "~/Library/Application Support/kiro-cli/data.sqlite3"
	}
}

func (m *MultiplexerConfig) SetDefaults() {
	if m.Backend == "" {
		m.Backend = "auto"
	}
	if m.TabNameTemplate == "" {
		m.TabNameTemplate = "{repo}/{branch}"
	}
}

func (h *HooksConfig) SetDefaults() {
	h.StatusHooks.IdleHook.SetDefaults()
	h.StatusHooks.BusyHook.SetDefaults()
	h.StatusHooks.WaitHook.SetDefaults()
	h.WorktreeHooks.CreationHook.SetDefaults()
	h.WorktreeHooks.ActivationHook.SetDefaults()
}

func (h *HookConfig) SetDefaults() {
	if h.Timeout == 0 {
		h.Timeout = 30
	}
}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	if c.MaxScanDepth < 0 {
		return errors.New("max_scan_depth cannot be negative")
	}
	if c.SocketPath == "" {
		return errors.New("socket_path is required")
	}
	if err := c.Worktree.Validate(); err != nil {
		return fmt.Errorf("worktree validation failed: %w", err)
	}
	if err := c.Multiplexer.Validate(); err != nil {
		return fmt.Errorf("multiplexer validation failed: %w", err)
	}
	if err := c.Hooks.Validate(); err != nil {
		return fmt.Errorf("hooks validation failed: %w", err)
	}
	return nil
}

func (h *HooksConfig) Validate() error {
	for _, hook := range []HookConfig{
		h.StatusHooks.IdleHook, h.StatusHooks.BusyHook, h.StatusHooks.WaitHook,
		h.WorktreeHooks.CreationHook, h.WorktreeHooks.ActivationHook,
	} {
		if err := hook.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (h *HookConfig) Validate() error {
	if h.Enabled && h.Script == "" {
		return errors.New("hook script path is required when enabled")
	}
	if h.Timeout < 0 {
		return errors.New("hook timeout cannot be negative")
	}
	return nil
}

func (w *WorktreeConfig) Validate() error {
	switch w.PathStyle {
	case "parallel", "ghq", "subdirectory", "custom":
	default:
		return fmt.Errorf("invalid path_style: %s", w.PathStyle)
	}
	if w.PathStyle == "custom" && w.CustomTemplate == "" {
		return errors.New("custom_template is required when path_style is custom")
	}
	if w.MaxRemoteBranches < 0 {
		return errors.New("max_remote_branches cannot be negative")
	}
	return nil
}

func (m *MultiplexerConfig) Validate() error {
	switch m.Backend {
	case "auto", "zellij", "tmux", "none":
	default:
		return fmt.Errorf("invalid multiplexer backend: %s", m.Backend)
	}
	return nil
}

// MergeConfigs overlays a project-local override onto a global config.
// Non-zero-valued project fields win. Slices and maps in the override
// replace rather than append.
func MergeConfigs(global, project *Config) *Config {
	if project == nil {
		return global
	}
	merged := *global

	if len(project.SearchPaths) > 0 {
		merged.SearchPaths = project.SearchPaths
	}
	if project.MaxScanDepth != 0 {
		merged.MaxScanDepth = project.MaxScanDepth
	}
	if project.SocketPath != "" {
		merged.SocketPath = project.SocketPath
	}
	if project.LogLevel != "" {
		merged.LogLevel = project.LogLevel
	}
	if project.LogFormat != "" {
		merged.LogFormat = project.LogFormat
	}

	mergeWorktree(&merged.Worktree, project.Worktree)
	mergeLogwatch(&merged.Logwatch, project.Logwatch)
	mergeMultiplexer(&merged.Multiplexer, project.Multiplexer)
	if project.Hooks.StatusHooks.Enabled {
		merged.Hooks.StatusHooks = project.Hooks.StatusHooks
	}
	if project.Hooks.WorktreeHooks.Enabled {
		merged.Hooks.WorktreeHooks = project.Hooks.WorktreeHooks
	}

	return &merged
}

func mergeWorktree(dst *WorktreeConfig, src WorktreeConfig) {
	if src.PathStyle != "" {
		dst.PathStyle = src.PathStyle
	}
	if src.CustomTemplate != "" {
		dst.CustomTemplate = src.CustomTemplate
	}
	if src.GhqRoot != "" {
		dst.GhqRoot = src.GhqRoot
	}
	if src.DefaultRemote != "" {
		dst.DefaultRemote = src.DefaultRemote
	}
	if src.MaxRemoteBranches != 0 {
		dst.MaxRemoteBranches = src.MaxRemoteBranches
	}
}

func mergeLogwatch(dst *LogwatchConfig, src LogwatchConfig) {
	if src.Enabled {
		dst.Enabled = true
	}
	if src.ClaudeHooksEnabled {
		dst.ClaudeHooksEnabled = true
	}
	if src.KiroPollingEnabled {
		dst.KiroPollingEnabled = true
	}
	if src.ClaudeHome != "" {
		dst.ClaudeHome = src.ClaudeHome
	}
	if src.KiroPollingIntervalSec != 0 {
		dst.KiroPollingIntervalSec = src.KiroPollingIntervalSec
	}
	if src.KiroDBPath != "" {
		dst.KiroDBPath = src.KiroDBPath
	}
}

func mergeMultiplexer(dst *MultiplexerConfig, src MultiplexerConfig) {
	if src.Backend != "" {
		dst.Backend = src.Backend
	}
	if src.SessionName != "" {
		dst.SessionName = src.SessionName
	}
	if src.TabNameTemplate != "" {
		dst.TabNameTemplate = src.TabNameTemplate
	}
}
