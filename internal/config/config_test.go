package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
	if cfg.Worktree.PathStyle != "parallel" {
		t.Errorf("expected default path_style 'parallel', got %q", cfg.Worktree.PathStyle)
	}
	if cfg.Multiplexer.TabNameTemplate != "{repo}/{branch}" {
		t.Errorf("unexpected default tab template: %q", cfg.Multiplexer.TabNameTemplate)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	original := DefaultConfig()
	original.SearchPaths = []string{"/tmp/work"}
	original.Worktree.PathStyle = "ghq"
	original.Worktree.GhqRoot = "/tmp/ghq"

	if err := Save(original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded.SearchPaths) != 1 || loaded.SearchPaths[0] != "/tmp/work" {
		t.Errorf("search paths not round-tripped: %v", loaded.SearchPaths)
	}
	if loaded.Worktree.PathStyle != "ghq" || loaded.Worktree.GhqRoot != "/tmp/ghq" {
		t.Errorf("worktree config not round-tripped: %+v", loaded.Worktree)
	}
}

func TestValidateRejectsCustomStyleWithoutTemplate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Worktree.PathStyle = "custom"
	cfg.Worktree.CustomTemplate = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for custom style without template")
	}
}

func TestMergeConfigsOverridesOnlySetFields(t *testing.T) {
	global := DefaultConfig()
	global.LogLevel = "info"
	global.Worktree.DefaultRemote = "origin"

	project := &Config{}
	project.Multiplexer.Backend = "tmux"

	merged := MergeConfigs(global, project)

	if merged.LogLevel != "info" {
		t.Errorf("expected global log level preserved, got %q", merged.LogLevel)
	}
	if merged.Multiplexer.Backend != "tmux" {
		t.Errorf("expected project override applied, got %q", merged.Multiplexer.Backend)
	}
	if merged.Worktree.DefaultRemote != "origin" {
		t.Errorf("expected global default remote preserved, got %q", merged.Worktree.DefaultRemote)
	}
}
