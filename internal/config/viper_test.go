package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManagerMergedAppliesProjectOverride(t *testing.T) {
	globalDir := t.TempDir()
	projectDir := t.TempDir()

	globalToml := "search_paths = [\"/global/work\"]\nlog_level = \"warn\"\n"
	if err := os.WriteFile(filepath.Join(globalDir, "config.toml"), []byte(globalToml), 0644); err != nil {
		t.Fatal(err)
	}

	projectConfigDir := filepath.Join(projectDir, ProjectDirName)
	if err := os.MkdirAll(projectConfigDir, 0755); err != nil {
		t.Fatal(err)
	}
	projectToml := "[multiplexer]\nbackend = \"zellij\"\n"
	if err := os.WriteFile(filepath.Join(projectConfigDir, "config.toml"), []byte(projectToml), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	if err := m.InitGlobal(globalDir); err != nil {
		t.Fatalf("InitGlobal failed: %v", err)
	}
	if err := m.InitProject(projectDir); err != nil {
		t.Fatalf("InitProject failed: %v", err)
	}

	merged, err := m.Merged()
	if err != nil {
		t.Fatalf("Merged failed: %v", err)
	}

	if merged.LogLevel != "warn" {
		t.Errorf("expected global log level 'warn', got %q", merged.LogLevel)
	}
	if merged.Multiplexer.Backend != "zellij" {
		t.Errorf("expected project override 'zellij', got %q", merged.Multiplexer.Backend)
	}
	if len(merged.SearchPaths) != 1 || merged.SearchPaths[0] != "/global/work" {
		t.Errorf("unexpected search paths: %v", merged.SearchPaths)
	}
}

func TestManagerMergedWithoutAnyFilesUsesDefaults(t *testing.T) {
	m := NewManager()
	if err := m.InitGlobal(t.TempDir()); err != nil {
		t.Fatalf("InitGlobal failed: %v", err)
	}
	if err := m.InitProject(t.TempDir()); err != nil {
		t.Fatalf("InitProject failed: %v", err)
	}

	merged, err := m.Merged()
	if err != nil {
		t.Fatalf("Merged failed: %v", err)
	}
	if merged.Worktree.PathStyle != "parallel" {
		t.Errorf("expected default path style, got %q", merged.Worktree.PathStyle)
	}
}
