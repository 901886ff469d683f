package mux

import (
	"os"
	"testing"
)

func TestWindowNameDefaultTemplate(t *testing.T) {
	name := WindowName("", "foo", "bar")
	if name != "foo/bar" {
		t.Errorf("expected foo/bar, got %q", name)
	}
}

func TestWindowNameCustomTemplate(t *testing.T) {
	name := WindowName("{repo}::{branch}", "foo", "feature/x")
	if name != "foo::feature/x" {
		t.Errorf("expected foo::feature/x, got %q", name)
	}
}

func TestDetectNoneBackendReturnsNoneDriver(t *testing.T) {
	d, err := Detect(Config{Backend: BackendNone})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if d.Backend() != BackendNone {
		t.Errorf("expected BackendNone, got %v", d.Backend())
	}
}

func TestDetectAutoPrefersZellijEnvOverTmuxEnv(t *testing.T) {
	t.Setenv("ZELLIJ", "0")
	t.Setenv("TMUX", "/tmp/tmux-1000/default,123,0")

	d, err := Detect(Config{Backend: BackendAuto})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if d.Backend() != BackendZellij {
		t.Errorf("expected zellij to take precedence, got %v", d.Backend())
	}
}

func TestDetectAutoFallsBackToTmuxEnv(t *testing.T) {
	os.Unsetenv("ZELLIJ")
	t.Setenv("TMUX", "/tmp/tmux-1000/default,123,0")

	d, err := Detect(Config{Backend: BackendAuto})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if d.Backend() != BackendTmux {
		t.Errorf("expected tmux, got %v", d.Backend())
	}
}

func TestDetectAutoWithNoEnvAndNoSessionDisablesMultiplexer(t *testing.T) {
	os.Unsetenv("ZELLIJ")
	os.Unsetenv("TMUX")

	d, err := Detect(Config{Backend: BackendAuto})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if d.Backend() != BackendNone {
		t.Errorf("expected none when no multiplexer env and no configured session, got %v", d.Backend())
	}
}

func TestDetectUnknownBackendErrors(t *testing.T) {
	_, err := Detect(Config{Backend: "bogus"})
	if err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestNoneDriverOpenWorkspaceWindowReportsSessionNotFound(t *testing.T) {
	d := noneDriver{}
	res, err := d.OpenWorkspaceWindow("s", "foo/bar", "/tmp", "")
	if err != nil {
		t.Fatalf("OpenWorkspaceWindow: %v", err)
	}
	if res.Outcome != SessionNotFound {
		t.Errorf("expected SessionNotFound, got %v", res.Outcome)
	}
}
