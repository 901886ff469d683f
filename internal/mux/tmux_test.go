package mux

import "testing"

func TestFindWindowIndexPrefersWorkspaceNameOption(t *testing.T) {
	out := "0\tfoo/main\teditor\n1\t\tshell\n2\tfoo/feature-x\tfoo/feature-x\n"

	idx, ok := findWindowIndex(out, "foo/feature-x")
	if !ok || idx != "2" {
		t.Errorf("expected index 2, got %q ok=%v", idx, ok)
	}
}

func TestFindWindowIndexFallsBackToWindowNameWhenOptionUnset(t *testing.T) {
	out := "0\t\tshell\n1\t\tfoo/main\n"

	idx, ok := findWindowIndex(out, "foo/main")
	if !ok || idx != "1" {
		t.Errorf("expected index 1 via window_name fallback, got %q ok=%v", idx, ok)
	}
}

func TestFindWindowIndexNotFound(t *testing.T) {
	out := "0\tfoo/main\teditor\n"
	_, ok := findWindowIndex(out, "foo/missing")
	if ok {
		t.Error("expected not found")
	}
}

func TestParseWindowNamesPrefersWorkspaceName(t *testing.T) {
	out := "foo/main\teditor\n\tshell\n"
	names := parseWindowNames(out)
	if len(names) != 2 || names[0] != "foo/main" || names[1] != "shell" {
		t.Errorf("unexpected names: %v", names)
	}
}
