package worktree

import "testing"

func TestComputePathParallelSanitisesSlashes(t *testing.T) {
	path, err := ComputePath(PathOptions{
		Style:    StyleParallel,
		RepoPath: "/home/u/work/foo",
		RepoName: "foo",
		Branch:   "feature/x",
	})
	if err != nil {
		t.Fatalf("ComputePath: %v", err)
	}
	want := "/home/u/work/foo__feature-x"
	if path != want {
		t.Errorf("expected %q, got %q", want, path)
	}
}

func TestComputePathSubdirectory(t *testing.T) {
	path, err := ComputePath(PathOptions{
		Style:    StyleSubdirectory,
		RepoPath: "/home/u/work/foo",
		RepoName: "foo",
		Branch:   "feature/x",
	})
	if err != nil {
		t.Fatalf("ComputePath: %v", err)
	}
	want := "/home/u/work/foo/.worktrees/feature-x"
	if path != want {
		t.Errorf("expected %q, got %q", want, path)
	}
}

func TestComputePathGhqUsesHostAndOwnerFromRemote(t *testing.T) {
	path, err := ComputePath(PathOptions{
		Style:     StyleGhq,
		RepoPath:  "/home/u/work/foo",
		RepoName:  "foo",
		Branch:    "feature/x",
		RemoteURL: "git@github.com:acme/foo.git",
		GhqRoot:   "/home/u/ghq",
	})
	if err != nil {
		t.Fatalf("ComputePath: %v", err)
	}
	want := "/home/u/ghq/github.com/acme/foo__feature-x"
	if path != want {
		t.Errorf("expected %q, got %q", want, path)
	}
}

func TestComputePathGhqFallsBackToParallelWithoutParseableRemote(t *testing.T) {
	path, err := ComputePath(PathOptions{
		Style:    StyleGhq,
		RepoPath: "/home/u/work/foo",
		RepoName: "foo",
		Branch:   "main",
		GhqRoot:  "/home/u/ghq",
	})
	if err != nil {
		t.Fatalf("ComputePath: %v", err)
	}
	want := "/home/u/work/foo__main"
	if path != want {
		t.Errorf("expected fallback to parallel style %q, got %q", want, path)
	}
}

func TestComputePathCustomTemplate(t *testing.T) {
	path, err := ComputePath(PathOptions{
		Style:          StyleCustom,
		RepoPath:       "/home/u/work/foo",
		RepoName:       "foo",
		Branch:         "feature/x",
		CustomTemplate: "/tmp/wt/{repo}-{branch}",
	})
	if err != nil {
		t.Fatalf("ComputePath: %v", err)
	}
	want := "/tmp/wt/foo-feature-x"
	if path != want {
		t.Errorf("expected %q, got %q", want, path)
	}
}

func TestComputePathCustomTemplateRequiresTemplate(t *testing.T) {
	_, err := ComputePath(PathOptions{Style: StyleCustom, RepoPath: "/x", RepoName: "x", Branch: "main"})
	if err == nil {
		t.Error("expected error when custom_template is empty")
	}
}

func TestParseRemoteHostOwnerHandlesHTTPS(t *testing.T) {
	host, owner, ok := parseRemoteHostOwner("https://github.com/acme/foo.git")
	if !ok {
		t.Fatal("expected ok for https remote")
	}
	if host != "github.com" || owner != "acme" {
		t.Errorf("expected github.com/acme, got %s/%s", host, owner)
	}
}

func TestParseRemoteHostOwnerRejectsEmpty(t *testing.T) {
	_, _, ok := parseRemoteHostOwner("")
	if ok {
		t.Error("expected ok=false for empty remote URL")
	}
}
