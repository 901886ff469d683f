package worktree

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func runOrSkip(t *testing.T, dir string, args ...string) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %s: %v", args, out, err)
	}
	return string(out)
}

func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runOrSkip(t, dir, "init", "-q")
	runOrSkip(t, dir, "config", "user.email", "tester@example.com")
	runOrSkip(t, dir, "config", "user.name", "tester")
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	runOrSkip(t, dir, "add", "README.md")
	runOrSkip(t, dir, "commit", "-q", "-m", "initial")
	return dir
}

func TestCreateNewBranchWithCreateBranchOption(t *testing.T) {
	repoDir := initTestRepo(t)
	target := filepath.Join(os.TempDir(), "wsmgr-wt-test-"+t.Name())
	defer os.RemoveAll(target)

	info, err := Create(repoDir, CreateOptions{
		Branch:       "feature-x",
		Path:         target,
		CreateBranch: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if info.Branch != "feature-x" {
		t.Errorf("expected branch feature-x, got %q", info.Branch)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("expected worktree directory to exist: %v", err)
	}
}

func TestCreateFailsWhenPathExists(t *testing.T) {
	repoDir := initTestRepo(t)
	target := t.TempDir() // already exists

	_, err := Create(repoDir, CreateOptions{Branch: "feature-x", Path: target, CreateBranch: true})
	if err == nil {
		t.Fatal("expected error for pre-existing path")
	}
}

func TestCreateWithoutCreateBranchFailsForUnknownBranch(t *testing.T) {
	repoDir := initTestRepo(t)
	target := filepath.Join(os.TempDir(), "wsmgr-wt-test-"+t.Name())
	defer os.RemoveAll(target)

	_, err := Create(repoDir, CreateOptions{Branch: "ghost-branch", Path: target})
	if err == nil {
		t.Fatal("expected error when branch does not exist and create_branch was not requested")
	}
}

func TestListAndRemoveRoundTrip(t *testing.T) {
	repoDir := initTestRepo(t)
	target := filepath.Join(os.TempDir(), "wsmgr-wt-test-"+t.Name())
	defer os.RemoveAll(target)

	if _, err := Create(repoDir, CreateOptions{Branch: "feature-y", Path: target, CreateBranch: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := List(repoDir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var found bool
	for _, wt := range list {
		if wt.Path == target {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s among listed worktrees: %+v", target, list)
	}

	if err := Remove(repoDir, target, false); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("expected worktree directory to be gone after Remove")
	}
}

func TestParsePorcelainListMultipleEntries(t *testing.T) {
	out := "worktree /repo\nHEAD abc123\nbranch refs/heads/main\n\n" +
		"worktree /repo-wt\nHEAD def456\nbranch refs/heads/feature-x\n\n"

	entries := parsePorcelainList(out)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].Path != "/repo" || entries[0].Branch != "main" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Path != "/repo-wt" || entries[1].Branch != "feature-x" {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}
