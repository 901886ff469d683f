package workspace

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/briarwood/wsmgr/internal/logging"
)

var log = logging.For("workspace")

// Scan walks each search root up to maxDepth directories deep, recognising
// git checkouts (a ".git" directory for main worktrees, a ".git" file
// beginning "gitdir:" for linked worktrees), and returns a deterministically
// path-sorted sequence of Workspace. Per-entry errors are skipped silently;
// the scan as a whole never fails.
func Scan(searchRoots []string, maxDepth int) []Workspace {
	var out []Workspace
	seen := make(map[string]bool)

	for _, root := range searchRoots {
		root = NormalisePath(root)
		walk(root, 0, maxDepth, &out, seen)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func walk(dir string, depth, maxDepth int, out *[]Workspace, seen map[string]bool) {
	if depth > maxDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.WithError(err).WithField("dir", dir).Debug("skipping unreadable directory")
		return
	}

	gitPath := filepath.Join(dir, ".git")
	if info, err := os.Lstat(gitPath); err == nil {
		if ws, ok := buildWorkspace(dir, info); ok && !seen[ws.Path] {
			seen[ws.Path] = true
			*out = append(*out, ws)
			for _, lw := range linkedWorktrees(dir, ws.RepoName) {
				if !seen[lw.Path] {
					seen[lw.Path] = true
					*out = append(*out, lw)
				}
			}
		}
		// A checkout's own subdirectories are not descended into further;
		// worktrees are discovered via linkedWorktrees above instead.
		return
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if isPruned(e.Name()) {
			continue
		}
		walk(filepath.Join(dir, e.Name()), depth+1, maxDepth, out, seen)
	}
}

func buildWorkspace(dir string, gitInfo os.FileInfo) (Workspace, bool) {
	repoName := filepath.Base(dir)
	path := NormalisePath(dir)

	var branch string
	var isLinked bool

	if gitInfo.IsDir() {
		branch = readBranch(filepath.Join(dir, ".git", "HEAD"))
	} else {
		target, ok := readGitdirFile(filepath.Join(dir, ".git"))
		if !ok {
			return Workspace{}, false
		}
		isLinked = true
		branch = readBranch(filepath.Join(target, "HEAD"))
	}

	info, err := os.Stat(dir)
	now := time.Now()
	mtime := now
	if err == nil {
		mtime = info.ModTime()
	}

	return Workspace{
		Path:      path,
		RepoName:  repoName,
		Branch:    branch,
		RepoKey:   RepoKey(path, repoName),
		IsLinked:  isLinked,
		CreatedAt: mtime,
		UpdatedAt: now,
	}, true
}

// readGitdirFile reads a linked worktree's ".git" file, which contains a
// single line "gitdir: <path>/.git/worktrees/<name>", and returns that
// worktree-private git directory.
func readGitdirFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	line := strings.TrimSpace(string(data))
	const prefix = "gitdir:"
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
}

// readBranch reads a ".git/HEAD"-style file and returns the branch name, or
// a 7-hex short commit id when HEAD is detached.
func readBranch(headPath string) string {
	f, err := os.Open(headPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return ""
	}
	line := strings.TrimSpace(scanner.Text())

	const refPrefix = "ref: refs/heads/"
	if strings.HasPrefix(line, refPrefix) {
		return strings.TrimPrefix(line, refPrefix)
	}
	if len(line) >= 7 {
		return line[:7]
	}
	return line
}

// linkedWorktrees enumerates worktrees registered under
// <repo>/.git/worktrees/<name>/gitdir, each of which contains the absolute
// path to the linked worktree's own ".git" file.
func linkedWorktrees(repoDir, repoName string) []Workspace {
	worktreesDir := filepath.Join(repoDir, ".git", "worktrees")
	entries, err := os.ReadDir(worktreesDir)
	if err != nil {
		return nil
	}

	var out []Workspace
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		gitdirFile := filepath.Join(worktreesDir, e.Name(), "gitdir")
		data, err := os.ReadFile(gitdirFile)
		if err != nil {
			continue
		}
		// Contents: "<worktree_path>/.git\n"
		wtGit := strings.TrimSpace(string(data))
		wtPath := strings.TrimSuffix(wtGit, "/.git")
		if wtPath == "" {
			continue
		}
		info, err := os.Stat(wtPath)
		if err != nil || !info.IsDir() {
			continue
		}
		branch := readBranch(filepath.Join(worktreesDir, e.Name(), "HEAD"))
		path := NormalisePath(wtPath)
		out = append(out, Workspace{
			Path:      path,
			RepoName:  repoName,
			Branch:    branch,
			RepoKey:   RepoKey(path, repoName),
			IsLinked:  true,
			CreatedAt: info.ModTime(),
			UpdatedAt: time.Now(),
		})
	}
	return out
}
