package workspace

import (
	"path/filepath"
	"strings"
)

// RepoKey derives the grouping token the tree builder uses to cluster a
// repository with its linked worktrees, per spec:
//
//  1. If the workspace directory's base name contains "__", the key is the
//     substring before the last "__" (so "repo" and "repo__feature" group
//     together).
//  2. Otherwise, if the workspace's ".git" is a file pointing at
//     "<path>/.git/worktrees/<name>", the key is the basename of <path>.
//  3. Otherwise the key is the repository display name.
func RepoKey(path, repoName string) string {
	base := filepath.Base(path)
	if idx := strings.LastIndex(base, "__"); idx >= 0 {
		return base[:idx]
	}

	if target, ok := readGitdirFile(filepath.Join(path, ".git")); ok {
		if key, ok := parentFromWorktreesGitdir(target); ok {
			return key
		}
	}

	return repoName
}

// parentFromWorktreesGitdir extracts "<path>" from a gitdir value of the
// form "<path>/.git/worktrees/<name>" and returns basename(<path>).
func parentFromWorktreesGitdir(gitdir string) (string, bool) {
	const marker = string(filepath.Separator) + ".git" + string(filepath.Separator) + "worktrees" + string(filepath.Separator)
	idx := strings.Index(gitdir, marker)
	if idx < 0 {
		return "", false
	}
	parent := gitdir[:idx]
	if parent == "" {
		return "", false
	}
	return filepath.Base(parent), true
}
