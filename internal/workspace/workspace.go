// Package workspace discovers git repositories and worktrees on disk and
// derives the grouping key the tree builder uses to cluster a repository
// with its linked worktrees.
package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Workspace represents one on-disk checkout: a repository's main worktree
// or a linked worktree. It has no status of its own — status is always a
// derived aggregate over the sessions observed against it.
type Workspace struct {
	Path      string // absolute, normalised
	RepoName  string
	Branch    string
	RepoKey   string
	IsLinked  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalisePath expands a leading "~/" against the current user's home
// directory and trims a trailing slash. Idempotent: NormalisePath(
// NormalisePath(p)) == NormalisePath(p).
func NormalisePath(p string) string {
	if p == "" {
		return p
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			if p == "~" {
				p = home
			} else {
				p = filepath.Join(home, p[2:])
			}
		}
	}
	p = strings.TrimSuffix(p, "/")
	return p
}

var prunedDirNames = map[string]bool{
	"node_modules": true,
	"target":       true,
}

func isPruned(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return prunedDirNames[name]
}
