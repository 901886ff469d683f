// Package worktree creates, removes, and enumerates git worktrees for a
// repository, computing target paths from one of four naming styles.
package worktree

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// Style selects how a worktree's target directory is computed.
type Style string

const (
	StyleParallel    Style = "parallel"
	StyleGhq         Style = "ghq"
	StyleSubdirectory Style = "subdirectory"
	StyleCustom      Style = "custom"
)

// PathOptions carries everything the path templates need.
type PathOptions struct {
	Style          Style
	RepoPath       string // absolute path to the repository root
	RepoName       string
	Branch         string
	RemoteURL      string // origin URL, used to derive host/owner for Ghq
	GhqRoot        string
	CustomTemplate string // used only when Style == StyleCustom
}

// sanitiseBranch replaces path separators in a branch name so it can be
// used as a single path component: forward slashes become "-" before
// template substitution.
func sanitiseBranch(branch string) string {
	return strings.ReplaceAll(branch, "/", "-")
}

// ComputePath derives the target worktree directory for the given options.
func ComputePath(opts PathOptions) (string, error) {
	branch := sanitiseBranch(opts.Branch)

	switch opts.Style {
	case StyleParallel, "":
		return computeParallel(opts.RepoPath, opts.RepoName, branch), nil

	case StyleGhq:
		host, owner, ok := parseRemoteHostOwner(opts.RemoteURL)
		if !ok {
			return computeParallel(opts.RepoPath, opts.RepoName, branch), nil
		}
		root := opts.GhqRoot
		if root == "" {
			return "", fmt.Errorf("worktree: ghq_root is required for the ghq path style")
		}
		dirName := fmt.Sprintf("%s__%s", opts.RepoName, branch)
		return filepath.Join(root, host, owner, dirName), nil

	case StyleSubdirectory:
		return filepath.Join(opts.RepoPath, ".worktrees", branch), nil

	case StyleCustom:
		if opts.CustomTemplate == "" {
			return "", fmt.Errorf("worktree: custom_template is required for the custom path style")
		}
		return applyCustomTemplate(opts.CustomTemplate, opts.RepoPath, opts.RepoName, branch), nil

	default:
		return "", fmt.Errorf("worktree: unknown path style: %s", opts.Style)
	}
}

func computeParallel(repoPath, repoName, sanitisedBranch string) string {
	dirName := fmt.Sprintf("%s__%s", repoName, sanitisedBranch)
	return filepath.Join(filepath.Dir(repoPath), dirName)
}

var templatePlaceholder = regexp.MustCompile(`\{(repo|branch|repo_path)\}`)

func applyCustomTemplate(tmpl, repoPath, repoName, sanitisedBranch string) string {
	return templatePlaceholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		switch m {
		case "{repo}":
			return repoName
		case "{branch}":
			return sanitisedBranch
		case "{repo_path}":
			return repoPath
		default:
			return m
		}
	})
}

// sshHostOwner matches git@host:owner/repo(.git)? SSH remote URLs.
var sshHostOwner = regexp.MustCompile(`^git@([^:]+):([^/]+)/`)

// parseRemoteHostOwner extracts host and owner from an SSH or HTTPS remote
// URL for the Ghq path style. ok is false when the URL is empty or
// unparseable, signalling the caller to fall back to Parallel.
func parseRemoteHostOwner(remoteURL string) (host, owner string, ok bool) {
	if remoteURL == "" {
		return "", "", false
	}
	if m := sshHostOwner.FindStringSubmatch(remoteURL); m != nil {
		return m[1], m[2], true
	}
	u, err := url.Parse(remoteURL)
	if err != nil || u.Host == "" {
		return "", "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return "", "", false
	}
	return u.Host, parts[0], true
}
