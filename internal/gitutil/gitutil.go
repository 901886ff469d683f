// Package gitutil resolves git repository metadata that is cheaper or more
// reliable via a library than by shelling out: branch enumeration and
// recovering a linked worktree's common (main) repository root.
package gitutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/briarwood/wsmgr/internal/logging"
)

var log = logging.For("gitutil")

// Branches is the result of enumerating a repository's local and remote
// branches.
type Branches struct {
	Local  []string
	Remote []string // origin/HEAD excluded, "origin/" prefix stripped
}

// ListBranches opens the repository at repoPath and enumerates its local
// and remote-tracking branches.
func ListBranches(repoPath string) (Branches, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Branches{}, fmt.Errorf("gitutil: open %s: %w", repoPath, err)
	}

	var out Branches

	refs, err := repo.Branches()
	if err != nil {
		return Branches{}, fmt.Errorf("gitutil: list local branches: %w", err)
	}
	if err := refs.ForEach(func(ref *plumbing.Reference) error {
		out.Local = append(out.Local, ref.Name().Short())
		return nil
	}); err != nil {
		return Branches{}, fmt.Errorf("gitutil: iterate local branches: %w", err)
	}

	remoteRefs, err := repo.References()
	if err != nil {
		return Branches{}, fmt.Errorf("gitutil: list references: %w", err)
	}
	if err := remoteRefs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name()
		if !name.IsRemote() {
			return nil
		}
		short := strings.TrimPrefix(name.Short(), "origin/")
		if short == "HEAD" {
			return nil
		}
		out.Remote = append(out.Remote, short)
		return nil
	}); err != nil {
		return Branches{}, fmt.Errorf("gitutil: iterate remote branches: %w", err)
	}

	sort.Strings(out.Local)
	sort.Strings(out.Remote)
	return out, nil
}

// BranchExists reports whether a local branch with the given name exists.
func BranchExists(repoPath, branch string) (bool, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return false, fmt.Errorf("gitutil: open %s: %w", repoPath, err)
	}
	_, err = repo.Reference(plumbing.NewBranchReferenceName(branch), false)
	if err == nil {
		return true, nil
	}
	if err == plumbing.ErrReferenceNotFound {
		return false, nil
	}
	return false, err
}

// RemoteBranchExists reports whether remote/branch exists among the
// repository's remote-tracking refs.
func RemoteBranchExists(repoPath, remote, branch string) (bool, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return false, fmt.Errorf("gitutil: open %s: %w", repoPath, err)
	}
	name := plumbing.NewRemoteReferenceName(remote, branch)
	_, err = repo.Reference(name, false)
	if err == nil {
		return true, nil
	}
	if err == plumbing.ErrReferenceNotFound {
		return false, nil
	}
	return false, err
}

// DefaultBranch resolves origin/HEAD's target branch name, falling back to
// "" if the repository has no remote HEAD symref (e.g. never fetched).
func DefaultBranch(repoPath string) (string, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("gitutil: open %s: %w", repoPath, err)
	}
	ref, err := repo.Reference(plumbing.NewRemoteHEADReferenceName("origin"), true)
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return "", nil
		}
		return "", err
	}
	return strings.TrimPrefix(ref.Name().Short(), "origin/"), nil
}

// CommonDir resolves the common (main) repository root for a path that may
// be either a primary checkout or a linked worktree. For a linked worktree
// it follows the ".git" file's "gitdir: <path>" pointer to that directory's
// "commondir" file and returns the parent of the shared .git directory; for
// a primary checkout it returns the worktree root.
func CommonDir(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("gitutil: open %s: %w", path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// A bare repository or a storer without a working tree; fall back
		// to reporting the path itself rather than failing the caller.
		log.WithError(err).WithField("path", path).Debug("no worktree for repository, using path as root")
		return path, nil
	}
	root := wt.Filesystem.Root()
	data, err := os.ReadFile(filepath.Join(root, ".git"))
	if err != nil || !strings.HasPrefix(string(data), "gitdir:") {
		return root, nil
	}
	gitdir := strings.TrimSpace(strings.TrimPrefix(string(data), "gitdir:"))
	common, err := os.ReadFile(filepath.Join(gitdir, "commondir"))
	if err != nil {
		return root, nil
	}
	dir := strings.TrimSpace(string(common))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(gitdir, dir)
	}
	return filepath.Dir(filepath.Clean(dir)), nil
}

// HasUncommittedChanges reports whether the worktree at path has a dirty
// status (tracked modifications, staged changes, or untracked files).
func HasUncommittedChanges(path string) (bool, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return false, fmt.Errorf("gitutil: open %s: %w", path, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("gitutil: worktree for %s: %w", path, err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("gitutil: status for %s: %w", path, err)
	}
	return !status.IsClean(), nil
}

// HeadCommit returns the full hex hash of HEAD for the repository at path.
func HeadCommit(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("gitutil: open %s: %w", path, err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("gitutil: head for %s: %w", path, err)
	}
	return head.Hash().String(), nil
}
