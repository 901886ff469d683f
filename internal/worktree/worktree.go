package worktree

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/briarwood/wsmgr/internal/gitutil"
	"github.com/briarwood/wsmgr/internal/logging"
)

var log = logging.For("worktree")

// ErrPathExists is returned by Create when the computed or requested target
// path already exists on disk.
var ErrPathExists = errors.New("worktree: path already exists")

// GitFailedError wraps the stderr/combined output of a failed git
// subprocess invocation.
type GitFailedError struct {
	Args   []string
	Output string
	Err    error
}

func (e *GitFailedError) Error() string {
	return fmt.Sprintf("git %s failed: %s: %v", strings.Join(e.Args, " "), e.Output, e.Err)
}

func (e *GitFailedError) Unwrap() error { return e.Err }

func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &GitFailedError{Args: args, Output: strings.TrimSpace(string(out)), Err: err}
	}
	return strings.TrimSpace(string(out)), nil
}

// CreateOptions configures Create.
type CreateOptions struct {
	Branch       string
	Path         string // explicit target path; computed from PathOptions if empty
	PathOptions  PathOptions
	CreateBranch bool
	StartPoint   string // base for a newly created branch; defaults to HEAD
	Remote       string // remote to check for a tracking branch; defaults to "origin"
}

// Info describes a worktree after creation or during listing.
type Info struct {
	Path   string
	Branch string
	Head   string
}

// Create adds a new git worktree: tracks an existing local branch, falls
// back to tracking origin/<branch>, and only creates a new branch when
// explicitly requested.
func Create(repoPath string, opts CreateOptions) (*Info, error) {
	if opts.Branch == "" {
		return nil, fmt.Errorf("worktree: branch name cannot be empty")
	}

	target := opts.Path
	if target == "" {
		po := opts.PathOptions
		po.RepoPath = repoPath
		po.Branch = opts.Branch
		computed, err := ComputePath(po)
		if err != nil {
			return nil, fmt.Errorf("worktree: compute path: %w", err)
		}
		target = computed
	}

	if _, err := os.Stat(target); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrPathExists, target)
	}

	remote := opts.Remote
	if remote == "" {
		remote = "origin"
	}

	args := []string{"worktree", "add"}

	localExists, err := gitutil.BranchExists(repoPath, opts.Branch)
	if err != nil {
		log.WithError(err).WithField("branch", opts.Branch).Debug("branch existence check failed, assuming absent")
	}

	switch {
	case localExists:
		args = append(args, target, opts.Branch)

	default:
		remoteExists, rerr := gitutil.RemoteBranchExists(repoPath, remote, opts.Branch)
		if rerr != nil {
			log.WithError(rerr).WithField("branch", opts.Branch).Debug("remote branch existence check failed, assuming absent")
		}
		switch {
		case remoteExists:
			args = append(args, "-b", opts.Branch, target, remote+"/"+opts.Branch)
		case opts.CreateBranch:
			startPoint := opts.StartPoint
			if startPoint == "" {
				startPoint = "HEAD"
			}
			args = append(args, "-b", opts.Branch, target, startPoint)
		default:
			return nil, fmt.Errorf("worktree: branch %q does not exist locally or on %s, and create_branch was not requested", opts.Branch, remote)
		}
	}

	if _, err := runGit(repoPath, args...); err != nil {
		return nil, err
	}

	return GetInfo(target)
}

// Remove invokes `git worktree remove [--force] <path>`.
func Remove(repoPath, path string, force bool) error {
	if path == "" {
		return fmt.Errorf("worktree: path cannot be empty")
	}
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)

	if _, err := runGit(repoPath, args...); err != nil {
		return err
	}

	// git worktree remove normally deletes the directory itself; this is a
	// defensive cleanup for the case where it declined to (e.g. leftover
	// untracked files without --force).
	if _, err := os.Stat(path); err == nil {
		if rmErr := os.RemoveAll(path); rmErr != nil {
			log.WithError(rmErr).WithField("path", path).Warn("failed to remove leftover worktree directory")
		}
	}
	return nil
}

// List parses `git worktree list --porcelain` into a sequence of Info.
func List(repoPath string) ([]Info, error) {
	out, err := runGit(repoPath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parsePorcelainList(out), nil
}

func parsePorcelainList(out string) []Info {
	var result []Info
	var cur Info
	flush := func() {
		if cur.Path != "" {
			result = append(result, cur)
		}
		cur = Info{}
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			cur.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "HEAD "):
			cur.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			cur.Branch = strings.TrimPrefix(line, "branch refs/heads/")
		}
	}
	flush()
	return result
}

// GetInfo looks up a single worktree's branch and HEAD from the repository
// the path belongs to.
func GetInfo(path string) (*Info, error) {
	branch, err := runGit(path, "branch", "--show-current")
	if err != nil || branch == "" {
		head, herr := runGit(path, "rev-parse", "--abbrev-ref", "HEAD")
		if herr != nil {
			return nil, fmt.Errorf("worktree: resolve branch for %s: %w", path, herr)
		}
		branch = head
	}

	head, err := runGit(path, "rev-parse", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("worktree: resolve HEAD for %s: %w", path, err)
	}

	return &Info{Path: path, Branch: branch, Head: head}, nil
}

// Prune removes stale worktree administrative files.
func Prune(repoPath string) error {
	_, err := runGit(repoPath, "worktree", "prune")
	return err
}
