package wsmgr

import (
	"github.com/briarwood/wsmgr/internal/config"
	"github.com/briarwood/wsmgr/internal/eventloop"
	"github.com/briarwood/wsmgr/internal/mux"
	"github.com/briarwood/wsmgr/internal/worktree"
)

type worktreeManager struct {
	app *eventloop.App
	cfg *config.Config
}

func (wm *worktreeManager) List(repoPath string) ([]WorktreeInfo, error) {
	internal, err := worktree.List(repoPath)
	if err != nil {
		return nil, err
	}
	out := make([]WorktreeInfo, len(internal))
	for i, w := range internal {
		out[i] = WorktreeInfo{Path: w.Path, Branch: w.Branch, Head: w.Head}
	}
	return out, nil
}

func (wm *worktreeManager) Create(repoPath string, opts CreateOptions) (*WorktreeInfo, error) {
	style := opts.PathStyle
	if style == "" {
		style = wm.cfg.Worktree.PathStyle
	}
	ghqRoot := opts.GhqRoot
	if ghqRoot == "" {
		ghqRoot = wm.cfg.Worktree.GhqRoot
	}
	customTemplate := opts.CustomTemplate
	if customTemplate == "" {
		customTemplate = wm.cfg.Worktree.CustomTemplate
	}
	remote := opts.Remote
	if remote == "" {
		remote = wm.cfg.Worktree.DefaultRemote
	}

	info, err := worktree.Create(repoPath, worktree.CreateOptions{
		Branch:       opts.Branch,
		Path:         opts.Path,
		CreateBranch: opts.CreateBranch,
		StartPoint:   opts.StartPoint,
		Remote:       remote,
		PathOptions: worktree.PathOptions{
			Style:          styleFromString(style),
			RepoName:       opts.RepoName,
			RemoteURL:      opts.RemoteURL,
			GhqRoot:        ghqRoot,
			CustomTemplate: customTemplate,
		},
	})
	if err != nil {
		return nil, err
	}
	return &WorktreeInfo{Path: info.Path, Branch: info.Branch, Head: info.Head}, nil
}

func (wm *worktreeManager) Remove(repoPath, worktreePath string, force bool) error {
	return worktree.Remove(repoPath, worktreePath, force)
}

func (wm *worktreeManager) Open(sessionName, repoName, branch, cwd string) (WindowOutcome, error) {
	name := mux.WindowName(wm.cfg.Multiplexer.TabNameTemplate, repoName, branch)
	res, err := wm.app.Mux().OpenWorkspaceWindow(sessionName, name, cwd, "")
	if err != nil {
		return SessionNotFound, err
	}
	switch res.Outcome {
	case mux.CreatedNew:
		return CreatedNew, nil
	case mux.SwitchedToExisting:
		return SwitchedToExisting, nil
	default:
		return SessionNotFound, nil
	}
}

func styleFromString(s string) worktree.Style {
	switch worktree.Style(s) {
	case worktree.StyleGhq, worktree.StyleSubdirectory, worktree.StyleCustom:
		return worktree.Style(s)
	default:
		return worktree.StyleParallel
	}
}
