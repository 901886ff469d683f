package eventloop

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/briarwood/wsmgr/internal/events"
	"github.com/briarwood/wsmgr/internal/mux"
	"github.com/briarwood/wsmgr/internal/worktree"
)

// dispatchUserAction interprets a KindUserAction event and performs its
// side effect, recording a human-readable result as the status message. A
// failure here surfaces as a status-bar message; it never touches the
// aggregator.
func (a *App) dispatchUserAction(ua events.UserActionPayload) {
	var err error
	switch ua.Name {
	case "worktree_create":
		err = a.actionWorktreeCreate(ua.Args)
	case "worktree_remove":
		err = a.actionWorktreeRemove(ua.Args)
	case "window_open":
		err = a.actionWindowOpen(ua.Args)
	case "window_close":
		err = a.actionWindowClose(ua.Args)
	case "pane_focus":
		err = a.mux.FocusPane(ua.Args["pane_id"])
	case "pane_close":
		err = a.mux.ClosePane(ua.Args["pane_id"])
	default:
		err = fmt.Errorf("unknown action %q", ua.Name)
	}

	if err != nil {
		a.ui.statusMessage = err.Error()
		log.WithField("action", ua.Name).WithError(err).Warn("user action failed")
		return
	}
	a.ui.statusMessage = ""
}

func (a *App) actionWorktreeCreate(args map[string]string) error {
	repoPath := args["repo_path"]
	branch := args["branch"]
	if repoPath == "" || branch == "" {
		return fmt.Errorf("worktree_create requires repo_path and branch")
	}
	createBranch, _ := strconv.ParseBool(args["create_branch"])

	info, err := worktree.Create(repoPath, worktree.CreateOptions{
		Branch:       branch,
		Path:         args["path"],
		CreateBranch: createBranch,
		StartPoint:   args["start_point"],
		Remote:       args["remote"],
		PathOptions: worktree.PathOptions{
			Style:          worktreeStyleFromString(args["path_style"]),
			RepoName:       args["repo_name"],
			RemoteURL:      args["remote_url"],
			GhqRoot:        args["ghq_root"],
			CustomTemplate: args["custom_template"],
		},
	})
	if err != nil {
		return err
	}

	if a.hooks != nil {
		projectName := args["repo_name"]
		if projectName == "" {
			projectName = filepath.Base(repoPath)
		}
		if hookErr := a.hooks.OnWorktreeCreated(info.Path, branch, repoPath, projectName); hookErr != nil {
			log.WithField("worktree_path", info.Path).WithError(hookErr).Warn("worktree creation hook failed")
		}
	}
	return nil
}

func (a *App) actionWorktreeRemove(args map[string]string) error {
	repoPath := args["repo_path"]
	path := args["path"]
	if repoPath == "" || path == "" {
		return fmt.Errorf("worktree_remove requires repo_path and path")
	}
	force, _ := strconv.ParseBool(args["force"])
	return worktree.Remove(repoPath, path, force)
}

func (a *App) actionWindowOpen(args map[string]string) error {
	name := args["name"]
	if name == "" {
		name = mux.WindowName(a.tabNameTemplate, args["repo_name"], args["branch"])
	}
	res, err := a.mux.OpenWorkspaceWindow(args["session"], name, args["cwd"], args["layout"])
	if err != nil {
		return err
	}
	if res.Outcome == mux.SessionNotFound {
		return fmt.Errorf("multiplexer session %q not found", res.MissingSession)
	}
	return nil
}

func (a *App) actionWindowClose(args map[string]string) error {
	name := args["name"]
	if name == "" {
		name = mux.WindowName(a.tabNameTemplate, args["repo_name"], args["branch"])
	}
	return a.mux.CloseWindow(args["session"], name)
}
