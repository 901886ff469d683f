package mux

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// tmuxDriver drives tmux windows within a single configured session,
// storing a durable workspace identity in the "@workspace-name" user
// option so a user renaming a window doesn't break idempotent reopen.
type tmuxDriver struct {
	sessionName string
}

func newTmuxDriver(sessionName string) *tmuxDriver {
	return &tmuxDriver{sessionName: sessionName}
}

func (d *tmuxDriver) Backend() Backend { return BackendTmux }

func runTmux(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "tmux", args...)
	out, err := cmd.Output()
	return strings.TrimSpace(string(out)), err
}

func (d *tmuxDriver) ListSessions() ([]string, error) {
	out, err := runTmux("list-sessions", "-F", "#{session_name}")
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, fmt.Errorf("mux: tmux list-sessions: %w", err)
	}
	return splitNonEmptyLines(out), nil
}

func (d *tmuxDriver) sessionExists(session string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return exec.CommandContext(ctx, "tmux", "has-session", "-t", session).Run() == nil
}

// findWindowByWorkspaceName looks up a window's index by its
// "@workspace-name" user option, falling back to window_name only when the
// option was never set (a window created outside wsmgr).
func (d *tmuxDriver) findWindowByWorkspaceName(session, name string) (string, bool) {
	out, err := runTmux("list-windows", "-t", session, "-F", "#{window_index}\t#{@workspace-name}\t#{window_name}")
	if err != nil {
		return "", false
	}
	return findWindowIndex(out, name)
}

// findWindowIndex parses the tab-separated "index\tworkspace-name\twindow-name"
// rows tmux's list-windows -F prints and returns the index of the row whose
// workspace-name matches, falling back to window-name when no
// "@workspace-name" option was ever set.
func findWindowIndex(out, name string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}
		idx, wsName, winName := parts[0], parts[1], parts[2]
		if wsName == name || (wsName == "" && winName == name) {
			return idx, true
		}
	}
	return "", false
}

func (d *tmuxDriver) ListWindows(session string) ([]string, error) {
	out, err := runTmux("list-windows", "-t", session, "-F", "#{@workspace-name}\t#{window_name}")
	if err != nil {
		return nil, fmt.Errorf("mux: tmux list-windows: %w", err)
	}
	return parseWindowNames(out), nil
}

func parseWindowNames(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		wsName := parts[0]
		winName := ""
		if len(parts) == 2 {
			winName = parts[1]
		}
		if wsName != "" {
			names = append(names, wsName)
		} else {
			names = append(names, winName)
		}
	}
	return names
}

func (d *tmuxDriver) OpenWorkspaceWindow(session, name, cwd, _ string) (WindowResult, error) {
	if session == "" {
		session = d.sessionName
	}
	if !d.sessionExists(session) {
		return WindowResult{Outcome: SessionNotFound, Name: name, MissingSession: session}, nil
	}

	if idx, ok := d.findWindowByWorkspaceName(session, name); ok {
		if _, err := runTmux("select-window", "-t", session+":"+idx); err != nil {
			return WindowResult{}, fmt.Errorf("mux: tmux select-window: %w", err)
		}
		return WindowResult{Outcome: SwitchedToExisting, Name: name}, nil
	}

	if _, err := runTmux("new-window", "-t", session, "-n", name, "-c", cwd); err != nil {
		return WindowResult{}, fmt.Errorf("mux: tmux new-window: %w", err)
	}
	target := session + ":" + name
	// Best-effort: record the durable identity and disable tmux's own
	// automatic window renaming so it doesn't clobber the -n name.
	_, _ = runTmux("set-window-option", "-t", target, "@workspace-name", name)
	_, _ = runTmux("set-window-option", "-t", target, "automatic-rename", "off")

	return WindowResult{Outcome: CreatedNew, Name: name}, nil
}

func (d *tmuxDriver) CloseWindow(session, name string) error {
	target := session + ":" + name
	if idx, ok := d.findWindowByWorkspaceName(session, name); ok {
		target = session + ":" + idx
	}
	if _, err := runTmux("kill-window", "-t", target); err != nil {
		return fmt.Errorf("mux: tmux kill-window: %w", err)
	}
	return nil
}

func (d *tmuxDriver) FocusPane(paneID string) error {
	if _, err := runTmux("select-pane", "-t", paneID); err != nil {
		return fmt.Errorf("mux: tmux select-pane: %w", err)
	}
	return nil
}

func (d *tmuxDriver) ClosePane(paneID string) error {
	if _, err := runTmux("kill-pane", "-t", paneID); err != nil {
		return fmt.Errorf("mux: tmux kill-pane: %w", err)
	}
	return nil
}

func (d *tmuxDriver) LaunchCommand(cwd string, argv []string) error {
	args := append([]string{"split-window", "-t", d.sessionName, "-c", cwd}, argv...)
	if _, err := runTmux(args...); err != nil {
		return fmt.Errorf("mux: tmux split-window: %w", err)
	}
	return nil
}

func splitNonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
