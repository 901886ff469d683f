package mux

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// zellijDriver drives Zellij tabs within a single configured session via
// the `zellij --session <s> action ...` CLI.
type zellijDriver struct {
	sessionName string
}

func newZellijDriver(sessionName string) *zellijDriver {
	return &zellijDriver{sessionName: sessionName}
}

func (d *zellijDriver) Backend() Backend { return BackendZellij }

func runZellij(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "zellij", args...)
	out, err := cmd.Output()
	return strings.TrimSpace(string(out)), err
}

func (d *zellijDriver) ListSessions() ([]string, error) {
	out, err := runZellij("list-sessions", "--no-formatting")
	if err != nil {
		// zellij exits non-zero with no output when no sessions are live.
		return nil, nil
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		names = append(names, strings.Fields(line)[0])
	}
	return names, nil
}

func (d *zellijDriver) sessionExists(session string) bool {
	sessions, err := d.ListSessions()
	if err != nil {
		return false
	}
	for _, s := range sessions {
		if s == session {
			return true
		}
	}
	return false
}

func (d *zellijDriver) ListWindows(session string) ([]string, error) {
	out, err := runZellij("--session", session, "action", "query-tab-names")
	if err != nil {
		return nil, fmt.Errorf("mux: zellij query-tab-names: %w", err)
	}
	return splitNonEmptyLines(out), nil
}

func (d *zellijDriver) OpenWorkspaceWindow(session, name, cwd, layout string) (WindowResult, error) {
	if session == "" {
		session = d.sessionName
	}
	if !d.sessionExists(session) {
		return WindowResult{Outcome: SessionNotFound, Name: name, MissingSession: session}, nil
	}

	tabs, err := d.ListWindows(session)
	if err != nil {
		return WindowResult{}, err
	}
	for _, t := range tabs {
		if t == name {
			if _, err := runZellij("--session", session, "action", "go-to-tab-name", name); err != nil {
				return WindowResult{}, fmt.Errorf("mux: zellij go-to-tab-name: %w", err)
			}
			return WindowResult{Outcome: SwitchedToExisting, Name: name}, nil
		}
	}

	args := []string{"--session", session, "action", "new-tab", "--name", name, "--cwd", cwd}
	if layout != "" {
		args = append(args, "--layout", layout)
	}
	if _, err := runZellij(args...); err != nil {
		return WindowResult{}, fmt.Errorf("mux: zellij new-tab: %w", err)
	}
	return WindowResult{Outcome: CreatedNew, Name: name}, nil
}

func (d *zellijDriver) CloseWindow(session, name string) error {
	if _, err := runZellij("--session", session, "action", "go-to-tab-name", name); err != nil {
		return fmt.Errorf("mux: zellij go-to-tab-name: %w", err)
	}
	if _, err := runZellij("--session", session, "action", "close-tab"); err != nil {
		return fmt.Errorf("mux: zellij close-tab: %w", err)
	}
	return nil
}

func (d *zellijDriver) FocusPane(paneID string) error {
	if _, err := runZellij("action", "focus-pane", "--pane-id", paneID); err != nil {
		return fmt.Errorf("mux: zellij focus-pane: %w", err)
	}
	return nil
}

func (d *zellijDriver) ClosePane(paneID string) error {
	if _, err := runZellij("action", "close-pane", "--pane-id", paneID); err != nil {
		return fmt.Errorf("mux: zellij close-pane: %w", err)
	}
	return nil
}

func (d *zellijDriver) LaunchCommand(cwd string, argv []string) error {
	args := append([]string{"run", "--cwd", cwd, "--"}, argv...)
	if _, err := runZellij(args...); err != nil {
		return fmt.Errorf("mux: zellij run: %w", err)
	}
	return nil
}
