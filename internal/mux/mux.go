// Package mux presents one interface over the two terminal multiplexers
// wsmgr can drive — tmux and Zellij — for opening, listing, and focusing
// per-workspace windows.
package mux

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briarwood/wsmgr/internal/logging"
)

var log = logging.For("mux")

// Backend identifies which multiplexer a Driver talks to.
type Backend string

const (
	BackendAuto   Backend = "auto"
	BackendTmux   Backend = "tmux"
	BackendZellij Backend = "zellij"
	BackendNone   Backend = "none"
)

// WindowResult is the outcome of OpenWorkspaceWindow.
type WindowResult struct {
	Outcome        WindowOutcome
	Name           string
	MissingSession string // set when Outcome == SessionNotFound
}

type WindowOutcome int

const (
	SwitchedToExisting WindowOutcome = iota
	CreatedNew
	SessionNotFound
)

// Driver is the backend-agnostic contract every multiplexer implementation
// satisfies.
type Driver interface {
	Backend() Backend
	ListSessions() ([]string, error)
	ListWindows(session string) ([]string, error)
	OpenWorkspaceWindow(session, name, cwd string, layout string) (WindowResult, error)
	CloseWindow(session, name string) error
	FocusPane(paneID string) error
	ClosePane(paneID string) error
	LaunchCommand(cwd string, argv []string) error
}

// Config selects and names the backend.
type Config struct {
	Backend         Backend
	SessionName     string
	TabNameTemplate string // default "{repo}/{branch}"
}

// WindowName renders the tab/window name template for a repo+branch pair.
func WindowName(template, repo, branch string) string {
	if template == "" {
		template = "{repo}/{branch}"
	}
	name := strings.ReplaceAll(template, "{repo}", repo)
	name = strings.ReplaceAll(name, "{branch}", branch)
	return name
}

// commandTimeout bounds every multiplexer subprocess invocation; a hung
// tmux/zellij server should not stall the UI loop's caller indefinitely.
const commandTimeout = 5 * time.Second

// Detect resolves "auto" against the runtime environment: a multiplexer
// sets an identifying environment variable when wsmgr runs inside one of
// its own panes, which takes precedence over the configured session name.
// An explicit tmux or zellij backend is used as configured, whatever the
// environment says.
func Detect(cfg Config) (Driver, error) {
	switch cfg.Backend {
	case BackendTmux:
		return newTmuxDriver(cfg.SessionName), nil
	case BackendZellij:
		return newZellijDriver(cfg.SessionName), nil
	case BackendNone, "":
		return noneDriver{}, nil
	case BackendAuto:
		if os.Getenv("ZELLIJ") != "" {
			return newZellijDriver(cfg.SessionName), nil
		}
		if os.Getenv("TMUX") != "" {
			return newTmuxDriver(cfg.SessionName), nil
		}
		if cfg.SessionName != "" {
			return newTmuxDriver(cfg.SessionName), nil
		}
		log.Debug("auto backend detection found no multiplexer environment and no configured session, disabling multiplexer")
		return noneDriver{}, nil
	default:
		return nil, fmt.Errorf("mux: unknown backend %q", cfg.Backend)
	}
}

// noneDriver is returned when the multiplexer integration is disabled;
// every operation is a no-op that reports unavailability rather than erroring.
type noneDriver struct{}

func (noneDriver) Backend() Backend { return BackendNone }
func (noneDriver) ListSessions() ([]string, error) { return nil, nil }
func (noneDriver) ListWindows(string) ([]string, error) { return nil, nil }
func (noneDriver) OpenWorkspaceWindow(_, name, _, _ string) (WindowResult, error) {
	return WindowResult{Outcome: SessionNotFound, Name: name, MissingSession: ""}, nil
}
func (noneDriver) CloseWindow(string, string) error   { return nil }
func (noneDriver) FocusPane(string) error             { return nil }
func (noneDriver) ClosePane(string) error             { return nil }
func (noneDriver) LaunchCommand(string, []string) error { return nil }
