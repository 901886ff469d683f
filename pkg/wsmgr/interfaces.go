// Package wsmgr is the public library facade over wsmgr's internals, the
// same shape external tooling can embed without pulling in the TUI shell
// (cmd/wsmgr) or any internal package directly.
package wsmgr

import "time"

// SessionManager exposes read access to the live session table and the
// handful of mutating operations a caller is allowed to trigger from
// outside the event loop.
type SessionManager interface {
	// List returns every non-disconnected session across all workspaces.
	List() ([]SessionInfo, error)

	// ForWorkspace returns the sessions registered against one workspace
	// path.
	ForWorkspace(workspacePath string) ([]SessionInfo, error)

	// History returns the audit trail for one external session id, most
	// recent first, capped at limit entries.
	History(externalID string, limit int) ([]AuditEvent, error)
}

// WorktreeManager exposes worktree creation, removal and listing for one
// repository.
type WorktreeManager interface {
	// List enumerates the git worktrees for a repository.
	List(repoPath string) ([]WorktreeInfo, error)

	// Create adds a new worktree per the configured path style.
	Create(repoPath string, opts CreateOptions) (*WorktreeInfo, error)

	// Remove deletes a worktree.
	Remove(repoPath, worktreePath string, force bool) error

	// Open asks the configured multiplexer to switch to (or create) the
	// window for a repo+branch pair.
	Open(sessionName, repoName, branch, cwd string) (WindowOutcome, error)
}

// SystemManager reports the aggregate state of the whole system.
type SystemManager interface {
	// Status summarizes the in-memory workspace/session table.
	Status() SystemStatus
}

// SessionInfo mirrors internal/session.Session, minus the package-private
// path-normalisation field a library consumer has no use for.
type SessionInfo struct {
	ExternalID   string
	Tool         string
	Status       string
	Detail       string
	Summary      string
	CurrentTask  string
	PaneID       string
	WindowName   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastActivity time.Time
}

// AuditEvent mirrors internal/session.AuditEvent: Status and Summary are
// decoded from its embedded JSON session snapshot, saving callers from
// touching the internal package's Session type directly.
type AuditEvent struct {
	ExternalID string
	EventType  string
	Status     string
	Summary    string
	Timestamp  time.Time
}

// WorktreeInfo mirrors internal/worktree.Info.
type WorktreeInfo struct {
	Path   string
	Branch string
	Head   string
}

// CreateOptions configures WorktreeManager.Create; PathStyle is one of
// "parallel", "ghq", "subdirectory", "custom" matching the persisted
// config's worktree.path_style key.
type CreateOptions struct {
	Branch         string
	Path           string
	CreateBranch   bool
	StartPoint     string
	Remote         string
	PathStyle      string
	RepoName       string
	RemoteURL      string
	GhqRoot        string
	CustomTemplate string
}

// WindowOutcome mirrors internal/mux.WindowOutcome.
type WindowOutcome int

const (
	SwitchedToExisting WindowOutcome = iota
	CreatedNew
	SessionNotFound
)

// SystemStatus summarizes the currently discovered workspaces and
// sessions; it has no memory/CPU telemetry because wsmgr does not collect
// any.
type SystemStatus struct {
	TrackedWorkspaces int
	ActiveSessions    int
	LastScan          time.Time
}
