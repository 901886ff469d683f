// Package session owns the authoritative in-memory session table and the
// aggregator that merges observer and notify updates into it.
package session

import "time"

// Tool identifies which AI assistant a session belongs to.
type Tool string

const (
	ToolClaude   Tool = "claude"
	ToolKiro     Tool = "kiro"
	ToolOpenCode Tool = "opencode"
	ToolCodex    Tool = "codex"
)

// Status is the rendered session state.
type Status string

const (
	StatusIdle         Status = "idle"
	StatusWorking      Status = "working"
	StatusNeedsInput   Status = "needs_input"
	StatusSuccess      Status = "success"
	StatusError        Status = "error"
	StatusDisconnected Status = "disconnected"
)

// Handle is a stable small-integer reference into the aggregator's session
// slice; never an owning pointer.
type Handle int

// WorkspaceHandle is a stable small-integer reference into the workspace
// slice the aggregator was last given.
type WorkspaceHandle int

// Session represents one live (or recently live) assistant process
// observed against a workspace.
type Session struct {
	ExternalID      string
	WorkspaceHandle WorkspaceHandle
	// projectPathField is the normalised project path the session was last
	// registered/observed against. It is kept alongside WorkspaceHandle
	// (rather than relying on the handle alone) so a workspace-list
	// replacement can re-resolve it without the session itself needing to
	// own a pointer back into the workspace slice.
	projectPathField string
	Tool             Tool
	Status          Status
	Detail          string
	Summary         string
	CurrentTask     string
	LastActivity    time.Time
	PaneID          string
	WindowName      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
