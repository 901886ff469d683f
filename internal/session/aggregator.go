package session

import (
	"strings"
	"time"

	"github.com/briarwood/wsmgr/internal/logging"
	"github.com/briarwood/wsmgr/internal/workspace"
)

var log = logging.For("session")

// InvalidWorkspaceHandle marks a session whose workspace no longer exists
// after a Discovery rescan (retained for audit, hidden from the renderer).
const InvalidWorkspaceHandle WorkspaceHandle = -1

// ObserverStatus is the payload an observer supplies to apply_observer_status.
type ObserverStatus struct {
	Status       Status
	Detail       string
	Summary      string
	CurrentTask  string
	LastActivity time.Time
}

// Aggregator is the single writer of the session table. It is not safe for
// concurrent use from multiple goroutines: the event loop is its sole
// caller, serialising all mutation.
type Aggregator struct {
	workspaces []workspace.Workspace
	pathIndex  map[string]WorkspaceHandle

	sessions      []Session
	externalIndex map[string]Handle
	buckets       map[WorkspaceHandle][]Handle

	audit *AuditLog // optional; nil disables the SQLite audit trail
}

// NewAggregator constructs an empty Aggregator. audit may be nil.
func NewAggregator(audit *AuditLog) *Aggregator {
	return &Aggregator{
		pathIndex:     map[string]WorkspaceHandle{},
		externalIndex: map[string]Handle{},
		buckets:       map[WorkspaceHandle][]Handle{},
		audit:         audit,
	}
}

// ReplaceWorkspaces atomically swaps in a new workspace list (a Discovery
// rescan) and rebuilds both auxiliary indices in a single pass. Sessions
// whose stored project path no longer matches any workspace are not
// deleted; they become unreachable from sessions_for_workspace until a
// future rescan restores a matching workspace.
func (a *Aggregator) ReplaceWorkspaces(ws []workspace.Workspace) {
	a.workspaces = ws
	a.pathIndex = make(map[string]WorkspaceHandle, len(ws))
	for i, w := range ws {
		a.pathIndex[w.Path] = WorkspaceHandle(i)
	}

	a.buckets = make(map[WorkspaceHandle][]Handle)
	for i := range a.sessions {
		s := &a.sessions[i]
		h, ok := a.pathIndex[workspace.NormalisePath(s.projectPath())]
		if !ok {
			s.WorkspaceHandle = InvalidWorkspaceHandle
			continue
		}
		s.WorkspaceHandle = h
		a.buckets[h] = append(a.buckets[h], Handle(i))
	}
}

// Workspaces returns the current workspace list as last set by ReplaceWorkspaces.
func (a *Aggregator) Workspaces() []workspace.Workspace {
	return a.workspaces
}

// HandleForPath returns the workspace handle for a normalised path, as
// last set by ReplaceWorkspaces.
func (a *Aggregator) HandleForPath(path string) (WorkspaceHandle, bool) {
	wh, ok := a.pathIndex[workspace.NormalisePath(path)]
	return wh, ok
}

// projectPath is stored redundantly alongside WorkspaceHandle so that a
// rescan can re-resolve it; sessions don't carry a workspace pointer.
func (s *Session) projectPath() string {
	return s.projectPathField
}

// Register finds the workspace whose normalised path equals projectPath; if
// found, it inserts (or updates in place) the session and returns its
// workspace handle. If no matching workspace exists the update is dropped
// and ok is false.
func (a *Aggregator) Register(externalID, projectPath string, tool Tool, paneID string) (WorkspaceHandle, bool) {
	norm := workspace.NormalisePath(projectPath)
	wh, ok := a.pathIndex[norm]
	if !ok {
		log.WithField("external_id", externalID).WithField("project_path", projectPath).
			Debug("register dropped: unknown workspace")
		return InvalidWorkspaceHandle, false
	}

	now := time.Now()
	if h, exists := a.externalIndex[externalID]; exists {
		s := &a.sessions[h]
		if s.WorkspaceHandle != wh {
			a.moveBucket(h, s.WorkspaceHandle, wh)
			s.WorkspaceHandle = wh
		}
		s.projectPathField = norm
		s.Tool = tool
		if paneID != "" {
			s.PaneID = paneID
		}
		s.UpdatedAt = now
		a.recordEvent(s, "register")
		return wh, true
	}

	s := Session{
		ExternalID:       externalID,
		projectPathField: norm,
		WorkspaceHandle:  wh,
		Tool:             tool,
		Status:           StatusIdle,
		PaneID:           paneID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	h := Handle(len(a.sessions))
	a.sessions = append(a.sessions, s)
	a.externalIndex[externalID] = h
	a.buckets[wh] = append(a.buckets[wh], h)
	a.recordEvent(&a.sessions[h], "register")
	return wh, true
}

// UpdateStatus sets the status (and optional message, stored as Summary)
// for a known external id; a no-op if the id is unknown.
func (a *Aggregator) UpdateStatus(externalID string, status Status, message string) {
	h, ok := a.externalIndex[externalID]
	if !ok {
		return
	}
	s := &a.sessions[h]
	s.Status = status
	if message != "" {
		s.Summary = message
	}
	s.UpdatedAt = time.Now()
	a.recordEvent(s, "status")
}

// ApplyObserverStatus is like UpdateStatus but also auto-registers the
// session (inferring tool from the external id's prefix) when unknown —
// this is how polling observers introduce sessions they discover first.
func (a *Aggregator) ApplyObserverStatus(externalID, projectPath string, rec ObserverStatus) {
	if _, exists := a.externalIndex[externalID]; !exists {
		if _, ok := a.Register(externalID, projectPath, inferTool(externalID), ""); !ok {
			return
		}
	}

	h, ok := a.externalIndex[externalID]
	if !ok {
		return
	}
	s := &a.sessions[h]
	s.Status = rec.Status
	s.Detail = rec.Detail
	s.Summary = rec.Summary
	s.CurrentTask = rec.CurrentTask
	if !rec.LastActivity.IsZero() {
		s.LastActivity = rec.LastActivity
	}
	s.UpdatedAt = time.Now()
	a.recordEvent(s, "observer_status")
}

// Remove transitions a session to Disconnected without erasing it (audit
// trail). A no-op if the id is unknown.
func (a *Aggregator) Remove(externalID string) {
	h, ok := a.externalIndex[externalID]
	if !ok {
		return
	}
	s := &a.sessions[h]
	s.Status = StatusDisconnected
	s.UpdatedAt = time.Now()
	a.recordEvent(s, "remove")
}

// SessionsForWorkspace returns the handles of non-Disconnected sessions
// belonging to the given workspace, in insertion order.
func (a *Aggregator) SessionsForWorkspace(wh WorkspaceHandle) []Handle {
	bucket := a.buckets[wh]
	out := make([]Handle, 0, len(bucket))
	for _, h := range bucket {
		if a.sessions[h].Status != StatusDisconnected {
			out = append(out, h)
		}
	}
	return out
}

// Session returns the session record for a handle.
func (a *Aggregator) Session(h Handle) Session {
	return a.sessions[h]
}

// AuditLog returns the aggregator's audit log, or nil if it was
// constructed without one.
func (a *Aggregator) AuditLog() *AuditLog {
	return a.audit
}

// AllSessions returns every session in the table, including Disconnected
// ones, in insertion order — used by callers (the public facade, CLI
// listing commands) that need the full history rather than just the
// per-workspace active set SessionsForWorkspace provides.
func (a *Aggregator) AllSessions() []Session {
	out := make([]Session, len(a.sessions))
	copy(out, a.sessions)
	return out
}

// AggregateStatus computes the per-workspace aggregate: Working if any
// session is Working; else NeedsInput if any is NeedsInput; else Idle if
// any is Idle or Success; else Disconnected.
func (a *Aggregator) AggregateStatus(wh WorkspaceHandle) Status {
	active := a.SessionsForWorkspace(wh)
	if len(active) == 0 {
		return StatusDisconnected
	}

	sawIdleOrSuccess := false
	sawNeedsInput := false
	for _, h := range active {
		switch a.sessions[h].Status {
		case StatusWorking:
			return StatusWorking
		case StatusNeedsInput:
			sawNeedsInput = true
		case StatusIdle, StatusSuccess:
			sawIdleOrSuccess = true
		}
	}
	if sawNeedsInput {
		return StatusNeedsInput
	}
	if sawIdleOrSuccess {
		return StatusIdle
	}
	return StatusDisconnected
}

// moveBucket relocates handle h from the from-bucket to the to-bucket,
// preserving the insertion order of the remaining entries in from.
func (a *Aggregator) moveBucket(h Handle, from, to WorkspaceHandle) {
	bucket := a.buckets[from]
	for i, bh := range bucket {
		if bh == h {
			a.buckets[from] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	a.buckets[to] = append(a.buckets[to], h)
}

func (a *Aggregator) recordEvent(s *Session, eventType string) {
	if a.audit == nil {
		return
	}
	if err := a.audit.Append(s.ExternalID, eventType, *s); err != nil {
		log.WithError(err).WithField("external_id", s.ExternalID).Warn("failed to append audit event")
	}
}

func inferTool(externalID string) Tool {
	prefix := externalID
	if idx := strings.IndexByte(externalID, ':'); idx >= 0 {
		prefix = externalID[:idx]
	}
	switch prefix {
	case string(ToolClaude):
		return ToolClaude
	case string(ToolKiro):
		return ToolKiro
	case string(ToolOpenCode):
		return ToolOpenCode
	case string(ToolCodex):
		return ToolCodex
	default:
		return Tool(prefix)
	}
}
