// Package eventloop owns the single-consumer loop that serialises every
// state mutation in wsmgr: discovery rescans, observer/notify status
// updates, tab-focus notifications, and user actions all arrive as
// events.AppEvent values over one inbound channel and are applied one at a
// time, in arrival order.
package eventloop

import (
	"github.com/briarwood/wsmgr/internal/events"
	"github.com/briarwood/wsmgr/internal/hooks"
	"github.com/briarwood/wsmgr/internal/logging"
	"github.com/briarwood/wsmgr/internal/mux"
	"github.com/briarwood/wsmgr/internal/session"
	"github.com/briarwood/wsmgr/internal/tree"
	"github.com/briarwood/wsmgr/internal/workspace"
	"github.com/briarwood/wsmgr/internal/worktree"
)

var log = logging.For("eventloop")

// Inbox is the bounded multi-producer single-consumer channel every
// background task and the UI sends events.AppEvent on. Sized to absorb a
// burst of observer polls and notify messages without a producer blocking
// on a slow redraw.
const Inbox = 256

// uiState holds everything the tree builder and renderer need beyond the
// aggregator itself; it is the UI loop's own private view-layer state, not
// shared with any producer.
type uiState struct {
	expanded       map[string]bool
	remoteExpanded map[string]bool
	localBranches  map[string][]string
	remoteBranches map[string][]string
	cursor         int
	cursorKey      string
	statusMessage  string
}

// App is the UI loop: it owns the aggregator, the current tree projection,
// and the multiplexer/worktree side effects a user action triggers. It is
// not safe for concurrent use — Apply must only ever be called from the
// single goroutine draining Events.
type App struct {
	Events chan events.AppEvent

	Aggregator *session.Aggregator
	mux        mux.Driver
	hooks      *hooks.Manager

	maxRemoteBranches int
	tabNameTemplate   string

	ui uiState

	ticks int
}

// Config configures an App's fixed, load-once settings; none of it persists
// across the event loop's ownership boundary.
type Config struct {
	Mux               mux.Driver
	MaxRemoteBranches int
	TabNameTemplate   string
	// Hooks is optional; a nil Manager disables all hook firing.
	Hooks *hooks.Manager
}

// New constructs an App with an empty aggregator and tree projection.
func New(agg *session.Aggregator, cfg Config) *App {
	return &App{
		Events:            make(chan events.AppEvent, Inbox),
		Aggregator:        agg,
		mux:               cfg.Mux,
		hooks:             cfg.Hooks,
		maxRemoteBranches: cfg.MaxRemoteBranches,
		tabNameTemplate:   cfg.TabNameTemplate,
		ui: uiState{
			expanded:       map[string]bool{},
			remoteExpanded: map[string]bool{},
			localBranches:  map[string][]string{},
			remoteBranches: map[string][]string{},
		},
	}
}

// Tree rebuilds the current flattened tree projection from the aggregator
// and the UI loop's own expand/collapse + branch-cache state.
func (a *App) Tree() []tree.Item {
	return tree.Build(a.Aggregator, tree.Options{
		Expanded:          a.ui.expanded,
		RemoteExpanded:    a.ui.remoteExpanded,
		LocalBranches:     a.ui.localBranches,
		RemoteBranches:    a.ui.remoteBranches,
		MaxRemoteBranches: a.maxRemoteBranches,
	})
}

// Mux exposes the configured multiplexer driver for callers (the public
// facade, the CLI) that need to issue a window operation directly rather
// than going through a KindUserAction event.
func (a *App) Mux() mux.Driver { return a.mux }

// StatusMessage returns the most recent user-action result, if any — a
// failed user action surfaces here as a status-bar message rather than
// crashing the loop.
func (a *App) StatusMessage() string { return a.ui.statusMessage }

// Ticks returns the number of KindTick events applied so far.
func (a *App) Ticks() int { return a.ticks }

// SetBranchCache installs the local/remote branch lists for a repo key, as
// produced by a gitutil.ListBranches call triggered on tick or rescan. The
// event loop itself does not call gitutil directly from Apply (that would
// block state mutation on a subprocess); a caller polls branches
// out-of-band and feeds the result in through this setter before the next
// Tree() call, keeping the suspension point outside the UI loop's own
// critical section.
func (a *App) SetBranchCache(repoKey string, local, remote []string) {
	a.ui.localBranches[repoKey] = local
	a.ui.remoteBranches[repoKey] = remote
}

// ToggleExpanded flips whether repoKey's children are shown, preserving
// the cursor's logical position across the resulting reshuffle.
func (a *App) ToggleExpanded(repoKey string) {
	items := a.Tree()
	a.ui.cursorKey = keyAt(items, a.ui.cursor)

	a.ui.expanded[repoKey] = !a.ui.expanded[repoKey]

	items = a.Tree()
	a.ui.cursor = tree.RestoreSelection(items, a.ui.cursorKey, a.ui.cursor)
}

// ToggleRemoteExpanded flips whether repoKey's remote branch group shows its
// capped list of Branch children, preserving the cursor's logical position
// across the resulting reshuffle.
func (a *App) ToggleRemoteExpanded(repoKey string) {
	items := a.Tree()
	a.ui.cursorKey = keyAt(items, a.ui.cursor)

	a.ui.remoteExpanded[repoKey] = !a.ui.remoteExpanded[repoKey]

	items = a.Tree()
	a.ui.cursor = tree.RestoreSelection(items, a.ui.cursorKey, a.ui.cursor)
}

// ExpandAll marks every repo group and remote branch group currently known
// to the aggregator as expanded. The one-shot `tree` CLI command uses this
// to print the whole tree without requiring interactive toggling.
func (a *App) ExpandAll() {
	for _, w := range a.Aggregator.Workspaces() {
		a.ui.expanded[w.RepoKey] = true
		a.ui.remoteExpanded[w.RepoKey] = true
	}
}

// MoveCursor shifts the selection by delta rows, clamping to the current
// tree's bounds.
func (a *App) MoveCursor(delta int) {
	items := a.Tree()
	if len(items) == 0 {
		a.ui.cursor = 0
		return
	}
	a.ui.cursor += delta
	if a.ui.cursor < 0 {
		a.ui.cursor = 0
	}
	if a.ui.cursor >= len(items) {
		a.ui.cursor = len(items) - 1
	}
	a.ui.cursorKey = items[a.ui.cursor].Key()
}

// Cursor returns the current selection index into Tree().
func (a *App) Cursor() int { return a.ui.cursor }

// sessionLookup scans the aggregator's sessions for externalID. The
// aggregator has no public by-external-id accessor beyond the mutating
// Register/ApplyObserverStatus calls, and session counts are small enough
// that a linear scan here is cheaper than adding one.
func (a *App) sessionLookup(externalID string) (session.Session, bool) {
	for _, s := range a.Aggregator.AllSessions() {
		if s.ExternalID == externalID {
			return s, true
		}
	}
	return session.Session{}, false
}

// sessionStatus returns a session's current Status string, or "" if unknown
// (a brand-new session has no "old" status to transition from).
func (a *App) sessionStatus(externalID string) string {
	if s, ok := a.sessionLookup(externalID); ok {
		return string(s.Status)
	}
	return ""
}

func keyAt(items []tree.Item, idx int) string {
	if idx < 0 || idx >= len(items) {
		return ""
	}
	return items[idx].Key()
}

// Apply applies a single event to the aggregator/UI state. It is the only
// place state is mutated, and it never suspends: any I/O a user action
// requires (worktree creation, multiplexer commands) is a synchronous
// subprocess call made inline. "Suspend" here means yielding to other
// producers, not literal goroutine blocking, since Go's runtime already
// multiplexes OS threads under blocking syscalls.
func (a *App) Apply(ev events.AppEvent) {
	switch ev.Kind {
	case events.KindWorkspacesReplaced:
		a.applyWorkspacesReplaced(ev.Workspaces)

	case events.KindSessionStatus:
		oldStatus := a.sessionStatus(ev.Session.ExternalID)
		a.Aggregator.ApplyObserverStatus(ev.Session.ExternalID, ev.Session.ProjectPath, session.ObserverStatus{
			Status:       session.Status(ev.Session.Status),
			Detail:       ev.Session.Detail,
			Summary:      ev.Session.Summary,
			CurrentTask:  ev.Session.CurrentTask,
			LastActivity: ev.Session.LastActive,
		})
		if a.hooks != nil && oldStatus != ev.Session.Status {
			a.hooks.OnSessionStatusChange(oldStatus, ev.Session.Status, hooks.HookContext{
				WorktreePath: ev.Session.ProjectPath,
				SessionID:    ev.Session.ExternalID,
			})
		}

	case events.KindSessionRegister:
		_, alreadyKnown := a.sessionLookup(ev.Session.ExternalID)
		if _, ok := a.Aggregator.Register(ev.Session.ExternalID, ev.Session.ProjectPath, session.Tool(ev.Session.Tool), ev.Session.PaneID); ok && a.hooks != nil {
			sessionType := "new"
			if alreadyKnown {
				sessionType = "reattach"
			}
			if err := a.hooks.OnSessionAttached(ev.Session.ProjectPath, "", ev.Session.ExternalID, sessionType, ""); err != nil {
				log.WithField("session_id", ev.Session.ExternalID).WithError(err).Warn("session attach hook failed")
			}
		}

	case events.KindSessionRemove:
		a.Aggregator.Remove(ev.Remove.ExternalID)

	case events.KindTabFocus:
		a.applyTabFocus(ev.TabFocus.TabName)

	case events.KindTick:
		a.ticks++

	case events.KindUserAction:
		a.dispatchUserAction(ev.UserAction)

	default:
		log.WithField("kind", string(ev.Kind)).Warn("dropping unknown event kind")
	}
}

func (a *App) applyWorkspacesReplaced(ws []events.Workspace) {
	out := make([]workspace.Workspace, len(ws))
	for i, w := range ws {
		out[i] = workspace.Workspace{
			Path:      w.Path,
			RepoName:  w.RepoName,
			Branch:    w.Branch,
			RepoKey:   w.RepoKey,
			IsLinked:  w.IsLinked,
			CreatedAt: w.CreatedAt,
			UpdatedAt: w.UpdatedAt,
		}
	}
	a.Aggregator.ReplaceWorkspaces(out)
}

// applyTabFocus looks up which workspace a focused multiplexer tab belongs
// to by its window name and moves the cursor onto its row, if present.
// Unmatched tab names (windows wsmgr doesn't own) are ignored.
func (a *App) applyTabFocus(tabName string) {
	items := a.Tree()
	for i, it := range items {
		if it.Kind == tree.KindWorktree && mux.WindowName(a.tabNameTemplate, it.RepoName, it.Branch) == tabName {
			a.ui.cursor = i
			a.ui.cursorKey = it.Key()
			return
		}
	}
}

// worktreeStyleFromString maps the persisted config string to the
// worktree.Style sum type; unknown values fall back to Parallel the same
// way WorktreeConfig.Validate already rejects them at load time.
func worktreeStyleFromString(s string) worktree.Style {
	switch s {
	case string(worktree.StyleGhq):
		return worktree.StyleGhq
	case string(worktree.StyleSubdirectory):
		return worktree.StyleSubdirectory
	case string(worktree.StyleCustom):
		return worktree.StyleCustom
	default:
		return worktree.StyleParallel
	}
}
