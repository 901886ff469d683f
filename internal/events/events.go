// Package events defines the AppEvent sum type that every background
// producer (discovery, observers, the notify listener, user actions) emits
// onto the event loop's single inbound channel.
package events

import "time"

// Kind discriminates the AppEvent variants. Go has no native enum, so Kind
// is a string-backed constant set paired with payload fields that are only
// meaningful for the matching Kind — the same tagged-union approach used
// for TreeItem.
type Kind string

const (
	// KindWorkspacesReplaced carries a full replacement workspace list
	// produced by a Discovery rescan.
	KindWorkspacesReplaced Kind = "workspaces_replaced"

	// KindSessionStatus carries an observer- or notify-derived status
	// update for one session, auto-registering it if unknown.
	KindSessionStatus Kind = "session_status"

	// KindSessionRegister carries an explicit notify "register" message.
	KindSessionRegister Kind = "session_register"

	// KindSessionRemove carries a notify "unregister" message or an
	// observer's implicit removal (session no longer observed).
	KindSessionRemove Kind = "session_remove"

	// KindTabFocus carries a multiplexer tab-focus notification.
	KindTabFocus Kind = "tab_focus"

	// KindTick advances the event loop's tick counter; applying it
	// triggers no other work.
	KindTick Kind = "tick"

	// KindUserAction carries a user-initiated command (worktree
	// create/remove, window open/close, pane focus/close).
	KindUserAction Kind = "user_action"
)

// Workspace is the minimal shape the event loop needs from a discovered
// checkout; internal/workspace.Workspace satisfies a superset of this.
type Workspace struct {
	Path       string
	RepoName   string
	Branch     string
	RepoKey    string
	IsLinked   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SessionStatusPayload is the payload for KindSessionStatus and
// KindSessionRegister.
type SessionStatusPayload struct {
	ExternalID  string
	ProjectPath string
	Tool        string // claude | kiro | opencode | codex, only set on register
	Status      string // idle | working | needs_input | success | error
	Detail      string
	Summary     string
	CurrentTask string
	PaneID      string
	WindowName  string
	LastActive  time.Time
}

// SessionRemovePayload is the payload for KindSessionRemove.
type SessionRemovePayload struct {
	ExternalID string
}

// TabFocusPayload is the payload for KindTabFocus.
type TabFocusPayload struct {
	TabName string
}

// UserActionPayload carries a user-initiated command and its arguments as
// a free-form map; the event loop's dispatcher interprets Name.
type UserActionPayload struct {
	Name string
	Args map[string]string
}

// AppEvent is the single type flowing over the event loop's inbound
// channel. Only the field matching Kind is populated; the others are the
// zero value.
type AppEvent struct {
	Kind Kind

	Workspaces []Workspace
	Session    SessionStatusPayload
	Remove     SessionRemovePayload
	TabFocus   TabFocusPayload
	UserAction UserActionPayload
}

// NewWorkspacesReplaced builds a KindWorkspacesReplaced event.
func NewWorkspacesReplaced(ws []Workspace) AppEvent {
	return AppEvent{Kind: KindWorkspacesReplaced, Workspaces: ws}
}

// NewSessionStatus builds a KindSessionStatus event.
func NewSessionStatus(p SessionStatusPayload) AppEvent {
	return AppEvent{Kind: KindSessionStatus, Session: p}
}

// NewSessionRegister builds a KindSessionRegister event.
func NewSessionRegister(p SessionStatusPayload) AppEvent {
	return AppEvent{Kind: KindSessionRegister, Session: p}
}

// NewSessionRemove builds a KindSessionRemove event.
func NewSessionRemove(externalID string) AppEvent {
	return AppEvent{Kind: KindSessionRemove, Remove: SessionRemovePayload{ExternalID: externalID}}
}

// NewTabFocus builds a KindTabFocus event.
func NewTabFocus(tabName string) AppEvent {
	return AppEvent{Kind: KindTabFocus, TabFocus: TabFocusPayload{TabName: tabName}}
}

// NewTick builds a KindTick event.
func NewTick() AppEvent {
	return AppEvent{Kind: KindTick}
}

// NewUserAction builds a KindUserAction event.
func NewUserAction(name string, args map[string]string) AppEvent {
	return AppEvent{Kind: KindUserAction, UserAction: UserActionPayload{Name: name, Args: args}}
}
