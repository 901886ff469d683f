package eventloop

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/briarwood/wsmgr/internal/events"
	"github.com/briarwood/wsmgr/internal/tree"
)

// Model adapts App to tea.Model so cmd/wsmgr can drive it with
// tea.NewProgram. It only pumps events.AppEvent values into Apply and
// renders the flattened tree as plain text — key/mouse translation and
// dialog widgets are out of scope here; a real terminal UI is expected to
// sit in front of this Model or replace View entirely.
type Model struct {
	app *App
}

// NewModel wraps an already-constructed App for bubbletea.
func NewModel(app *App) Model {
	return Model{app: app}
}

// appEventMsg carries one drained events.AppEvent into Update.
type appEventMsg events.AppEvent

// waitForEvent returns a tea.Cmd that blocks on the App's channel and
// delivers the next event as a tea.Msg; Update re-issues it after each
// delivery so the pump never stalls (the standard bubbletea
// external-channel pattern).
func waitForEvent(ch <-chan events.AppEvent) tea.Cmd {
	return func() tea.Msg {
		return appEventMsg(<-ch)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.app.Events)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case appEventMsg:
		m.app.Apply(events.AppEvent(msg))
		return m, waitForEvent(m.app.Events)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			m.app.MoveCursor(-1)
		case "down", "j":
			m.app.MoveCursor(1)
		case "enter", " ":
			m.handleSelect()
		}
	}
	return m, nil
}

// handleSelect toggles expand/collapse on a repo-group or remote-branch-group
// row under the cursor; everything else (launching a session, opening a
// multiplexer window) is a KindUserAction dispatched by the caller, not a
// key binding this package owns.
func (m Model) handleSelect() {
	items := m.app.Tree()
	idx := m.app.Cursor()
	if idx < 0 || idx >= len(items) {
		return
	}
	switch items[idx].Kind {
	case tree.KindRepoGroup:
		m.app.ToggleExpanded(items[idx].RepoKey)
	case tree.KindRemoteBranchGroup:
		m.app.ToggleRemoteExpanded(items[idx].RepoKey)
	}
}

// View implements tea.Model. It renders each tree row indented by depth
// with a ├─ or └─ glyph chosen by the row's IsLast flag.
func (m Model) View() string {
	var b strings.Builder
	for _, it := range m.app.Tree() {
		b.WriteString(renderLine(it))
		b.WriteByte('\n')
	}
	if msg := m.app.StatusMessage(); msg != "" {
		fmt.Fprintf(&b, "\n%s\n", msg)
	}
	return b.String()
}

func renderLine(it tree.Item) string {
	glyph := "├─"
	if it.IsLast {
		glyph = "└─"
	}
	indent := strings.Repeat("  ", it.Depth)

	switch it.Kind {
	case tree.KindRepoGroup:
		return it.RepoName
	case tree.KindWorktree:
		return indent + glyph + " " + it.Branch + " (" + it.Path + ")"
	case tree.KindBranch:
		if it.IsLocal {
			return indent + glyph + " " + it.Branch
		}
		return indent + glyph + " " + it.Branch + " (remote)"
	case tree.KindRemoteBranchGroup:
		arrow := "▶"
		if it.Expanded {
			arrow = "▼"
		}
		if it.RemoteBranchCount < it.RemoteBranchTotal {
			return fmt.Sprintf("%s%s %s %d/%d remote branches", indent, glyph, arrow, it.RemoteBranchCount, it.RemoteBranchTotal)
		}
		return fmt.Sprintf("%s%s %s %d remote branches", indent, glyph, arrow, it.RemoteBranchCount)
	case tree.KindSession:
		return indent + glyph + " session"
	default:
		return indent + glyph
	}
}
