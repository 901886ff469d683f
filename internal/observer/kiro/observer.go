package kiro

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/briarwood/wsmgr/internal/events"
	"github.com/briarwood/wsmgr/internal/session"
	"github.com/briarwood/wsmgr/internal/workspace"
)

// Config configures one Observer instance.
type Config struct {
	DBPath string
}

// Observer polls Kiro's SQLite conversation store once per tick, cross
// checking each workspace's latest row against the live process table
// before trusting it.
type Observer struct {
	cfg          Config
	previousSeen map[string]bool
}

// New constructs an Observer.
func New(cfg Config) *Observer {
	return &Observer{cfg: cfg, previousSeen: map[string]bool{}}
}

// Poll runs one observation tick against the given workspace paths.
func (o *Observer) Poll(workspacePaths []string) ([]events.AppEvent, error) {
	if _, err := os.Stat(o.cfg.DBPath); err != nil {
		// Kiro has never run on this machine, or the configured path is
		// wrong; neither is fatal.
		return nil, nil
	}

	db, err := OpenReadOnly(o.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	procs, err := ListProcesses()
	if err != nil {
		return nil, err
	}
	running := RunningWorkspaces(procs)

	seenThisTick := map[string]bool{}
	var out []events.AppEvent

	for _, wsPath := range workspacePaths {
		norm := workspace.NormalisePath(wsPath)
		ev, externalID, ok := o.pollWorkspace(db, norm, running[norm])
		if !ok {
			continue
		}
		seenThisTick[externalID] = true
		out = append(out, ev)
	}

	for id := range o.previousSeen {
		if !seenThisTick[id] {
			out = append(out, events.NewSessionRemove(id))
		}
	}
	o.previousSeen = seenThisTick

	return out, nil
}

func (o *Observer) pollWorkspace(db *sql.DB, workspacePath string, isRunning bool) (events.AppEvent, string, bool) {
	rows, err := FetchLatest(db, workspacePath, 1)
	if err != nil || len(rows) == 0 {
		return events.AppEvent{}, "", false
	}
	row := rows[0]
	externalID := fmt.Sprintf("kiro:%s:%s", workspacePath, row.ConversationID)

	if !isRunning {
		// The last known row might be stale; report the session as ended
		// (Success status, SessionEnded detail, "Stopped" summary) rather
		// than trusting it.
		return events.NewSessionStatus(events.SessionStatusPayload{
			ExternalID:  externalID,
			ProjectPath: workspacePath,
			Tool:        string(session.ToolKiro),
			Status:      string(session.StatusSuccess),
			Detail:      string(DetailSessionEnded),
			Summary:     "Stopped",
			LastActive:  row.UpdatedAt,
		}), externalID, true
	}

	status, detail, summary := DeriveStatus(row.Value)
	return events.NewSessionStatus(events.SessionStatusPayload{
		ExternalID:  externalID,
		ProjectPath: workspacePath,
		Tool:        string(session.ToolKiro),
		Status:      string(status),
		Detail:      string(detail),
		Summary:     summary,
		LastActive:  row.UpdatedAt,
	}), externalID, true
}
