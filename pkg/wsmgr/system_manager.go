package wsmgr

import (
	"time"

	"github.com/briarwood/wsmgr/internal/eventloop"
	"github.com/briarwood/wsmgr/internal/session"
)

type systemManager struct {
	app *eventloop.App
}

func (sm *systemManager) Status() SystemStatus {
	agg := sm.app.Aggregator
	active := 0
	for _, s := range agg.AllSessions() {
		if s.Status != session.StatusDisconnected {
			active++
		}
	}

	var lastScan time.Time
	for _, w := range agg.Workspaces() {
		if w.UpdatedAt.After(lastScan) {
			lastScan = w.UpdatedAt
		}
	}

	return SystemStatus{
		TrackedWorkspaces: len(agg.Workspaces()),
		ActiveSessions:    active,
		LastScan:          lastScan,
	}
}
