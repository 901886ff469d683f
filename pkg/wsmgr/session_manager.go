package wsmgr

import (
	"encoding/json"
	"fmt"

	"github.com/briarwood/wsmgr/internal/eventloop"
	"github.com/briarwood/wsmgr/internal/session"
)

type sessionManager struct {
	app *eventloop.App
}

func (sm *sessionManager) List() ([]SessionInfo, error) {
	all := sm.app.Aggregator.AllSessions()
	out := make([]SessionInfo, 0, len(all))
	for _, s := range all {
		if s.Status == session.StatusDisconnected {
			continue
		}
		out = append(out, convertSession(s))
	}
	return out, nil
}

func (sm *sessionManager) ForWorkspace(workspacePath string) ([]SessionInfo, error) {
	wh, ok := sm.app.Aggregator.HandleForPath(workspacePath)
	if !ok {
		return nil, fmt.Errorf("wsmgr: unknown workspace %q", workspacePath)
	}
	var out []SessionInfo
	for _, h := range sm.app.Aggregator.SessionsForWorkspace(wh) {
		out = append(out, convertSession(sm.app.Aggregator.Session(h)))
	}
	return out, nil
}

func (sm *sessionManager) History(externalID string, limit int) ([]AuditEvent, error) {
	audit := sm.app.Aggregator.AuditLog()
	if audit == nil {
		return nil, fmt.Errorf("wsmgr: audit log is disabled")
	}
	history, err := audit.History(externalID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]AuditEvent, len(history))
	for i, e := range history {
		var snapshot struct {
			Status  string
			Summary string
		}
		_ = json.Unmarshal([]byte(e.Data), &snapshot)
		out[i] = AuditEvent{
			ExternalID: e.ExternalID,
			EventType:  e.EventType,
			Status:     snapshot.Status,
			Summary:    snapshot.Summary,
			Timestamp:  e.Timestamp,
		}
	}
	return out, nil
}

func convertSession(s session.Session) SessionInfo {
	return SessionInfo{
		ExternalID:   s.ExternalID,
		Tool:         string(s.Tool),
		Status:       string(s.Status),
		Detail:       s.Detail,
		Summary:      s.Summary,
		CurrentTask:  s.CurrentTask,
		PaneID:       s.PaneID,
		WindowName:   s.WindowName,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		LastActivity: s.LastActivity,
	}
}
