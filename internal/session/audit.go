package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/google/uuid"
)

// AuditLog is the SQLite-backed durable trail of every session status
// transition; a Disconnected session is retained here rather than erased.
type AuditLog struct {
	db *sql.DB
}

// AuditEvent is one persisted row.
type AuditEvent struct {
	ID         string
	ExternalID string
	EventType  string
	Timestamp  time.Time
	Data       string // JSON-encoded Session snapshot
}

// OpenAuditLog opens (creating if necessary) the SQLite database at path
// and ensures the session_events table exists.
func OpenAuditLog(path string) (*AuditLog, error) {
	dsn := fmt.Sprintf("%s?_journal=WAL&_timeout=5000&_foreign_keys=true", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	al := &AuditLog{db: db}
	if err := al.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return al, nil
}

func (al *AuditLog) migrate() error {
	_, err := al.db.Exec(`
		CREATE TABLE IF NOT EXISTS session_events (
			id TEXT PRIMARY KEY,
			external_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			data TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_session_events_external_id
			ON session_events(external_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate audit database: %w", err)
	}
	return nil
}

// Append persists one status transition for externalID.
func (al *AuditLog) Append(externalID, eventType string, snapshot Session) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}

	_, err = al.db.Exec(
		`INSERT INTO session_events (id, external_id, event_type, timestamp, data) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), externalID, eventType, time.Now(), string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}

// History returns the most recent events for an external id, newest first,
// capped at limit (0 means unlimited).
func (al *AuditLog) History(externalID string, limit int) ([]AuditEvent, error) {
	query := `SELECT id, external_id, event_type, timestamp, data FROM session_events
		WHERE external_id = ? ORDER BY timestamp DESC`
	args := []interface{}{externalID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := al.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var out []AuditEvent
	for rows.Next() {
		var e AuditEvent
		if err := rows.Scan(&e.ID, &e.ExternalID, &e.EventType, &e.Timestamp, &e.Data); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying database handle.
func (al *AuditLog) Close() error {
	return al.db.Close()
}
