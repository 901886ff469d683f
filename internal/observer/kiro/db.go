package kiro

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// OpenReadOnly opens Kiro's own SQLite database read-only. Kiro CLI owns
// writes to this file; wsmgr only ever observes it, so the pure-Go
// modernc.org/sqlite driver opened in ro mode is used here rather than
// mattn/go-sqlite3's cgo driver, which is reserved for wsmgr's own audit
// log (see DESIGN.md's dual-driver rationale).
func OpenReadOnly(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// ConversationRow is one row from Kiro's conversations_v2 table.
type ConversationRow struct {
	ConversationID string
	Value          string
	UpdatedAt      time.Time
}

// FetchLatest returns the most recently updated conversations_v2 rows for
// a workspace key, newest first, capped at limit.
func FetchLatest(db *sql.DB, workspaceKey string, limit int) ([]ConversationRow, error) {
	rows, err := db.Query(
		`SELECT conversation_id, value, updated_at FROM conversations_v2 WHERE key = ? ORDER BY updated_at DESC LIMIT ?`,
		workspaceKey, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ConversationRow
	for rows.Next() {
		var convID, value string
		var updatedAtMS int64
		if err := rows.Scan(&convID, &value, &updatedAtMS); err != nil {
			continue
		}
		out = append(out, ConversationRow{
			ConversationID: convID,
			Value:          value,
			UpdatedAt:      time.UnixMilli(updatedAtMS),
		})
	}
	return out, rows.Err()
}
