package journal

import (
	"context"
	"fmt"
	"time"
)

// Import outcomes.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Entry is one import attempt.
type Entry struct {
	ID         int64     `json:"id"`
	Note       string    `json:"note"`
	SourceName string    `json:"source_name"`
	StoredPath string    `json:"stored_path,omitempty"`
	Size       int64     `json:"size"`
	Checksum   string    `json:"checksum,omitempty"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Recorder is what the cover service needs from the journal.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

var _ Recorder = (*DB)(nil)

// Record appends an entry. A zero CreatedAt is stamped with the current time.
func (db *DB) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO imports (note, source_name, stored_path, size, checksum, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.Note, e.SourceName, e.StoredPath, e.Size, e.Checksum, e.Status, e.Error, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("journal: record: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. note filters by note
// path when non-empty.
func (db *DB) Recent(ctx context.Context, note string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	query := `SELECT id, note, source_name, stored_path, size, checksum, status, error, created_at FROM imports`
	args := []any{}
	if note != "" {
		query += ` WHERE note = ?`
		args = append(args, note)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Note, &e.SourceName, &e.StoredPath, &e.Size, &e.Checksum, &e.Status, &e.Error, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
