package db

import (
	"context"
	"time"
)

// Orphan is an original task that was left behind when a relocation could
// not delete it
type Orphan struct {
	OriginalID    string    `json:"original_id"`
	ReplacementID string    `json:"replacement_id"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

// RecordOrphan stores an orphan, replacing an earlier record for the same original
func (db *DB) RecordOrphan(ctx context.Context, o Orphan) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO orphans (original_id, replacement_id, reason, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(original_id) DO UPDATE SET
			replacement_id = excluded.replacement_id,
			reason = excluded.reason,
			created_at = excluded.created_at
	`, o.OriginalID, o.ReplacementID, o.Reason, o.CreatedAt)
	return err
}

// Orphans returns all recorded orphans, oldest first
func (db *DB) Orphans(ctx context.Context) ([]Orphan, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT original_id, replacement_id, reason, created_at
		FROM orphans
		ORDER BY created_at, original_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orphans := []Orphan{}
	for rows.Next() {
		var o Orphan
		if err := rows.Scan(&o.OriginalID, &o.ReplacementID, &o.Reason, &o.CreatedAt); err != nil {
			return nil, err
		}
		orphans = append(orphans, o)
	}
	return orphans, rows.Err()
}

// ForgetOrphan removes the record for originalID
func (db *DB) ForgetOrphan(ctx context.Context, originalID string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM orphans WHERE original_id = ?`, originalID)
	return err
}
