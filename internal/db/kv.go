package db

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// GetValue returns the raw value stored under key. ok is false when the key
// is absent.
func (db *DB) GetValue(ctx context.Context, key string) (value string, ok bool, err error) {
	err = db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetValue stores value under key, replacing any previous value
func (db *DB) SetValue(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	return err
}

// DeleteValue removes key. Deleting an absent key is not an error.
func (db *DB) DeleteValue(ctx context.Context, key string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}
