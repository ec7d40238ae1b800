package localstore

import (
	"context"
	"database/sql"
	"time"

	"gymtrack/internal/adapters/storage"
)

// SQLiteStore implements Store using the app_state SQLite table.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new key-value store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves the value stored under key.
// PRE: key is non-empty
// POST: Returns the value, or ok=false if the key has never been written
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM app_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

// Set writes the value under key, replacing any previous value.
// PRE: key is non-empty
// POST: The value is durably stored before returning
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, string(value), time.Now().Format(time.RFC3339Nano))
	return err
}
