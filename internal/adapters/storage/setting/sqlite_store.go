package setting

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"clansite/internal/adapters/storage"
	domain "clansite/internal/domain/setting"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new setting store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves a setting by key.
// PRE: key is non-empty
// POST: Returns the setting or domain.ErrNotFound
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) Get(ctx context.Context, key string) (domain.Setting, error) {
	var st domain.Setting
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM app_setting WHERE key = ?`, key,
	).Scan(&st.Key, &st.Value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Setting{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Setting{}, err
	}
	st.UpdatedAt, err = storage.ParseTime(updatedAt)
	if err != nil {
		slog.Warn("setting: failed to parse time", "key", key, "raw", updatedAt, "error", err)
	}
	return st, nil
}

// Save upserts a setting.
// PRE: setting has been validated
// POST: Get(st.Key) returns st
func (s *SQLiteStore) Save(ctx context.Context, st domain.Setting) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_setting (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		st.Key, st.Value, storage.FormatTime(st.UpdatedAt))
	return err
}
