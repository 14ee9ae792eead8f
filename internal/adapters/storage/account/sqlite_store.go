package account

import (
	"context"
	"database/sql"
	"errors"

	"clansite/internal/adapters/storage"
	domain "clansite/internal/domain/account"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new admin credential store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByUsername retrieves the admin with the given username.
// PRE: username is non-empty
// POST: Returns the admin or domain.ErrNotFound
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Admin, error) {
	var a domain.Admin
	err := s.db.QueryRowContext(ctx,
		`SELECT username, password_hash FROM admin_credential WHERE username = ?`, username,
	).Scan(&a.Username, &a.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Admin{}, domain.ErrNotFound
	}
	return a, err
}

// CreateIfMissing inserts the admin; an existing row is never overwritten.
// PRE: admin has been validated
// POST: Returns true only when a new row was written
func (s *SQLiteStore) CreateIfMissing(ctx context.Context, a domain.Admin) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO admin_credential (username, password_hash) VALUES (?, ?)`,
		a.Username, a.PasswordHash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
