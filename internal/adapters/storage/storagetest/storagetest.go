// Package storagetest opens migrated throwaway databases for store tests.
package storagetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"clansite/internal/adapters/storage"
)

// NewDB returns a migrated in-memory database closed at test cleanup.
func NewDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.MigrateDB(db))
	return db
}

// NewFileDB returns a migrated database file under t.TempDir. Use it when
// concurrent readers need more than one connection.
func NewFileDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "clansite.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.MigrateDB(db))
	return db
}
