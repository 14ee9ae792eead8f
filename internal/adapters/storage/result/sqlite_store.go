package result

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"clansite/internal/adapters/storage"
	domain "clansite/internal/domain/result"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const resultColumns = `id, player_phone, player_name, file_url, uploaded_at`

// GetByID retrieves a result by ID.
// PRE: id is non-empty
// POST: Returns the result or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Result, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM result WHERE id = ?`, id)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Result{}, domain.ErrNotFound
	}
	return r, err
}

// Save inserts a new result row.
// PRE: result has been validated
// POST: Row with r.ID exists
func (s *SQLiteStore) Save(ctx context.Context, r domain.Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO result (`+resultColumns+`) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.PlayerPhone, r.PlayerName, r.FileURL, storage.FormatTime(r.UploadedAt))
	return err
}

// ListByPhone returns the results for an exact phone match, newest first.
func (s *SQLiteStore) ListByPhone(ctx context.Context, phone string) ([]domain.Result, error) {
	return s.query(ctx,
		`SELECT `+resultColumns+` FROM result WHERE player_phone = ? ORDER BY uploaded_at DESC, id DESC`,
		phone)
}

// List returns every result, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Result, error) {
	return s.query(ctx, `SELECT `+resultColumns+` FROM result ORDER BY uploaded_at DESC, id DESC`)
}

// Update rewrites the phone, name, file URL and upload time of an existing result.
// PRE: r.ID is non-empty
// POST: Returns domain.ErrNotFound when no row matched
func (s *SQLiteStore) Update(ctx context.Context, r domain.Result) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE result SET player_phone = ?, player_name = ?, file_url = ?, uploaded_at = ? WHERE id = ?`,
		r.PlayerPhone, r.PlayerName, r.FileURL, storage.FormatTime(r.UploadedAt), r.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a result row.
// PRE: id is non-empty
// POST: Returns domain.ErrNotFound when no row matched
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM result WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.Result, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(sc scanner) (domain.Result, error) {
	var r domain.Result
	var uploadedAt string
	if err := sc.Scan(&r.ID, &r.PlayerPhone, &r.PlayerName, &r.FileURL, &uploadedAt); err != nil {
		return domain.Result{}, err
	}
	t, err := storage.ParseTime(uploadedAt)
	if err != nil {
		slog.Warn("result: failed to parse time", "field", "uploaded_at", "result_id", r.ID, "raw", uploadedAt, "error", err)
	}
	r.UploadedAt = t
	return r, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
