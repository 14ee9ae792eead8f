package inquiry

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"clansite/internal/adapters/storage"
	domain "clansite/internal/domain/inquiry"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const inquiryColumns = `id, name, email, phone, message, status, response, responded_at, created_at`

// GetByID retrieves an inquiry by ID.
// PRE: id is non-empty
// POST: Returns the inquiry or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Inquiry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+inquiryColumns+` FROM inquiry WHERE id = ?`, id)
	i, err := scanInquiry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Inquiry{}, domain.ErrNotFound
	}
	return i, err
}

// Save inserts or replaces an inquiry.
// PRE: inquiry has been validated
// POST: Row with i.ID reflects i
func (s *SQLiteStore) Save(ctx context.Context, i domain.Inquiry) error {
	var respondedAt any
	if i.RespondedAt != nil {
		respondedAt = storage.FormatTime(*i.RespondedAt)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inquiry (`+inquiryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, email=excluded.email, phone=excluded.phone, message=excluded.message,
		   status=excluded.status, response=excluded.response, responded_at=excluded.responded_at`,
		i.ID, i.Name, i.Email, i.Phone, i.Message, i.Status, i.Response, respondedAt,
		storage.FormatTime(i.CreatedAt))
	return err
}

// List returns every inquiry, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Inquiry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+inquiryColumns+` FROM inquiry ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Inquiry
	for rows.Next() {
		i, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

// Respond records the admin's status and reply and stamps responded_at.
// PRE: id is non-empty
// POST: Returns domain.ErrNotFound when no row matched
func (s *SQLiteStore) Respond(ctx context.Context, id, status, response string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE inquiry SET status = ?, response = ?, responded_at = ? WHERE id = ?`,
		status, response, storage.FormatTime(at), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes an inquiry by ID. Deleting a missing inquiry is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM inquiry WHERE id = ?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInquiry(sc scanner) (domain.Inquiry, error) {
	var i domain.Inquiry
	var respondedAt sql.NullString
	var createdAt string
	err := sc.Scan(&i.ID, &i.Name, &i.Email, &i.Phone, &i.Message, &i.Status, &i.Response,
		&respondedAt, &createdAt)
	if err != nil {
		return domain.Inquiry{}, err
	}
	i.CreatedAt = parseTime(createdAt, "created_at", i.ID)
	if respondedAt.Valid {
		t := parseTime(respondedAt.String, "responded_at", i.ID)
		i.RespondedAt = &t
	}
	return i, nil
}

// parseTime parses a stored time, logging a warning on failure.
func parseTime(raw, field, id string) time.Time {
	t, err := storage.ParseTime(raw)
	if err != nil {
		slog.Warn("inquiry: failed to parse time", "field", field, "inquiry_id", id, "raw", raw, "error", err)
	}
	return t
}
