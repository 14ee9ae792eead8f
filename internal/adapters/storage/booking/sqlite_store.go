package booking

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"clansite/internal/adapters/storage"
	domain "clansite/internal/domain/booking"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const bookingColumns = `id, name, email, phone, status, notes, created_at`

// GetByID retrieves a booking by ID.
// PRE: id is non-empty
// POST: Returns the booking or domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM booking WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, err
}

// Save inserts or replaces a booking.
// PRE: booking has been validated
// POST: Row with b.ID reflects b
func (s *SQLiteStore) Save(ctx context.Context, b domain.Booking) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO booking (`+bookingColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, email=excluded.email, phone=excluded.phone,
		   status=excluded.status, notes=excluded.notes`,
		b.ID, b.Name, b.Email, b.Phone, b.Status, b.Notes, storage.FormatTime(b.CreatedAt))
	return err
}

// List returns every booking, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Booking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM booking ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// UpdateReview sets the admin status and notes of a booking.
// PRE: id is non-empty
// POST: Returns domain.ErrNotFound when no row matched
func (s *SQLiteStore) UpdateReview(ctx context.Context, id, status, notes string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE booking SET status = ?, notes = ? WHERE id = ?`, status, notes, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a booking by ID. Deleting a missing booking is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM booking WHERE id = ?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(sc scanner) (domain.Booking, error) {
	var b domain.Booking
	var createdAt string
	if err := sc.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.Status, &b.Notes, &createdAt); err != nil {
		return domain.Booking{}, err
	}
	t, err := storage.ParseTime(createdAt)
	if err != nil {
		slog.Warn("booking: failed to parse time", "field", "created_at", "booking_id", b.ID, "raw", createdAt, "error", err)
	}
	b.CreatedAt = t
	return b, nil
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
