package quiz

import (
	"context"
	"encoding/json"
	"log/slog"

	"clansite/internal/adapters/storage"
	domain "clansite/internal/domain/quiz"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts a submission. The answers blob is stored as-is.
// PRE: submission has been validated
// POST: Row with sub.ID exists
func (s *SQLiteStore) Save(ctx context.Context, sub domain.Submission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quiz_submission (id, name, phone, email, answers, score, total, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.Phone, sub.Email, string(sub.Answers), sub.Score, sub.Total,
		storage.FormatTime(sub.SubmittedAt))
	return err
}

// List returns every submission, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, phone, email, answers, score, total, submitted_at
		 FROM quiz_submission ORDER BY submitted_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Submission
	for rows.Next() {
		var sub domain.Submission
		var answers, submittedAt string
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Phone, &sub.Email, &answers,
			&sub.Score, &sub.Total, &submittedAt); err != nil {
			return nil, err
		}
		if json.Valid([]byte(answers)) {
			sub.Answers = json.RawMessage(answers)
		} else {
			// a hand-edited row must not break the whole listing
			quoted, _ := json.Marshal(answers)
			sub.Answers = quoted
		}
		t, err := storage.ParseTime(submittedAt)
		if err != nil {
			slog.Warn("quiz: failed to parse time", "field", "submitted_at", "submission_id", sub.ID, "raw", submittedAt, "error", err)
		}
		sub.SubmittedAt = t
		list = append(list, sub)
	}
	return list, rows.Err()
}

// Delete removes a submission.
// PRE: id is non-empty
// POST: Returns domain.ErrNotFound when no row matched
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quiz_submission WHERE id = ?`, id)
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
