package quiz

import (
	"context"

	domain "clansite/internal/domain/quiz"
)

// Store persists quiz submissions.
type Store interface {
	Save(ctx context.Context, value domain.Submission) error
	List(ctx context.Context) ([]domain.Submission, error)
	Delete(ctx context.Context, id string) error
}
