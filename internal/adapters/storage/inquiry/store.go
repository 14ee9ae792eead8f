package inquiry

import (
	"context"
	"time"

	domain "clansite/internal/domain/inquiry"
)

// Store persists Inquiry state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Inquiry, error)
	Save(ctx context.Context, value domain.Inquiry) error
	List(ctx context.Context) ([]domain.Inquiry, error)
	Respond(ctx context.Context, id, status, response string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
