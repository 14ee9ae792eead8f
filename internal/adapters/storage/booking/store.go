package booking

import (
	"context"

	domain "clansite/internal/domain/booking"
)

// Store persists Booking state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Booking, error)
	Save(ctx context.Context, value domain.Booking) error
	List(ctx context.Context) ([]domain.Booking, error)
	UpdateReview(ctx context.Context, id, status, notes string) error
	Delete(ctx context.Context, id string) error
}
