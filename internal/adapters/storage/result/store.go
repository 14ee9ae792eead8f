package result

import (
	"context"

	domain "clansite/internal/domain/result"
)

// Store persists Result state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Result, error)
	Save(ctx context.Context, value domain.Result) error
	ListByPhone(ctx context.Context, phone string) ([]domain.Result, error)
	List(ctx context.Context) ([]domain.Result, error)
	Update(ctx context.Context, value domain.Result) error
	Delete(ctx context.Context, id string) error
}
