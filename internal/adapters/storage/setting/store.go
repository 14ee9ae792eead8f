package setting

import (
	"context"

	domain "clansite/internal/domain/setting"
)

// Store persists process-wide settings.
type Store interface {
	Get(ctx context.Context, key string) (domain.Setting, error)
	Save(ctx context.Context, value domain.Setting) error
}
