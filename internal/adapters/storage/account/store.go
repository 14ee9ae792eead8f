package account

import (
	"context"

	domain "clansite/internal/domain/account"
)

// Store persists the admin credential.
type Store interface {
	GetByUsername(ctx context.Context, username string) (domain.Admin, error)
	// CreateIfMissing inserts the admin unless the username already exists.
	// It reports whether a row was written.
	CreateIfMissing(ctx context.Context, value domain.Admin) (bool, error)
}
