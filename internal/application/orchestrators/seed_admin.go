package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"clansite/internal/domain/account"
)

// AdminStoreForSeed defines the store interface needed by SeedAdmin.
type AdminStoreForSeed interface {
	CreateIfMissing(ctx context.Context, a account.Admin) (bool, error)
}

// SeedAdminInput carries the configured admin credentials.
type SeedAdminInput struct {
	Username string
	Password string
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	AdminStore AdminStoreForSeed
}

// ExecuteSeedAdmin creates the admin credential on first start.
// An existing credential is left untouched, so a changed ADMIN_PASSWORD
// does not overwrite it.
// PRE: Username and Password are non-empty
// POST: exactly one credential row exists for Username; created reports whether this call wrote it
func ExecuteSeedAdmin(ctx context.Context, input SeedAdminInput, deps SeedAdminDeps) (bool, error) {
	admin := account.Admin{Username: input.Username}
	if err := admin.SetPassword(input.Password); err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	if err := admin.Validate(); err != nil {
		return false, fmt.Errorf("validate admin: %w", err)
	}

	created, err := deps.AdminStore.CreateIfMissing(ctx, admin)
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	if created {
		slog.Info("admin_seeded", "username", admin.Username)
	} else {
		slog.Debug("admin_exists", "username", admin.Username)
	}
	return created, nil
}
