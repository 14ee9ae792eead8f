package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clansite/internal/domain/account"
)

// AdminStoreForLogin defines the store interface needed by Login.
type AdminStoreForLogin interface {
	GetByUsername(ctx context.Context, username string) (account.Admin, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	Username string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AdminStore AdminStoreForLogin
}

// ErrInvalidCredentials is the only failure reported to a caller, whichever
// of username or password was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ExecuteLogin validates credentials for session creation.
// PRE: none; empty fields simply fail
// POST: Returns the admin username on success, ErrInvalidCredentials on any mismatch
// INVARIANT: unknown usernames cost one bcrypt comparison, same as a wrong password
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	admin, err := deps.AdminStore.GetByUsername(ctx, input.Username)
	if errors.Is(err, account.ErrNotFound) {
		account.CheckUnknown(input.Password)
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("load admin: %w", err)
	}

	if err := admin.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "wrong_password")
		return LoginResult{}, ErrInvalidCredentials
	}

	slog.Info("auth_event", "event", "login_success", "username", admin.Username)
	return LoginResult{Username: admin.Username}, nil
}
