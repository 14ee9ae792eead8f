package account

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for credential fields.
const (
	MaxUsernameLength = 64
	// bcrypt ignores input beyond 72 bytes and newer versions reject it.
	MaxPasswordLength = 72
)

// HashCost is the bcrypt cost used by SetPassword. Tests lower it.
var HashCost = 12

// Domain errors
var (
	ErrNotFound        = errors.New("admin not found")
	ErrEmptyUsername   = errors.New("username cannot be empty")
	ErrUsernameTooLong = errors.New("username cannot exceed 64 characters")
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrPasswordTooLong = errors.New("password cannot exceed 72 bytes")
	ErrWrongPassword   = errors.New("incorrect password")
	ErrMissingPassword = errors.New("admin has no password hash")
)

// Admin is the single credential allowed into the management API.
type Admin struct {
	Username     string
	PasswordHash string
}

// Validate checks if the Admin has valid data.
// PRE: Admin struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Admin) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return ErrEmptyUsername
	}
	if len(a.Username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if a.PasswordHash == "" {
		return ErrMissingPassword
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt at HashCost.
// PRE: plaintext is non-empty
// POST: PasswordHash is set to bcrypt hash
func (a *Admin) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), HashCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: Admin fields are not mutated
func (a *Admin) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// dummyHash is compared against when the username is unknown so that both
// failure paths perform one bcrypt comparison at the same cost.
var (
	dummyHash     []byte
	dummyHashOnce sync.Once
)

// CheckUnknown burns one bcrypt comparison and always fails.
// POST: returns ErrWrongPassword
func CheckUnknown(plaintext string) error {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("clansite-dummy-password"), HashCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plaintext))
	return ErrWrongPassword
}
