package account_test

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"clansite/internal/domain/account"
)

func init() {
	account.HashCost = bcrypt.MinCost
}

// TestAdmin_Validate tests validation of Admin.
func TestAdmin_Validate(t *testing.T) {
	tests := []struct {
		name    string
		admin   account.Admin
		wantErr error
	}{
		{"valid", account.Admin{Username: "admin", PasswordHash: "x"}, nil},
		{"blank username", account.Admin{Username: "  ", PasswordHash: "x"}, account.ErrEmptyUsername},
		{"long username", account.Admin{Username: strings.Repeat("a", 65), PasswordHash: "x"}, account.ErrUsernameTooLong},
		{"missing hash", account.Admin{Username: "admin"}, account.ErrMissingPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.admin.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestAdmin_SetPassword verifies hashing and the plaintext never being stored.
func TestAdmin_SetPassword(t *testing.T) {
	a := account.Admin{Username: "admin"}
	if err := a.SetPassword("admin123"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if a.PasswordHash == "" || a.PasswordHash == "admin123" {
		t.Fatalf("PasswordHash = %q, want bcrypt hash", a.PasswordHash)
	}
	if !strings.HasPrefix(a.PasswordHash, "$2") {
		t.Errorf("PasswordHash = %q, want bcrypt prefix", a.PasswordHash)
	}

	if err := a.SetPassword(""); err != account.ErrEmptyPassword {
		t.Errorf("empty password: got %v, want %v", err, account.ErrEmptyPassword)
	}
	if err := a.SetPassword(strings.Repeat("p", 73)); err != account.ErrPasswordTooLong {
		t.Errorf("long password: got %v, want %v", err, account.ErrPasswordTooLong)
	}
}

// TestAdmin_CheckPassword verifies correct and incorrect passwords.
func TestAdmin_CheckPassword(t *testing.T) {
	a := account.Admin{Username: "admin"}
	if err := a.SetPassword("admin123"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	if err := a.CheckPassword("admin123"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := a.CheckPassword("admin124"); err != account.ErrWrongPassword {
		t.Errorf("wrong password: got %v, want %v", err, account.ErrWrongPassword)
	}

	empty := account.Admin{Username: "admin"}
	if err := empty.CheckPassword("anything"); err != account.ErrWrongPassword {
		t.Errorf("missing hash: got %v, want %v", err, account.ErrWrongPassword)
	}
}

// TestCheckUnknown verifies the unknown-user path fails like a wrong password.
func TestCheckUnknown(t *testing.T) {
	if err := account.CheckUnknown("admin123"); err != account.ErrWrongPassword {
		t.Errorf("CheckUnknown = %v, want %v", err, account.ErrWrongPassword)
	}
}
