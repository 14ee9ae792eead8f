package booking

import (
	"errors"
	"time"
)

// Status constants
const (
	StatusNew = "new"
)

// Domain errors
var (
	ErrNotFound    = errors.New("booking not found")
	ErrEmptyID     = errors.New("booking ID is required")
	ErrZeroCreated = errors.New("booking created_at must be set")
)

// Booking is a join request submitted by a visitor.
// Name, Email and Phone are stored as submitted; intake performs no format checks.
type Booking struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// New builds a booking in the initial status.
// PRE: id is non-empty
// POST: Status is StatusNew, Notes is empty
func New(id, name, email, phone string, now time.Time) Booking {
	return Booking{
		ID:        id,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Status:    StatusNew,
		CreatedAt: now,
	}
}

// Validate checks the fields the store relies on.
// PRE: Booking struct is populated
// POST: Returns nil if valid, error otherwise
func (b *Booking) Validate() error {
	if b.ID == "" {
		return ErrEmptyID
	}
	if b.CreatedAt.IsZero() {
		return ErrZeroCreated
	}
	return nil
}
