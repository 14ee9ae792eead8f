package inquiry

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
	ErrNotFound = errors.New("inquiry not found")
	ErrEmptyID  = errors.New("inquiry ID is required")
)

// Inquiry is a contact-form message awaiting an admin response.
type Inquiry struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	Response    string     `json:"response"`
	RespondedAt *time.Time `json:"respondedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// New builds an inquiry in the initial status.
// PRE: id is non-empty
// POST: Status is StatusNew, RespondedAt is nil
func New(id, name, email, phone, message string, now time.Time) Inquiry {
	return Inquiry{
		ID:        id,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Message:   message,
		Status:    StatusNew,
		CreatedAt: now,
	}
}

// Validate checks the fields the store relies on.
// PRE: Inquiry struct is populated
// POST: Returns nil if valid, error otherwise
func (i *Inquiry) Validate() error {
	if i.ID == "" {
		return ErrEmptyID
	}
	if i.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}

// Respond records the admin's status and response.
// POST: RespondedAt is set to at
// INVARIANT: RespondedAt is only ever set together with Response
func (i *Inquiry) Respond(status, response string, at time.Time) {
	i.Status = status
	i.Response = response
	i.RespondedAt = &at
}

// IsAnswered returns true once a response has been recorded.
func (i *Inquiry) IsAnswered() bool {
	return i.RespondedAt != nil
}
