package result

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrNotFound      = errors.New("result not found")
	ErrNoFile        = errors.New("no result file attached")
	ErrEmptyID       = errors.New("result ID is required")
	ErrEmptyFileURL  = errors.New("result file URL is required")
	ErrEmptyUploaded = errors.New("result uploaded_at must be set")
)

// Result is an admin-uploaded file associated with a player's phone number.
// INVARIANT: FileURL names a file written by the file store for as long as the row exists.
type Result struct {
	ID          string    `json:"id"`
	PlayerPhone string    `json:"playerPhone"`
	PlayerName  string    `json:"playerName"`
	FileURL     string    `json:"fileUrl"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Validate checks the fields the store relies on.
// PRE: Result struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Result) Validate() error {
	if r.ID == "" {
		return ErrEmptyID
	}
	if r.FileURL == "" {
		return ErrEmptyFileURL
	}
	if r.UploadedAt.IsZero() {
		return ErrEmptyUploaded
	}
	return nil
}
