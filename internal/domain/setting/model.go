package setting

import (
	"errors"
	"strconv"
	"time"
)

// Well-known keys
const (
	KeyQuizOpen = "quiz_open"
)

// Domain errors
var (
	ErrNotFound = errors.New("setting not found")
	ErrEmptyKey = errors.New("setting key is required")
)

// Setting is a process-wide key/value pair persisted across restarts.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Validate checks if the Setting has valid data.
// PRE: Setting struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Setting) Validate() error {
	if s.Key == "" {
		return ErrEmptyKey
	}
	return nil
}

// NewBool builds a boolean setting.
func NewBool(key string, v bool, now time.Time) Setting {
	return Setting{Key: key, Value: strconv.FormatBool(v), UpdatedAt: now}
}

// Bool interprets Value as a boolean; anything unparsable is false.
// INVARIANT: Setting fields are not mutated
func (s Setting) Bool() bool {
	b, err := strconv.ParseBool(s.Value)
	return err == nil && b
}
