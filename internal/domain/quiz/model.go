package quiz

import (
	"encoding/json"
	"errors"
	"time"
)

// Scoring constants for the fixed quiz.
const (
	PointsPerQuestion = 5
	QuestionCount     = 5
	MaxScore          = PointsPerQuestion * QuestionCount
)

// AnswerKey maps question keys to the correct option.
var AnswerKey = map[string]string{
	"q1": "b",
	"q2": "b",
	"q3": "b",
	"q4": "c",
	"q5": "c",
}

// Domain errors
var (
	ErrNotFound    = errors.New("quiz submission not found")
	ErrEmptyID     = errors.New("quiz submission ID is required")
	ErrEmptyAnswer = errors.New("quiz submission payload is required")
)

// Submission is a scored record of one quiz attempt.
// Answers holds exactly one serialized payload: either the raw answer map
// or the richer question set the client sent.
type Submission struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email"`
	Answers     json.RawMessage `json:"answers"`
	Score       int             `json:"score"`
	Total       int             `json:"total"`
	SubmittedAt time.Time       `json:"submittedAt"`
}

// Validate checks the fields the store relies on.
// PRE: Submission struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Submission) Validate() error {
	if s.ID == "" {
		return ErrEmptyID
	}
	if len(s.Answers) == 0 {
		return ErrEmptyAnswer
	}
	if s.SubmittedAt.IsZero() {
		return errors.New("submitted_at must be set")
	}
	return nil
}

// Score grades answers against AnswerKey.
// Unknown keys, wrong options and non-string options contribute nothing.
// POST: 0 <= result <= MaxScore
func Score(answers map[string]any) int {
	score := 0
	for question, want := range AnswerKey {
		if got, ok := answers[question].(string); ok && got == want {
			score += PointsPerQuestion
		}
	}
	return score
}
