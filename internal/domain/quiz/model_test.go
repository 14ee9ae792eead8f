package quiz_test

import (
	"encoding/json"
	"testing"
	"time"

	"clansite/internal/domain/quiz"
)

// TestScore tests grading against the answer key.
func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		answers map[string]any
		want    int
	}{
		{"all correct", map[string]any{"q1": "b", "q2": "b", "q3": "b", "q4": "c", "q5": "c"}, 25},
		{"all wrong", map[string]any{"q1": "a", "q2": "a", "q3": "a", "q4": "a", "q5": "a"}, 0},
		{"partial", map[string]any{"q1": "b", "q4": "c", "q5": "a"}, 10},
		{"empty", map[string]any{}, 0},
		{"nil", nil, 0},
		{"extra keys ignored", map[string]any{"q1": "b", "q9": "b", "bonus": "c"}, 5},
		{"non-string options score zero", map[string]any{"q1": 2, "q2": []any{"b"}, "q3": nil, "q4": "c"}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quiz.Score(tt.answers); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestMaxScore verifies the fixed quiz totals 25 points.
func TestMaxScore(t *testing.T) {
	if quiz.MaxScore != 25 {
		t.Errorf("MaxScore = %d, want 25", quiz.MaxScore)
	}
	if len(quiz.AnswerKey) != quiz.QuestionCount {
		t.Errorf("AnswerKey has %d questions, want %d", len(quiz.AnswerKey), quiz.QuestionCount)
	}
}

// TestSubmission_Validate tests validation of Submission.
func TestSubmission_Validate(t *testing.T) {
	blob := json.RawMessage(`{"q1":"b"}`)
	tests := []struct {
		name    string
		s       quiz.Submission
		wantErr bool
	}{
		{"valid", quiz.Submission{ID: "1", Answers: blob, SubmittedAt: time.Now()}, false},
		{"missing id", quiz.Submission{Answers: blob, SubmittedAt: time.Now()}, true},
		{"missing payload", quiz.Submission{ID: "1", SubmittedAt: time.Now()}, true},
		{"zero submitted_at", quiz.Submission{ID: "1", Answers: blob}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
