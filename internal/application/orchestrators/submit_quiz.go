package orchestrators

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clansite/internal/domain/quiz"
)

// ErrQuizClosed is returned when a submission arrives while the quiz is closed.
var ErrQuizClosed = errors.New("the quiz is currently closed")

// QuizStoreForSubmit defines the store interface needed by SubmitQuiz.
type QuizStoreForSubmit interface {
	Save(ctx context.Context, s quiz.Submission) error
}

// SubmitQuizInput carries one quiz attempt.
// Score and Total are used verbatim only when both are present.
type SubmitQuizInput struct {
	Name      string
	Phone     string
	Email     string
	Answers   map[string]any
	Questions json.RawMessage
	Score     *int
	Total     *int
}

// SubmitQuizDeps holds dependencies for SubmitQuiz.
type SubmitQuizDeps struct {
	QuizStore  QuizStoreForSubmit
	QuizOpen   bool
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteSubmitQuiz scores and stores a quiz attempt.
// PRE: deps.QuizOpen reflects the caller's view of the quiz flag
// POST: on success one submission is stored; when closed nothing is stored
func ExecuteSubmitQuiz(ctx context.Context, input SubmitQuizInput, deps SubmitQuizDeps) (quiz.Submission, error) {
	if !deps.QuizOpen {
		slog.Info("quiz_rejected", "reason", "closed")
		return quiz.Submission{}, ErrQuizClosed
	}

	score, total := quiz.Score(input.Answers), quiz.MaxScore
	if input.Score != nil && input.Total != nil {
		score, total = *input.Score, *input.Total
	}

	payload, err := quizPayload(input)
	if err != nil {
		return quiz.Submission{}, err
	}

	sub := quiz.Submission{
		ID:          deps.GenerateID(),
		Name:        input.Name,
		Phone:       input.Phone,
		Email:       input.Email,
		Answers:     payload,
		Score:       score,
		Total:       total,
		SubmittedAt: deps.Now(),
	}
	if err := deps.QuizStore.Save(ctx, sub); err != nil {
		return quiz.Submission{}, fmt.Errorf("save quiz submission: %w", err)
	}

	slog.Info("quiz_submitted", "submission_id", sub.ID, "score", score, "total", total)
	return sub, nil
}

// quizPayload picks the blob to store: the question set if one was sent,
// otherwise the answer map.
func quizPayload(input SubmitQuizInput) (json.RawMessage, error) {
	if q := bytes.TrimSpace(input.Questions); len(q) > 0 && !bytes.Equal(q, []byte("null")) {
		return q, nil
	}
	answers := input.Answers
	if answers == nil {
		answers = map[string]any{}
	}
	data, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}
	return data, nil
}
