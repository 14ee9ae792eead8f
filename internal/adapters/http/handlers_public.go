package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"clansite/internal/application/orchestrators"
)

// handleSubmitBooking handles POST /api/booking.
func (s *Server) handleSubmitBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"bName"`
		Email string `json:"bEmail"`
		Phone string `json:"bPhone"`
	}
	if err := decode(w, r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := orchestrators.ExecuteSubmitBooking(r.Context(), orchestrators.SubmitBookingInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}, orchestrators.SubmitBookingDeps{
		BookingStore: s.stores.BookingStore,
		GenerateID:   s.newID,
		Now:          s.now,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	ok(w, "Join request submitted successfully", envelope{"bookingId": b.ID})
}

// handleLookupResults handles GET /api/results/{phone}.
// An unknown phone is answered with 200 and success:false.
func (s *Server) handleLookupResults(w http.ResponseWriter, r *http.Request) {
	results, err := orchestrators.ExecuteLookupResults(r.Context(), r.PathValue("phone"), orchestrators.LookupResultsDeps{
		ResultStore: s.stores.ResultStore,
	})
	if errors.Is(err, orchestrators.ErrNoResults) {
		fail(w, http.StatusOK, "No results found for this number")
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	ok(w, "", envelope{"results": results})
}

// handleSubmitInquiry handles POST /api/contact.
func (s *Server) handleSubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Message string `json:"message"`
	}
	if err := decode(w, r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, err := orchestrators.ExecuteSubmitInquiry(r.Context(), orchestrators.SubmitInquiryInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}, orchestrators.SubmitInquiryDeps{
		InquiryStore: s.stores.InquiryStore,
		GenerateID:   s.newID,
		Now:          s.now,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	ok(w, "Your inquiry was sent successfully", nil)
}

// quizClosedMessage answers submissions while the quiz is closed.
const quizClosedMessage = "The quiz is currently closed"

// handleSubmitQuiz handles POST /api/submit-quiz.
// A closed quiz is refused before the body is read.
func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	open, err := s.quizOpen(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	if !open {
		slog.Info("quiz_rejected", "reason", "closed")
		fail(w, http.StatusForbidden, quizClosedMessage)
		return
	}

	var req struct {
		Name      string          `json:"name"`
		Phone     string          `json:"phone"`
		Email     string          `json:"email"`
		Answers   map[string]any  `json:"answers"`
		Questions json.RawMessage `json:"questions"`
		Score     *int            `json:"score"`
		Total     *int            `json:"total"`
	}
	if err := decode(w, r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := orchestrators.ExecuteSubmitQuiz(r.Context(), orchestrators.SubmitQuizInput{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Answers:   req.Answers,
		Questions: req.Questions,
		Score:     req.Score,
		Total:     req.Total,
	}, orchestrators.SubmitQuizDeps{
		QuizStore:  s.stores.QuizStore,
		QuizOpen:   open,
		GenerateID: s.newID,
		Now:        s.now,
	})
	if errors.Is(err, orchestrators.ErrQuizClosed) {
		fail(w, http.StatusForbidden, quizClosedMessage)
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	ok(w, "Your result was recorded", envelope{"score": sub.Score, "total": sub.Total})
}

// handleQuizStatus handles GET /api/quiz-status and GET /admin/quiz-status.
func (s *Server) handleQuizStatus(w http.ResponseWriter, r *http.Request) {
	open, err := s.quizOpen(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	ok(w, "", envelope{"isOpen": open})
}
