package web

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"clansite/internal/adapters/http/middleware"
	"clansite/internal/application/orchestrators"
	"clansite/internal/domain/booking"
	"clansite/internal/domain/inquiry"
	"clansite/internal/domain/quiz"
)

// perfWindow is how far back GET /admin/perf looks.
const perfWindow = time.Hour

// --- Session ---

// handleLogin handles POST /admin/login.
// A fresh token is issued on every success; the quiz flag of a previous
// session is carried over, otherwise it starts closed.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decode(w, r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Username: req.Username,
		Password: req.Password,
	}, orchestrators.LoginDeps{AdminStore: s.stores.AdminStore})
	if errors.Is(err, orchestrators.ErrInvalidCredentials) {
		fail(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}

	next := middleware.Session{
		Username:      res.Username,
		Authenticated: true,
		QuizOpenSet:   true,
		CreatedAt:     s.now(),
	}
	prev, hadSession := middleware.GetSessionFromContext(r.Context())
	if hadSession && prev.QuizOpenSet {
		next.QuizOpen = prev.QuizOpen
	}

	token, err := s.sessions.Create(r.Context(), next)
	if err != nil {
		internalError(w, r, err)
		return
	}
	if hadSession {
		if err := s.sessions.Delete(r.Context(), prev.Token); err != nil {
			slog.Warn("session_delete_failed", "error", err)
		}
	}
	middleware.SetSessionCookie(w, token, s.cfg.Secure)
	ok(w, "", nil)
}

// handleCheckSession handles GET /admin/check-session.
func (s *Server) handleCheckSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{"loggedIn": middleware.IsAdmin(r.Context())})
}

// handleLogout handles GET /admin/logout.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, found := middleware.GetSessionFromContext(r.Context()); found {
		if err := s.sessions.Delete(r.Context(), sess.Token); err != nil {
			internalError(w, r, err)
			return
		}
		slog.Info("auth_event", "event", "logout", "username", sess.Username)
	}
	middleware.ClearSessionCookie(w, s.cfg.Secure)
	ok(w, "", nil)
}

// handleCSRFToken handles GET /admin/csrf-token.
// The token is empty when CSRF protection is disabled.
func (s *Server) handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{"csrfToken": middleware.CSRFToken(r)})
}

// --- Dashboard data ---

// handleAdminData handles GET /admin/data.
func (s *Server) handleAdminData(w http.ResponseWriter, r *http.Request) {
	data, err := orchestrators.ExecuteListAll(r.Context(), orchestrators.ListAllDeps{
		Bookings:  s.stores.BookingStore,
		Inquiries: s.stores.InquiryStore,
		Results:   s.stores.ResultStore,
		Quizzes:   s.stores.QuizStore,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"bookings":  data.Bookings,
		"inquiries": data.Inquiries,
		"results":   data.Results,
		"quizzes":   data.Quizzes,
	})
}

// handleQuizResults handles GET /admin/quiz-results.
func (s *Server) handleQuizResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.stores.QuizStore.List(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	if results == nil {
		results = []quiz.Submission{}
	}
	ok(w, "", envelope{"results": results})
}

// handleDeleteQuizResult handles DELETE /admin/delete-quiz-result/{id}.
func (s *Server) handleDeleteQuizResult(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteQuizSubmission(r.Context(), r.PathValue("id"), s.stores.QuizStore)
	if errors.Is(err, quiz.ErrNotFound) {
		fail(w, http.StatusNotFound, "Quiz result not found")
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	ok(w, "Quiz result deleted", nil)
}

// --- Bookings and inquiries ---

// handleUpdateBooking handles POST /admin/update-booking/{id}.
func (s *Server) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := decode(w, r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := orchestrators.ExecuteUpdateBooking(r.Context(), orchestrators.UpdateBookingInput{
		ID:     r.PathValue("id"),
		Status: req.Status,
		Notes:  req.Notes,
	}, s.stores.BookingStore)
	if errors.Is(err, booking.ErrNotFound) {
		fail(w, http.StatusOK, "Booking not found")
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	ok(w, "", nil)
}

// handleDeleteBooking handles DELETE /admin/delete-booking/{id}.
func (s *Server) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteBooking(r.Context(), r.PathValue("id"), s.stores.BookingStore); err != nil {
		internalError(w, r, err)
		return
	}
	ok(w, "Booking deleted", nil)
}

// handleUpdateInquiry handles POST /admin/update-inquiry/{id}.
func (s *Server) handleUpdateInquiry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status   string `json:"status"`
		Response string `json:"response"`
	}
	if err := decode(w, r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := orchestrators.ExecuteUpdateInquiry(r.Context(), orchestrators.UpdateInquiryInput{
		ID:       r.PathValue("id"),
		Status:   req.Status,
		Response: req.Response,
	}, orchestrators.UpdateInquiryDeps{
		InquiryStore: s.stores.InquiryStore,
		Now:          s.now,
	})
	if errors.Is(err, inquiry.ErrNotFound) {
		fail(w, http.StatusOK, "Inquiry not found")
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	ok(w, "", nil)
}

// handleDeleteInquiry handles DELETE /admin/delete-inquiry/{id}.
func (s *Server) handleDeleteInquiry(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteInquiry(r.Context(), r.PathValue("id"), s.stores.InquiryStore); err != nil {
		internalError(w, r, err)
		return
	}
	ok(w, "Inquiry deleted", nil)
}

// --- Messaging ---

// handleSendMessage handles POST /admin/send-message.
// Success means the notice was queued; delivery happens afterwards.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email      string `json:"email"`
		Message    string `json:"message"`
		SenderName string `json:"senderName"`
	}
	if err := decode(w, r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := orchestrators.ExecuteSendMessage(r.Context(), orchestrators.SendMessageInput{
		To:         req.Email,
		Body:       req.Message,
		SenderName: req.SenderName,
	}, orchestrators.SendMessageDeps{
		Sender:      s.sender,
		FromAddress: s.cfg.EmailAddress,
		Dispatch:    s.dispatch,
	})
	if errors.Is(err, orchestrators.ErrMissingRecipient) {
		fail(w, http.StatusBadRequest, "Email and message are required")
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	ok(w, "Message sent", nil)
}

// --- Quiz flag and diagnostics ---

// handleSetQuizStatus handles POST /admin/set-quiz-status.
func (s *Server) handleSetQuizStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsOpen *bool `json:"isOpen"`
	}
	if err := decode(w, r, &req); err != nil || req.IsOpen == nil {
		fail(w, http.StatusBadRequest, "isOpen must be true or false")
		return
	}
	if err := s.setQuizOpen(r.Context(), *req.IsOpen); err != nil {
		internalError(w, r, err)
		return
	}
	slog.Info("quiz_status_changed", "is_open", *req.IsOpen, "scope", s.cfg.QuizFlagScope)
	ok(w, "", envelope{"isOpen": *req.IsOpen})
}

// handlePerf handles GET /admin/perf.
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.collector == nil {
		fail(w, http.StatusNotFound, "performance collection is disabled")
		return
	}
	writeJSON(w, http.StatusOK, s.collector.Snapshot(s.now().Add(-perfWindow), 10))
}

// --- Pages ---

// handleDashboard handles GET /admin/dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.cfg.StaticDir, "admin", "dashboard.html"))
}

// handleLoginPage handles GET /admin-login.html; signed-in admins go straight to the dashboard.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.IsAdmin(r.Context()) {
		http.Redirect(w, r, "/admin/dashboard", http.StatusFound)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.cfg.StaticDir, "admin-login.html"))
}
