package web

import (
	"net/http"

	"clansite/internal/adapters/http/middleware"
)

// registerRoutes mounts every endpoint on mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// CSRF sits inside the gate so anonymous callers always get the 401
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(s.csrf(h))
	}

	// public API
	mux.HandleFunc("POST /api/booking", s.handleSubmitBooking)
	mux.HandleFunc("GET /api/results/{phone}", s.handleLookupResults)
	mux.HandleFunc("POST /api/contact", s.handleSubmitInquiry)
	mux.HandleFunc("POST /api/submit-quiz", s.handleSubmitQuiz)
	mux.HandleFunc("GET /api/quiz-status", s.handleQuizStatus)

	// session
	mux.HandleFunc("POST /admin/login", s.handleLogin)
	mux.HandleFunc("GET /admin/check-session", s.handleCheckSession)
	mux.HandleFunc("GET /admin/logout", s.handleLogout)
	mux.Handle("GET /admin/csrf-token", s.csrf(http.HandlerFunc(s.handleCSRFToken)))

	// admin API
	mux.Handle("GET /admin/data", admin(s.handleAdminData))
	mux.Handle("GET /admin/quiz-results", admin(s.handleQuizResults))
	mux.Handle("DELETE /admin/delete-quiz-result/{id}", admin(s.handleDeleteQuizResult))
	mux.Handle("POST /admin/update-booking/{id}", admin(s.handleUpdateBooking))
	mux.Handle("DELETE /admin/delete-booking/{id}", admin(s.handleDeleteBooking))
	mux.Handle("POST /admin/update-inquiry/{id}", admin(s.handleUpdateInquiry))
	mux.Handle("DELETE /admin/delete-inquiry/{id}", admin(s.handleDeleteInquiry))
	mux.Handle("POST /admin/send-message", admin(s.handleSendMessage))
	mux.Handle("POST /admin/upload-result", admin(s.handleUploadResult))
	mux.Handle("POST /admin/update-result", admin(s.handleUpdateResult))
	mux.Handle("DELETE /admin/delete-result/{id}", admin(s.handleDeleteResult))
	mux.Handle("GET /admin/quiz-status", admin(s.handleQuizStatus))
	mux.Handle("POST /admin/set-quiz-status", admin(s.handleSetQuizStatus))
	mux.Handle("GET /admin/perf", admin(s.handlePerf))

	// pages and files
	mux.Handle("GET /admin/dashboard", admin(s.handleDashboard))
	mux.HandleFunc("GET /admin-login.html", s.handleLoginPage)
	mux.Handle("GET /uploads/", s.uploadsHandler())
	mux.Handle("/", http.FileServer(http.Dir(s.cfg.StaticDir)))
}
