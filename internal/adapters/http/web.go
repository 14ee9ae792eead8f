package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"clansite/internal/adapters/email"
	"clansite/internal/adapters/files"
	"clansite/internal/adapters/http/middleware"
	"clansite/internal/adapters/http/perf"
	accountStore "clansite/internal/adapters/storage/account"
	bookingStore "clansite/internal/adapters/storage/booking"
	inquiryStore "clansite/internal/adapters/storage/inquiry"
	quizStore "clansite/internal/adapters/storage/quiz"
	resultStore "clansite/internal/adapters/storage/result"
	settingStore "clansite/internal/adapters/storage/setting"
	"clansite/internal/config"
)

// Stores holds all storage dependencies.
type Stores struct {
	BookingStore bookingStore.Store
	InquiryStore inquiryStore.Store
	QuizStore    quizStore.Store
	ResultStore  resultStore.Store
	AdminStore   accountStore.Store
	SettingStore settingStore.Store
}

// Config carries the HTTP-level settings.
type Config struct {
	StaticDir string
	// Secure marks cookies Secure and enforces TLS origin checks for CSRF.
	Secure bool
	// CSRFKey is 32 bytes; nil disables CSRF protection.
	CSRFKey        []byte
	TrustedOrigins []string
	// RateLimitPerSecond is the per-IP budget; 0 disables rate limiting.
	RateLimitPerSecond int
	QuizFlagScope      string
	// EmailAddress is the mailbox used in the From header of admin notices.
	EmailAddress string
	SlowRequest  time.Duration
}

// Deps are the services a Server is built from.
type Deps struct {
	Stores    Stores
	Files     *files.DiskStore
	Sender    email.Sender
	Sessions  middleware.SessionStore
	Collector *perf.Collector
}

// Server is the HTTP front of the site.
type Server struct {
	cfg       Config
	stores    Stores
	files     *files.DiskStore
	sender    email.Sender
	sessions  middleware.SessionStore
	collector *perf.Collector
	// csrf guards admin routes; it runs after the admin gate
	csrf func(http.Handler) http.Handler

	// background email deliveries; Close waits for them
	pending sync.WaitGroup

	now     func() time.Time
	newID   func() string
	handler http.Handler
}

// NewServer wires routes and middleware.
// PRE: every Deps field except Collector is non-nil
// POST: the returned Server is ready to serve
func NewServer(cfg Config, deps Deps) *Server {
	if cfg.QuizFlagScope == "" {
		cfg.QuizFlagScope = config.QuizScopeGlobal
	}
	s := &Server{
		cfg:       cfg,
		stores:    deps.Stores,
		files:     deps.Files,
		sender:    deps.Sender,
		sessions:  deps.Sessions,
		collector: deps.Collector,
		now:       time.Now,
		newID:     generateID,
	}

	s.csrf = func(h http.Handler) http.Handler { return h }
	if cfg.CSRFKey != nil {
		s.csrf = middleware.CSRF(middleware.CSRFConfig{
			AuthKey:        cfg.CSRFKey,
			Secure:         cfg.Secure,
			TrustedOrigins: cfg.TrustedOrigins,
		})
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	// innermost first; Timing runs outermost
	chain := []func(http.Handler) http.Handler{
		middleware.CaptureRoute,
		middleware.SecurityHeaders,
	}
	chain = append(chain, middleware.Auth(s.sessions))
	if cfg.RateLimitPerSecond > 0 {
		chain = append(chain, middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimitPerSecond, time.Second)))
	}
	chain = append(chain, middleware.Timing(s.collector, cfg.SlowRequest))

	s.handler = middleware.Chain(mux, chain...)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// dispatch runs task in the background and tracks it for Close.
func (s *Server) dispatch(task func()) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		task()
	}()
}

// Close waits for background email deliveries to finish.
// POST: no dispatched task is still running
func (s *Server) Close() {
	s.pending.Wait()
}

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}
