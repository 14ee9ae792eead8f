package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionTTL is how long a session lives after creation.
const SessionTTL = 24 * time.Hour

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "clansite_session"

// Session is the server-side state of one browser session.
type Session struct {
	Token         string    `json:"-"`
	Username      string    `json:"username,omitempty"`
	Authenticated bool      `json:"authenticated"`
	QuizOpen      bool      `json:"quizOpen"`
	QuizOpenSet   bool      `json:"quizOpenSet"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Expired reports whether the session is older than SessionTTL.
// INVARIANT: Session fields are not mutated
func (s Session) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) > SessionTTL
}

// SessionStore keeps sessions keyed by an opaque token.
type SessionStore interface {
	// Create stores s under a fresh token and returns the token.
	Create(ctx context.Context, s Session) (string, error)
	// Get returns the live session for token; ok is false if unknown or expired.
	Get(ctx context.Context, token string) (s Session, ok bool, err error)
	// Update replaces an existing session; ok is false if the token is unknown.
	Update(ctx context.Context, token string, s Session) (ok bool, err error)
	// Delete removes a session. Unknown tokens are not an error.
	Delete(ctx context.Context, token string) error
}

// MemorySessionStore is an in-process SessionStore. Sessions do not survive restarts.
type MemorySessionStore struct {
	mu        sync.Mutex
	sessions  map[string]Session
	now       func() time.Time
	lastSweep time.Time
}

// Compile-time check that *MemorySessionStore satisfies SessionStore.
var _ SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create stores a new session and returns the token.
// POST: Session is stored with CreatedAt set if it was zero
func (ss *MemorySessionStore) Create(_ context.Context, s Session) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	now := ss.now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.Token = ""
	ss.sessions[token] = s
	ss.sweepLocked(now)
	return token, nil
}

// Get retrieves a session by token.
// PRE: token is non-empty
// POST: Returns session if present and not expired; expired sessions are removed
func (ss *MemorySessionStore) Get(_ context.Context, token string) (Session, bool, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.sessions[token]
	if !ok {
		return Session{}, false, nil
	}
	if s.Expired(ss.now()) {
		delete(ss.sessions, token)
		return Session{}, false, nil
	}
	s.Token = token
	return s, true, nil
}

// Update replaces the session for a given token in-place.
// POST: Returns false if the token is unknown; CreatedAt is preserved
func (ss *MemorySessionStore) Update(_ context.Context, token string, s Session) (bool, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	old, ok := ss.sessions[token]
	if !ok {
		return false, nil
	}
	s.Token = ""
	s.CreatedAt = old.CreatedAt
	ss.sessions[token] = s
	return true, nil
}

// Delete removes a session by token.
func (ss *MemorySessionStore) Delete(_ context.Context, token string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (ss *MemorySessionStore) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

// sweepLocked drops expired sessions at most once a minute.
// PRE: ss.mu is held
func (ss *MemorySessionStore) sweepLocked(now time.Time) {
	if now.Sub(ss.lastSweep) < time.Minute {
		return
	}
	ss.lastSweep = now
	for token, s := range ss.sessions {
		if s.Expired(now) {
			delete(ss.sessions, token)
		}
	}
}

// Auth returns middleware that loads the session named by the cookie into the context.
// It does NOT block unauthenticated requests; use RequireAdmin for that.
func Auth(sessions SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				session, ok, err := sessions.Get(r.Context(), cookie.Value)
				if err != nil {
					slog.Error("session_lookup_failed", "error", err)
				} else if ok {
					r = r.WithContext(ContextWithSession(r.Context(), session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin blocks requests without an authenticated session with
// 401 {"loggedIn":false}.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]bool{"loggedIn": false})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// IsAdmin checks if the current session is an authenticated admin.
func IsAdmin(ctx context.Context) bool {
	session, ok := GetSessionFromContext(ctx)
	return ok && session.Authenticated
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
