package middleware

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestRateLimiter_Allow verifies the bucket drains and refills.
func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, time.Second)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request within the interval should be limited")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other IPs have their own bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("1.2.3.4") {
		t.Error("bucket should refill after the interval")
	}
}

// TestRateLimiter_Sweep verifies idle visitors are dropped lazily.
func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(5, time.Second)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	rl.Allow("b")
	now = now.Add(visitorIdle + time.Minute)
	rl.Allow("c")

	if n := rl.visitorCount(); n != 1 {
		t.Errorf("visitorCount = %d, want 1", n)
	}
}

// TestRateLimit_KeysByHost verifies different source ports share one bucket.
func TestRateLimit_KeysByHost(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	h := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i, addr := range []string{"10.0.0.1:5000", "10.0.0.1:5001"} {
		req := httptest.NewRequest("GET", "/api/quiz-status", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		want := http.StatusOK
		if i == 1 {
			want = http.StatusTooManyRequests
		}
		if rr.Code != want {
			t.Errorf("%s: status = %d, want %d", addr, rr.Code, want)
		}
	}
}

// TestSecurityHeaders verifies headers are set.
func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options", "Referrer-Policy"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
}

func csrfTestHandler() http.Handler {
	key := bytes.Repeat([]byte{7}, 32)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(CSRFToken(r)))
	})
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return CSRF(CSRFConfig{AuthKey: key})(mux)
}

// TestCSRF_Exemptions verifies JSON and DELETE bypass the token check.
func TestCSRF_Exemptions(t *testing.T) {
	h := csrfTestHandler()

	req := httptest.NewRequest("POST", "/submit", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Errorf("JSON POST status = %d, want 204", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("DELETE", "/submit", nil))
	if rr.Code != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", rr.Code)
	}
}

// TestCSRF_MultipartNeedsToken verifies multipart posts are rejected without a token
// and accepted with the token issued on a GET.
func TestCSRF_MultipartNeedsToken(t *testing.T) {
	h := csrfTestHandler()

	newUpload := func() *http.Request {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		mw.WriteField("playerPhone", "0912")
		mw.Close()
		req := httptest.NewRequest("POST", "/submit", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, newUpload())
	if rr.Code != http.StatusForbidden {
		t.Fatalf("tokenless multipart status = %d, want 403", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"success":false`) {
		t.Errorf("body = %q, want JSON failure", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/token", nil))
	token := rr.Body.String()
	if token == "" {
		t.Fatal("empty CSRF token")
	}
	cookies := rr.Result().Cookies()

	req := newUpload()
	req.Header.Set("X-CSRF-Token", token)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Errorf("multipart with token status = %d, want 204 (body %q)", rr.Code, rr.Body.String())
	}
}

// TestChain_Order verifies the last middleware runs first.
func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.NotFoundHandler(), mark("inner"), mark("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if strings.Join(order, ",") != "outer,inner" {
		t.Errorf("order = %v, want outer,inner", order)
	}
}
