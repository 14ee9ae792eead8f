package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clansite/internal/adapters/http/perf"
)

func okHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

// TestTimingMiddleware_EmitsEntry verifies that a request entry is recorded.
func TestTimingMiddleware_EmitsEntry(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector, 0)(okHandler(http.StatusOK))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/quiz-status", nil))

	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

// TestTimingMiddleware_SkipsAssets verifies uploads and front-end files are excluded.
func TestTimingMiddleware_SkipsAssets(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector, 0)(okHandler(http.StatusOK))

	for _, path := range []string{"/uploads/1-a.pdf", "/", "/index.html", "/css/site.css"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
		if rr.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, rr.Code)
		}
	}
	if collector.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded = %d, want 0 (assets excluded)", collector.TotalRecorded())
	}
}

// TestTimingMiddleware_GroupsByPattern verifies the route pattern is used as the path.
func TestTimingMiddleware_GroupsByPattern(t *testing.T) {
	collector := perf.NewCollector(100)
	mux := http.NewServeMux()
	mux.Handle("GET /api/results/{phone}", okHandler(http.StatusOK))
	handler := Timing(collector, 0)(mux)

	for _, phone := range []string{"0912", "0935", "0999"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/results/"+phone, nil))
	}

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 {
		t.Fatalf("SlowestPaths = %+v, want one grouped route", snap.SlowestPaths)
	}
	if snap.SlowestPaths[0].Path != "GET /api/results/{phone}" || snap.SlowestPaths[0].Count != 3 {
		t.Errorf("SlowestPaths[0] = %+v", snap.SlowestPaths[0])
	}
}

// TestTimingMiddleware_PatternThroughCopies verifies the pattern survives
// middlewares that replace the request.
func TestTimingMiddleware_PatternThroughCopies(t *testing.T) {
	collector := perf.NewCollector(100)
	mux := http.NewServeMux()
	mux.Handle("DELETE /admin/delete-result/{id}", okHandler(http.StatusOK))
	copying := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), Session{})))
		})
	}
	handler := Chain(mux, CaptureRoute, copying, func(h http.Handler) http.Handler { return Timing(collector, 0)(h) })

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("DELETE", "/admin/delete-result/abc", nil))

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "DELETE /admin/delete-result/{id}" {
		t.Errorf("SlowestPaths = %+v", snap.SlowestPaths)
	}
}

// TestTimingMiddleware_CapturesStatusCode verifies the status code is captured.
func TestTimingMiddleware_CapturesStatusCode(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector, 0)(okHandler(http.StatusInternalServerError))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/admin/data", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if snap.ServerErrors != 1 {
		t.Errorf("ServerErrors = %d, want 1", snap.ServerErrors)
	}
}

// TestTimingMiddleware_NilCollector verifies middleware works without a collector.
func TestTimingMiddleware_NilCollector(t *testing.T) {
	handler := Timing(nil, time.Second)(okHandler(http.StatusOK))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/quiz-status", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}
