package web

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

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
	"clansite/internal/adapters/storage/storagetest"
	"clansite/internal/application/orchestrators"
	"clansite/internal/config"
	"clansite/internal/domain/account"
)

const (
	testAdminUser = "admin"
	testAdminPass = "admin123"
)

// recordingSender captures every send for assertions.
type recordingSender struct {
	mu   sync.Mutex
	sent []email.SendRequest
	err  error
}

func (s *recordingSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return email.SendResult{}, s.err
	}
	s.sent = append(s.sent, req)
	return email.SendResult{MessageID: "msg-test"}, nil
}

func (s *recordingSender) requests() []email.SendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]email.SendRequest(nil), s.sent...)
}

// testEnv is a full server over an in-memory database and temp directories.
type testEnv struct {
	t         *testing.T
	srv       *Server
	db        *sql.DB
	stores    Stores
	sender    *recordingSender
	uploadDir string
	staticDir string
}

// newTestEnv builds a server with CSRF and rate limiting off unless opts turn them on.
func newTestEnv(t *testing.T, opts ...func(*Config)) *testEnv {
	t.Helper()
	account.HashCost = bcrypt.MinCost

	db := storagetest.NewDB(t)
	stores := Stores{
		BookingStore: bookingStore.NewSQLiteStore(db),
		InquiryStore: inquiryStore.NewSQLiteStore(db),
		QuizStore:    quizStore.NewSQLiteStore(db),
		ResultStore:  resultStore.NewSQLiteStore(db),
		AdminStore:   accountStore.NewSQLiteStore(db),
		SettingStore: settingStore.NewSQLiteStore(db),
	}
	if _, err := orchestrators.ExecuteSeedAdmin(context.Background(), orchestrators.SeedAdminInput{
		Username: testAdminUser, Password: testAdminPass,
	}, orchestrators.SeedAdminDeps{AdminStore: stores.AdminStore}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	uploadDir := filepath.Join(t.TempDir(), "uploads")
	fileStore, err := files.NewDiskStore(uploadDir)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	staticDir := t.TempDir()
	writeFile(t, filepath.Join(staticDir, "index.html"), "<h1>Clan King</h1>")
	writeFile(t, filepath.Join(staticDir, "admin-login.html"), "<form>login</form>")
	writeFile(t, filepath.Join(staticDir, "admin", "dashboard.html"), "<h1>Dashboard</h1>")

	cfg := Config{
		StaticDir:     staticDir,
		QuizFlagScope: config.QuizScopeGlobal,
		EmailAddress:  "noreply@clan.example",
	}
	for _, o := range opts {
		o(&cfg)
	}

	sender := &recordingSender{}
	srv := NewServer(cfg, Deps{
		Stores:    stores,
		Files:     fileStore,
		Sender:    sender,
		Sessions:  middleware.NewMemorySessionStore(),
		Collector: perf.NewCollector(1000),
	})
	t.Cleanup(srv.Close)

	return &testEnv{t: t, srv: srv, db: db, stores: stores, sender: sender, uploadDir: uploadDir, staticDir: staticDir}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// do sends a request. A string body is sent raw; any other non-nil body is JSON-encoded.
func (e *testEnv) do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	rr := httptest.NewRecorder()
	e.srv.ServeHTTP(rr, req)
	return rr
}

// upload sends a multipart form; fileName "" omits the file part.
func (e *testEnv) upload(path string, fields map[string]string, fileName, fileBody string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()
	return e.uploadWithHeader(path, nil, fields, fileName, fileBody, cookies...)
}

// uploadWithHeader is upload with extra request headers.
func (e *testEnv) uploadWithHeader(path string, header http.Header, fields map[string]string, fileName, fileBody string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("resultFile", fileName)
		if err != nil {
			e.t.Fatal(err)
		}
		io.WriteString(fw, fileBody)
	}
	mw.Close()

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	rr := httptest.NewRecorder()
	e.srv.ServeHTTP(rr, req)
	return rr
}

// login signs in as the seeded admin and returns the session cookie.
func (e *testEnv) login(cookies ...*http.Cookie) *http.Cookie {
	e.t.Helper()
	rr := e.do("POST", "/admin/login", map[string]string{"username": testAdminUser, "password": testAdminPass}, cookies...)
	if rr.Code != http.StatusOK {
		e.t.Fatalf("login status = %d body=%s", rr.Code, rr.Body.String())
	}
	c := sessionCookie(rr)
	if c == nil {
		e.t.Fatal("login did not set a session cookie")
	}
	return c
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

// decodeBody parses a JSON object response.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return m
}

// expectSuccess asserts status and the success flag.
func expectSuccess(t *testing.T, rr *httptest.ResponseRecorder, status int, success bool) map[string]any {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, status, rr.Body.String())
	}
	body := decodeBody(t, rr)
	if body["success"] != success {
		t.Fatalf("success = %v, want %v (body %s)", body["success"], success, rr.Body.String())
	}
	return body
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
