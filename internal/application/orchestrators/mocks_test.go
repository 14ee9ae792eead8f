package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"sync"
	"time"

	"clansite/internal/adapters/email"
	"clansite/internal/adapters/files"
	"clansite/internal/domain/account"
	"clansite/internal/domain/booking"
	"clansite/internal/domain/inquiry"
	"clansite/internal/domain/quiz"
	"clansite/internal/domain/result"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testNow() time.Time { return testTime }

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
}

var errStoreDown = errors.New("store down")

// --- bookings ---

type mockBookingStore struct {
	saved   []booking.Booking
	reviews map[string][2]string
	deleted []string
	err     error
}

func (m *mockBookingStore) Save(_ context.Context, b booking.Booking) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, b)
	return nil
}

func (m *mockBookingStore) List(_ context.Context) ([]booking.Booking, error) {
	return m.saved, m.err
}

func (m *mockBookingStore) UpdateReview(_ context.Context, id, status, notes string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.reviews[id]; !ok {
		return booking.ErrNotFound
	}
	m.reviews[id] = [2]string{status, notes}
	return nil
}

func (m *mockBookingStore) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// --- inquiries ---

type mockInquiryStore struct {
	saved     []inquiry.Inquiry
	responded map[string]time.Time
	err       error
}

func (m *mockInquiryStore) Save(_ context.Context, i inquiry.Inquiry) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, i)
	return nil
}

func (m *mockInquiryStore) List(_ context.Context) ([]inquiry.Inquiry, error) {
	return m.saved, m.err
}

func (m *mockInquiryStore) Respond(_ context.Context, id, _, _ string, at time.Time) error {
	if _, ok := m.responded[id]; !ok {
		return inquiry.ErrNotFound
	}
	m.responded[id] = at
	return nil
}

func (m *mockInquiryStore) Delete(_ context.Context, _ string) error { return m.err }

// --- quiz ---

type mockQuizStore struct {
	saved []quiz.Submission
	ids   map[string]bool
	err   error
}

func (m *mockQuizStore) Save(_ context.Context, s quiz.Submission) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, s)
	return nil
}

func (m *mockQuizStore) List(_ context.Context) ([]quiz.Submission, error) {
	return m.saved, m.err
}

func (m *mockQuizStore) Delete(_ context.Context, id string) error {
	if !m.ids[id] {
		return quiz.ErrNotFound
	}
	delete(m.ids, id)
	return nil
}

// --- results ---

type mockResultStore struct {
	rows      map[string]result.Result
	saveErr   error
	updateErr error
}

func newMockResultStore(rows ...result.Result) *mockResultStore {
	m := &mockResultStore{rows: make(map[string]result.Result)}
	for _, r := range rows {
		m.rows[r.ID] = r
	}
	return m
}

func (m *mockResultStore) GetByID(_ context.Context, id string) (result.Result, error) {
	r, ok := m.rows[id]
	if !ok {
		return result.Result{}, result.ErrNotFound
	}
	return r, nil
}

func (m *mockResultStore) Save(_ context.Context, r result.Result) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rows[r.ID] = r
	return nil
}

func (m *mockResultStore) Update(_ context.Context, r result.Result) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.rows[r.ID]; !ok {
		return result.ErrNotFound
	}
	m.rows[r.ID] = r
	return nil
}

func (m *mockResultStore) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return result.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *mockResultStore) ListByPhone(_ context.Context, phone string) ([]result.Result, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	var out []result.Result
	for _, r := range m.rows {
		if r.PlayerPhone == phone {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockResultStore) List(_ context.Context) ([]result.Result, error) {
	return nil, nil
}

// mockFileStore keeps files in memory keyed by URL.
type mockFileStore struct {
	files     map[string]string
	next      int
	saveErr   error
	removeErr error
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{files: make(map[string]string)}
}

func (m *mockFileStore) Save(name string, src io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	m.next++
	url := files.URLPrefix + strconv.Itoa(m.next) + "-" + name
	m.files[url] = string(data)
	return url, nil
}

func (m *mockFileStore) Remove(url string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	delete(m.files, url)
	return nil
}

func upload(name, body string) *UploadedFile {
	return &UploadedFile{Name: name, Body: bytes.NewBufferString(body)}
}

// --- admin ---

type mockAdminStore struct {
	admins map[string]account.Admin
	err    error
}

func (m *mockAdminStore) GetByUsername(_ context.Context, username string) (account.Admin, error) {
	if m.err != nil {
		return account.Admin{}, m.err
	}
	a, ok := m.admins[username]
	if !ok {
		return account.Admin{}, account.ErrNotFound
	}
	return a, nil
}

func (m *mockAdminStore) CreateIfMissing(_ context.Context, a account.Admin) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.admins[a.Username]; ok {
		return false, nil
	}
	m.admins[a.Username] = a
	return true, nil
}

// --- email ---

type mockSender struct {
	mu   sync.Mutex
	sent []email.SendRequest
	err  error
}

func (m *mockSender) Send(ctx context.Context, req email.SendRequest) (email.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return email.SendResult{}, err
	}
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "msg-1", SentAt: testTime}, nil
}

func runNow(task func()) { task() }
