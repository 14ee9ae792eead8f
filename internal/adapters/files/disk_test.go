package files

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	d, err := NewDiskStore(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	d.now = func() time.Time { return time.UnixMilli(1767225600000) }
	return d
}

// TestDiskStore_Save verifies naming, contents and the returned URL.
func TestDiskStore_Save(t *testing.T) {
	d := newTestStore(t)

	url, err := d.Save("result.pdf", strings.NewReader("PDF"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "/uploads/1767225600000-result.pdf" {
		t.Errorf("url = %q", url)
	}
	b, err := os.ReadFile(filepath.Join(d.Dir(), "1767225600000-result.pdf"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(b) != "PDF" {
		t.Errorf("contents = %q, want PDF", b)
	}
}

// TestDiskStore_Save_Collision verifies a second upload in the same millisecond gets a suffix.
func TestDiskStore_Save_Collision(t *testing.T) {
	d := newTestStore(t)

	first, err := d.Save("a.png", strings.NewReader("1"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := d.Save("a.png", strings.NewReader("2"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first == second {
		t.Fatalf("collision overwrote: both %q", first)
	}
	if second != "/uploads/1767225600000-a-1.png" {
		t.Errorf("second = %q", second)
	}
	b, _ := os.ReadFile(filepath.Join(d.Dir(), "1767225600000-a.png"))
	if string(b) != "1" {
		t.Errorf("first file contents = %q, want 1", b)
	}
}

// TestDiskStore_Save_SanitizesName verifies client paths cannot escape the directory.
func TestDiskStore_Save_SanitizesName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"../../etc/passwd", "/uploads/1767225600000-passwd"},
		{`C:\Users\me\scan.jpg`, "/uploads/1767225600000-scan.jpg"},
		{"", "/uploads/1767225600000-file"},
		{"..", "/uploads/1767225600000-file"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d := newTestStore(t)
			url, err := d.Save(tt.in, strings.NewReader("x"))
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			if url != tt.want {
				t.Errorf("url = %q, want %q", url, tt.want)
			}
		})
	}
}

// TestDiskStore_Save_ReadError verifies a failed copy leaves no file behind.
func TestDiskStore_Save_ReadError(t *testing.T) {
	d := newTestStore(t)
	if _, err := d.Save("x.pdf", failingReader{}); err == nil {
		t.Fatal("expected error")
	}
	entries, _ := os.ReadDir(d.Dir())
	if len(entries) != 0 {
		t.Errorf("left %d files behind", len(entries))
	}
}

// TestDiskStore_Remove verifies removal, missing-file tolerance and path checks.
func TestDiskStore_Remove(t *testing.T) {
	d := newTestStore(t)
	url, err := d.Save("r.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := d.Remove(url); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(d.Dir(), strings.TrimPrefix(url, URLPrefix))); !os.IsNotExist(err) {
		t.Errorf("file still exists: %v", err)
	}
	if err := d.Remove(url); err != nil {
		t.Errorf("Remove(missing) = %v, want nil", err)
	}

	for _, bad := range []string{"/static/app.js", "/uploads/../db.sqlite", "/uploads/", "relative.pdf"} {
		if err := d.Remove(bad); !errors.Is(err, ErrOutsideStore) {
			t.Errorf("Remove(%q) = %v, want ErrOutsideStore", bad, err)
		}
	}
}
