// Package files stores uploaded result files on local disk and hands back
// the public URL they are served from.
package files

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// URLPrefix is the public path uploaded files are served under.
const URLPrefix = "/uploads/"

// maxCollisionRetries bounds the counter suffix tried when two uploads land
// in the same millisecond with the same name.
const maxCollisionRetries = 100

// ErrOutsideStore is returned for URLs that do not name a file in the store.
var ErrOutsideStore = errors.New("file URL is not under the upload directory")

// DiskStore writes files into a single directory.
type DiskStore struct {
	dir string
	now func() time.Time
}

// NewDiskStore creates the directory if needed.
// PRE: dir is a writable path
// POST: dir exists
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, now: time.Now}, nil
}

// Dir returns the directory files are written to.
func (d *DiskStore) Dir() string {
	return d.dir
}

// Save copies src into a new file named "<unix-millis>-<base name>" and
// returns its public URL. Existing files are never overwritten.
// PRE: src is readable
// POST: on success the URL names a file that exists; on failure nothing is left behind
func (d *DiskStore) Save(originalName string, src io.Reader) (string, error) {
	base := sanitizeName(originalName)
	stamp := strconv.FormatInt(d.now().UnixMilli(), 10)

	var f *os.File
	var name string
	for i := 0; i < maxCollisionRetries; i++ {
		name = stamp + "-" + base
		if i > 0 {
			ext := filepath.Ext(base)
			name = fmt.Sprintf("%s-%s-%d%s", stamp, strings.TrimSuffix(base, ext), i, ext)
		}
		var err error
		f, err = os.OpenFile(filepath.Join(d.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("create upload file: %w", err)
		}
		f = nil
	}
	if f == nil {
		return "", fmt.Errorf("create upload file: too many name collisions for %q", base)
	}

	path := f.Name()
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return URLPrefix + name, nil
}

// Remove deletes the file behind a public URL. A file that is already gone
// is not an error.
// PRE: fileURL was returned by Save
func (d *DiskStore) Remove(fileURL string) error {
	name, ok := strings.CutPrefix(fileURL, URLPrefix)
	if !ok || name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return ErrOutsideStore
	}
	err := os.Remove(filepath.Join(d.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// sanitizeName keeps only the final path element of a client-supplied name.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "file"
	}
	return name
}
