package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/mediadrop/mediadrop/pkg/domain"
)

// ErrTooLarge is returned by Save when the stream exceeds the byte limit.
var ErrTooLarge = errors.New("upload exceeds size limit")

// Store is a flat-directory file store. All names are reduced to their
// base component before touching the filesystem, so callers can pass
// untrusted input without risking traversal.
//
// There is no locking: two concurrent saves under the same name race
// with last-writer-wins semantics, which is the documented behaviour
// for caller-suggested names.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore creates the storage directory if missing and returns a Store.
func NewStore(fs afero.Fs, dir string) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Store{fs: fs, dir: dir}, nil
}

// Dir returns the storage directory path.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Save streams r into the named file, enforcing limit bytes when limit
// is positive, and returns the stored file's descriptor. On any failure
// the partial file is removed so no truncated upload is ever
// referencable.
func (s *Store) Save(name string, r io.Reader, limit int64) (*domain.StoredFile, error) {
	target := s.path(name)

	out, err := s.fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", target, err)
	}

	src := r
	if limit > 0 {
		// One extra byte so an oversized stream is detectable.
		src = io.LimitReader(r, limit+1)
	}

	written, err := io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && limit > 0 && written > limit {
		err = ErrTooLarge
	}
	if err != nil {
		_ = s.fs.Remove(target)
		return nil, err
	}

	stored := &domain.StoredFile{
		Filename: filepath.Base(name),
		Size:     written,
		ModTime:  time.Now(),
	}
	if info, serr := s.fs.Stat(target); serr == nil {
		stored.ModTime = info.ModTime()
	}

	return stored, nil
}

// Delete removes the named file. A missing file is not an error;
// deletion is idempotent.
func (s *Store) Delete(name string) error {
	if err := s.fs.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Open returns the named file and its FileInfo for serving.
func (s *Store) Open(name string) (afero.File, os.FileInfo, error) {
	f, err := s.fs.Open(s.path(name))
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return f, info, nil
}

// Stat stats a single entry in the storage directory.
func (s *Store) Stat(name string) (os.FileInfo, error) {
	return s.fs.Stat(s.path(name))
}

// ListNames returns the names of all entries in the storage directory.
// Entries are stat'ed separately by the caller so a file vanishing
// between list and stat stays a per-entry concern.
func (s *Store) ListNames() ([]string, error) {
	d, err := s.fs.Open(s.dir)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	return d.Readdirnames(-1)
}
