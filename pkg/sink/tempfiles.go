package sink

import (
	"errors"
	"os"
	"sync"
)

// TempFiles tracks temporary files so that anything a failed or interrupted
// delivery left behind is removed on Close.
type TempFiles struct {
	files  map[string]struct{}
	dir    string
	mu     sync.Mutex
	closed bool
}

// NewTempFiles creates a registry creating files in dir (os.TempDir when empty).
func NewTempFiles(dir string) *TempFiles {
	return &TempFiles{dir: dir, files: make(map[string]struct{})}
}

// Create opens a new temporary file and registers it.
func (t *TempFiles) Create(pattern string) (*os.File, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, os.ErrClosed
	}
	f, err := os.CreateTemp(t.dir, pattern)
	if err != nil {
		return nil, err
	}
	t.files[f.Name()] = struct{}{}
	return f, nil
}

// Remove closes and deletes f and forgets it.
func (t *TempFiles) Remove(f *os.File) error {
	t.mu.Lock()
	delete(t.files, f.Name())
	t.mu.Unlock()

	err := f.Close()
	if errors.Is(err, os.ErrClosed) {
		err = nil
	}
	if rerr := os.Remove(f.Name()); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
		err = errors.Join(err, rerr)
	}
	return err
}

// Len returns the number of files still registered.
func (t *TempFiles) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.files)
}

// Close deletes every registered file. Further Create calls fail.
func (t *TempFiles) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	var errs []error
	for name := range t.files {
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
		delete(t.files, name)
	}
	return errors.Join(errs...)
}
