package sink

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dmitrymomot/errorkit/pkg/report"
)

// FileConfig configures a rotating file sink.
type FileConfig struct {
	// Path is the active log file. Rotated files are kept next to it.
	Path string `env:"LOG_FILE_PATH" envDefault:"logs/errors.html"`

	// MaxFiles caps the number of files kept, the active one included.
	// With 1 only the active file survives a rotation.
	MaxFiles int `env:"LOG_MAX_FILES" envDefault:"30"`

	// MaxSizeMB rotates the file early when it grows past this size.
	MaxSizeMB int `env:"LOG_FILE_MAX_SIZE" envDefault:"100"`
}

// FileSink appends reports to a file rotated daily and by size.
type FileSink struct {
	out    *lumberjack.Logger
	now    func() time.Time
	name   string
	day    string
	single bool
	mu     sync.Mutex
}

// backupTimeFormat is the timestamp lumberjack puts into rotated file names.
const backupTimeFormat = "2006-01-02T15-04-05.000"

// NewFileSink creates the sink and its parent directory.
func NewFileSink(name string, cfg FileConfig) (*FileSink, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if cfg.Path == "" {
		return nil, ErrNoPath
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = 30
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 100
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}

	// lumberjack treats MaxBackups 0 as "keep all", so a single file is
	// enforced by pruneBackups instead.
	return &FileSink{
		name:   name,
		now:    time.Now,
		single: cfg.MaxFiles == 1,
		out: &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: max(cfg.MaxFiles-1, 1),
			LocalTime:  true,
		},
	}, nil
}

func (s *FileSink) Name() string { return s.name }

// Deliver appends the document followed by a newline.
func (s *FileSink) Deliver(_ context.Context, _ *report.Event, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rotateDaily(); err != nil {
		return err
	}
	if _, err := s.out.Write(append(doc.Bytes(), '\n')); err != nil {
		return err
	}
	if s.single {
		return s.pruneBackups()
	}
	return nil
}

// pruneBackups removes every rotated copy of the active file.
func (s *FileSink) pruneBackups() error {
	dir := filepath.Dir(s.out.Filename)
	base := filepath.Base(s.out.Filename)
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext) + "-"

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ext)
		if _, err := time.Parse(backupTimeFormat, stamp); err != nil {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// rotateDaily starts a new file on the first write of a day. A file left
// from an earlier day by a previous process is rotated too.
func (s *FileSink) rotateDaily() error {
	today := s.now().Format(time.DateOnly)
	if s.day == "" {
		s.day = today
		if fi, err := os.Stat(s.out.Filename); err == nil && fi.Size() > 0 &&
			fi.ModTime().Format(time.DateOnly) != today {
			return s.out.Rotate()
		}
		return nil
	}
	if s.day == today {
		return nil
	}
	s.day = today
	return s.out.Rotate()
}

// Close closes the active file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Close()
}
