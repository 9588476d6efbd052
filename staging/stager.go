package staging

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

const (
	filePrefix       = "whisperd-"
	defaultExtension = ".wav"
	maxExtensionLen  = 10
)

// Stager writes uploads into a directory.
type Stager struct {
	dir string
}

// New creates a Stager for cfg.Dir.
func New(cfg Config) *Stager {
	cfg.ApplyDefaults()
	return &Stager{dir: cfg.Dir}
}

// Dir returns the staging directory.
func (s *Stager) Dir() string { return s.dir }

// Stage copies r into a new file named after filename's extension. On any
// error the partial file is removed and no File is returned.
func (s *Stager) Stage(r io.Reader, filename string) (*File, error) {
	ext := Extension(filename)
	path := filepath.Join(s.dir, filePrefix+uuid.NewString()+ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write staged file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("sync staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close staged file: %w", err)
	}
	return &File{path: path, ext: ext}, nil
}

// Extension returns the extension to stage filename under: its own when it
// is a short alphanumeric suffix, ".wav" otherwise.
func Extension(filename string) string {
	ext := filepath.Ext(filepath.Base(filename))
	if len(ext) < 2 || len(ext) > maxExtensionLen+1 {
		return defaultExtension
	}
	for _, r := range ext[1:] {
		if !isAlnum(r) {
			return defaultExtension
		}
	}
	return ext
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// File is a staged upload.
type File struct {
	path string
	ext  string

	once      sync.Once
	removeErr error
}

// Path returns the staged file's path.
func (f *File) Path() string { return f.path }

// Ext returns the extension the file was staged with.
func (f *File) Ext() string { return f.ext }

// Remove deletes the file. Only the first call acts; later calls return its
// result. A file that is already gone is not an error.
func (f *File) Remove() error {
	f.once.Do(func() {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			f.removeErr = err
		}
	})
	return f.removeErr
}
