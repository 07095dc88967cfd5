package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/formcgi/server/internal/models"
)

// Store defines the interface for the upload directory.
type Store interface {
	// EnsureDir creates the directory if it is absent. An existing
	// directory is not an error.
	EnsureDir() error
	// Save writes r under name, replacing any previous file of that name.
	Save(name string, r io.Reader) (*models.StoredFile, error)
	// Open returns the stored content of name.
	Open(name string) (io.ReadCloser, error)
	// Dir returns the directory files are written into.
	Dir() string
	// DirExists reports whether the directory has been created yet.
	DirExists() (bool, error)
}

// LocalStore implements Store using the local filesystem.
type LocalStore struct {
	uploadDir     string
	createParents bool
}

// Option configures a LocalStore.
type Option func(*LocalStore)

// WithParents makes EnsureDir create missing parent directories too.
func WithParents() Option {
	return func(s *LocalStore) {
		s.createParents = true
	}
}

// NewLocalStore creates a new LocalStore rooted at uploadDir. The directory
// is not touched until EnsureDir is called.
func NewLocalStore(uploadDir string, opts ...Option) *LocalStore {
	s := &LocalStore{uploadDir: uploadDir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the upload directory.
func (s *LocalStore) Dir() string {
	return s.uploadDir
}

// DirExists reports whether the upload directory exists. A path that
// exists but is not a directory is an error.
func (s *LocalStore) DirExists() (bool, error) {
	info, err := os.Stat(s.uploadDir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking upload directory: %w", err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("upload directory %s is not a directory", s.uploadDir)
	}
	return true, nil
}

// EnsureDir creates the upload directory if needed. Losing a creation race
// to another caller counts as success.
func (s *LocalStore) EnsureDir() error {
	var err error
	if s.createParents {
		err = os.MkdirAll(s.uploadDir, 0755)
	} else {
		err = os.Mkdir(s.uploadDir, 0755)
	}
	if err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("creating upload directory: %w", err)
	}
	if errors.Is(err, fs.ErrExist) {
		info, statErr := os.Stat(s.uploadDir)
		if statErr != nil {
			return fmt.Errorf("checking upload directory: %w", statErr)
		}
		if !info.IsDir() {
			return fmt.Errorf("upload directory %s is not a directory", s.uploadDir)
		}
	}
	return nil
}

// Save writes r to a file named name directly inside the upload directory.
func (s *LocalStore) Save(name string, r io.Reader) (*models.StoredFile, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing file: %w", err)
	}

	return &models.StoredFile{
		SanitizedName: name,
		AbsolutePath:  path,
		BytesWritten:  size,
	}, nil
}

// Open opens a stored file for reading.
func (s *LocalStore) Open(name string) (io.ReadCloser, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return f, nil
}

// path resolves name to a direct child of the upload directory.
func (s *LocalStore) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid file name: %q", name)
	}
	dir, err := filepath.Abs(s.uploadDir)
	if err != nil {
		return "", fmt.Errorf("resolving upload directory: %w", err)
	}
	return filepath.Join(dir, name), nil
}
