// mock_storage.go - Mock storage implementation for testing
package testutil

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/formcgi/server/internal/models"
	"github.com/formcgi/server/internal/storage"
)

// MockStorage implements storage.Store in memory for testing
type MockStorage struct {
	mu       sync.RWMutex
	dir      string
	fileData map[string][]byte

	// EnsureDirErr and SaveErr are returned by the matching calls when set.
	EnsureDirErr error
	SaveErr      error

	EnsureDirCalls int
	SaveCalls      int
}

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		dir:      "/mock/upload",
		fileData: make(map[string][]byte),
	}
}

func (m *MockStorage) Dir() string {
	return m.dir
}

// DirExists reports true once EnsureDir has succeeded.
func (m *MockStorage) DirExists() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.EnsureDirCalls > 0 && m.EnsureDirErr == nil, nil
}

func (m *MockStorage) EnsureDir() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnsureDirCalls++
	return m.EnsureDirErr
}

func (m *MockStorage) Save(name string, r io.Reader) (*models.StoredFile, error) {
	m.mu.Lock()
	m.SaveCalls++
	saveErr := m.SaveErr
	m.mu.Unlock()
	if saveErr != nil {
		return nil, saveErr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.fileData[name] = data
	return &models.StoredFile{
		SanitizedName: name,
		AbsolutePath:  m.dir + "/" + name,
		BytesWritten:  int64(len(data)),
	}, nil
}

func (m *MockStorage) Open(name string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.fileData[name]
	if !ok {
		return nil, errors.New("file not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Files returns the names currently stored.
func (m *MockStorage) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.fileData))
	for name := range m.fileData {
		names = append(names, name)
	}
	return names
}

// Ensure MockStorage implements storage.Store
var _ storage.Store = (*MockStorage)(nil)
