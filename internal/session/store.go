// Package session persists the admin bearer token between console runs.
//
// The store holds exactly one value: the opaque token string returned by
// POST /admin/login. Its presence is the only authorization signal the
// console uses; expiry is discovered when the API answers 401.
package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	conerr "github.com/felixgeelhaar/eduplay-console/internal/errors"
)

// TokenFile is the fixed key under which the token is persisted.
const TokenFile = "admin_token"

// Store defines the interface for token persistence.
//
// Implementations must be safe for concurrent use: the terminal console
// reads the token from request goroutines while the view may clear it.
type Store interface {
	// Token returns the stored token and whether one is present.
	Token() (string, bool)

	// SetToken replaces the stored token.
	SetToken(token string) error

	// Clear removes the token. Clearing an empty store is not an error.
	Clear() error
}

// FileStore keeps the token in a single file inside the console home
// directory. The value survives process restarts.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store rooted at dir. The directory is created on
// the first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, TokenFile)}
}

// Path returns the token file location.
func (s *FileStore) Path() string {
	return s.path
}

// Token reads the token file. A missing or blank file means "absent".
func (s *FileStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}

	token := strings.TrimSpace(string(data))
	return token, token != ""
}

// SetToken writes the token with owner-only permissions.
func (s *FileStore) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return conerr.New(conerr.ErrCodeSessionStore, "refusing to store an empty token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return conerr.Wrap(conerr.ErrCodeDirectoryFailed, "failed to create console home", err)
	}

	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return conerr.Wrap(conerr.ErrCodeFileWriteFailed, "failed to save session token", err).
			WithSuggestion("Check permissions on " + filepath.Dir(s.path))
	}
	return nil
}

// Clear deletes the token file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return conerr.Wrap(conerr.ErrCodeSessionStore, "failed to clear session token", err)
	}
	return nil
}

// MemoryStore keeps the token in process memory. Used by tests and by the
// mock server demo.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore returns a store, optionally pre-populated with token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

func (m *MemoryStore) SetToken(token string) error {
	if token == "" {
		return conerr.New(conerr.ErrCodeSessionStore, "refusing to store an empty token")
	}
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}

// LoggedIn reports whether s holds a token.
func LoggedIn(s Store) bool {
	_, ok := s.Token()
	return ok
}

// Require returns the stored token or a not-logged-in error.
func Require(s Store) (string, error) {
	token, ok := s.Token()
	if !ok {
		return "", conerr.NewNotLoggedInError()
	}
	return token, nil
}
