package hrsdk

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/staffdeck/staffdeck/pkg/cryptox"
)

// Storage keys. The user record is stored JSON-serialized under its own key
// so a corrupt user entry can be dropped without touching the tokens.
const (
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
	keyUser         = "user"
)

// SessionStore is durable storage for the single active session. Exactly one
// session may be active per store; Save replaces whatever was there.
//
// Only two components may write it: the HTTP client (token refresh) and the
// auth state (session lifecycle).
type SessionStore interface {
	Save(sess Session) error
	Load() (*Session, error)
	Clear() error
}

// ============================================================================
// FileStore
// ============================================================================

// FileStore persists the session as a JSON key-value file on disk, optionally
// sealed at rest with AES-256-GCM.
type FileStore struct {
	mu     sync.Mutex
	path   string
	sealed bool
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithSealing encrypts the file at rest using the cryptox master key.
func WithSealing() FileStoreOption {
	return func(fs *FileStore) { fs.sealed = true }
}

// NewFileStore creates a session store backed by the file at path.
func NewFileStore(path string, opts ...FileStoreOption) *FileStore {
	fs := &FileStore{path: path}
	for _, opt := range opts {
		opt(fs)
	}
	return fs
}

func (fs *FileStore) Save(sess Session) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	entries := map[string]string{
		keyAccessToken:  sess.AccessToken,
		keyRefreshToken: sess.RefreshToken,
	}
	if sess.User != nil {
		userJSON, err := json.Marshal(sess.User)
		if err != nil {
			return fmt.Errorf("failed to serialize user: %w", err)
		}
		entries[keyUser] = string(userJSON)
	}

	return fs.write(entries)
}

// Load reads the persisted session. A corrupt stored user is treated as
// absent: the user entry is removed, the tokens stay untouched and no error
// is returned. A missing file yields (nil, nil).
func (fs *FileStore) Load() (*Session, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	entries, err := fs.read()
	if err != nil {
		// Unreadable session file: treat as absent and drop it so the next
		// Save starts clean.
		_ = os.Remove(fs.path)
		return nil, nil
	}
	if entries == nil {
		return nil, nil
	}

	sess := &Session{
		AccessToken:  entries[keyAccessToken],
		RefreshToken: entries[keyRefreshToken],
	}

	if raw, ok := entries[keyUser]; ok && raw != "" {
		var user User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			delete(entries, keyUser)
			_ = fs.write(entries)
		} else {
			sess.User = &user
		}
	}

	return sess, nil
}

func (fs *FileStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session file: %w", err)
	}
	return nil
}

func (fs *FileStore) write(entries map[string]string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	if fs.sealed {
		data, err = cryptox.Seal(data)
		if err != nil {
			return fmt.Errorf("failed to seal session: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := os.WriteFile(fs.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (fs *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	if fs.sealed {
		data, err = cryptox.Open(data)
		if err != nil {
			return nil, err
		}
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ============================================================================
// MemoryStore
// ============================================================================

// MemoryStore keeps the session in memory. Used by tests and by tooling that
// should not persist tokens.
type MemoryStore struct {
	mu   sync.Mutex
	sess *Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (ms *MemoryStore) Save(sess Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	cp := sess
	ms.sess = &cp
	return nil
}

func (ms *MemoryStore) Load() (*Session, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.sess == nil {
		return nil, nil
	}
	cp := *ms.sess
	return &cp, nil
}

func (ms *MemoryStore) Clear() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.sess = nil
	return nil
}
