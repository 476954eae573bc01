// Package session owns the client-held session state: the bearer token and
// the identity it belongs to. A session is created at login, read-only
// everywhere else, and cleared on logout or when the backend answers 401.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Session is the persisted login state.
type Session struct {
	Token    string    `json:"token"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name,omitempty"`
	UserID   int64     `json:"user_id,omitempty"`
	SavedAt  time.Time `json:"saved_at"`
}

// Manager loads, saves, and clears the session file. It implements the API
// client's TokenSource, so a 401 clears the stored credentials.
type Manager struct {
	path string
	log  zerolog.Logger

	mu      sync.Mutex
	current *Session
	loaded  bool
}

// DefaultPath returns the session file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "receipt-service", "session.json"), nil
}

// NewManager creates a manager for the given session file path.
func NewManager(path string, log zerolog.Logger) *Manager {
	return &Manager{path: path, log: log}
}

// Current returns the active session, or nil when not logged in.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadLocked()
	if m.current == nil {
		return nil
	}
	copied := *m.current
	return &copied
}

// Save persists a new session, replacing any existing one.
func (m *Manager) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.SavedAt = time.Now().UTC()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	m.current = &s
	m.loaded = true
	return nil
}

// Clear removes the session from memory and disk. A missing file is not an
// error.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	m.loaded = true
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// Token implements api.TokenSource.
func (m *Manager) Token() string {
	if s := m.Current(); s != nil {
		return s.Token
	}
	return ""
}

// Invalidate implements api.TokenSource: the backend rejected our token, so
// the stored session is gone.
func (m *Manager) Invalidate() {
	if err := m.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("failed to clear session after 401")
	}
}

func (m *Manager) loadLocked() {
	if m.loaded {
		return
	}
	m.loaded = true

	data, err := os.ReadFile(m.path)
	if err != nil {
		if !os.IsNotExist(err) {
			m.log.Warn().Err(err).Str("path", m.path).Msg("failed to read session file")
		}
		return
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		m.log.Warn().Err(err).Str("path", m.path).Msg("session file is corrupt, ignoring")
		return
	}
	if s.Token == "" {
		return
	}
	m.current = &s
}
