package api

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for unknown users and wrong passwords
// alike, so login responses never reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// SessionManager holds in-memory dashboard sessions. The user set is small
// and fixed at startup; sessions do not survive a restart, which is
// acceptable for an internal dashboard.
type SessionManager struct {
	users map[string]string // username -> bcrypt hash
	ttl   time.Duration
	clock clockwork.Clock

	mu       sync.Mutex
	sessions map[string]session
}

type session struct {
	user      string
	expiresAt time.Time
}

// NewSessionManager creates a manager over the configured users.
func NewSessionManager(users map[string]string, ttl time.Duration, clock clockwork.Clock) *SessionManager {
	return &SessionManager{
		users:    users,
		ttl:      ttl,
		clock:    clock,
		sessions: make(map[string]session),
	}
}

// Login verifies credentials and mints a session token.
func (m *SessionManager) Login(username, password string) (string, error) {
	hash, ok := m.users[username]
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := uuid.NewString()
	m.mu.Lock()
	m.sessions[token] = session{user: username, expiresAt: m.clock.Now().Add(m.ttl)}
	m.mu.Unlock()
	return token, nil
}

// Logout discards the session. Unknown tokens are a no-op.
func (m *SessionManager) Logout(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Lookup resolves a token to its username, expiring stale sessions.
func (m *SessionManager) Lookup(token string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return "", false
	}
	if m.clock.Now().After(s.expiresAt) {
		delete(m.sessions, token)
		return "", false
	}
	return s.user, true
}
