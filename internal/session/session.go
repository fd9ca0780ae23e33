// Package session replaces a process-wide "logged in" flag with an explicit
// per-browser session that carries the record store it was opened against.
package session

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"

	"bankdash/internal/cache"
	"bankdash/internal/dataset"
)

// CookieName is the cookie carrying the session ID.
const CookieName = "bankdash_session"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("session not found")
)

// Session is one authenticated browser session. Store is bound at login and
// never changes, so a dataset reload only affects sessions opened afterwards.
type Session struct {
	ID            string
	Username      string
	Authenticated bool
	Store         *dataset.Store
	CreatedAt     time.Time
}

// Authenticator checks a username and password against fixed credentials.
// It is a placeholder gate, not an access-control system.
type Authenticator struct {
	username string
	password string
}

// NewAuthenticator returns an authenticator for the given credentials.
func NewAuthenticator(username, password string) *Authenticator {
	return &Authenticator{username: username, password: password}
}

// Check compares credentials in constant time.
func (a *Authenticator) Check(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

// Manager keeps sessions in a size- and TTL-bounded cache.
type Manager struct {
	auth     *Authenticator
	sessions *cache.LRUCache[*Session]
	now      func() time.Time
}

// NewManager creates a session manager holding at most maxSessions sessions,
// each expiring ttl after its last use.
func NewManager(auth *Authenticator, maxSessions int, ttl time.Duration, manager *cache.Manager) *Manager {
	sessions := cache.NewLRUCache[*Session](maxSessions, ttl)
	if manager != nil {
		manager.Register("sessions", sessions)
	}
	return &Manager{auth: auth, sessions: sessions, now: time.Now}
}

// Login checks the credentials and opens a session bound to store.
func (m *Manager) Login(username, password string, store *dataset.Store) (*Session, error) {
	if !m.auth.Check(username, password) {
		return nil, ErrInvalidCredentials
	}
	s := &Session{
		ID:            uuid.NewString(),
		Username:      username,
		Authenticated: true,
		Store:         store,
		CreatedAt:     m.now(),
	}
	m.sessions.Set(s.ID, s)
	return s, nil
}

// Get returns the session for id. Each successful lookup extends its TTL.
func (m *Manager) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	s, ok := m.sessions.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	m.sessions.Set(id, s)
	return s, nil
}

// Logout ends a session. Unknown IDs are ignored.
func (m *Manager) Logout(id string) {
	m.sessions.Delete(id)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	return m.sessions.Size()
}
