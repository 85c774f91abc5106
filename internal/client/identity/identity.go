// Package identity resolves who is signed in and whether they hold the
// administrator role, and fans identity changes out to listeners. The rest
// of the client treats the resolved Session as immutable; nothing
// downstream re-derives the role.
package identity

import (
	"errors"
	"sync"

	"github.com/orcadive/divelog/internal/client/models"
)

var ErrInvalidToken = errors.New("invalid session token")

// Provider exposes the current identity and change notifications.
type Provider interface {
	// Current returns the resolved session, or nil before sign-in and
	// after sign-out.
	Current() *models.Session
	// OnChange registers a callback fired on every sign-in, sign-out and
	// role change. It returns the unsubscribe function. The callback
	// receives nil on sign-out.
	OnChange(func(*models.Session)) func()
}

// Manager is the client-side Provider implementation. Sessions are
// resolved from backend-issued tokens by a Verifier.
type Manager struct {
	verifier Verifier

	mu        sync.Mutex
	session   *models.Session
	listeners map[int]func(*models.Session)
	nextID    int
}

// Verifier turns a raw session token into a resolved Session.
type Verifier interface {
	Verify(token string) (*models.Session, error)
}

func NewManager(v Verifier) *Manager {
	return &Manager{verifier: v, listeners: make(map[int]func(*models.Session))}
}

func (m *Manager) Current() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

func (m *Manager) OnChange(fn func(*models.Session)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// SignIn verifies the token and publishes the resolved session.
func (m *Manager) SignIn(token string) (*models.Session, error) {
	sess, err := m.verifier.Verify(token)
	if err != nil {
		return nil, err
	}
	m.publish(sess)
	return sess, nil
}

// SignOut clears the session and notifies listeners with nil.
func (m *Manager) SignOut() {
	m.publish(nil)
}

func (m *Manager) publish(sess *models.Session) {
	m.mu.Lock()
	m.session = sess
	fns := make([]func(*models.Session), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		var copied *models.Session
		if sess != nil {
			s := *sess
			copied = &s
		}
		fn(copied)
	}
}
