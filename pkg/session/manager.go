package session

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager defaults.
const (
	DefaultCookieName = "ekonde_session"
	DefaultTTL        = 30 * time.Minute
)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) ManagerOption {
	return func(m *Manager) {
		if name = strings.TrimSpace(name); name != "" {
			m.cookieName = name
		}
	}
}

// WithTTL sets how long an idle session is kept.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithSecureCookie marks the cookie Secure.
func WithSecureCookie(secure bool) ManagerOption {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithSessionOptions sets the options every new Session is built with.
func WithSessionOptions(opts ...Option) ManagerOption {
	return func(m *Manager) {
		m.sessionOpts = append(m.sessionOpts, opts...)
	}
}

// WithManagerClock overrides time.Now for expiry.
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// Manager maps cookie ids to sessions and evicts idle ones.
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	cookieName  string
	ttl         time.Duration
	secure      bool
	now         func() time.Time
	sessionOpts []Option
	calls       uint64
}

// NewManager returns an empty manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions:   make(map[string]*Session),
		cookieName: DefaultCookieName,
		ttl:        DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// CookieName returns the cookie carrying the session id.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Lookup returns the live session referenced by r, if any.
func (m *Manager) Lookup(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveLocked(cookie.Value)
}

// Ensure returns the session referenced by r, creating one and setting the
// cookie on w when there is none or it has expired.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) *Session {
	if sess, ok := m.Lookup(r); ok {
		return sess
	}

	m.mu.Lock()
	m.calls++
	if m.calls%128 == 0 {
		m.sweepLocked()
	}
	id := uuid.NewString()
	sess := New(id, append([]Option{WithClock(m.now)}, m.sessionOpts...)...)
	m.sessions[id] = sess
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl / time.Second),
	})
	return sess
}

// Destroy drops the session and expires its cookie.
func (m *Manager) Destroy(w http.ResponseWriter, sess *Session) {
	if sess == nil {
		return
	}
	m.mu.Lock()
	delete(m.sessions, sess.ID())
	m.mu.Unlock()
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// Sweep evicts idle sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked()
}

// Len reports the number of tracked sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) liveLocked(id string) (*Session, bool) {
	sess, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if m.expired(sess) {
		delete(m.sessions, id)
		return nil, false
	}
	return sess, true
}

func (m *Manager) sweepLocked() int {
	removed := 0
	for id, sess := range m.sessions {
		if m.expired(sess) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) expired(sess *Session) bool {
	return m.now().Sub(sess.LastSeen()) > m.ttl
}
