package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/goliatone/go-ekonde/pkg/model"
)

// Defaults for the in-memory provider.
const (
	DefaultSignInRate  = 0.2
	DefaultSignInBurst = 5
)

var (
	errUnknownEmail  = errors.New("no account for email")
	errWrongPassword = errors.New("password mismatch")
	errUnknownToken  = errors.New("unknown session token")
)

// MemoryOption configures a Memory provider.
type MemoryOption func(*Memory)

// WithSignInLimit sets the per-email sign-in token bucket. rps <= 0 disables
// limiting.
func WithSignInLimit(rps float64, burst int) MemoryOption {
	return func(m *Memory) {
		m.limiter = newKeyLimiter(rps, burst, 0)
	}
}

// WithHashCost sets the bcrypt cost. Out-of-range values fall back to
// bcrypt.DefaultCost.
func WithHashCost(cost int) MemoryOption {
	return func(m *Memory) {
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			cost = bcrypt.DefaultCost
		}
		m.cost = cost
	}
}

// WithClock overrides time.Now for rate limiting.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

type account struct {
	user    model.User
	profile model.Profile
	hash    []byte
}

// Memory is a process-local Service. Accounts and tokens vanish on restart.
type Memory struct {
	mu       sync.RWMutex
	accounts map[string]*account
	tokens   map[string]string

	limiter *keyLimiter
	cost    int
	now     func() time.Time
}

var _ Service = (*Memory)(nil)

// NewMemory returns an empty provider with sign-in limiting enabled.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
		limiter:  newKeyLimiter(DefaultSignInRate, DefaultSignInBurst, 0),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// SignUp registers email and signs it in.
func (m *Memory) SignUp(ctx context.Context, email, password string, profile model.Profile) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, newError(KindUnknown, err)
	}
	key := normalizeEmail(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return Session{}, newError(KindUnknown, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[key]; exists {
		return Session{}, newError(KindAlreadyRegistered, nil)
	}
	profile.NIN = strings.ToUpper(strings.TrimSpace(profile.NIN))
	acct := &account{
		user:    model.User{ID: uuid.NewString(), Email: key},
		profile: profile,
		hash:    hash,
	}
	m.accounts[key] = acct
	return m.issueLocked(key, acct), nil
}

// SignIn checks the password and issues a session token.
func (m *Memory) SignIn(ctx context.Context, email, password string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, newError(KindUnknown, err)
	}
	key := normalizeEmail(email)
	if !m.limiter.allow(key, m.now()) {
		return Session{}, newError(KindRateLimited, nil)
	}

	m.mu.RLock()
	acct, ok := m.accounts[key]
	m.mu.RUnlock()
	if !ok {
		return Session{}, newError(KindInvalidCredentials, errUnknownEmail)
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return Session{}, newError(KindInvalidCredentials, errWrongPassword)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.issueLocked(key, acct), nil
}

// SignOut forgets token. Unknown tokens are reported as KindUnknown.
func (m *Memory) SignOut(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token]; !ok {
		return newError(KindUnknown, errUnknownToken)
	}
	delete(m.tokens, token)
	return nil
}

// Current resolves token to its user and profile.
func (m *Memory) Current(ctx context.Context, token string) (model.User, model.Profile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key, ok := m.tokens[token]
	if !ok {
		return model.User{}, model.Profile{}, false
	}
	acct, ok := m.accounts[key]
	if !ok {
		return model.User{}, model.Profile{}, false
	}
	return acct.user, acct.profile, true
}

func (m *Memory) issueLocked(key string, acct *account) Session {
	token := uuid.NewString()
	m.tokens[token] = key
	return Session{Token: token, User: acct.user, Profile: acct.profile}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
