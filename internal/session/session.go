// Package session resolves who is signed in. The demo account never
// touches the network; real accounts authenticate through gotrue directly
// or through the same-origin auth API, matching the active transport.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gastos/internal/core"
	"gastos/internal/fixtures"
	"gastos/internal/log"
)

// Session is the resolved identity for the rest of the app.
type Session struct {
	Profile     core.Profile
	AccessToken string
	Demo        bool
}

// Authenticator performs the credential exchange for real accounts.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (Session, error)
	Register(ctx context.Context, email, password, fullName string) error
	Resolve(ctx context.Context, token string) (core.Profile, error)
}

// ProfileStore is the slice of the data façade the manager needs for the
// missing-profile repair.
type ProfileStore interface {
	GetProfile(ctx context.Context) (core.Profile, error)
	UpsertProfile(ctx context.Context, p core.Profile) (core.Profile, error)
}

// Manager holds the current session.
type Manager struct {
	auth   Authenticator
	logger *log.Logger

	mu       sync.RWMutex
	current  *Session
	profiles ProfileStore
	healed   bool
}

// NewManager builds a session manager over an authenticator.
func NewManager(auth Authenticator, logger *log.Logger) *Manager {
	return &Manager{
		auth:   auth,
		logger: logger.WithComponent(log.ComponentSession),
	}
}

// BindProfiles attaches the profile store once the façade exists. The
// façade needs the manager for user resolution, so wiring is two-phase.
func (m *Manager) BindProfiles(p ProfileStore) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = p
}

// Current returns the active session, or nil.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// UserID returns the signed-in user's id, or "".
func (m *Manager) UserID() string {
	if s := m.Current(); s != nil {
		return s.Profile.ID
	}
	return ""
}

// Token returns the current access token, or "".
func (m *Manager) Token() string {
	if s := m.Current(); s != nil {
		return s.AccessToken
	}
	return ""
}

// IsDemo reports whether the active session is the demo account.
func (m *Manager) IsDemo() bool {
	s := m.Current()
	return s != nil && s.Demo
}

// Login signs in. The demo address with any password activates demo mode
// without any network traffic.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == fixtures.DemoEmail {
		s := Session{Profile: fixtures.Profile(), Demo: true}
		m.setCurrent(&s)
		m.logger.InfoContext(ctx, "demo session started")
		return &s, nil
	}

	s, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	m.setCurrent(&s)

	if healed, err := m.healProfile(ctx, &s); err != nil {
		m.logger.WarnContext(ctx, "profile repair failed", log.FieldError, err.Error())
	} else if healed {
		m.setCurrent(&s)
	}
	m.logger.InfoContext(ctx, "session started", log.FieldUserID, s.Profile.ID)
	return m.Current(), nil
}

// healProfile inserts the profile row when the account exists in auth but
// the row is missing. One attempt per manager lifetime, never a loop.
func (m *Manager) healProfile(ctx context.Context, s *Session) (bool, error) {
	m.mu.Lock()
	profiles := m.profiles
	healed := m.healed
	m.mu.Unlock()

	if profiles == nil || s.Profile.Email == "" {
		return false, nil
	}

	_, err := profiles.GetProfile(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return false, err
	}
	if healed {
		return false, fmt.Errorf("profile still missing after repair")
	}
	m.mu.Lock()
	m.healed = true
	m.mu.Unlock()

	p := s.Profile
	if p.Currency == "" {
		p.Currency = "COP"
	}
	if p.Timezone == "" {
		p.Timezone = "America/Bogota"
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	stored, err := profiles.UpsertProfile(ctx, p)
	if err != nil {
		return false, fmt.Errorf("insert profile: %w", err)
	}
	s.Profile = stored
	m.logger.InfoContext(ctx, "created missing profile", log.FieldUserID, stored.ID)
	return true, nil
}

// Register creates an account and signs it in.
func (m *Manager) Register(ctx context.Context, email, password, fullName string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == fixtures.DemoEmail {
		return nil, &core.ValidationError{Field: "email", Msg: "reserved address"}
	}
	if err := m.auth.Register(ctx, email, password, fullName); err != nil {
		return nil, err
	}
	return m.Login(ctx, email, password)
}

// Logout drops the session.
func (m *Manager) Logout() {
	m.setCurrent(nil)
}

// CheckSession revalidates the held token against the auth backend. Demo
// sessions are always valid. An invalid token clears the session.
func (m *Manager) CheckSession(ctx context.Context) (*Session, error) {
	s := m.Current()
	if s == nil {
		return nil, core.ErrUnauthorized
	}
	if s.Demo {
		return s, nil
	}
	profile, err := m.auth.Resolve(ctx, s.AccessToken)
	if err != nil {
		m.setCurrent(nil)
		return nil, core.ErrUnauthorized
	}
	updated := *s
	updated.Profile = profile
	m.setCurrent(&updated)
	return m.Current(), nil
}

func (m *Manager) setCurrent(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
}
