// Package session owns the client's authentication state: the bearer token,
// the identity it belongs to, and whether the backend has accepted it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cx-tal-miterani/flightdesk/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptyToken       = errors.New("empty token")
)

// TokenStore is the durable storage the token lives in.
type TokenStore interface {
	LoadToken() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

// Verifier checks a token against the backend.
type Verifier interface {
	Verify(ctx context.Context, token string) (models.Identity, error)
}

// View is the read-only session state other components gate on.
type View struct {
	Authenticated  bool            `json:"authenticated"`
	Identity       models.Identity `json:"identity"`
	BackendBaseURL string          `json:"backendBaseUrl"`
	// ExpiresAt is read from the token's exp claim without verifying it.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Manager holds the session for the whole process. It is created once and
// passed explicitly to every component that needs it.
type Manager struct {
	mu      sync.RWMutex
	store   TokenStore
	baseURL string
	logger  *slog.Logger

	token         string
	authenticated bool
	identity      models.Identity
}

func NewManager(store TokenStore, backendBaseURL string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:   store,
		baseURL: backendBaseURL,
		logger:  logger,
	}
}

// Initialize loads the persisted token and verifies it. Every failure ends
// in an unauthenticated session; nothing is returned to the caller.
func (m *Manager) Initialize(ctx context.Context, v Verifier) {
	token, err := m.store.LoadToken()
	if err != nil {
		m.logger.Warn("read persisted token", "error", err)
		m.setState("", false, models.Identity{})
		return
	}
	if token == "" {
		m.setState("", false, models.Identity{})
		return
	}

	// A rejected token stays loaded and stored; only Logout removes it.
	m.setState(token, false, models.Identity{})

	ident, err := v.Verify(ctx, token)
	if err != nil {
		m.logger.Info("stored token rejected", "error", err)
		return
	}

	m.mu.Lock()
	// A Login or Logout that ran while verification was in flight wins.
	if m.token == token {
		m.authenticated = true
		m.identity = ident
	}
	m.mu.Unlock()
	m.logger.Debug("session verified", "username", ident.Username)
}

// Login persists token and marks the session authenticated without asking
// the backend.
func (m *Manager) Login(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if err := m.store.SaveToken(token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	m.setState(token, true, models.Identity{})
	return nil
}

// Logout clears the persisted token and resets the session. The in-memory
// state is reset even if the storage delete fails.
func (m *Manager) Logout() error {
	err := m.store.ClearToken()
	m.setState("", false, models.Identity{})
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Token returns the current bearer token.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authenticated
}

// Require returns ErrNotAuthenticated unless the session is authenticated.
func (m *Manager) Require() error {
	if !m.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

func (m *Manager) View() View {
	m.mu.RLock()
	v := View{
		Authenticated:  m.authenticated,
		Identity:       m.identity,
		BackendBaseURL: m.baseURL,
	}
	token := m.token
	m.mu.RUnlock()

	if exp, ok := expiry(token); ok {
		v.ExpiresAt = &exp
	}
	return v
}

func (m *Manager) setState(token string, authenticated bool, ident models.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.authenticated = authenticated
	m.identity = ident
}

// expiry reads the exp claim of a JWT without checking its signature.
// Opaque tokens report ok=false.
func expiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
