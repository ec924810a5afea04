// Package session tracks the signed-in identity for the client process and
// drives authentication against the document store server.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cvkeeper/internal/client/remote"
	"cvkeeper/internal/common"
	"cvkeeper/internal/logging"
)

// Authenticator is the slice of the remote client the session needs.
type Authenticator interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (*remote.Identity, error)
	SetAuthToken(token string)
}

// Manager owns the current identity and a single-slot callback that fires
// once after the next successful sign-in. The slot is cleared before the
// callback runs, so a callback may safely install a successor.
type Manager struct {
	mu       sync.Mutex
	auth     Authenticator
	log      logging.Logger
	identity *remote.Identity
	postAuth func(ctx context.Context)
}

func NewManager(auth Authenticator, log logging.Logger) *Manager {
	return &Manager{auth: auth, log: log.With("component", "session")}
}

// SignUp registers a new account and immediately signs in.
func (m *Manager) SignUp(ctx context.Context, username, password string) error {
	if err := validateCredentials(username, password); err != nil {
		return err
	}
	if err := m.auth.Register(ctx, username, password); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return m.SignIn(ctx, username, password)
}

// SignIn authenticates, installs the access token on the transport, and runs
// the pending post-auth callback if one is set.
func (m *Manager) SignIn(ctx context.Context, username, password string) error {
	if err := validateCredentials(username, password); err != nil {
		return err
	}

	id, err := m.auth.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	m.mu.Lock()
	m.identity = id
	m.auth.SetAuthToken(id.Token)
	cb := m.postAuth
	m.postAuth = nil
	m.mu.Unlock()

	m.log.Info(ctx, "signed in", "username", id.Username)

	if cb != nil {
		cb(ctx)
	}
	return nil
}

// SignOut drops the identity and the transport token. Any pending post-auth
// callback stays armed for the next sign-in.
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return
	}
	m.log.Info(ctx, "signed out", "username", m.identity.Username)
	m.identity = nil
	m.auth.SetAuthToken("")
}

// Current returns the signed-in identity, or nil for a guest.
func (m *Manager) Current() *remote.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

// SignedIn reports whether a user is authenticated.
func (m *Manager) SignedIn() bool {
	return m.Current() != nil
}

// OnNextSignIn arms fn to run once after the next successful sign-in,
// replacing any previously armed callback.
func (m *Manager) OnNextSignIn(fn func(ctx context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postAuth = fn
}

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required: %w", common.ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("password is required: %w", common.ErrValidation)
	}
	return nil
}
