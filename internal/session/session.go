// Package session owns the authenticated-user value and its lifecycle. All
// session mutations funnel through the Manager; the only other component
// allowed to end a session is the transport boundary, which does so by
// publishing an eviction event consumed here.
package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"sales-admin/internal/api"
	"sales-admin/internal/event"
	"sales-admin/internal/models"
	"sales-admin/internal/store"
)

// State is the lifecycle position of the session.
type State int

const (
	// StateUninitialized means Initialize has not run yet.
	StateUninitialized State = iota
	// StateRestoring means a stored credential is being confirmed with
	// the server.
	StateRestoring
	// StateAuthenticated means a user is signed in.
	StateAuthenticated
	// StateAnonymous means no user is signed in.
	StateAnonymous
)

// Views the manager can navigate to.
const (
	ViewLogin = "login"
	ViewHome  = "home"
)

// Navigator moves the surrounding UI between views. The manager never
// touches routing directly.
type Navigator interface {
	NavigateTo(view string)
	CurrentView() string
}

// Messages surfaced for the failure cases the user can act on.
const (
	msgInvalidCredentials = "invalid credentials, please try again"
	msgRegisterForbidden  = "you do not have permission to register users"
	msgLoginRequired      = "login and password are required"
	msgPasswordTooShort   = "the new password must be at least 4 characters"
)

// Manager implements the session state machine:
// uninitialized -> restoring -> {authenticated, anonymous}, with
// authenticated -> anonymous on logout or forced eviction.
type Manager struct {
	client *api.Client
	store  *store.Store
	nav    Navigator

	mu    sync.Mutex
	state State
	user  *models.User
}

// NewManager wires a Manager to the transport, the credential store and
// the navigator, and subscribes it to forced-eviction events.
func NewManager(client *api.Client, st *store.Store, nav Navigator, events *event.Bus) *Manager {
	m := &Manager{
		client: client,
		store:  st,
		nav:    nav,
		state:  StateUninitialized,
	}
	events.Subscribe(event.SessionExpired, func(event.Event) { m.evict() })
	return m
}

// Initialize restores the session from the credential store at startup.
// The stored profile is adopted optimistically, then confirmed against the
// server; on any confirmation failure the mirror is purged and the state
// falls back to anonymous. Initialize always leaves the machine in a
// terminal state.
func (m *Manager) Initialize(ctx context.Context) {
	token, profile, ok := m.store.Load()
	if !ok {
		m.mu.Lock()
		m.state = StateAnonymous
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	m.state = StateRestoring
	m.user = profile
	m.mu.Unlock()

	var confirmed models.User
	if err := m.client.Get(ctx, "/auth/me", nil, &confirmed); err != nil {
		log.Printf("session: stored credential rejected: %v", err)
		m.store.Clear()
		m.mu.Lock()
		m.user = nil
		m.state = StateAnonymous
		m.mu.Unlock()
		return
	}

	// Server truth wins over whatever the mirror held.
	m.store.Save(token, &confirmed)
	m.mu.Lock()
	m.user = &confirmed
	m.state = StateAuthenticated
	m.mu.Unlock()
}

// Login authenticates with the API. On success the credential pair is
// stored, the state becomes authenticated and the UI is sent to the
// landing view. On failure nothing is stored and the state stays
// anonymous; a 401 is reported as bad credentials, anything else carries
// the server's message.
func (m *Manager) Login(ctx context.Context, login, password string) error {
	if strings.TrimSpace(login) == "" || password == "" {
		return errors.New(msgLoginRequired)
	}

	var result models.LoginResult
	_, err := m.client.Post(ctx, "/auth/login", models.Credentials{Login: login, Password: password}, &result)
	if err != nil {
		if api.IsUnauthorized(err) {
			return errors.New(msgInvalidCredentials)
		}
		return err
	}

	m.store.Save(result.Token, &result.User)
	m.mu.Lock()
	m.user = &result.User
	m.state = StateAuthenticated
	m.mu.Unlock()

	m.nav.NavigateTo(ViewHome)
	return nil
}

// Register creates a new account. It does not authenticate the caller. A
// 403 means the current user lacks the privilege to register accounts.
func (m *Manager) Register(ctx context.Context, name, login, password string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(login) == "" || password == "" {
		return errors.New("name, login and password are required")
	}

	_, err := m.client.Post(ctx, "/auth/register", models.RegisterData{Name: name, Login: login, Password: password}, nil)
	if err != nil {
		if api.IsForbidden(err) {
			return errors.New(msgRegisterForbidden)
		}
		return err
	}
	return nil
}

// ChangePassword changes the current user's password.
func (m *Manager) ChangePassword(ctx context.Context, current, next string) error {
	if current == "" {
		return errors.New("the current password is required")
	}
	if len(next) < 4 {
		return errors.New(msgPasswordTooShort)
	}

	_, err := m.client.Post(ctx, "/auth/changePassword", models.PasswordChange{Current: current, New: next}, nil)
	return err
}

// Logout clears the credential store and the in-memory session and sends
// the UI to the login view. Idempotent: calling it while anonymous is safe.
func (m *Manager) Logout() {
	m.store.Clear()
	m.mu.Lock()
	m.user = nil
	m.state = StateAnonymous
	m.mu.Unlock()
	m.nav.NavigateTo(ViewLogin)
}

// evict handles server-forced session termination. The transport has
// already purged the store; here the in-memory side is cleared and the UI
// redirected, unless it is already on the login view.
func (m *Manager) evict() {
	m.mu.Lock()
	wasAuthenticated := m.user != nil
	m.user = nil
	m.state = StateAnonymous
	m.mu.Unlock()

	if wasAuthenticated {
		log.Printf("session: terminated by server")
	}
	if m.nav.CurrentView() != ViewLogin {
		m.nav.NavigateTo(ViewLogin)
	}
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (m *Manager) CurrentUser() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthenticated reports whether a user is signed in.
func (m *Manager) IsAuthenticated() bool {
	return m.CurrentUser() != nil
}

// IsAdmin reports whether the signed-in user has the admin level exactly.
func (m *Manager) IsAdmin() bool {
	u := m.CurrentUser()
	return u != nil && u.AccessLevel == models.LevelAdmin
}

// IsManager reports whether the signed-in user has the manager level
// exactly. Admins are not managers; callers combine the flags as needed.
func (m *Manager) IsManager() bool {
	u := m.CurrentUser()
	return u != nil && u.AccessLevel == models.LevelManager
}

// CanModify reports whether the signed-in user may create, update or
// delete business records.
func (m *Manager) CanModify() bool {
	return m.IsAdmin() || m.IsManager()
}
