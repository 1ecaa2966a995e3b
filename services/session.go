package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/idlikadai3-prog/idli-kadai-frontend/api"
	"github.com/idlikadai3-prog/idli-kadai-frontend/models"
)

type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateLoading
	StateAuthenticated
)

// Session is a snapshot of one user's authentication state. The token is held
// only while the identity fetch has not failed.
type Session struct {
	State    SessionState
	Identity models.Identity
	Token    string
}

func (s Session) IsAuthenticated() bool { return s.State == StateAuthenticated }
func (s Session) IsSeller() bool        { return s.IsAuthenticated() && s.Identity.IsSeller() }
func (s Session) IsBuyer() bool         { return s.IsAuthenticated() && s.Identity.IsBuyer() }

const (
	loginFallback    = "Login failed. Please check your credentials."
	registerFallback = "Registration failed"
)

// SessionManager owns every per-user session. Views never touch ambient
// globals; they go through the manager instance handed to them.
//
// 401 handling is centralized here: any caller that sees an unauthorized
// response routes it through HandleAuthError, which clears the session and
// fires the forced-logout callback. Navigation stays out of the API layer.
type SessionManager struct {
	api    *api.Client
	tokens TokenStore

	mu       sync.RWMutex
	sessions map[int64]Session

	onForcedLogout func(userID int64)
}

func NewSessionManager(client *api.Client, tokens TokenStore) *SessionManager {
	return &SessionManager{
		api:      client,
		tokens:   tokens,
		sessions: make(map[int64]Session),
	}
}

// SetOnForcedLogout registers the navigation hook invoked when a 401 forces a
// logout. Must be set before the bot starts handling updates.
func (m *SessionManager) SetOnForcedLogout(f func(userID int64)) {
	m.onForcedLogout = f
}

// Get returns the session snapshot; unknown users are Unauthenticated.
func (m *SessionManager) Get(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[userID]
}

func (m *SessionManager) set(userID int64, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = s
}

func (m *SessionManager) clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// Client returns the API client bound to the user's token; for an
// unauthenticated user it is the bare client.
func (m *SessionManager) Client(userID int64) *api.Client {
	s := m.Get(userID)
	if s.Token == "" {
		return m.api
	}
	return m.api.WithToken(s.Token)
}

// Resume restores a session from the persisted token. Without a stored token
// the user is Unauthenticated immediately and no identity fetch is made. A
// failed fetch (any non-2xx, or no response) clears both token and session.
func (m *SessionManager) Resume(ctx context.Context, userID int64) error {
	token, err := m.tokens.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		m.clear(userID)
		return nil
	}

	m.set(userID, Session{State: StateLoading, Token: token})
	identity, err := m.api.WithToken(token).Me(ctx)
	if err != nil {
		if delErr := m.tokens.Delete(ctx, userID); delErr != nil {
			log.Printf("session resume: delete stale token user=%d: %v", userID, delErr)
		}
		m.clear(userID)
		return fmt.Errorf("identity fetch: %w", err)
	}
	m.set(userID, Session{State: StateAuthenticated, Identity: identity, Token: token})
	return nil
}

// Login exchanges credentials for a token and identity. On failure the
// returned error carries the server's detail message when there is one, and
// the persisted token is left untouched.
func (m *SessionManager) Login(ctx context.Context, userID int64, username, password string) error {
	m.set(userID, Session{State: StateLoading})
	token, identity, err := m.api.Login(ctx, username, password)
	if err != nil {
		m.clear(userID)
		return fmt.Errorf("%s", api.Message(err, loginFallback))
	}
	m.set(userID, Session{State: StateAuthenticated, Identity: identity, Token: token})
	if err := m.tokens.Set(ctx, userID, token); err != nil {
		// The session still works for this process; only resume after a
		// restart is lost.
		log.Printf("session login: persist token user=%d: %v", userID, err)
	}
	return nil
}

// Register creates a buyer account. It does not log the user in; the error,
// when present, carries the server's detail or joined validation messages.
func (m *SessionManager) Register(ctx context.Context, username, email, password string) error {
	if err := m.api.Register(ctx, username, email, password); err != nil {
		return fmt.Errorf("%s", api.Message(err, registerFallback))
	}
	return nil
}

// Logout clears identity, token, and persisted storage. Idempotent.
func (m *SessionManager) Logout(ctx context.Context, userID int64) {
	m.clear(userID)
	if err := m.tokens.Delete(ctx, userID); err != nil {
		log.Printf("session logout: delete token user=%d: %v", userID, err)
	}
}

// ForceLogout is the central 401 policy: same as Logout, plus the
// forced-logout callback so the view layer can send the user to login.
func (m *SessionManager) ForceLogout(ctx context.Context, userID int64) {
	m.Logout(ctx, userID)
	if m.onForcedLogout != nil {
		m.onForcedLogout(userID)
	}
}

// HandleAuthError applies the central policy when err came from an
// authenticated call: on 401 the session is force-logged-out and true is
// returned. Every other error is left to the caller.
func (m *SessionManager) HandleAuthError(ctx context.Context, userID int64, err error) bool {
	if api.IsUnauthorized(err) {
		m.ForceLogout(ctx, userID)
		return true
	}
	return false
}
