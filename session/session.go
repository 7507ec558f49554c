// Package session holds the current auth session for the rest of the data
// layer. Token verification belongs to the identity provider; this package
// only extracts claims so the UI and the planner call know who is signed in.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Session struct {
	UserID      string
	Email       string
	DisplayName string
	Token       string
	ExpiresAt   time.Time
}

// Expired reports whether the token's exp claim has passed. Sessions
// without an exp claim never expire locally.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// FromIDToken builds a session from the provider's ID token. A leading
// "Bearer " prefix is tolerated. The signature is not checked here.
func FromIDToken(token string) (*Session, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if raw == "" {
		return nil, fmt.Errorf("session: empty token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("session: parse token: %w", err)
	}

	sess := &Session{Token: raw}
	if sub, err := claims.GetSubject(); err == nil {
		sess.UserID = sub
	}
	if email, ok := claims["email"].(string); ok {
		sess.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		sess.DisplayName = name
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		sess.ExpiresAt = exp.Time
	}

	if sess.UserID == "" {
		return nil, fmt.Errorf("session: token missing subject")
	}
	return sess, nil
}

// Manager is the concurrency-safe auth-session cache. Listeners are invoked
// with the new session (nil on sign-out) after every change.
type Manager struct {
	mu        sync.RWMutex
	current   *Session
	listeners []func(*Session)
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Set(s *Session) {
	m.mu.Lock()
	m.current = s
	listeners := append([]func(*Session){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}

func (m *Manager) Clear() {
	m.Set(nil)
}

func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Token returns the current bearer token, or "" when signed out. Shaped to
// plug straight into planner.WithTokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

func (m *Manager) Subscribe(fn func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}
