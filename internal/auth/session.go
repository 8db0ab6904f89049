package auth

import (
	cryptorand "crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "webui_session"

// DefaultSessionTTL is used when no TTL is configured.
const DefaultSessionTTL = 24 * time.Hour

// Binding ties a session token to the identity it was issued for. AuthHash
// records the credential hash at issue time; if the identity's hash ever
// changes, every session carrying the old fingerprint stops validating.
type Binding struct {
	IdentityID int64
	AuthHash   string
	ExpiresAt  time.Time
}

// SessionManager owns the in-memory session store. It is safe for
// concurrent use from any number of in-flight requests, and is handed to
// handlers and middleware explicitly rather than living in package state.
type SessionManager struct {
	identity *Identity
	ttl      time.Duration

	mu       sync.RWMutex
	sessions map[string]*Binding
}

// NewSessionManager creates a session manager issuing sessions for the
// given identity. A non-positive ttl falls back to DefaultSessionTTL.
func NewSessionManager(identity *Identity, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		identity: identity,
		ttl:      ttl,
		sessions: make(map[string]*Binding),
	}
}

// TTL returns the configured session lifetime.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

// generateToken creates a cryptographically secure random token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := cryptorand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Create issues a new session bound to the manager's identity and returns
// the opaque token. The caller is responsible for delivering the token to
// the client (as a cookie).
func (sm *SessionManager) Create() (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.sessions[token] = &Binding{
		IdentityID: sm.identity.ID,
		AuthHash:   sm.identity.CredentialHash,
		ExpiresAt:  time.Now().Add(sm.ttl),
	}
	return token, nil
}

// Validate looks up a session token. Unknown, expired and stale-fingerprint
// tokens all report false; none of these are errors, they simply mean the
// request must be redirected to the login page. Expired and stale entries
// are dropped on the way out.
func (sm *SessionManager) Validate(token string) (Binding, bool) {
	if token == "" {
		return Binding{}, false
	}

	sm.mu.RLock()
	sess, exists := sm.sessions[token]
	sm.mu.RUnlock()

	if !exists {
		return Binding{}, false
	}

	if time.Now().After(sess.ExpiresAt) || sess.AuthHash != sm.identity.CredentialHash {
		sm.mu.Lock()
		delete(sm.sessions, token)
		sm.mu.Unlock()
		return Binding{}, false
	}

	return *sess, true
}

// Invalidate removes a session. Invalidating an absent token is a no-op.
func (sm *SessionManager) Invalidate(token string) {
	if token == "" {
		return
	}
	sm.mu.Lock()
	delete(sm.sessions, token)
	sm.mu.Unlock()
}

// InvalidateAll revokes every active session. Used by the status page's
// "revoke sessions" command.
func (sm *SessionManager) InvalidateAll() {
	sm.mu.Lock()
	sm.sessions = make(map[string]*Binding)
	sm.mu.Unlock()
}

// Count returns the number of stored sessions, including any that have
// expired but not yet been swept.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
