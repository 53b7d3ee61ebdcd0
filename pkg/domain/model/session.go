package model

import (
	"time"
)

// Tokens the auth boundary substitutes when the backend gives none
const (
	// TokenAuthenticated is stored when a successful login response carries no token
	TokenAuthenticated = "authenticated"
	// TokenFallback is stored when login fallback is enabled and the auth endpoint is unreachable
	TokenFallback = "demo-token"
)

// SessionKey is the fixed key the session is persisted under
const SessionKey = "cms_user"

// Session represents the authenticated operator.
// JSON field names match the document the web dashboard keeps under SessionKey.
type Session struct {
	Identity string `json:"email" firestore:"email"`
	Token    string `json:"token" firestore:"token"`

	// ExpiresAt is decoded from the token when it is a JWT. Display only.
	ExpiresAt *time.Time `json:"-" firestore:"-"`
}

// NewSession creates a Session for identity. An empty token is replaced with TokenAuthenticated.
func NewSession(identity, token string) *Session {
	if token == "" {
		token = TokenAuthenticated
	}
	return &Session{
		Identity: identity,
		Token:    token,
	}
}

// IsValid checks if the session has the fields needed to call the backend
func (s *Session) IsValid() bool {
	return s != nil && s.Identity != "" && s.Token != ""
}

// IsFallback reports whether the session was created by the unreachable-backend fallback
func (s *Session) IsFallback() bool {
	return s != nil && s.Token == TokenFallback
}

// IsExpired reports whether the decoded token expiry has passed. Sessions without a known expiry never expire.
func (s *Session) IsExpired(now time.Time) bool {
	if s == nil || s.ExpiresAt == nil {
		return false
	}
	return now.After(*s.ExpiresAt)
}
