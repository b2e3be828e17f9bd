package domain

import "time"

// Session represents an authenticated user session holding a delegated
// access token. It is written once after a successful code exchange and
// never refreshed; an expired session behaves exactly like a missing one.
type Session struct {
	ID          string    `json:"id"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Email       string    `json:"email,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// AuthContext contains authenticated session info for request context
type AuthContext struct {
	SessionID   string `json:"session_id"`
	Email       string `json:"email,omitempty"`
	AccessToken string `json:"-"`
}
