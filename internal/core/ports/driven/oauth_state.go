package driven

import (
	"context"
	"time"
)

// OAuthState represents a pending OAuth authorization flow.
// It binds the anti-forgery state value to the PKCE verifier generated
// alongside it.
type OAuthState struct {
	// State is the anti-forgery token (primary key).
	State string

	// CodeVerifier is the PKCE verifier for the token exchange.
	CodeVerifier string

	// RedirectURI is the callback URI used when starting the flow.
	RedirectURI string

	// CreatedAt is when the flow was started.
	CreatedAt time.Time

	// ExpiresAt is when the state becomes invalid.
	ExpiresAt time.Time
}

// IsExpired checks if the state has passed its TTL.
func (s *OAuthState) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// OAuthStateStore manages OAuth flow state for CSRF validation.
// States are consumed exactly once via GetAndDelete.
type OAuthStateStore interface {
	// Save stores a new OAuth state.
	Save(ctx context.Context, state *OAuthState) error

	// GetAndDelete atomically retrieves and removes a state.
	// Returns (nil, nil) when the state is unknown or already consumed.
	// A recently-expired state is still returned so callers can report
	// expiry rather than forgery; its IsExpired method tells the two apart.
	GetAndDelete(ctx context.Context, state string) (*OAuthState, error)

	// Cleanup removes expired states.
	Cleanup(ctx context.Context) error
}
