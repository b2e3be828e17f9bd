package driving

import "context"

// OAuthService handles the delegated authorization flow.
// It manages PKCE credential generation, CSRF state, token exchange and
// session creation.
type OAuthService interface {
	// Authorize starts an OAuth authorization flow.
	// Returns an authorization URL to redirect the user to.
	// The state parameter is stored for CSRF validation during callback.
	Authorize(ctx context.Context) (*AuthorizeResponse, error)

	// Callback handles the OAuth callback from the provider.
	// It exchanges the authorization code for tokens and creates a session.
	Callback(ctx context.Context, req CallbackRequest) (*CallbackResponse, error)
}

// AuthorizeResponse contains the authorization URL and state.
// @Description Response containing the OAuth authorization URL
type AuthorizeResponse struct {
	// AuthorizationURL is the URL to redirect the user to for authorization.
	AuthorizationURL string `json:"authorization_url" example:"https://accounts.google.com/o/oauth2/v2/auth?client_id=..."`

	// State is the CSRF token that will be returned in the callback.
	State string `json:"state" example:"abc123xyz"`

	// ExpiresAt is when the authorization state expires (typically 10 minutes).
	ExpiresAt string `json:"expires_at" example:"2024-01-15T10:10:00Z"`
}

// CallbackRequest represents the OAuth callback from the provider.
// @Description OAuth callback parameters from provider redirect
type CallbackRequest struct {
	// Code is the authorization code from the provider.
	Code string `json:"code" example:"abc123"`

	// State is the CSRF token returned by the provider.
	State string `json:"state" example:"abc123xyz"`

	// Error is set if the provider returned an error.
	Error string `json:"error,omitempty" example:"access_denied"`

	// ErrorDescription provides details about the error.
	ErrorDescription string `json:"error_description,omitempty" example:"The user denied access"`
}

// CallbackResponse contains the result of the OAuth callback.
// @Description Response after successful OAuth authorization
type CallbackResponse struct {
	// SessionID identifies the freshly created session. The transport
	// layer sets it as an HttpOnly cookie, never in a response body.
	SessionID string `json:"-"`

	// Email is the authenticated account, when the provider reported one.
	Email string `json:"email,omitempty" example:"user@example.com"`

	// ExpiresAt is when the session expires.
	ExpiresAt string `json:"expires_at" example:"2024-01-29T10:00:00Z"`
}

// OAuthError represents a provider-reported OAuth error.
type OAuthError struct {
	Code        string `json:"error" example:"access_denied"`
	Description string `json:"error_description" example:"The user denied access"`
}

func (e *OAuthError) Error() string {
	if e.Description != "" {
		return e.Code + ": " + e.Description
	}
	return e.Code
}
