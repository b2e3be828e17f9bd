package driven

import "context"

// OAuthToken holds tokens returned by the provider's token endpoint.
type OAuthToken struct {
	AccessToken string
	TokenType   string
	Scope       string
	IDToken     string
	ExpiresIn   int
}

// OAuthProvider handles the provider-facing half of the authorization
// code flow: building the consent URL and exchanging the code.
type OAuthProvider interface {
	// BuildAuthURL constructs the authorization URL the user is
	// redirected to, embedding state and the PKCE challenge.
	BuildAuthURL(state, codeChallenge string) string

	// ExchangeCode exchanges an authorization code plus PKCE verifier
	// for tokens. A provider rejection or transport failure returns an
	// error wrapping domain.ErrTokenExchangeFailed.
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*OAuthToken, error)
}
