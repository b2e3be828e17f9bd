package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driven"
)

// Ensure OAuthProvider implements the interface.
var _ driven.OAuthProvider = (*OAuthProvider)(nil)

const (
	defaultAuthEndpoint  = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultTokenEndpoint = "https://oauth2.googleapis.com/token"
)

// Scopes required to create presentations and own the created files.
var defaultScopes = []string{
	"https://www.googleapis.com/auth/presentations",
	"https://www.googleapis.com/auth/drive.file",
}

// OAuthConfig holds Google OAuth app credentials.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// AuthEndpoint and TokenEndpoint override the Google endpoints,
	// used by tests.
	AuthEndpoint  string
	TokenEndpoint string
}

// IsConfigured reports whether all required credentials are present.
func (c OAuthConfig) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURI != ""
}

// OAuthProvider handles OAuth operations against Google.
type OAuthProvider struct {
	cfg        OAuthConfig
	httpClient *http.Client
}

// NewOAuthProvider creates a new Google OAuth provider.
func NewOAuthProvider(cfg OAuthConfig) *OAuthProvider {
	if cfg.AuthEndpoint == "" {
		cfg.AuthEndpoint = defaultAuthEndpoint
	}
	if cfg.TokenEndpoint == "" {
		cfg.TokenEndpoint = defaultTokenEndpoint
	}
	return &OAuthProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// BuildAuthURL constructs the Google OAuth authorization URL.
// access_type=offline and prompt=consent ensure Google issues a full
// consent screen for each new flow.
func (p *OAuthProvider) BuildAuthURL(state, codeChallenge string) string {
	params := url.Values{
		"client_id":             {p.cfg.ClientID},
		"redirect_uri":          {p.cfg.RedirectURI},
		"response_type":         {"code"},
		"scope":                 {strings.Join(defaultScopes, " ")},
		"state":                 {state},
		"code_challenge":        {codeChallenge},
		"code_challenge_method": {"S256"},
		"access_type":           {"offline"},
		"prompt":                {"consent"},
	}
	return p.cfg.AuthEndpoint + "?" + params.Encode()
}

// ExchangeCode exchanges an authorization code for tokens.
// Any failure, transport or provider-side, wraps domain.ErrTokenExchangeFailed.
func (p *OAuthProvider) ExchangeCode(ctx context.Context, code, codeVerifier string) (*driven.OAuthToken, error) {
	params := url.Values{
		"code":          {code},
		"client_id":     {p.cfg.ClientID},
		"client_secret": {p.cfg.ClientSecret},
		"redirect_uri":  {p.cfg.RedirectURI},
		"grant_type":    {"authorization_code"},
		"code_verifier": {codeVerifier},
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		p.cfg.TokenEndpoint,
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenExchangeFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrTokenExchangeFailed, err)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		Scope       string `json:"scope"`
		IDToken     string `json:"id_token"`
		ExpiresIn   int    `json:"expires_in"`
		Error       string `json:"error"`
		ErrorDesc   string `json:"error_description"`
	}

	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrTokenExchangeFailed, err)
	}

	if resp.StatusCode != http.StatusOK || tokenResp.Error != "" {
		return nil, fmt.Errorf("%w: %s - %s", domain.ErrTokenExchangeFailed, tokenResp.Error, tokenResp.ErrorDesc)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("%w: response carried no access token", domain.ErrTokenExchangeFailed)
	}

	return &driven.OAuthToken{
		AccessToken: tokenResp.AccessToken,
		TokenType:   tokenResp.TokenType,
		Scope:       tokenResp.Scope,
		IDToken:     tokenResp.IDToken,
		ExpiresIn:   tokenResp.ExpiresIn,
	}, nil
}
