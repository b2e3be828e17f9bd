package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driven"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driving"
)

// Ensure oauthService implements OAuthService
var _ driving.OAuthService = (*oauthService)(nil)

// DefaultStateTTL bounds how long a started flow may wait for its callback.
const DefaultStateTTL = 10 * time.Minute

// DefaultSessionTTL caps session lifetime regardless of what the
// provider reports for the access token.
const DefaultSessionTTL = 14 * 24 * time.Hour

// OAuthServiceConfig holds configuration for the OAuth service.
type OAuthServiceConfig struct {
	// Provider handles the provider-facing half of the flow.
	// Nil means OAuth credentials were not configured.
	Provider driven.OAuthProvider

	// StateStore manages OAuth flow state.
	StateStore driven.OAuthStateStore

	// SessionStore persists sessions created after a successful exchange.
	SessionStore driven.SessionStore

	// RedirectURI is the callback URI registered with the provider.
	RedirectURI string

	// SessionTTL caps session lifetime. Zero means DefaultSessionTTL.
	SessionTTL time.Duration
}

// oauthService implements the OAuthService interface.
type oauthService struct {
	provider     driven.OAuthProvider
	stateStore   driven.OAuthStateStore
	sessionStore driven.SessionStore
	redirectURI  string
	sessionTTL   time.Duration
}

// NewOAuthService creates a new OAuth service.
func NewOAuthService(cfg OAuthServiceConfig) driving.OAuthService {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &oauthService{
		provider:     cfg.Provider,
		stateStore:   cfg.StateStore,
		sessionStore: cfg.SessionStore,
		redirectURI:  cfg.RedirectURI,
		sessionTTL:   ttl,
	}
}

// Authorize starts an OAuth authorization flow.
// It generates PKCE credentials, stores state, and returns the authorization URL.
func (s *oauthService) Authorize(ctx context.Context) (*driving.AuthorizeResponse, error) {
	if s.provider == nil {
		return nil, domain.ErrNotConfigured
	}

	// Generate state (CSRF protection)
	state, err := generateRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	// Generate PKCE code verifier and challenge
	codeVerifier, err := generateRandomString(64)
	if err != nil {
		return nil, fmt.Errorf("generate code verifier: %w", err)
	}
	codeChallenge := generateCodeChallenge(codeVerifier)

	// Store state for validation during callback
	expiresAt := time.Now().Add(DefaultStateTTL)
	oauthState := &driven.OAuthState{
		State:        state,
		CodeVerifier: codeVerifier,
		RedirectURI:  s.redirectURI,
		CreatedAt:    time.Now(),
		ExpiresAt:    expiresAt,
	}

	if err := s.stateStore.Save(ctx, oauthState); err != nil {
		return nil, fmt.Errorf("save oauth state: %w", err)
	}

	return &driving.AuthorizeResponse{
		AuthorizationURL: s.provider.BuildAuthURL(state, codeChallenge),
		State:            state,
		ExpiresAt:        expiresAt.Format(time.RFC3339),
	}, nil
}

// Callback handles the OAuth callback from the provider.
// It validates state, exchanges the code for tokens, and creates a session.
func (s *oauthService) Callback(ctx context.Context, req driving.CallbackRequest) (*driving.CallbackResponse, error) {
	// Check for error from provider
	if req.Error != "" {
		return nil, &driving.OAuthError{
			Code:        req.Error,
			Description: req.ErrorDescription,
		}
	}

	if s.provider == nil {
		return nil, domain.ErrNotConfigured
	}

	// Validate and consume state (single-use)
	oauthState, err := s.stateStore.GetAndDelete(ctx, req.State)
	if err != nil {
		return nil, fmt.Errorf("get oauth state: %w", err)
	}
	if oauthState == nil {
		return nil, domain.ErrCsrfMismatch
	}
	if oauthState.IsExpired() {
		return nil, domain.ErrStateExpired
	}

	// Exchange code for tokens using the stored PKCE verifier
	token, err := s.provider.ExchangeCode(ctx, req.Code, oauthState.CodeVerifier)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	// Session lifetime follows the token, capped at the configured TTL
	ttl := s.sessionTTL
	if token.ExpiresIn > 0 {
		if tokenTTL := time.Duration(token.ExpiresIn) * time.Second; tokenTTL < ttl {
			ttl = tokenTTL
		}
	}

	sessionID := generateSessionID()
	now := time.Now()
	session := &domain.Session{
		ID:          sessionID,
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		Email:       emailFromIDToken(token.IDToken),
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}

	if err := s.sessionStore.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &driving.CallbackResponse{
		SessionID: sessionID,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// generateRandomString generates a cryptographically secure random string.
func generateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes)[:length], nil
}

// generateCodeChallenge creates a PKCE code challenge from a verifier (S256 method).
func generateCodeChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// generateSessionID generates a unique session ID.
func generateSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// emailFromIDToken extracts the email claim from an OpenID Connect ID
// token without verifying its signature. The token arrives over TLS
// directly from the provider's token endpoint, which is the trust
// anchor here.
func emailFromIDToken(idToken string) string {
	if idToken == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}
