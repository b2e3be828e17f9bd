package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driven"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driving"
)

func newTestOAuthService(provider driven.OAuthProvider) (driving.OAuthService, *mocks.MockOAuthStateStore, *mocks.MockSessionStore) {
	stateStore := mocks.NewMockOAuthStateStore()
	sessionStore := mocks.NewMockSessionStore()
	svc := NewOAuthService(OAuthServiceConfig{
		Provider:     provider,
		StateStore:   stateStore,
		SessionStore: sessionStore,
		RedirectURI:  "http://localhost:8080/oauth/callback",
	})
	return svc, stateStore, sessionStore
}

func TestOAuthService_Authorize_Success(t *testing.T) {
	provider := mocks.NewMockOAuthProvider()
	svc, stateStore, _ := newTestOAuthService(provider)

	resp, err := svc.Authorize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.State == "" {
		t.Error("expected non-empty state")
	}
	if len(resp.State) != 32 {
		t.Errorf("expected 32-char state, got %d", len(resp.State))
	}
	if !strings.Contains(resp.AuthorizationURL, "state="+resp.State) {
		t.Errorf("authorization URL missing state: %s", resp.AuthorizationURL)
	}
	if !strings.Contains(resp.AuthorizationURL, "code_challenge=") {
		t.Errorf("authorization URL missing code challenge: %s", resp.AuthorizationURL)
	}
	if stateStore.Count() != 1 {
		t.Errorf("expected 1 stored state, got %d", stateStore.Count())
	}
}

func TestOAuthService_Authorize_NotConfigured(t *testing.T) {
	svc, _, _ := newTestOAuthService(nil)

	_, err := svc.Authorize(context.Background())
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestOAuthService_Authorize_StateSaveFails(t *testing.T) {
	provider := mocks.NewMockOAuthProvider()
	svc, stateStore, _ := newTestOAuthService(provider)
	stateStore.SaveErr = errors.New("backend down")

	_, err := svc.Authorize(context.Background())
	if err == nil {
		t.Fatal("expected error when state save fails")
	}
}

func TestOAuthService_Authorize_UniqueStatePerFlow(t *testing.T) {
	provider := mocks.NewMockOAuthProvider()
	svc, _, _ := newTestOAuthService(provider)

	resp1, err := svc.Authorize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp2, err := svc.Authorize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp1.State == resp2.State {
		t.Error("expected distinct states per flow")
	}
}

func TestOAuthService_Callback_Success(t *testing.T) {
	provider := mocks.NewMockOAuthProvider()
	svc, _, sessionStore := newTestOAuthService(provider)

	start, err := svc.Authorize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := svc.Callback(context.Background(), driving.CallbackRequest{
		Code:  "auth-code",
		State: start.State,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.SessionID == "" {
		t.Error("expected session ID")
	}
	if sessionStore.Count() != 1 {
		t.Errorf("expected 1 session, got %d", sessionStore.Count())
	}

	session, err := sessionStore.Get(context.Background(), resp.SessionID)
	if err != nil {
		t.Fatalf("session not retrievable: %v", err)
	}
	if session.AccessToken != "access-token" {
		t.Errorf("expected exchanged access token, got %s", session.AccessToken)
	}

	// The verifier from the stored state must reach the exchange.
	if len(provider.ExchangedVerifiers) != 1 || len(provider.ExchangedVerifiers[0]) != 64 {
		t.Errorf("expected 64-char verifier in exchange, got %v", provider.ExchangedVerifiers)
	}
}

func TestOAuthService_Callback_StateSingleUse(t *testing.T) {
	provider := mocks.NewMockOAuthProvider()
	svc, _, _ := newTestOAuthService(provider)

	start, err := svc.Authorize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := driving.CallbackRequest{Code: "auth-code", State: start.State}

	if _, err := svc.Callback(context.Background(), req); err != nil {
		t.Fatalf("first callback failed: %v", err)
	}

	// Replaying the same state must be rejected as forgery.
	_, err = svc.Callback(context.Background(), req)
	if !errors.Is(err, domain.ErrCsrfMismatch) {
		t.Errorf("expected ErrCsrfMismatch on replay, got %v", err)
	}
}

func TestOAuthService_Callback_UnknownState(t *testing.T) {
	provider := mocks.NewMockOAuthProvider()
	svc, _, _ := newTestOAuthService(provider)

	_, err := svc.Callback(context.Background(), driving.CallbackRequest{
		Code:  "auth-code",
		State: "never-issued",
	})
	if !errors.Is(err, domain.ErrCsrfMismatch) {
		t.Errorf("expected ErrCsrfMismatch, got %v", err)
	}
}

func TestOAuthService_Callback_ExpiredState(t *testing.T) {
	provider := mocks.NewMockOAuthProvider()
	svc, stateStore, _ := newTestOAuthService(provider)

	// Seed an already-expired state directly.
	expired := &driven.OAuthState{
		State:        "expired-state",
		CodeVerifier: "verifier",
		CreatedAt:    time.Now().Add(-time.Hour),
		ExpiresAt:    time.Now().Add(-50 * time.Minute),
	}
	if err := stateStore.Save(context.Background(), expired); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Callback(context.Background(), driving.CallbackRequest{
		Code:  "auth-code",
		State: "expired-state",
	})
	if !errors.Is(err, domain.ErrStateExpired) {
		t.Errorf("expected ErrStateExpired, got %v", err)
	}

	// The expired state is consumed either way.
	if stateStore.Count() != 0 {
		t.Errorf("expected expired state to be consumed, %d remain", stateStore.Count())
	}
}

func TestOAuthService_Callback_ProviderError(t *testing.T) {
	provider := mocks.NewMockOAuthProvider()
	svc, _, _ := newTestOAuthService(provider)

	_, err := svc.Callback(context.Background(), driving.CallbackRequest{
		Error:            "access_denied",
		ErrorDescription: "The user denied access",
	})

	var oauthErr *driving.OAuthError
	if !errors.As(err, &oauthErr) {
		t.Fatalf("expected OAuthError, got %v", err)
	}
	if oauthErr.Code != "access_denied" {
		t.Errorf("expected access_denied, got %s", oauthErr.Code)
	}
	if len(provider.ExchangedCodes) != 0 {
		t.Error("provider error must not trigger an exchange")
	}
}

func TestOAuthService_Callback_ExchangeFails(t *testing.T) {
	provider := mocks.NewMockOAuthProvider()
	provider.ExchangeErr = domain.ErrTokenExchangeFailed
	svc, _, sessionStore := newTestOAuthService(provider)

	start, err := svc.Authorize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Callback(context.Background(), driving.CallbackRequest{
		Code:  "bad-code",
		State: start.State,
	})
	if !errors.Is(err, domain.ErrTokenExchangeFailed) {
		t.Errorf("expected ErrTokenExchangeFailed, got %v", err)
	}
	if sessionStore.Count() != 0 {
		t.Error("no session should be created on a failed exchange")
	}
}

func TestOAuthService_Callback_SessionTTLFollowsToken(t *testing.T) {
	provider := mocks.NewMockOAuthProvider()
	provider.Token.ExpiresIn = 3600
	svc, _, sessionStore := newTestOAuthService(provider)

	start, err := svc.Authorize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := svc.Callback(context.Background(), driving.CallbackRequest{
		Code:  "auth-code",
		State: start.State,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session, err := sessionStore.Get(context.Background(), resp.SessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A 3600s token is shorter than the default cap, so it governs.
	remaining := time.Until(session.ExpiresAt)
	if remaining > time.Hour+time.Minute || remaining < 55*time.Minute {
		t.Errorf("expected roughly 1h session TTL, got %v", remaining)
	}
}

func TestGenerateCodeChallenge(t *testing.T) {
	// Known S256 vector from RFC 7636 appendix B.
	challenge := generateCodeChallenge("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk")
	if challenge != "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM" {
		t.Errorf("unexpected challenge: %s", challenge)
	}
}

func TestGenerateRandomString_Length(t *testing.T) {
	for _, n := range []int{24, 32, 64} {
		s, err := generateRandomString(n)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(s) != n {
			t.Errorf("expected length %d, got %d", n, len(s))
		}
	}
}
