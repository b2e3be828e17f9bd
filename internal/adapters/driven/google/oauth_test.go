package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
)

func testOAuthConfig(tokenEndpoint string) OAuthConfig {
	return OAuthConfig{
		ClientID:      "client-id",
		ClientSecret:  "client-secret",
		RedirectURI:   "http://localhost:8080/oauth/callback",
		TokenEndpoint: tokenEndpoint,
	}
}

func TestOAuthConfig_IsConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  OAuthConfig
		want bool
	}{
		{"complete", OAuthConfig{ClientID: "a", ClientSecret: "b", RedirectURI: "c"}, true},
		{"missing client id", OAuthConfig{ClientSecret: "b", RedirectURI: "c"}, false},
		{"missing secret", OAuthConfig{ClientID: "a", RedirectURI: "c"}, false},
		{"missing redirect", OAuthConfig{ClientID: "a", ClientSecret: "b"}, false},
		{"empty", OAuthConfig{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOAuthProvider_BuildAuthURL(t *testing.T) {
	provider := NewOAuthProvider(testOAuthConfig(""))

	rawURL := provider.BuildAuthURL("my-state", "my-challenge")

	parsed, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("unparseable URL: %v", err)
	}
	if !strings.HasPrefix(rawURL, "https://accounts.google.com/o/oauth2/v2/auth?") {
		t.Errorf("unexpected endpoint: %s", rawURL)
	}

	q := parsed.Query()
	expected := map[string]string{
		"client_id":             "client-id",
		"redirect_uri":          "http://localhost:8080/oauth/callback",
		"response_type":         "code",
		"state":                 "my-state",
		"code_challenge":        "my-challenge",
		"code_challenge_method": "S256",
		"access_type":           "offline",
		"prompt":                "consent",
	}
	for key, want := range expected {
		if got := q.Get(key); got != want {
			t.Errorf("param %s: expected %q, got %q", key, want, got)
		}
	}

	scope := q.Get("scope")
	if !strings.Contains(scope, "auth/presentations") || !strings.Contains(scope, "auth/drive.file") {
		t.Errorf("unexpected scopes: %s", scope)
	}
}

func TestOAuthProvider_ExchangeCode_Success(t *testing.T) {
	var gotForm url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access_token": "ya29.token",
			"token_type": "Bearer",
			"scope": "https://www.googleapis.com/auth/presentations",
			"id_token": "header.payload.sig",
			"expires_in": 3599
		}`))
	}))
	defer server.Close()

	provider := NewOAuthProvider(testOAuthConfig(server.URL))

	token, err := provider.ExchangeCode(context.Background(), "auth-code", "verifier-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if token.AccessToken != "ya29.token" {
		t.Errorf("expected access token, got %s", token.AccessToken)
	}
	if token.TokenType != "Bearer" {
		t.Errorf("expected Bearer, got %s", token.TokenType)
	}
	if token.ExpiresIn != 3599 {
		t.Errorf("expected 3599, got %d", token.ExpiresIn)
	}
	if token.IDToken != "header.payload.sig" {
		t.Errorf("expected id token, got %s", token.IDToken)
	}

	expectedForm := map[string]string{
		"code":          "auth-code",
		"client_id":     "client-id",
		"client_secret": "client-secret",
		"redirect_uri":  "http://localhost:8080/oauth/callback",
		"grant_type":    "authorization_code",
		"code_verifier": "verifier-123",
	}
	for key, want := range expectedForm {
		if got := gotForm.Get(key); got != want {
			t.Errorf("form %s: expected %q, got %q", key, want, got)
		}
	}
}

func TestOAuthProvider_ExchangeCode_ProviderRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "invalid_grant", "error_description": "Bad code"}`))
	}))
	defer server.Close()

	provider := NewOAuthProvider(testOAuthConfig(server.URL))

	_, err := provider.ExchangeCode(context.Background(), "bad-code", "verifier")
	if !errors.Is(err, domain.ErrTokenExchangeFailed) {
		t.Errorf("expected ErrTokenExchangeFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid_grant") {
		t.Errorf("expected provider error code in message, got %v", err)
	}
}

func TestOAuthProvider_ExchangeCode_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	provider := NewOAuthProvider(testOAuthConfig(server.URL))

	_, err := provider.ExchangeCode(context.Background(), "code", "verifier")
	if !errors.Is(err, domain.ErrTokenExchangeFailed) {
		t.Errorf("expected ErrTokenExchangeFailed, got %v", err)
	}
}

func TestOAuthProvider_ExchangeCode_EmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	provider := NewOAuthProvider(testOAuthConfig(server.URL))

	_, err := provider.ExchangeCode(context.Background(), "code", "verifier")
	if !errors.Is(err, domain.ErrTokenExchangeFailed) {
		t.Errorf("expected ErrTokenExchangeFailed for empty token, got %v", err)
	}
}
