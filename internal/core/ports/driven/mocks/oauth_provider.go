package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/deckgen-core/internal/core/ports/driven"
)

// MockOAuthProvider is a mock implementation of OAuthProvider for testing
type MockOAuthProvider struct {
	mu sync.Mutex

	// Token is returned by ExchangeCode on success.
	Token *driven.OAuthToken

	// ExchangeErr forces ExchangeCode to fail.
	ExchangeErr error

	ExchangedCodes     []string
	ExchangedVerifiers []string
}

// NewMockOAuthProvider creates a new MockOAuthProvider
func NewMockOAuthProvider() *MockOAuthProvider {
	return &MockOAuthProvider{
		Token: &driven.OAuthToken{
			AccessToken: "access-token",
			TokenType:   "Bearer",
			ExpiresIn:   3600,
		},
	}
}

func (m *MockOAuthProvider) BuildAuthURL(state, codeChallenge string) string {
	return "https://auth.example.com/authorize?state=" + state + "&code_challenge=" + codeChallenge
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, code, codeVerifier string) (*driven.OAuthToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExchangedCodes = append(m.ExchangedCodes, code)
	m.ExchangedVerifiers = append(m.ExchangedVerifiers, codeVerifier)
	if m.ExchangeErr != nil {
		return nil, m.ExchangeErr
	}
	return m.Token, nil
}
