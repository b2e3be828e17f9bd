package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/deckgen-core/internal/core/ports/driven"
)

// MockOAuthStateStore is a mock implementation of OAuthStateStore for testing
type MockOAuthStateStore struct {
	mu     sync.Mutex
	states map[string]*driven.OAuthState

	// SaveErr and GetErr force the corresponding call to fail.
	SaveErr error
	GetErr  error
}

// NewMockOAuthStateStore creates a new MockOAuthStateStore
func NewMockOAuthStateStore() *MockOAuthStateStore {
	return &MockOAuthStateStore{
		states: make(map[string]*driven.OAuthState),
	}
}

func (m *MockOAuthStateStore) Save(ctx context.Context, state *driven.OAuthState) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.State] = state
	return nil
}

func (m *MockOAuthStateStore) GetAndDelete(ctx context.Context, state string) (*driven.OAuthState, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[state]
	if !ok {
		return nil, nil
	}
	delete(m.states, state)
	return s, nil
}

func (m *MockOAuthStateStore) Cleanup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, state := range m.states {
		if state.IsExpired() {
			delete(m.states, key)
		}
	}
	return nil
}

// Helper methods for testing

func (m *MockOAuthStateStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.states)
}
