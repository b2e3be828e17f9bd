package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
)

// MockSlidesAPI is a mock implementation of SlidesAPI for testing.
// It records every call so tests can assert on ordering and payloads.
type MockSlidesAPI struct {
	mu sync.Mutex

	// CreateErr and BatchErr force the corresponding call to fail.
	CreateErr error
	BatchErr  error

	// PresentationID is returned by CreatePresentation on success.
	PresentationID string

	CreateCalls []string
	BatchCalls  [][]domain.SlideOperation
	LastToken   string
	LastDeckID  string
}

// NewMockSlidesAPI creates a new MockSlidesAPI
func NewMockSlidesAPI() *MockSlidesAPI {
	return &MockSlidesAPI{PresentationID: "pres-1"}
}

func (m *MockSlidesAPI) CreatePresentation(ctx context.Context, accessToken, title string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastToken = accessToken
	m.CreateCalls = append(m.CreateCalls, title)
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	return m.PresentationID, nil
}

func (m *MockSlidesAPI) BatchUpdate(ctx context.Context, accessToken, presentationID string, ops []domain.SlideOperation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastToken = accessToken
	m.LastDeckID = presentationID
	m.BatchCalls = append(m.BatchCalls, ops)
	return m.BatchErr
}
