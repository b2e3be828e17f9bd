package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driven"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService implements the AuthService interface
type authService struct {
	sessionStore driven.SessionStore
}

// NewAuthService creates a new AuthService
func NewAuthService(sessionStore driven.SessionStore) driving.AuthService {
	return &authService{sessionStore: sessionStore}
}

// ValidateSession checks that a session exists and has not expired.
func (s *authService) ValidateSession(ctx context.Context, sessionID string) (*domain.AuthContext, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionNotFound
	}

	session, err := s.sessionStore.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	// Stores expire lazily; double-check the deadline.
	if session.IsExpired() {
		return nil, domain.ErrSessionNotFound
	}

	return &domain.AuthContext{
		SessionID:   session.ID,
		Email:       session.Email,
		AccessToken: session.AccessToken,
	}, nil
}

// Logout invalidates a session
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessionStore.Delete(ctx, sessionID)
}
