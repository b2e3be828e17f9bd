package driving

import (
	"context"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
)

// AuthService resolves and terminates sessions.
type AuthService interface {
	// ValidateSession checks that a session exists and has not expired.
	// Returns domain.ErrSessionNotFound otherwise.
	ValidateSession(ctx context.Context, sessionID string) (*domain.AuthContext, error)

	// Logout deletes a session. Unknown sessions are not an error.
	Logout(ctx context.Context, sessionID string) error
}
