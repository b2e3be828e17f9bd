package driven

import (
	"context"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
)

// SessionStore persists authenticated sessions.
// Implementations must treat an expired session identically to a
// missing one: Get past ExpiresAt returns domain.ErrSessionNotFound.
type SessionStore interface {
	// Save stores a session. Saving an already-expired session is a no-op.
	Save(ctx context.Context, session *domain.Session) error

	// Get retrieves a live session by ID.
	// Returns domain.ErrSessionNotFound if absent or expired.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired session records.
	Cleanup(ctx context.Context) error
}
