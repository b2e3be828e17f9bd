package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driven"
)

// Ensure OAuthStateStore implements the interface.
var _ driven.OAuthStateStore = (*OAuthStateStore)(nil)

// oauthStateGrace keeps expired states queryable past their TTL so a
// late callback reads as expired instead of forged. Cleanup removes
// states only once the grace window has also passed.
const oauthStateGrace = time.Hour

// OAuthStateStore implements driven.OAuthStateStore using PostgreSQL.
type OAuthStateStore struct {
	db *DB
}

// NewOAuthStateStore creates a new PostgreSQL-backed OAuth state store.
func NewOAuthStateStore(db *DB) *OAuthStateStore {
	return &OAuthStateStore{db: db}
}

// Save stores a new OAuth state.
func (s *OAuthStateStore) Save(ctx context.Context, state *driven.OAuthState) error {
	query := `
		INSERT INTO oauth_states (state, code_verifier, redirect_uri, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query,
		state.State,
		state.CodeVerifier,
		state.RedirectURI,
		state.CreatedAt,
		state.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("%w: save oauth state: %v", domain.ErrBackendUnavailable, err)
	}

	return nil
}

// GetAndDelete atomically retrieves and deletes the state.
// Uses DELETE ... RETURNING for atomic single-use semantics. Expired
// rows are still returned; the caller checks the deadline.
func (s *OAuthStateStore) GetAndDelete(ctx context.Context, state string) (*driven.OAuthState, error) {
	query := `
		DELETE FROM oauth_states
		WHERE state = $1
		RETURNING state, code_verifier, redirect_uri, created_at, expires_at
	`

	var oauthState driven.OAuthState
	err := s.db.QueryRowContext(ctx, query, state).Scan(
		&oauthState.State,
		&oauthState.CodeVerifier,
		&oauthState.RedirectURI,
		&oauthState.CreatedAt,
		&oauthState.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // State not found
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get and delete oauth state: %v", domain.ErrBackendUnavailable, err)
	}

	return &oauthState, nil
}

// Cleanup removes states whose grace window has passed.
func (s *OAuthStateStore) Cleanup(ctx context.Context) error {
	query := `DELETE FROM oauth_states WHERE expires_at < $1`

	_, err := s.db.ExecContext(ctx, query, time.Now().Add(-oauthStateGrace))
	if err != nil {
		return fmt.Errorf("%w: cleanup oauth states: %v", domain.ErrBackendUnavailable, err)
	}

	return nil
}
