package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore implements driven.SessionStore using PostgreSQL.
// Access tokens are encrypted before hitting the table. Expiration is
// lazy: Get filters on the deadline and Cleanup purges stale rows.
type SessionStore struct {
	db     *DB
	cipher *TokenCipher
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(db *DB, cipher *TokenCipher) *SessionStore {
	return &SessionStore{db: db, cipher: cipher}
}

// Save stores a session
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	tokenBlob, err := s.cipher.Encrypt(session.AccessToken)
	if err != nil {
		return fmt.Errorf("encrypt access token: %w", err)
	}

	query := `
		INSERT INTO sessions (id, access_token, token_type, email, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			token_type = EXCLUDED.token_type,
			email = EXCLUDED.email,
			expires_at = EXCLUDED.expires_at
	`

	_, err = s.db.ExecContext(ctx, query,
		session.ID,
		tokenBlob,
		session.TokenType,
		session.Email,
		session.ExpiresAt,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: save session: %v", domain.ErrBackendUnavailable, err)
	}

	return nil
}

// Get retrieves a live session by ID. Expired sessions read as not found.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT id, access_token, token_type, email, expires_at, created_at
		FROM sessions
		WHERE id = $1 AND expires_at > NOW()
	`

	var session domain.Session
	var tokenBlob []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&tokenBlob,
		&session.TokenType,
		&session.Email,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get session: %v", domain.ErrBackendUnavailable, err)
	}

	session.AccessToken, err = s.cipher.Decrypt(tokenBlob)
	if err != nil {
		return nil, fmt.Errorf("decrypt access token: %w", err)
	}

	return &session, nil
}

// Delete deletes a session. Deleting a missing session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM sessions WHERE id = $1`
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%w: delete session: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// Cleanup removes expired sessions.
func (s *SessionStore) Cleanup(ctx context.Context) error {
	query := `DELETE FROM sessions WHERE expires_at < NOW()`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: cleanup sessions: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}
