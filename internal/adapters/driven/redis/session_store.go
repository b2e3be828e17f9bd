package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SessionStore = (*SessionStore)(nil)

const sessionPrefix = "session:"

// SessionStore implements driven.SessionStore using Redis.
// Sessions use Redis TTL for automatic expiration, so an expired
// session is physically gone and reads as not found.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a new Redis-backed SessionStore
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Save stores a session with TTL based on ExpiresAt
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		// Session already expired, don't save
		return nil
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionPrefix+session.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: save session: %v", domain.ErrBackendUnavailable, err)
	}

	return nil
}

// Get retrieves a live session by ID
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, sessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get session: %v", domain.ErrBackendUnavailable, err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	// TTL expiry is not instantaneous; double-check the deadline.
	if session.IsExpired() {
		return nil, domain.ErrSessionNotFound
	}

	return &session, nil
}

// Delete deletes a session
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionPrefix+id).Err(); err != nil {
		return fmt.Errorf("%w: delete session: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// Cleanup is a no-op: Redis TTL removes expired sessions on its own.
func (s *SessionStore) Cleanup(ctx context.Context) error {
	return nil
}

// Ping checks if the Redis backend is healthy.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
