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
var _ driven.OAuthStateStore = (*OAuthStateStore)(nil)

const oauthStatePrefix = "oauth:state:"

// stateGraceWindow keeps an expired state physically present past its
// logical TTL so a late callback can be told apart from a forged one.
const stateGraceWindow = time.Hour

// OAuthStateStore implements driven.OAuthStateStore using Redis.
type OAuthStateStore struct {
	client *redis.Client
}

// NewOAuthStateStore creates a new Redis-backed OAuth state store.
func NewOAuthStateStore(client *redis.Client) *OAuthStateStore {
	return &OAuthStateStore{client: client}
}

// Save stores a new OAuth state.
func (s *OAuthStateStore) Save(ctx context.Context, state *driven.OAuthState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal oauth state: %w", err)
	}

	ttl := time.Until(state.ExpiresAt) + stateGraceWindow
	if ttl <= 0 {
		return nil
	}

	if err := s.client.Set(ctx, oauthStatePrefix+state.State, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: save oauth state: %v", domain.ErrBackendUnavailable, err)
	}

	return nil
}

// GetAndDelete atomically retrieves and removes a state via GETDEL.
// Expired-but-present states are returned; the caller decides between
// expiry and forgery.
func (s *OAuthStateStore) GetAndDelete(ctx context.Context, state string) (*driven.OAuthState, error) {
	data, err := s.client.GetDel(ctx, oauthStatePrefix+state).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get oauth state: %v", domain.ErrBackendUnavailable, err)
	}

	var oauthState driven.OAuthState
	if err := json.Unmarshal(data, &oauthState); err != nil {
		return nil, fmt.Errorf("unmarshal oauth state: %w", err)
	}

	return &oauthState, nil
}

// Cleanup is a no-op: Redis TTL removes stale states after the grace window.
func (s *OAuthStateStore) Cleanup(ctx context.Context) error {
	return nil
}
