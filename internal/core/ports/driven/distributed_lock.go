package driven

import (
	"context"
	"time"
)

// DistributedLock provides mutual exclusion across service instances.
// Used by the maintenance janitor so only one instance sweeps expired
// records at a time.
type DistributedLock interface {
	// Acquire attempts to acquire a named lock with the given TTL.
	// Returns true if acquired, false if held elsewhere.
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)

	// Release releases a named lock if held by this instance.
	Release(ctx context.Context, name string) error
}
