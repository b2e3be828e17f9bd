package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/custodia-labs/deckgen-core/internal/core/ports/driven"
)

// janitorLockName is the distributed lock guarding a sweep, so only
// one instance cleans at a time.
const janitorLockName = "janitor"

// DefaultSweepInterval is how often the janitor runs.
const DefaultSweepInterval = time.Hour

// Janitor periodically purges expired OAuth states and sessions.
// Redis-backed stores expire entries on their own and their Cleanup is
// a no-op; the sweep matters for the PostgreSQL backend.
type Janitor struct {
	stateStore   driven.OAuthStateStore
	sessionStore driven.SessionStore
	lock         driven.DistributedLock
	logger       *slog.Logger
	interval     time.Duration

	// Internal state
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// JanitorConfig holds configuration for the janitor.
type JanitorConfig struct {
	StateStore   driven.OAuthStateStore
	SessionStore driven.SessionStore

	// Lock serializes sweeps across instances. Nil means sweep
	// unconditionally (single-instance deployment).
	Lock driven.DistributedLock

	Logger *slog.Logger

	// Interval between sweeps. Zero means DefaultSweepInterval.
	Interval time.Duration
}

// NewJanitor creates a new janitor.
func NewJanitor(cfg JanitorConfig) *Janitor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &Janitor{
		stateStore:   cfg.StateStore,
		sessionStore: cfg.SessionStore,
		lock:         cfg.Lock,
		logger:       logger,
		interval:     interval,
	}
}

// Start begins the sweep loop.
// It runs until Stop is called or the context is cancelled.
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return nil
	}
	j.running = true
	j.stopCh = make(chan struct{})
	j.doneCh = make(chan struct{})
	j.mu.Unlock()

	j.logger.Info("janitor starting", "interval", j.interval)

	go func() {
		defer close(j.doneCh)

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-j.stopCh:
				return
			case <-ticker.C:
				j.Sweep(ctx)
			}
		}
	}()

	return nil
}

// Stop gracefully stops the janitor.
func (j *Janitor) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	j.running = false
	close(j.stopCh)
	j.mu.Unlock()

	<-j.doneCh
	j.logger.Info("janitor stopped")
}

// Sweep runs a single cleanup pass. Exported so deployments can
// trigger an immediate sweep at startup.
func (j *Janitor) Sweep(ctx context.Context) {
	if j.lock != nil {
		acquired, err := j.lock.Acquire(ctx, janitorLockName, j.interval)
		if err != nil {
			j.logger.Error("janitor lock acquisition failed", "error", err)
			return
		}
		if !acquired {
			j.logger.Debug("janitor sweep skipped, another instance holds the lock")
			return
		}
		defer func() {
			if err := j.lock.Release(ctx, janitorLockName); err != nil {
				j.logger.Error("janitor lock release failed", "error", err)
			}
		}()
	}

	start := time.Now()

	if err := j.stateStore.Cleanup(ctx); err != nil {
		j.logger.Error("oauth state cleanup failed", "error", err)
	}
	if err := j.sessionStore.Cleanup(ctx); err != nil {
		j.logger.Error("session cleanup failed", "error", err)
	}

	j.logger.Info("janitor sweep complete", "duration", time.Since(start))
}
