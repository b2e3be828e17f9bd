package worker

import (
	"context"
	"testing"
	"time"

	"github.com/custodia-labs/deckgen-core/internal/core/domain"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driven"
	"github.com/custodia-labs/deckgen-core/internal/core/ports/driven/mocks"
)

func seedStores(t *testing.T) (*mocks.MockOAuthStateStore, *mocks.MockSessionStore) {
	t.Helper()
	ctx := context.Background()

	states := mocks.NewMockOAuthStateStore()
	_ = states.Save(ctx, &driven.OAuthState{
		State:     "live",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	})
	_ = states.Save(ctx, &driven.OAuthState{
		State:     "stale",
		ExpiresAt: time.Now().Add(-10 * time.Minute),
	})

	sessions := mocks.NewMockSessionStore()
	live := &domain.Session{ID: "live", ExpiresAt: time.Now().Add(time.Hour)}
	_ = sessions.Save(ctx, live)
	stale := &domain.Session{ID: "stale", ExpiresAt: time.Now().Add(time.Hour)}
	_ = sessions.Save(ctx, stale)
	stale.ExpiresAt = time.Now().Add(-time.Hour)

	return states, sessions
}

func TestJanitor_Sweep(t *testing.T) {
	states, sessions := seedStores(t)
	lock := mocks.NewMockDistributedLock()

	janitor := NewJanitor(JanitorConfig{
		StateStore:   states,
		SessionStore: sessions,
		Lock:         lock,
	})

	janitor.Sweep(context.Background())

	if states.Count() != 1 {
		t.Errorf("expected stale state removed, %d remain", states.Count())
	}
	if sessions.Count() != 1 {
		t.Errorf("expected stale session removed, %d remain", sessions.Count())
	}
	if lock.Held(janitorLockName) {
		t.Error("sweep must release the lock")
	}
	if len(lock.Freed) != 1 {
		t.Errorf("expected one lock release, got %d", len(lock.Freed))
	}
}

func TestJanitor_Sweep_LockBusy(t *testing.T) {
	states, sessions := seedStores(t)
	lock := mocks.NewMockDistributedLock()
	lock.Busy = true

	janitor := NewJanitor(JanitorConfig{
		StateStore:   states,
		SessionStore: sessions,
		Lock:         lock,
	})

	janitor.Sweep(context.Background())

	// Another instance is sweeping; touch nothing.
	if states.Count() != 2 {
		t.Errorf("expected stores untouched, %d states remain", states.Count())
	}
	if sessions.Count() != 2 {
		t.Errorf("expected stores untouched, %d sessions remain", sessions.Count())
	}
}

func TestJanitor_Sweep_NoLock(t *testing.T) {
	states, sessions := seedStores(t)

	janitor := NewJanitor(JanitorConfig{
		StateStore:   states,
		SessionStore: sessions,
	})

	janitor.Sweep(context.Background())

	if states.Count() != 1 || sessions.Count() != 1 {
		t.Error("sweep without a lock must still clean up")
	}
}

func TestJanitor_StartStop(t *testing.T) {
	states, sessions := seedStores(t)

	janitor := NewJanitor(JanitorConfig{
		StateStore:   states,
		SessionStore: sessions,
		Interval:     10 * time.Millisecond,
	})

	ctx := context.Background()
	if err := janitor.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Let at least one tick fire.
	time.Sleep(50 * time.Millisecond)
	janitor.Stop()

	if states.Count() != 1 || sessions.Count() != 1 {
		t.Error("expected periodic sweep to clean stale entries")
	}

	// Idempotent stop and restart protection.
	janitor.Stop()
	if err := janitor.Start(ctx); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	janitor.Stop()
}
