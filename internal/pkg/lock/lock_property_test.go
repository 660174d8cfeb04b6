package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestRoomLockSerialisesEventsProperty checks that concurrent read-modify-write
// sequences on one room under the lock give the sequential result.
func TestRoomLockSerialisesEventsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		roomID := rapid.Int64Range(-1000000, 1000000).Draw(t, "roomID")
		numEvents := rapid.IntRange(2, 50).Draw(t, "numEvents")

		rl := NewRoomLock()
		round := 0
		var failures sync.Map

		var wg sync.WaitGroup
		wg.Add(numEvents)
		for i := 0; i < numEvents; i++ {
			go func(i int) {
				defer wg.Done()
				err := rl.WithLockContext(context.Background(), roomID, 10*time.Second, func() error {
					current := round
					round = current + 1
					return nil
				})
				if err != nil {
					failures.Store(i, err)
				}
			}(i)
		}
		wg.Wait()

		failures.Range(func(k, v any) bool {
			t.Fatalf("event %v failed to take the lock: %v", k, v)
			return false
		})
		if round != numEvents {
			t.Fatalf("expected %d rounds after %d serialised events, got %d", numEvents, numEvents, round)
		}
	})
}

// TestRoomLockIndependentRoomsProperty checks that holding one room's lock
// never blocks another room.
func TestRoomLockIndependentRoomsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Int64Range(1, 1000).Draw(t, "roomA")
		b := rapid.Int64Range(1001, 2000).Draw(t, "roomB")
		ctx := context.Background()

		rl := NewRoomLock()
		if !rl.LockWithTimeout(ctx, a, time.Second) {
			t.Fatalf("could not lock free room %d", a)
		}
		defer rl.Unlock(a)

		if err := rl.WithLockContext(ctx, b, 100*time.Millisecond, func() error { return nil }); err != nil {
			t.Fatalf("room %d blocked by lock on room %d: %v", b, a, err)
		}

		err := rl.WithLockContext(ctx, a, 5*time.Millisecond, func() error { return nil })
		if err != ErrLockTimeout {
			t.Fatalf("room %d lock acquired twice, err=%v", a, err)
		}
	})
}

func TestRoomLock_WithLockContextTimeout(t *testing.T) {
	rl := NewRoomLock()
	require.True(t, rl.LockWithTimeout(context.Background(), 42, time.Second))

	called := false
	err := rl.WithLockContext(context.Background(), 42, 20*time.Millisecond, func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.False(t, called)

	rl.Unlock(42)

	// The abandoned waiter takes the lock and hands it back, so the room is usable again.
	err = rl.WithLockContext(context.Background(), 42, time.Second, func() error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestRoomLock_WithLockContextCancelled(t *testing.T) {
	rl := NewRoomLock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rl.WithLockContext(ctx, 7, time.Second, func() error {
		t.Fatal("fn must not run with a cancelled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	// The lock is released after a cancelled call.
	assert.NoError(t, rl.WithLockContext(context.Background(), 7, 10*time.Millisecond, func() error { return nil }))
}
