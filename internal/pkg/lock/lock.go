// Package lock provides per-room locking so that events for one room are
// handled one at a time while different rooms proceed in parallel.
package lock

import (
	"context"
	"sync"
	"time"
)

// RoomLock hands out one mutex per room id.
type RoomLock struct {
	locks sync.Map // map[int64]*sync.Mutex
}

// NewRoomLock creates a new RoomLock instance.
func NewRoomLock() *RoomLock {
	return &RoomLock{}
}

// getLock retrieves or creates the mutex for a room.
func (rl *RoomLock) getLock(roomID int64) *sync.Mutex {
	if v, ok := rl.locks.Load(roomID); ok {
		return v.(*sync.Mutex)
	}
	actual, _ := rl.locks.LoadOrStore(roomID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// Unlock releases the lock for a room.
func (rl *RoomLock) Unlock(roomID int64) {
	if v, ok := rl.locks.Load(roomID); ok {
		v.(*sync.Mutex).Unlock()
	}
}

// LockWithTimeout attempts to acquire the lock, giving up after timeout or
// when ctx is done. Returns true if the lock was acquired.
func (rl *RoomLock) LockWithTimeout(ctx context.Context, roomID int64, timeout time.Duration) bool {
	mu := rl.getLock(roomID)
	if mu.TryLock() {
		return true
	}

	done := make(chan struct{})
	go func() {
		mu.Lock()
		close(done)
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-done:
		return true
	case <-timeoutCtx.Done():
		// The waiting goroutine still gets the lock eventually; hand it straight back.
		go func() {
			<-done
			mu.Unlock()
		}()
		return false
	}
}

// WithLockContext executes fn while holding the room's lock, waiting at most timeout for it.
// Returns ErrLockTimeout if the lock could not be acquired in time.
func (rl *RoomLock) WithLockContext(ctx context.Context, roomID int64, timeout time.Duration, fn func() error) error {
	if !rl.LockWithTimeout(ctx, roomID, timeout) {
		return ErrLockTimeout
	}
	defer rl.Unlock(roomID)

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fn()
	}
}
