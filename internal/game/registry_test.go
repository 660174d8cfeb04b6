package game

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateLookupRemove(t *testing.T) {
	r := NewRegistry()

	g, err := r.Create(-100)
	require.NoError(t, err)
	assert.Equal(t, int64(-100), g.RoomID)

	got, ok := r.Lookup(-100)
	require.True(t, ok)
	assert.Same(t, g, got)

	_, err = r.Create(-100)
	assert.ErrorIs(t, err, ErrAlreadyActive)

	_, err = r.Create(-200)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count())
	assert.Equal(t, []int64{-200, -100}, r.RoomIDs())

	r.Remove(-100)
	_, ok = r.Lookup(-100)
	assert.False(t, ok)

	// Removing again is harmless.
	r.Remove(-100)
	assert.Equal(t, 1, r.Count())

	// The room can host a new game after removal.
	g2, err := r.Create(-100)
	require.NoError(t, err)
	assert.NotEqual(t, g.ID, g2.ID)
}

func TestRegistry_ConcurrentCreate(t *testing.T) {
	r := NewRegistry()

	var created atomic.Int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Create(7); err == nil {
				created.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, 1, r.Count())
}
