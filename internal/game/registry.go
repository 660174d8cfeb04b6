package game

import (
	"sort"
	"sync"
)

// Registry tracks the active games, at most one per room.
// It is safe for concurrent use.
type Registry struct {
	games map[int64]*Game
	mu    sync.RWMutex
}

// NewRegistry creates an empty game registry.
func NewRegistry() *Registry {
	return &Registry{
		games: make(map[int64]*Game),
	}
}

// Create registers a new empty game for the room.
// Returns ErrAlreadyActive if the room already has a game.
func (r *Registry) Create(roomID int64) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.games[roomID]; exists {
		return nil, ErrAlreadyActive
	}

	g := New(roomID)
	r.games[roomID] = g
	return g, nil
}

// Lookup returns the room's game, if any.
func (r *Registry) Lookup(roomID int64) (*Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[roomID]
	return g, ok
}

// Remove deletes the room's game. Removing a room without a game is a no-op.
func (r *Registry) Remove(roomID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, roomID)
}

// Count returns the number of active games.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// RoomIDs returns the rooms with an active game, sorted.
func (r *Registry) RoomIDs() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
