// Package service provides business logic implementations.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"composer-pasta-bot/internal/model"
)

// RecordRepository persists the player-record collection as a whole.
type RecordRepository interface {
	// LoadAll returns every stored record. A missing store yields an empty map and no error.
	LoadAll(ctx context.Context) (map[int64]model.PlayerRecord, error)

	// SaveAll replaces the stored collection with records.
	SaveAll(ctx context.Context, records map[int64]model.PlayerRecord) error
}

// PlayerRecords holds the high-score records in memory and flushes them
// through a RecordRepository. UpdatePlayer is the only mutation.
type PlayerRecords struct {
	records map[int64]model.PlayerRecord
	repo    RecordRepository
	mu      sync.RWMutex

	// flushMu keeps snapshots reaching the repository in the order they were taken.
	flushMu sync.Mutex
}

// NewPlayerRecords creates a store seeded with records.
// repo may be nil, in which case Flush is a no-op.
func NewPlayerRecords(records map[int64]model.PlayerRecord, repo RecordRepository) *PlayerRecords {
	copied := make(map[int64]model.PlayerRecord, len(records))
	for id, rec := range records {
		copied[id] = rec
	}
	return &PlayerRecords{
		records: copied,
		repo:    repo,
	}
}

// LoadPlayerRecords reads the stored records. A read failure is logged and
// an empty store is returned so the bot can keep running.
func LoadPlayerRecords(ctx context.Context, repo RecordRepository) *PlayerRecords {
	records, err := repo.LoadAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load player records, starting with an empty store")
		return NewPlayerRecords(nil, repo)
	}

	log.Info().Int("players", len(records)).Msg("Player records loaded")
	return NewPlayerRecords(records, repo)
}

// UpdatePlayer merges a finished game's score into the player's record.
// The name is replaced, the high score only ever rises and the games played
// counter goes up by exactly one.
func (s *PlayerRecords) UpdatePlayer(playerID int64, name string, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[playerID]
	if !ok {
		s.records[playerID] = model.PlayerRecord{
			Name:        name,
			HighScore:   score,
			GamesPlayed: 1,
		}
		return
	}

	rec.Name = name
	rec.HighScore = max(rec.HighScore, score)
	rec.GamesPlayed++
	s.records[playerID] = rec
}

// GetPlayer returns a player's record.
func (s *PlayerRecords) GetPlayer(playerID int64) (model.PlayerRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[playerID]
	return rec, ok
}

// GetPlayerHighScore returns a player's high score, or 0 for an unknown player.
func (s *PlayerRecords) GetPlayerHighScore(playerID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[playerID].HighScore
}

// HighestScore returns the record with the greatest high score.
// Ties go to the lowest player id. ok is false when the store is empty.
func (s *PlayerRecords) HighestScore() (playerID int64, rec model.PlayerRecord, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.sortedIDs() {
		candidate := s.records[id]
		if !ok || candidate.HighScore > rec.HighScore {
			playerID, rec, ok = id, candidate, true
		}
	}
	return playerID, rec, ok
}

// HighestScoreSummary formats the top record as "field: value" lines sorted by field name.
func (s *PlayerRecords) HighestScoreSummary() (string, bool) {
	_, rec, ok := s.HighestScore()
	if !ok {
		return "", false
	}

	lines := make([]string, 0, 3)
	for _, f := range rec.Fields() {
		lines = append(lines, fmt.Sprintf("%s: %s", f[0], f[1]))
	}
	return strings.Join(lines, "\n"), true
}

// Snapshot returns a copy of every record.
func (s *PlayerRecords) Snapshot() map[int64]model.PlayerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]model.PlayerRecord, len(s.records))
	for id, rec := range s.records {
		out[id] = rec
	}
	return out
}

// Len returns the number of players with a record.
func (s *PlayerRecords) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Flush writes every record through the repository. A failure means the
// latest score updates are not persisted; it is logged as such and returned.
func (s *PlayerRecords) Flush(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	snapshot := s.Snapshot()
	if err := s.repo.SaveAll(ctx, snapshot); err != nil {
		log.Error().
			Err(err).
			Int("players", len(snapshot)).
			Bool("data_loss", true).
			Msg("Failed to save player records, recent score updates will be lost on restart")
		return fmt.Errorf("failed to flush player records: %w", err)
	}

	log.Debug().Int("players", len(snapshot)).Msg("Player records saved")
	return nil
}

// sortedIDs returns the player ids in ascending order. Callers hold s.mu.
func (s *PlayerRecords) sortedIDs() []int64 {
	ids := make([]int64, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
