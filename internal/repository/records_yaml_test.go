package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"composer-pasta-bot/internal/model"
)

func TestYAMLRecordRepository_MissingFile(t *testing.T) {
	repo := NewYAMLRecordRepository(filepath.Join(t.TempDir(), "player_data.yaml"))

	records, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestYAMLRecordRepository_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player_data.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	records, err := NewYAMLRecordRepository(path).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestYAMLRecordRepository_ReadsExistingFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player_data.yaml")
	data := `12345:
  Name: Alice
  High score: 17
  Number of games played: 4
678:
  Name: Bob
  High score: 3
  Number of games played: 1
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	records, err := NewYAMLRecordRepository(path).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int64]model.PlayerRecord{
		12345: {Name: "Alice", HighScore: 17, GamesPlayed: 4},
		678:   {Name: "Bob", HighScore: 3, GamesPlayed: 1},
	}, records)
}

func TestYAMLRecordRepository_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "player_data.yaml")
	repo := NewYAMLRecordRepository(path)
	ctx := context.Background()
	assert.Equal(t, path, repo.Path())

	want := map[int64]model.PlayerRecord{
		1: {Name: "Alice", HighScore: 10, GamesPlayed: 2},
		2: {Name: "Bob", HighScore: 0, GamesPlayed: 1},
	}
	require.NoError(t, repo.SaveAll(ctx, want))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "High score: 10")
	assert.Contains(t, string(raw), "Number of games played: 2")

	got, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// No temporary files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestYAMLRecordRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player_data.yaml")
	require.NoError(t, os.WriteFile(path, []byte("1: [unclosed"), 0o644))

	_, err := NewYAMLRecordRepository(path).LoadAll(context.Background())
	assert.Error(t, err)
}

func TestYAMLRecordRepository_SaveCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player_data.yaml")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewYAMLRecordRepository(path).SaveAll(ctx, map[int64]model.PlayerRecord{1: {Name: "A"}})
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestYAMLRecordRepository_SaveIntoMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "player_data.yaml")
	err := NewYAMLRecordRepository(path).SaveAll(context.Background(), map[int64]model.PlayerRecord{1: {Name: "A"}})
	assert.Error(t, err)
}
