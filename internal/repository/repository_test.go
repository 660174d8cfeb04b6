package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"composer-pasta-bot/internal/model"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupTestDB creates a PostgreSQL container and returns a migrated connection pool.
// Skips the test if Docker is not available
func setupTestDB(t *testing.T) *pgxpool.Pool {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	// Running it twice must be harmless.
	require.NoError(t, Migrate(ctx, pool))

	return pool
}

func TestPostgresRecordRepository_EmptyTable(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPostgresRecordRepository(pool)

	records, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.NoError(t, repo.SaveAll(context.Background(), nil))
}

func TestPostgresRecordRepository_SaveAndLoad(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPostgresRecordRepository(pool)
	ctx := context.Background()

	want := map[int64]model.PlayerRecord{
		111: {Name: "Alice", HighScore: 7, GamesPlayed: 2},
		222: {Name: "Bob", HighScore: 0, GamesPlayed: 1},
	}
	require.NoError(t, repo.SaveAll(ctx, want))

	got, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPostgresRecordRepository_NeverLowersHighScore(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPostgresRecordRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.SaveAll(ctx, map[int64]model.PlayerRecord{
		111: {Name: "Alice", HighScore: 9, GamesPlayed: 3},
	}))
	require.NoError(t, repo.SaveAll(ctx, map[int64]model.PlayerRecord{
		111: {Name: "Alice B.", HighScore: 4, GamesPlayed: 4},
	}))

	got, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.PlayerRecord{Name: "Alice B.", HighScore: 9, GamesPlayed: 4}, got[111])
}
