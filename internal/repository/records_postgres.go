package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"composer-pasta-bot/internal/model"
)

// PostgresRecordRepository stores player records in the player_records table.
type PostgresRecordRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRecordRepository creates a new PostgresRecordRepository instance.
func NewPostgresRecordRepository(pool *pgxpool.Pool) *PostgresRecordRepository {
	return &PostgresRecordRepository{pool: pool}
}

// LoadAll reads every record.
func (r *PostgresRecordRepository) LoadAll(ctx context.Context) (map[int64]model.PlayerRecord, error) {
	const query = `
		SELECT player_id, name, high_score, games_played
		FROM player_records
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query player records: %w", err)
	}
	defer rows.Close()

	records := make(map[int64]model.PlayerRecord)
	for rows.Next() {
		var (
			id  int64
			rec model.PlayerRecord
		)
		if err := rows.Scan(&id, &rec.Name, &rec.HighScore, &rec.GamesPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan player record: %w", err)
		}
		records[id] = rec
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player records: %w", err)
	}

	return records, nil
}

// SaveAll upserts every record in one transaction.
// The high score is merged with GREATEST so a stale writer can never lower it.
func (r *PostgresRecordRepository) SaveAll(ctx context.Context, records map[int64]model.PlayerRecord) error {
	const query = `
		INSERT INTO player_records (player_id, name, high_score, games_played, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (player_id) DO UPDATE
		SET name = EXCLUDED.name,
			high_score = GREATEST(player_records.high_score, EXCLUDED.high_score),
			games_played = GREATEST(player_records.games_played, EXCLUDED.games_played),
			updated_at = NOW()
	`

	if len(records) == 0 {
		return nil
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for id, rec := range records {
			batch.Queue(query, id, rec.Name, rec.HighScore, rec.GamesPlayed)
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save player records: %w", err)
		}
		return nil
	})
}

// Migrate creates the player_records table if it does not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS player_records (
			player_id BIGINT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			high_score INT NOT NULL DEFAULT 0 CHECK (high_score >= 0),
			games_played INT NOT NULL DEFAULT 0 CHECK (games_played >= 0),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_player_records_high_score ON player_records(high_score DESC);
	`)
	if err != nil {
		return fmt.Errorf("failed to create player_records table: %w", err)
	}
	return nil
}
