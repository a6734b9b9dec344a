// Package db provides PostgreSQL persistence for essay assists.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStateConflict is returned when an optimistic-concurrency save loses
// the race: the assist's state token moved since the caller read it.
var ErrStateConflict = errors.New("assist state was modified concurrently")

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the schema if it does not exist. Idempotent; safe to
// run at every startup.
func (db *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS essay_assists (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			essay_prompt TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			version_state JSONB,
			scoring_state JSONB,
			tracker_state JSONB,
			last_review JSONB,
			state_token BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS applied_suggestions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			assist_id UUID NOT NULL REFERENCES essay_assists(id) ON DELETE CASCADE,
			suggestion_uuid UUID NOT NULL,
			original_text TEXT NOT NULL,
			replacement_text TEXT NOT NULL,
			start_index INT NOT NULL,
			end_index INT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_applied_suggestions_assist
			ON applied_suggestions(assist_id, applied_at)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			assist_id UUID NOT NULL REFERENCES essay_assists(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			highlights JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_assist
			ON chat_messages(assist_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
