package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateAssist creates a new essay-editing session and returns it.
func (db *DB) CreateAssist(ctx context.Context, essayPrompt, content string) (*Assist, error) {
	var a Assist
	err := db.pool.QueryRow(ctx,
		`INSERT INTO essay_assists (essay_prompt, content)
		 VALUES ($1, $2)
		 RETURNING id, essay_prompt, content, state_token, created_at, updated_at`,
		essayPrompt, content,
	).Scan(&a.ID, &a.EssayPrompt, &a.Content, &a.StateToken, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create assist: %w", err)
	}
	return &a, nil
}

// GetAssist retrieves an assist by ID. Returns nil, nil when not found.
func (db *DB) GetAssist(ctx context.Context, id uuid.UUID) (*Assist, error) {
	var a Assist
	err := db.pool.QueryRow(ctx,
		`SELECT id, essay_prompt, content, version_state, scoring_state,
		        tracker_state, last_review, state_token, created_at, updated_at
		 FROM essay_assists WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.EssayPrompt, &a.Content, &a.VersionState, &a.ScoringState,
		&a.TrackerState, &a.LastReview, &a.StateToken, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assist: %w", err)
	}
	return &a, nil
}

// UpdateContent is the autosave path: it overwrites the draft text
// without touching review state or the state token, so a background
// autosave can never conflict with an in-flight review.
func (db *DB) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE essay_assists SET content = $1, updated_at = NOW() WHERE id = $2`,
		content, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update content: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("assist not found: %s", id)
	}
	return nil
}

// SaveState persists the post-review state of an assist. The write only
// lands if expectedToken still matches the stored token; otherwise
// ErrStateConflict is returned and nothing changes. Nil state slices
// leave their columns as they were.
func (db *DB) SaveState(ctx context.Context, id uuid.UUID, expectedToken int64, state AssistState) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE essay_assists SET
			content = $1,
			version_state = COALESCE($2, version_state),
			scoring_state = COALESCE($3, scoring_state),
			tracker_state = COALESCE($4, tracker_state),
			last_review = COALESCE($5, last_review),
			state_token = state_token + 1,
			updated_at = NOW()
		 WHERE id = $6 AND state_token = $7`,
		state.Content, state.VersionState, state.ScoringState,
		state.TrackerState, state.LastReview, id, expectedToken,
	)
	if err != nil {
		return fmt.Errorf("failed to save assist state: %w", err)
	}
	if result.RowsAffected() == 0 {
		// Distinguish a lost race from a missing row.
		existing, getErr := db.GetAssist(ctx, id)
		if getErr != nil {
			return getErr
		}
		if existing == nil {
			return fmt.Errorf("assist not found: %s", id)
		}
		return ErrStateConflict
	}
	return nil
}

// DeleteAssist removes an assist and its applied suggestions and chat
// history via cascade.
func (db *DB) DeleteAssist(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM essay_assists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assist: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("assist not found: %s", id)
	}
	return nil
}
