package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/everwrite/essay-coach/internal/types"
)

// RecordAppliedSuggestion appends an accepted suggestion to the
// assist's permanent record. Rows here are never updated or deleted
// while the assist lives.
func (db *DB) RecordAppliedSuggestion(ctx context.Context, assistID uuid.UUID, rec types.AppliedSuggestion) (string, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO applied_suggestions
			(assist_id, suggestion_uuid, original_text, replacement_text,
			 start_index, end_index, category, applied_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		assistID, rec.SuggestionUUID, rec.OriginalText, rec.ReplacementText,
		rec.StartIndex, rec.EndIndex, string(rec.Category), rec.AppliedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to record applied suggestion: %w", err)
	}
	return id.String(), nil
}

// ListAppliedSuggestions returns the assist's applied suggestions in
// application order.
func (db *DB) ListAppliedSuggestions(ctx context.Context, assistID uuid.UUID) ([]types.AppliedSuggestion, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, suggestion_uuid, original_text, replacement_text,
		        start_index, end_index, category, applied_at
		 FROM applied_suggestions
		 WHERE assist_id = $1
		 ORDER BY applied_at ASC`,
		assistID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied suggestions: %w", err)
	}
	defer rows.Close()

	var records []types.AppliedSuggestion
	for rows.Next() {
		var rec types.AppliedSuggestion
		var id, suggestionUUID uuid.UUID
		var category string
		if err := rows.Scan(&id, &suggestionUUID, &rec.OriginalText, &rec.ReplacementText,
			&rec.StartIndex, &rec.EndIndex, &category, &rec.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan applied suggestion: %w", err)
		}
		rec.ID = id.String()
		rec.SuggestionUUID = suggestionUUID.String()
		rec.Category = types.SuggestionCategory(category)
		records = append(records, rec)
	}
	return records, nil
}
