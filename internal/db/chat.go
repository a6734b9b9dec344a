package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/everwrite/essay-coach/internal/types"
)

// AddChatMessage persists one chat turn and returns it with its
// assigned ID and timestamp.
func (db *DB) AddChatMessage(ctx context.Context, assistID uuid.UUID, msg types.ChatMessage) (types.ChatMessage, error) {
	var highlights []byte
	if len(msg.Highlights) > 0 {
		var err error
		highlights, err = json.Marshal(msg.Highlights)
		if err != nil {
			return types.ChatMessage{}, fmt.Errorf("failed to marshal highlights: %w", err)
		}
	}

	var id uuid.UUID
	var createdAt time.Time
	err := db.pool.QueryRow(ctx,
		`INSERT INTO chat_messages (assist_id, role, content, highlights)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		assistID, msg.Role, msg.Content, highlights,
	).Scan(&id, &createdAt)
	if err != nil {
		return types.ChatMessage{}, fmt.Errorf("failed to add chat message: %w", err)
	}

	msg.ID = id.String()
	msg.CreatedAt = createdAt.Format(time.RFC3339)
	return msg, nil
}

// ListChatMessages returns the assist's chat history, oldest first.
func (db *DB) ListChatMessages(ctx context.Context, assistID uuid.UUID) ([]types.ChatMessage, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, role, content, highlights, created_at
		 FROM chat_messages
		 WHERE assist_id = $1
		 ORDER BY created_at ASC`,
		assistID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []types.ChatMessage
	for rows.Next() {
		var msg types.ChatMessage
		var id uuid.UUID
		var highlights []byte
		var createdAt time.Time
		if err := rows.Scan(&id, &msg.Role, &msg.Content, &highlights, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		msg.ID = id.String()
		msg.CreatedAt = createdAt.Format(time.RFC3339)
		if len(highlights) > 0 {
			if err := json.Unmarshal(highlights, &msg.Highlights); err != nil {
				return nil, fmt.Errorf("failed to unmarshal highlights: %w", err)
			}
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
