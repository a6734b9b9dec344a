package db

import (
	"time"

	"github.com/google/uuid"
)

// Assist is one essay-editing session as stored.
//
// The three *State columns are opaque JSON blobs serialized by their
// owning packages (version history, progressive scorer, suggestion
// tracker); the db layer never interprets them. StateToken is the
// optimistic-concurrency token: every successful SaveState increments
// it, and a save presenting a stale token fails with ErrStateConflict.
type Assist struct {
	ID           uuid.UUID `json:"id"`
	EssayPrompt  string    `json:"essay_prompt"`
	Content      string    `json:"content"`
	VersionState []byte    `json:"-"`
	ScoringState []byte    `json:"-"`
	TrackerState []byte    `json:"-"`
	LastReview   []byte    `json:"-"`
	StateToken   int64     `json:"state_token"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AssistState is the writable portion of an assist saved after a review
// round. Nil slices leave the corresponding column untouched.
type AssistState struct {
	Content      string
	VersionState []byte
	ScoringState []byte
	TrackerState []byte
	LastReview   []byte
}
