package types

import "time"

// EssayVersion is an immutable snapshot of essay text plus the
// classification of the edit that produced it. Versions form a
// singly-linked chain through ParentVersionID and are created only by
// the version store.
type EssayVersion struct {
	ID                   string         `json:"id"`
	Content              string         `json:"content"`
	CreatedAt            time.Time      `json:"created_at"`
	WordCount            int            `json:"word_count"`
	ChangeType           TransitionType `json:"change_type"`
	AppliedSuggestionIDs []string       `json:"applied_suggestion_ids,omitempty"`
	ParentVersionID      string         `json:"parent_version_id,omitempty"`
}
