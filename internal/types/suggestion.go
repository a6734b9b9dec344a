package types

import "time"

// Suggestion is an AI-proposed text replacement with a stable identity.
// A suggestion stays active until the user applies or skips it, or its
// original text disappears from the essay.
type Suggestion struct {
	UUID         string             `json:"uuid"`
	Category     SuggestionCategory `json:"category"`
	Title        string             `json:"title"`
	Description  string             `json:"description,omitempty"`
	StartIndex   int                `json:"start_index"`
	EndIndex     int                `json:"end_index"`
	Replacement  string             `json:"replacement"`
	OriginalText string             `json:"original_text"`
	Region       Region             `json:"region"`
	Priority     Priority           `json:"priority"`
	Impact       *SuggestionImpact  `json:"impact,omitempty"`
}

// SuggestionImpact captures how applying a suggestion should move the
// score. Derived deterministically from category and region at
// generation time and consumed by the progressive scorer.
type SuggestionImpact struct {
	SuggestionID      string             `json:"suggestion_id"`
	Category          SuggestionCategory `json:"category"`
	Region            Region             `json:"region"`
	AffectedMetrics   []string           `json:"affected_metrics"`
	AffectedSubGrades []string           `json:"affected_sub_grades"`
	ScoreBoost        int                `json:"score_boost"` // 1..3
}

// AppliedSuggestion is the immutable record of a user accepting a
// suggestion. Appended to history, never mutated.
type AppliedSuggestion struct {
	ID              string             `json:"id"`
	SuggestionUUID  string             `json:"suggestion_uuid"`
	OriginalText    string             `json:"original_text"`
	ReplacementText string             `json:"replacement_text"`
	StartIndex      int                `json:"start_index"`
	EndIndex        int                `json:"end_index"`
	AppliedAt       time.Time          `json:"applied_at"`
	Category        SuggestionCategory `json:"category"`
}
