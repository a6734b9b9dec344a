package types

import (
	"github.com/go-playground/validator/v10"
)

// MinReviewContentLength is the minimum essay length accepted for review.
const MinReviewContentLength = 50

// ReviewRequest is the entry point into the review core from the API layer.
type ReviewRequest struct {
	AssistID             string   `json:"assist_id" validate:"required,uuid4"`
	Content              string   `json:"content" validate:"required,min=50"`
	Prompt               string   `json:"prompt,omitempty"` // overrides the stored essay prompt for this round
	AppliedSuggestionIDs []string `json:"applied_suggestion_ids"`
	IsFirstReview        bool     `json:"is_first_review"`
}

// ReviewPayload is the scored review handed back to the UI.
type ReviewPayload struct {
	OverallScore   int            `json:"overall_score"`
	Metrics        []Metric       `json:"metrics"`
	SubGrades      []SubGrade     `json:"sub_grades"`
	Suggestions    []Suggestion   `json:"suggestions"`
	Version        string         `json:"version"`
	GenerationType GenerationType `json:"generation_type"`
	FocusedRegions []Region       `json:"focused_regions"`
}

// ReviewResponse is the full result of one review round.
type ReviewResponse struct {
	Review          ReviewPayload  `json:"review"`
	ChangeType      TransitionType `json:"change_type"`
	ChangesCount    int            `json:"changes_count"`
	SuggestionCount int            `json:"suggestion_count"`
	GenerationType  GenerationType `json:"generation_type"`
}

// ApplySuggestionRequest records a user accepting a suggestion in the editor.
type ApplySuggestionRequest struct {
	SuggestionUUID string             `json:"suggestion_uuid" validate:"required"`
	AppliedText    string             `json:"applied_text"`
	OriginalText   string             `json:"original_text"`
	StartIndex     int                `json:"start_index" validate:"gte=0"`
	EndIndex       int                `json:"end_index" validate:"gte=0"`
	Category       SuggestionCategory `json:"category"`
}

// ChatRequest is one counselor-chat turn from the UI.
type ChatRequest struct {
	Message string `json:"message" validate:"required,min=1"`
}

// Highlight is a span of the essay the counselor refers to.
type Highlight struct {
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
	Excerpt    string `json:"excerpt"`
}

// ChatMessage is one persisted chat turn.
type ChatMessage struct {
	ID         string      `json:"id"`
	Role       string      `json:"role"` // "user" or "counselor"
	Content    string      `json:"content"`
	Highlights []Highlight `json:"highlights,omitempty"`
	CreatedAt  string      `json:"created_at,omitempty"`
}

// Validate validates the ReviewRequest using the validator.
func (r *ReviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ApplySuggestionRequest using the validator.
func (r *ApplySuggestionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ChatRequest using the validator.
func (r *ChatRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
