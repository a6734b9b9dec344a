package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReviewScore(t *testing.T) {
	valid := `{
		"overall_score": 72,
		"metrics": [
			{"label": "Clarity", "value": 70},
			{"label": "Delivery", "value": 68},
			{"label": "Quality", "value": 75}
		],
		"sub_grades": [
			{"label": "Hook", "grade": "B-"},
			{"label": "Structure", "grade": "C+"},
			{"label": "Uniqueness", "grade": "B"}
		]
	}`
	assert.NoError(t, Validate(ReviewScore, valid))
}

func TestValidateReviewScoreRejectsOutOfRange(t *testing.T) {
	doc := `{
		"overall_score": 140,
		"metrics": [{"label": "Clarity", "value": 70}],
		"sub_grades": [{"label": "Hook", "grade": "B"}]
	}`
	err := Validate(ReviewScore, doc)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateReviewScoreRejectsUnknownGrade(t *testing.T) {
	doc := `{
		"overall_score": 70,
		"metrics": [{"label": "Clarity", "value": 70}],
		"sub_grades": [{"label": "Hook", "grade": "E"}]
	}`
	assert.Error(t, Validate(ReviewScore, doc))
}

func TestValidateSuggestions(t *testing.T) {
	valid := `{
		"suggestions": [{
			"category": "Word Choice",
			"title": "Use a stronger verb",
			"description": "Replace a vague verb with a precise one.",
			"original_text": "I got better at writing",
			"replacement": "I sharpened my writing",
			"priority": "high"
		}]
	}`
	assert.NoError(t, Validate(Suggestions, valid))
}

func TestValidateSuggestionsRejectsMissingOriginal(t *testing.T) {
	doc := `{
		"suggestions": [{
			"category": "Grammar",
			"title": "Fix tense",
			"replacement": "went"
		}]
	}`
	err := Validate(Suggestions, doc)
	require.Error(t, err)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestValidateChatReply(t *testing.T) {
	assert.NoError(t, Validate(ChatReply, `{"reply": "Try opening with the anecdote.", "quotes": ["my first debate"]}`))
	assert.NoError(t, Validate(ChatReply, `{"reply": "Sounds good."}`))
	assert.Error(t, Validate(ChatReply, `{"quotes": []}`))
}

func TestValidateUnknownSchema(t *testing.T) {
	err := Validate("nope", `{}`)
	require.Error(t, err)
	var le *SchemaLoadError
	assert.ErrorAs(t, err, &le)
}

func TestValidateMalformedDocument(t *testing.T) {
	err := Validate(ChatReply, `{not json`)
	require.Error(t, err)
	var le *SchemaLoadError
	assert.ErrorAs(t, err, &le)
}
