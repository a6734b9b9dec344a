package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everwrite/essay-coach/internal/types"
)

func TestClassify_NoChange(t *testing.T) {
	cases := []string{
		"",
		"Hello world.",
		"A longer essay with several sentences. It talks about things.",
	}
	for _, content := range cases {
		tr := Classify(content, content, nil)
		assert.Equal(t, types.TransitionNoChange, tr.Type())
		assert.Zero(t, tr.ChangeCount())
	}
}

func TestClassify_TrimmedEqualIsNoChange(t *testing.T) {
	tr := Classify("  Hello world.  ", "Hello world.", nil)
	assert.Equal(t, types.TransitionNoChange, tr.Type())
}

func TestClassify_ManualEdit(t *testing.T) {
	tr := Classify("I am really happy.", "I am genuinely happy.", nil)
	require.Equal(t, types.TransitionManualEdit, tr.Type())
	assert.NotZero(t, tr.ChangeCount())
	assert.NotEmpty(t, tr.AffectedRegions())
}

func TestClassify_SuggestionApplied(t *testing.T) {
	tr := Classify("I am really happy.", "I am genuinely happy.", []string{"s1", "s2"})
	assert.Equal(t, types.TransitionSuggestionApplied, tr.Type())
}

func TestClassify_BulkAboveThreshold(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	tr := Classify("one two three four five", "ONE TWO THREE FOUR five", ids)
	assert.Equal(t, types.TransitionBulkSuggestionApplied, tr.Type())

	tr = Classify("one two three", "ONE TWO three", []string{"a", "b", "c"})
	assert.Equal(t, types.TransitionSuggestionApplied, tr.Type())
}

func applied(uuid, original, replacement string) types.AppliedSuggestion {
	return types.AppliedSuggestion{
		ID:              uuid + "-record",
		SuggestionUUID:  uuid,
		OriginalText:    original,
		ReplacementText: replacement,
		AppliedAt:       time.Now(),
		Category:        types.CategoryWordChoice,
	}
}

func TestClassifyDetailed_SuggestionOnly(t *testing.T) {
	old := "The food was really good and I liked it."
	new := "The food was exceptional and I liked it."

	tr := ClassifyDetailed(old, new, []types.AppliedSuggestion{
		applied("s1", "really good", "exceptional"),
	})
	assert.Equal(t, types.TransitionSuggestionApplied, tr.Type())
}

func TestClassifyDetailed_Mixed(t *testing.T) {
	old := "The food was really good. My day was fine."
	new := "The food was exceptional. My whole entire long day was absolutely completely fine."

	tr := ClassifyDetailed(old, new, []types.AppliedSuggestion{
		applied("s1", "really good", "exceptional"),
	})
	require.Equal(t, types.TransitionMixed, tr.Type())
	mixed, ok := tr.(types.Mixed)
	require.True(t, ok)
	assert.Equal(t, []string{"s1"}, mixed.AppliedIDs)
	assert.NotEmpty(t, mixed.ManualChanges)
}

func TestClassifyDetailed_UnverifiedFallsBackToManual(t *testing.T) {
	// The reported suggestion never landed in the text, so the changes
	// must be a manual edit.
	old := "The food was really good today."
	new := "The food was absolutely terrible today."

	tr := ClassifyDetailed(old, new, []types.AppliedSuggestion{
		applied("s1", "really good", "exceptional"),
	})
	assert.Equal(t, types.TransitionManualEdit, tr.Type())
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("a b c", "a b c"), 1e-9)
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.Less(t, Similarity("a b c d", "a b x y"), 0.5)
}
