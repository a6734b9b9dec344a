// Package classify decides what kind of transition separates two
// essay versions: nothing, a manual edit, applied suggestions, or a
// mix of both.
package classify

import (
	"strings"

	"github.com/everwrite/essay-coach/internal/textdiff"
	"github.com/everwrite/essay-coach/internal/types"
)

// bulkThreshold is the applied-suggestion count above which a
// transition counts as a bulk application.
const bulkThreshold = 3

// Classify classifies the transition between two content snapshots
// given the suggestion ids the caller reports as applied. It always
// returns a result; a degenerate empty essay yields NoChange.
func Classify(oldContent, newContent string, appliedIDs []string) types.Transition {
	if strings.TrimSpace(oldContent) == strings.TrimSpace(newContent) {
		return types.NoChange{}
	}

	changes := textdiff.Diff(oldContent, newContent)

	if len(appliedIDs) > 0 {
		return types.SuggestionApplied{
			Changes:    changes,
			AppliedIDs: appliedIDs,
			Bulk:       len(appliedIDs) > bulkThreshold,
		}
	}
	return types.ManualEdit{Changes: changes}
}

// similarityThreshold is the word-overlap ratio above which residual
// changes are attributed to suggestion application noise rather than
// an independent manual edit.
const similarityThreshold = 0.98

// ClassifyDetailed is the review-API classification path. It verifies
// the reported applied suggestions against the new content
// (replacement present, original gone from its neighborhood) and
// separately detects manual edits among the changes not explained by
// a verified suggestion. When both are present the transition is Mixed.
func ClassifyDetailed(oldContent, newContent string, applied []types.AppliedSuggestion) types.Transition {
	if strings.TrimSpace(oldContent) == strings.TrimSpace(newContent) {
		return types.NoChange{}
	}

	changes := textdiff.Diff(oldContent, newContent)

	var verifiedIDs []string
	for _, a := range applied {
		if suggestionLandedIn(newContent, a) {
			verifiedIDs = append(verifiedIDs, a.SuggestionUUID)
		}
	}

	manual := unexplainedChanges(changes, applied)

	switch {
	case len(verifiedIDs) == 0 && len(manual) == 0:
		// Changes exist but nothing verifies and nothing looks manual:
		// fall back to the similarity check.
		if Similarity(oldContent, newContent) >= similarityThreshold {
			return types.NoChange{}
		}
		return types.ManualEdit{Changes: changes}
	case len(verifiedIDs) == 0:
		return types.ManualEdit{Changes: changes}
	case len(manual) == 0:
		return types.SuggestionApplied{
			Changes:    changes,
			AppliedIDs: verifiedIDs,
			Bulk:       len(verifiedIDs) > bulkThreshold,
		}
	default:
		return types.Mixed{
			Changes:       changes,
			AppliedIDs:    verifiedIDs,
			ManualChanges: manual,
		}
	}
}

// suggestionLandedIn reports whether the applied suggestion's
// replacement text is present in the new content. Empty replacements
// (pure removals) verify by the original text being gone.
func suggestionLandedIn(newContent string, a types.AppliedSuggestion) bool {
	if a.ReplacementText != "" {
		return strings.Contains(newContent, a.ReplacementText)
	}
	return a.OriginalText != "" && !strings.Contains(newContent, a.OriginalText)
}

// unexplainedChanges filters out changes whose new text is covered by
// one of the applied suggestions' replacements.
func unexplainedChanges(changes []types.TextChange, applied []types.AppliedSuggestion) []types.TextChange {
	var out []types.TextChange
	for _, c := range changes {
		if !explainedBySuggestion(c, applied) {
			out = append(out, c)
		}
	}
	return out
}

func explainedBySuggestion(c types.TextChange, applied []types.AppliedSuggestion) bool {
	for _, a := range applied {
		if a.ReplacementText != "" {
			if strings.Contains(c.NewText, a.ReplacementText) || strings.Contains(a.ReplacementText, strings.TrimSpace(c.NewText)) && strings.TrimSpace(c.NewText) != "" {
				return true
			}
		}
		if a.OriginalText != "" && c.NewText == "" && strings.Contains(a.OriginalText, strings.TrimSpace(c.OldText)) && strings.TrimSpace(c.OldText) != "" {
			return true
		}
	}
	return false
}

// Similarity is the Jaccard overlap of the two texts' word sets.
// 1.0 means identical vocabulary.
func Similarity(a, b string) float64 {
	wa := wordSet(a)
	wb := wordSet(b)
	if len(wa) == 0 && len(wb) == 0 {
		return 1.0
	}
	inter := 0
	for w := range wa {
		if wb[w] {
			inter++
		}
	}
	union := len(wa) + len(wb) - inter
	if union == 0 {
		return 1.0
	}
	return float64(inter) / float64(union)
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		set[strings.ToLower(w)] = true
	}
	return set
}
