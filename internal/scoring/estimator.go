package scoring

import (
	"strings"

	"github.com/everwrite/essay-coach/internal/types"
)

// QualityEstimator judges how much a single manual change helped or
// hurt the essay, on a [-2,2] scale. It is an interface so the keyword
// heuristics can later be swapped for a model call without touching
// the scorer's capping and clamping contract.
type QualityEstimator interface {
	EstimateChange(c types.TextChange) int
}

// HeuristicEstimator is the default estimator: word-count growth,
// shrinkage, weak-to-strong vocabulary substitutions, and a few fixed
// grammar-fix patterns.
type HeuristicEstimator struct{}

// growthThreshold is the net word gain that counts as meaningful expansion.
const growthThreshold = 5

// strongerVocabulary maps weak words to stronger replacements the
// heuristic rewards when it sees the substitution.
var strongerVocabulary = map[string][]string{
	"good":   {"excellent", "exceptional", "outstanding", "compelling"},
	"bad":    {"detrimental", "harmful", "flawed"},
	"big":    {"significant", "substantial", "considerable"},
	"really": {"genuinely", "remarkably", "profoundly"},
	"very":   {"exceptionally", "remarkably", "deeply"},
	"nice":   {"admirable", "gracious", "thoughtful"},
	"things": {"aspects", "elements", "qualities"},
	"a lot":  {"considerably", "substantially"},
}

// grammarFixes are broken-to-fixed pairs the heuristic rewards.
var grammarFixes = [][2]string{
	{"could of", "could have"},
	{"should of", "should have"},
	{"would of", "would have"},
	{"alot", "a lot"},
	{"dont", "don't"},
	{"cant", "can't"},
	{"its a", "it's a"},
}

// EstimateChange returns a quality delta in [-2,2] for one change.
func (HeuristicEstimator) EstimateChange(c types.TextChange) int {
	delta := 0

	oldWords := len(strings.Fields(c.OldText))
	newWords := len(strings.Fields(c.NewText))
	switch {
	case newWords-oldWords > growthThreshold:
		delta++
	case oldWords-newWords > growthThreshold:
		delta--
	}

	oldLower := strings.ToLower(c.OldText)
	newLower := strings.ToLower(c.NewText)

	for weak, stronger := range strongerVocabulary {
		if containsWord(oldLower, weak) && !containsWord(newLower, weak) {
			if containsAnyWord(newLower, stronger) {
				delta++
			}
		}
		if !containsWord(oldLower, weak) && containsWord(newLower, weak) {
			if containsAnyWord(oldLower, stronger) {
				delta--
			}
		}
	}

	for _, fix := range grammarFixes {
		if strings.Contains(oldLower, fix[0]) && strings.Contains(newLower, fix[1]) {
			delta++
		}
		if strings.Contains(oldLower, fix[1]) && strings.Contains(newLower, fix[0]) {
			delta--
		}
	}

	return clampInt(delta, -2, 2)
}

// containsWord reports whether text contains w as a whole word.
func containsWord(text, w string) bool {
	if strings.ContainsRune(w, ' ') {
		return strings.Contains(text, w)
	}
	for _, field := range strings.Fields(text) {
		if strings.Trim(field, ".,;:!?\"'()") == w {
			return true
		}
	}
	return false
}

func containsAnyWord(text string, words []string) bool {
	for _, w := range words {
		if containsWord(text, w) {
			return true
		}
	}
	return false
}
