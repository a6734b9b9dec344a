package suggest

import (
	"github.com/everwrite/essay-coach/internal/types"
)

// maxScoreBoost caps any single suggestion's boost.
const maxScoreBoost = 3

// DeriveImpact computes a suggestion's score impact deterministically
// from its category and region. The scorer consumes this later if the
// suggestion is applied.
func DeriveImpact(s types.Suggestion) types.SuggestionImpact {
	impact := types.SuggestionImpact{
		SuggestionID: s.UUID,
		Category:     s.Category,
		Region:       s.Region,
	}

	switch s.Category {
	case types.CategoryGrammar, types.CategorySpelling:
		impact.AffectedMetrics = []string{types.MetricClarity}
		impact.ScoreBoost = 1
	case types.CategoryWordChoice, types.CategoryClarity:
		impact.AffectedMetrics = []string{types.MetricClarity, types.MetricQuality}
		impact.ScoreBoost = 2
	case types.CategoryToneVoice, types.CategoryIdeaStrength:
		impact.AffectedMetrics = []string{types.MetricDelivery, types.MetricQuality}
		impact.AffectedSubGrades = []string{types.SubGradeUniqueness}
		impact.ScoreBoost = 3
	case types.CategoryStructure:
		impact.AffectedMetrics = []string{types.MetricDelivery}
		impact.AffectedSubGrades = []string{types.SubGradeStructure}
		impact.ScoreBoost = 2
	case types.CategoryRephrase:
		impact.AffectedMetrics = []string{types.MetricQuality}
		impact.ScoreBoost = 2
	default:
		impact.AffectedMetrics = []string{types.MetricClarity}
		impact.ScoreBoost = 1
	}

	// Edits to the opening also move the hook.
	if s.Region == types.RegionBeginning {
		impact.AffectedSubGrades = appendUnique(impact.AffectedSubGrades, types.SubGradeHook)
	}

	if impact.ScoreBoost > maxScoreBoost {
		impact.ScoreBoost = maxScoreBoost
	}
	return impact
}

func appendUnique(list []string, v string) []string {
	for _, item := range list {
		if item == v {
			return list
		}
	}
	return append(list, v)
}
