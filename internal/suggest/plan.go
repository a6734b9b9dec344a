package suggest

import (
	"math/rand"

	"github.com/everwrite/essay-coach/internal/types"
)

// Targeted-generation limits.
const (
	maxTargetedSuggestions = 10
	targetedPerChange      = 3
)

// CountRange is the configurable band for full-review suggestion
// counts. The production default is [20,50]; tests pin a seed or a
// degenerate range.
type CountRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DefaultCountRange returns the production full-review band.
func DefaultCountRange() CountRange {
	return CountRange{Min: 20, Max: 50}
}

// Planner decides how many and what kind of suggestions each review
// turn requests from the AI.
type Planner struct {
	fullRange CountRange
	rng       *rand.Rand
}

// NewPlanner returns a planner with the given count band and source of
// randomness. A nil rng falls back to a time-seeded source.
func NewPlanner(fullRange CountRange, rng *rand.Rand) *Planner {
	if fullRange.Min <= 0 || fullRange.Max < fullRange.Min {
		fullRange = DefaultCountRange()
	}
	return &Planner{fullRange: fullRange, rng: rng}
}

// GenerationPlan tells the review orchestrator whether to call the AI
// and with what constraints.
type GenerationPlan struct {
	Type            types.GenerationType
	SuggestionCount int
	FocusedRegions  []types.Region
	Priority        types.Priority
}

// Plan maps a transition onto a generation plan:
//   - first review: full scan of the whole essay;
//   - no change: score update only, nothing requested;
//   - suggestions applied: score update only, the previous list is
//     reused with just-applied ids filtered out (no AI call);
//   - manual or mixed edit: a small high-priority request focused on
//     the changed regions.
func (p *Planner) Plan(tr types.Transition, isFirstReview bool) GenerationPlan {
	if isFirstReview {
		return GenerationPlan{
			Type:            types.GenerationFull,
			SuggestionCount: p.fullCount(),
			FocusedRegions:  types.AllRegions(),
			Priority:        types.PriorityMedium,
		}
	}

	switch tr.Type() {
	case types.TransitionNoChange:
		return GenerationPlan{Type: types.GenerationScoreUpdateOnly}
	case types.TransitionSuggestionApplied, types.TransitionBulkSuggestionApplied:
		return GenerationPlan{Type: types.GenerationScoreUpdateOnly}
	default:
		count := tr.ChangeCount() * targetedPerChange
		if count > maxTargetedSuggestions {
			count = maxTargetedSuggestions
		}
		regions := tr.AffectedRegions()
		if len(regions) == 0 {
			regions = types.AllRegions()
		}
		return GenerationPlan{
			Type:            types.GenerationTargeted,
			SuggestionCount: count,
			FocusedRegions:  regions,
			Priority:        types.PriorityHigh,
		}
	}
}

// fullCount picks a pseudo-random count inside the configured band.
func (p *Planner) fullCount() int {
	span := p.fullRange.Max - p.fullRange.Min
	if span == 0 {
		return p.fullRange.Min
	}
	if p.rng == nil {
		return p.fullRange.Min + rand.Intn(span+1)
	}
	return p.fullRange.Min + p.rng.Intn(span+1)
}

// Finalize prepares AI-returned suggestions for presentation: every
// suggestion gets its deterministic impact and the plan's priority
// override (targeted requests come back all high), then the list is
// ordered for display.
func Finalize(suggestions []types.Suggestion, plan GenerationPlan) []types.Suggestion {
	out := append([]types.Suggestion(nil), suggestions...)
	for i := range out {
		if plan.Type == types.GenerationTargeted {
			out[i].Priority = types.PriorityHigh
		}
		if out[i].Priority == "" {
			out[i].Priority = plan.Priority
		}
		impact := DeriveImpact(out[i])
		out[i].Impact = &impact
	}
	return Order(out)
}
