// Package scoring derives each new essay score from the previous one
// plus the classified diff, instead of re-scoring the whole essay.
// Scores only ever come from an append-only history seeded by a
// baseline review.
package scoring

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/everwrite/essay-coach/internal/types"
)

// Overall boost and manual-edit bounds per review turn.
const (
	maxOverallBoost   = 3
	minManualDelta    = -5
	maxManualDelta    = 3
	defaultScoreBoost = 1
)

// ErrNoBaseline indicates Calculate was called before a baseline was
// set. This is a programming-contract violation, not a user error.
type ErrNoBaseline struct{}

func (e *ErrNoBaseline) Error() string {
	return "progressive scorer has no baseline score"
}

// ErrEmptyHistory indicates the score history has no entries yet.
type ErrEmptyHistory struct{}

func (e *ErrEmptyHistory) Error() string {
	return "score history is empty"
}

// ErrBaselineExists indicates a second baseline was attempted.
type ErrBaselineExists struct{}

func (e *ErrBaselineExists) Error() string {
	return "baseline score already set"
}

// State is the serializable scoring state of one essay: the score
// history and the registered suggestion impacts. It is an explicit
// value passed around, never ambient.
type State struct {
	History []types.ReviewScore               `json:"history"`
	Impacts map[string]types.SuggestionImpact `json:"impacts"`
}

// Scorer applies the progressive-scoring rules to a State.
type Scorer struct {
	state     *State
	estimator QualityEstimator
}

// NewScorer returns a scorer over fresh state with the heuristic estimator.
func NewScorer() *Scorer {
	return NewScorerWithEstimator(HeuristicEstimator{})
}

// NewScorerWithEstimator returns a scorer using the given estimator.
func NewScorerWithEstimator(est QualityEstimator) *Scorer {
	return &Scorer{
		state:     &State{Impacts: make(map[string]types.SuggestionImpact)},
		estimator: est,
	}
}

// RegisterImpact records a suggestion's impact for later application.
func (s *Scorer) RegisterImpact(impact types.SuggestionImpact) {
	s.state.Impacts[impact.SuggestionID] = impact
}

// HasBaseline reports whether a baseline score exists.
func (s *Scorer) HasBaseline() bool {
	return len(s.state.History) > 0
}

// SetBaseline seeds the history with the first full-review score.
// Missing metrics or sub-grades are defaulted from the overall score.
func (s *Scorer) SetBaseline(score types.ReviewScore) (types.ReviewScore, error) {
	if s.HasBaseline() {
		return types.ReviewScore{}, &ErrBaselineExists{}
	}

	score = normalize(score)
	score.Version = "v1"
	if score.Timestamp.IsZero() {
		score.Timestamp = time.Now().UTC()
	}
	s.state.History = append(s.state.History, score)
	return score, nil
}

// LatestScore returns the most recent score in the history.
func (s *Scorer) LatestScore() (types.ReviewScore, error) {
	if len(s.state.History) == 0 {
		return types.ReviewScore{}, &ErrEmptyHistory{}
	}
	return s.state.History[len(s.state.History)-1], nil
}

// History returns the append-only score history, oldest first.
func (s *Scorer) History() []types.ReviewScore {
	out := make([]types.ReviewScore, len(s.state.History))
	copy(out, s.state.History)
	return out
}

// Calculate derives the next score from the latest one plus the
// classified transition, appends it to the history and returns it.
// It fails if no baseline has been set.
func (s *Scorer) Calculate(tr types.Transition) (types.ReviewScore, error) {
	if !s.HasBaseline() {
		return types.ReviewScore{}, &ErrNoBaseline{}
	}

	prev := s.state.History[len(s.state.History)-1]
	next := prev.Clone()

	switch t := tr.(type) {
	case types.NoChange:
		// Score carries forward unchanged.
	case types.SuggestionApplied:
		s.applySuggestionBoosts(&next, t.AppliedIDs)
	case types.ManualEdit:
		s.applyManualDeltas(&next, t.Changes)
	case types.Mixed:
		s.applySuggestionBoosts(&next, t.AppliedIDs)
		s.applyManualDeltas(&next, t.ManualChanges)
	}

	clampAll(&next)
	next.Version = fmt.Sprintf("v%d", len(s.state.History)+1)
	next.Timestamp = time.Now().UTC()
	s.state.History = append(s.state.History, next)
	return next, nil
}

// applySuggestionBoosts credits applied suggestions: the overall boost
// is capped per review, metric-level boosts are not, and each named
// sub-grade improves one band step per suggestion naming it.
func (s *Scorer) applySuggestionBoosts(score *types.ReviewScore, appliedIDs []string) {
	total := 0
	for _, id := range appliedIDs {
		impact, registered := s.state.Impacts[id]
		boost := defaultScoreBoost
		if registered {
			boost = impact.ScoreBoost
		}
		total += boost

		if !registered {
			continue
		}
		for _, label := range impact.AffectedMetrics {
			bumpMetric(score, label, boost)
		}
		for _, label := range impact.AffectedSubGrades {
			stepSubGrade(score, label, 1)
		}
	}

	if total > maxOverallBoost {
		total = maxOverallBoost
	}
	score.OverallScore += total
}

// applyManualDeltas estimates a quality delta per change, clamps the
// total, and routes each change's delta into the metrics and
// sub-grades implied by its region.
func (s *Scorer) applyManualDeltas(score *types.ReviewScore, changes []types.TextChange) {
	total := 0
	for _, c := range changes {
		total += s.estimator.EstimateChange(c)
	}
	total = clampInt(total, minManualDelta, maxManualDelta)
	score.OverallScore += total

	for _, c := range changes {
		delta := s.estimator.EstimateChange(c)
		if delta == 0 {
			continue
		}
		metrics, subGrades := regionRouting(c.Region)
		for _, label := range metrics {
			bumpMetric(score, label, delta)
		}
		step := 1
		if delta < 0 {
			step = -1
		}
		for _, label := range subGrades {
			stepSubGrade(score, label, step)
		}
	}
}

// regionRouting maps an essay region to the metrics and sub-grades a
// manual edit there influences.
func regionRouting(r types.Region) (metrics, subGrades []string) {
	switch r {
	case types.RegionBeginning:
		return []string{types.MetricClarity}, []string{types.SubGradeHook, types.SubGradeStructure}
	case types.RegionMiddle:
		return []string{types.MetricDelivery, types.MetricQuality},
			[]string{types.SubGradeStructure, types.SubGradeUniqueness}
	default:
		return []string{types.MetricQuality}, []string{types.SubGradeStructure}
	}
}

func bumpMetric(score *types.ReviewScore, label string, delta int) {
	for i := range score.Metrics {
		if score.Metrics[i].Label == label {
			score.Metrics[i].Value += delta
			return
		}
	}
	// Unknown metric labels from impacts are tracked from the midpoint.
	score.Metrics = append(score.Metrics, types.Metric{Label: label, Value: clampScore(50 + delta)})
}

func stepSubGrade(score *types.ReviewScore, label string, steps int) {
	for i := range score.SubGrades {
		if score.SubGrades[i].Label == label {
			score.SubGrades[i].Grade = StepGrade(score.SubGrades[i].Grade, steps)
			return
		}
	}
	score.SubGrades = append(score.SubGrades, types.SubGrade{
		Label: label,
		Grade: StepGrade(GradeForScore(score.OverallScore), steps),
	})
}

// normalize fills missing metrics and sub-grades from the overall
// score and clamps everything, so a sparse AI baseline is still complete.
func normalize(score types.ReviewScore) types.ReviewScore {
	out := score.Clone()
	for _, label := range types.MetricLabels() {
		if _, ok := out.Metric(label); !ok {
			out.Metrics = append(out.Metrics, types.Metric{Label: label, Value: out.OverallScore})
		}
	}
	for _, label := range types.SubGradeLabels() {
		if _, ok := out.SubGrade(label); !ok {
			out.SubGrades = append(out.SubGrades, types.SubGrade{
				Label: label,
				Grade: GradeForScore(out.OverallScore),
			})
		}
	}
	clampAll(&out)
	return out
}

// clampAll pins the overall score and all metric values to [0,100]
// and replaces any grade that is off the band.
func clampAll(score *types.ReviewScore) {
	score.OverallScore = clampScore(score.OverallScore)
	for i := range score.Metrics {
		score.Metrics[i].Value = clampScore(score.Metrics[i].Value)
	}
	for i := range score.SubGrades {
		if gradeIndex(score.SubGrades[i].Grade) < 0 {
			score.SubGrades[i].Grade = GradeForScore(score.OverallScore)
		}
	}
}

// Serialize renders the scoring state as JSON.
func (s *Scorer) Serialize() (string, error) {
	data, err := json.Marshal(s.state)
	if err != nil {
		return "", fmt.Errorf("failed to serialize scoring state: %w", err)
	}
	return string(data), nil
}

// Deserialize reconstructs a scorer from serialized state using the
// default heuristic estimator.
func Deserialize(serialized string) (*Scorer, error) {
	return DeserializeWithEstimator(serialized, HeuristicEstimator{})
}

// DeserializeWithEstimator reconstructs a scorer with a custom estimator.
func DeserializeWithEstimator(serialized string, est QualityEstimator) (*Scorer, error) {
	if strings.TrimSpace(serialized) == "" {
		return NewScorerWithEstimator(est), nil
	}
	var st State
	if err := json.Unmarshal([]byte(serialized), &st); err != nil {
		return nil, fmt.Errorf("failed to deserialize scoring state: %w", err)
	}
	if st.Impacts == nil {
		st.Impacts = make(map[string]types.SuggestionImpact)
	}
	return &Scorer{state: &st, estimator: est}, nil
}
