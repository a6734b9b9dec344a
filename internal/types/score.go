package types

import "time"

// Canonical metric labels. Metrics are 0-100 percentages.
const (
	MetricClarity  = "Clarity"
	MetricDelivery = "Delivery"
	MetricQuality  = "Quality"
)

// Canonical sub-grade labels. Sub-grades are letter bands.
const (
	SubGradeHook       = "Hook"
	SubGradeStructure  = "Structure"
	SubGradeUniqueness = "Uniqueness"
)

// MetricLabels returns the canonical metric labels in display order.
func MetricLabels() []string {
	return []string{MetricClarity, MetricDelivery, MetricQuality}
}

// SubGradeLabels returns the canonical sub-grade labels in display order.
func SubGradeLabels() []string {
	return []string{SubGradeHook, SubGradeStructure, SubGradeUniqueness}
}

// Metric is a named 0-100 percentage score.
type Metric struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// SubGrade is a named letter grade drawn from the 13-step band F..A+.
type SubGrade struct {
	Label string `json:"label"`
	Grade string `json:"grade"`
}

// ReviewScore is one entry in an essay's append-only score history.
// The first entry is the baseline; every later entry is derived from
// the previous one plus the classified diff, never recomputed.
type ReviewScore struct {
	OverallScore int        `json:"overall_score"`
	Metrics      []Metric   `json:"metrics"`
	SubGrades    []SubGrade `json:"sub_grades"`
	Version      string     `json:"version"`
	Timestamp    time.Time  `json:"timestamp"`
}

// Metric returns the value of the named metric and whether it exists.
func (s ReviewScore) Metric(label string) (int, bool) {
	for _, m := range s.Metrics {
		if m.Label == label {
			return m.Value, true
		}
	}
	return 0, false
}

// SubGrade returns the grade of the named sub-grade and whether it exists.
func (s ReviewScore) SubGrade(label string) (string, bool) {
	for _, g := range s.SubGrades {
		if g.Label == label {
			return g.Grade, true
		}
	}
	return "", false
}

// Clone returns a deep copy so derived scores never alias history entries.
func (s ReviewScore) Clone() ReviewScore {
	out := s
	out.Metrics = make([]Metric, len(s.Metrics))
	copy(out.Metrics, s.Metrics)
	out.SubGrades = make([]SubGrade, len(s.SubGrades))
	copy(out.SubGrades, s.SubGrades)
	return out
}
