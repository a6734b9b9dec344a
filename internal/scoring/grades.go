package scoring

// gradeBand is the fixed, ordered 13-step letter band. Improving or
// degrading a grade moves along this band and saturates at the ends.
var gradeBand = []string{
	"F", "D-", "D", "D+", "C-", "C", "C+", "B-", "B", "B+", "A-", "A", "A+",
}

// GradeBand returns a copy of the ordered letter band.
func GradeBand() []string {
	out := make([]string, len(gradeBand))
	copy(out, gradeBand)
	return out
}

// gradeIndex returns the band position of a grade, or -1 if unknown.
func gradeIndex(grade string) int {
	for i, g := range gradeBand {
		if g == grade {
			return i
		}
	}
	return -1
}

// StepGrade moves a grade by steps along the band (positive improves),
// clamping at both ends. An unknown grade maps to the bottom first.
func StepGrade(grade string, steps int) string {
	idx := gradeIndex(grade)
	if idx < 0 {
		idx = 0
	}
	idx += steps
	if idx < 0 {
		idx = 0
	}
	if idx >= len(gradeBand) {
		idx = len(gradeBand) - 1
	}
	return gradeBand[idx]
}

// GradeForScore maps a 0-100 score onto the band, used when a
// baseline arrives without explicit sub-grades.
func GradeForScore(score int) string {
	score = clampScore(score)
	idx := score * len(gradeBand) / 101
	return gradeBand[idx]
}

// clampScore pins a score or metric value to [0,100].
func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// clampInt pins v to [lo,hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
