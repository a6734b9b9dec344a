package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/everwrite/essay-coach/internal/types"
)

func change(oldText, newText string) types.TextChange {
	return types.TextChange{OldText: oldText, NewText: newText, Region: types.RegionMiddle}
}

func TestEstimator_WordGrowth(t *testing.T) {
	est := HeuristicEstimator{}
	c := change("short.", "this replacement adds quite a few more words than before.")
	assert.Equal(t, 1, est.EstimateChange(c))
}

func TestEstimator_Shrinkage(t *testing.T) {
	est := HeuristicEstimator{}
	c := change("this span had quite a few more words than the new one.", "short.")
	assert.Equal(t, -1, est.EstimateChange(c))
}

func TestEstimator_WeakToStrongSubstitution(t *testing.T) {
	est := HeuristicEstimator{}
	assert.Equal(t, 1, est.EstimateChange(change("it was good", "it was exceptional")))
	assert.Equal(t, -1, est.EstimateChange(change("it was exceptional", "it was good")))
}

func TestEstimator_GrammarFix(t *testing.T) {
	est := HeuristicEstimator{}
	assert.Equal(t, 1, est.EstimateChange(change("I could of won", "I could have won")))
	assert.Equal(t, -1, est.EstimateChange(change("I could have won", "I could of won")))
}

func TestEstimator_NeutralShrink(t *testing.T) {
	// "really good" -> "good": no growth signal, no strong replacement,
	// delta stays zero or slightly negative.
	est := HeuristicEstimator{}
	delta := est.EstimateChange(change("really good", "good"))
	assert.GreaterOrEqual(t, delta, -2)
	assert.LessOrEqual(t, delta, 0)
}

func TestEstimator_BoundedOutput(t *testing.T) {
	est := HeuristicEstimator{}
	// Stacks growth, vocabulary, and grammar signals; still capped at 2.
	c := change(
		"it was good and big and I could of done things",
		"it was exceptional and significant and I could have done "+
			"many additional words to force the growth signal over the line aspects",
	)
	delta := est.EstimateChange(c)
	assert.LessOrEqual(t, delta, 2)
	assert.GreaterOrEqual(t, delta, -2)
}

func TestGradeBand_Stepping(t *testing.T) {
	assert.Equal(t, "B", StepGrade("B-", 1))
	assert.Equal(t, "B-", StepGrade("B", -1))
	assert.Equal(t, "A+", StepGrade("A+", 1))  // saturates at the top
	assert.Equal(t, "F", StepGrade("F", -1))   // saturates at the bottom
	assert.Equal(t, "A+", StepGrade("B", 100)) // big steps clamp
	assert.Equal(t, "D-", StepGrade("unknown", 1))
}

func TestGradeBand_ThirteenSteps(t *testing.T) {
	band := GradeBand()
	assert.Len(t, band, 13)
	assert.Equal(t, "F", band[0])
	assert.Equal(t, "A+", band[12])
}

func TestGradeForScore(t *testing.T) {
	assert.Equal(t, "F", GradeForScore(0))
	assert.Equal(t, "A+", GradeForScore(100))
	mid := GradeForScore(50)
	assert.GreaterOrEqual(t, gradeIndex(mid), 0)
}
