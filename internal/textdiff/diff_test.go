package textdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everwrite/essay-coach/internal/types"
)

// applyChanges replaces each old span with its new text, in order.
func applyChanges(oldText string, changes []types.TextChange) string {
	var out []byte
	pos := 0
	for _, c := range changes {
		out = append(out, oldText[pos:c.StartIndex]...)
		out = append(out, c.NewText...)
		pos = c.EndIndex
	}
	out = append(out, oldText[pos:]...)
	return string(out)
}

func TestDiff_Identical(t *testing.T) {
	assert.Empty(t, Diff("Hello world.", "Hello world."))
	assert.Empty(t, Diff("", ""))
}

func TestDiff_SingleWordSubstitution(t *testing.T) {
	old := "The essay was really good overall."
	new := "The essay was genuinely good overall."

	changes := Diff(old, new)
	require.Len(t, changes, 1)
	assert.Equal(t, types.ChangeModification, changes[0].Kind)
	assert.Equal(t, "really", changes[0].OldText)
	assert.Equal(t, "genuinely", changes[0].NewText)
	assert.Equal(t, new, applyChanges(old, changes))
}

func TestDiff_TailAddition(t *testing.T) {
	old := "My story begins here."
	new := "My story begins here. And it keeps going."

	changes := Diff(old, new)
	require.NotEmpty(t, changes)
	last := changes[len(changes)-1]
	assert.Equal(t, types.ChangeAddition, last.Kind)
	assert.Equal(t, new, applyChanges(old, changes))
}

func TestDiff_TailDeletion(t *testing.T) {
	old := "My story begins here. And it keeps going."
	new := "My story begins here."

	changes := Diff(old, new)
	require.NotEmpty(t, changes)
	last := changes[len(changes)-1]
	assert.Equal(t, types.ChangeDeletion, last.Kind)
	assert.Equal(t, new, applyChanges(old, changes))
}

func TestDiff_MidTextInsertion(t *testing.T) {
	old := "I walked to the station."
	new := "I slowly walked to the station."

	changes := Diff(old, new)
	assert.Equal(t, new, applyChanges(old, changes))
}

func TestDiff_Reconstruction(t *testing.T) {
	cases := []struct {
		name     string
		old, new string
	}{
		{"swap word", "a quick brown fox", "a slow brown fox"},
		{"grow middle", "one two three four", "one two extra words three four"},
		{"shrink middle", "one two extra words three four", "one two three four"},
		{"rewrite everything", "completely different text here", "nothing matches at all anywhere"},
		{"empty old", "", "brand new essay text"},
		{"empty new", "old essay text", ""},
		{"whitespace change", "a  b", "a b"},
		{"multi region", "start start start middle middle middle end end end", "start2 start start middle middle2 middle end end end2"},
		{"newlines", "para one.\n\npara two.", "para one.\n\npara two changed."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			changes := Diff(tc.old, tc.new)
			assert.Equal(t, tc.new, applyChanges(tc.old, changes))
		})
	}
}

func TestDiff_ChangesAreOrderedAndDisjoint(t *testing.T) {
	old := "alpha beta gamma delta epsilon zeta eta theta"
	new := "alpha BETA gamma delta EPSILON zeta eta THETA"

	changes := Diff(old, new)
	prevEnd := 0
	for _, c := range changes {
		assert.GreaterOrEqual(t, c.StartIndex, prevEnd)
		assert.GreaterOrEqual(t, c.EndIndex, c.StartIndex)
		prevEnd = c.EndIndex
	}
	assert.Equal(t, new, applyChanges(old, changes))
}

func TestRegionAt(t *testing.T) {
	assert.Equal(t, types.RegionBeginning, RegionAt(0, 100))
	assert.Equal(t, types.RegionBeginning, RegionAt(32, 100))
	assert.Equal(t, types.RegionMiddle, RegionAt(33, 100))
	assert.Equal(t, types.RegionMiddle, RegionAt(66, 100))
	assert.Equal(t, types.RegionEnd, RegionAt(67, 100))
	assert.Equal(t, types.RegionEnd, RegionAt(99, 100))
	assert.Equal(t, types.RegionBeginning, RegionAt(0, 0))
}

func TestDiff_RegionTagging(t *testing.T) {
	// A change at the very start of a long text lands in the beginning.
	old := "first words here " + repeat("filler ", 30) + "closing words here"
	new := "FIRST words here " + repeat("filler ", 30) + "closing words here"

	changes := Diff(old, new)
	require.NotEmpty(t, changes)
	assert.Equal(t, types.RegionBeginning, changes[0].Region)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
