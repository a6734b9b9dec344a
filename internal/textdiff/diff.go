// Package textdiff computes approximate word-level change regions
// between two text snapshots. The diff is not minimal: it only has to
// find a plausible set of localized changes good enough for
// classification and region-targeted suggestion requests.
package textdiff

import (
	"strings"

	"github.com/everwrite/essay-coach/internal/types"
)

// resyncWindow is how many tokens ahead the differ looks for a
// resynchronization point after a mismatch.
const resyncWindow = 10

// Diff returns the ordered change regions between oldText and newText.
// Indices refer to oldText; replacing each old span with its new text
// in order reconstructs newText exactly.
func Diff(oldText, newText string) []types.TextChange {
	if oldText == newText {
		return nil
	}

	oldTokens := tokenize(oldText)
	newTokens := tokenize(newText)

	var changes []types.TextChange
	i, j := 0, 0
	oldPos := 0

	for i < len(oldTokens) && j < len(newTokens) {
		if oldTokens[i] == newTokens[j] {
			oldPos += len(oldTokens[i])
			i++
			j++
			continue
		}

		ri, rj, ok := resync(oldTokens, newTokens, i, j)
		if !ok {
			// No resynchronization point in the window: treat one old
			// token and one new token as a single substitution.
			ri, rj = i+1, j+1
		}

		oldSpan := strings.Join(oldTokens[i:ri], "")
		newSpan := strings.Join(newTokens[j:rj], "")
		changes = append(changes, types.TextChange{
			StartIndex: oldPos,
			EndIndex:   oldPos + len(oldSpan),
			OldText:    oldSpan,
			NewText:    newSpan,
			Kind:       kindOf(oldSpan, newSpan),
			Region:     RegionAt(oldPos, len(oldText)),
		})
		oldPos += len(oldSpan)
		i, j = ri, rj
	}

	// Remaining tail on either side becomes one addition or deletion.
	if i < len(oldTokens) {
		oldSpan := strings.Join(oldTokens[i:], "")
		changes = append(changes, types.TextChange{
			StartIndex: oldPos,
			EndIndex:   oldPos + len(oldSpan),
			OldText:    oldSpan,
			NewText:    "",
			Kind:       types.ChangeDeletion,
			Region:     RegionAt(oldPos, len(oldText)),
		})
	} else if j < len(newTokens) {
		newSpan := strings.Join(newTokens[j:], "")
		changes = append(changes, types.TextChange{
			StartIndex: oldPos,
			EndIndex:   oldPos,
			OldText:    "",
			NewText:    newSpan,
			Kind:       types.ChangeAddition,
			Region:     RegionAt(oldPos, len(oldText)),
		})
	}

	return changes
}

// kindOf classifies a span pair by which side is empty.
func kindOf(oldSpan, newSpan string) types.ChangeKind {
	switch {
	case oldSpan == "":
		return types.ChangeAddition
	case newSpan == "":
		return types.ChangeDeletion
	default:
		return types.ChangeModification
	}
}

// resync scans up to resyncWindow tokens ahead in both sequences for
// the closest pair of equal tokens. A pair whose following tokens also
// match is preferred, so a lone matching whitespace run cannot drag
// the cursors onto a misaligned diagonal.
func resync(oldTokens, newTokens []string, i, j int) (int, int, bool) {
	maxI := min(i+resyncWindow, len(oldTokens))
	maxJ := min(j+resyncWindow, len(newTokens))

	bestDist, looseDist := -1, -1
	var bestI, bestJ, looseI, looseJ int
	for oi := i; oi < maxI; oi++ {
		for nj := j; nj < maxJ; nj++ {
			if oldTokens[oi] != newTokens[nj] {
				continue
			}
			dist := (oi - i) + (nj - j)
			if dist == 0 {
				// Cursors already match; caller handles this case.
				continue
			}
			if nextAligns(oldTokens, newTokens, oi, nj) {
				if bestDist == -1 || dist < bestDist {
					bestDist = dist
					bestI, bestJ = oi, nj
				}
			} else if looseDist == -1 || dist < looseDist {
				looseDist = dist
				looseI, looseJ = oi, nj
			}
		}
	}
	if bestDist != -1 {
		return bestI, bestJ, true
	}
	if looseDist != -1 {
		return looseI, looseJ, true
	}
	return 0, 0, false
}

// nextAligns reports whether the tokens after the candidate anchor
// also match (or either sequence ends there).
func nextAligns(oldTokens, newTokens []string, oi, nj int) bool {
	if oi+1 >= len(oldTokens) || nj+1 >= len(newTokens) {
		return true
	}
	return oldTokens[oi+1] == newTokens[nj+1]
}

// tokenize splits text on whitespace boundaries, keeping whitespace
// runs as their own tokens so offsets and joins stay exact.
func tokenize(text string) []string {
	if text == "" {
		return nil
	}
	var tokens []string
	start := 0
	inSpace := isSpace(text[0])
	for k := 1; k < len(text); k++ {
		if isSpace(text[k]) != inSpace {
			tokens = append(tokens, text[start:k])
			start = k
			inSpace = !inSpace
		}
	}
	tokens = append(tokens, text[start:])
	return tokens
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// RegionAt maps a character offset to the essay third it falls in.
// An empty text maps to the beginning.
func RegionAt(offset, textLen int) types.Region {
	if textLen <= 0 {
		return types.RegionBeginning
	}
	ratio := float64(offset) / float64(textLen)
	switch {
	case ratio < 0.33:
		return types.RegionBeginning
	case ratio < 0.67:
		return types.RegionMiddle
	default:
		return types.RegionEnd
	}
}
