// Package suggest tracks the lifecycle of AI suggestions for one
// essay: which are still active, which the user applied or skipped,
// and how many new suggestions the next review should request.
package suggest

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/everwrite/essay-coach/internal/types"
)

// Tracker holds one essay's suggestion lifecycle state. It is an
// explicit value serialized with the essay record, never a singleton.
type Tracker struct {
	state *trackerState
}

type trackerState struct {
	Applied             map[string]time.Time `json:"applied"`
	Skipped             map[string]time.Time `json:"skipped"`
	PreviousSuggestions []types.Suggestion   `json:"previous_suggestions"`
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{state: &trackerState{
		Applied: make(map[string]time.Time),
		Skipped: make(map[string]time.Time),
	}}
}

// MarkApplied records a terminal "applied" decision for a suggestion.
// The uuid is retained forever for this essay.
func (t *Tracker) MarkApplied(uuid string) {
	t.state.Applied[uuid] = time.Now().UTC()
}

// MarkSkipped records a terminal "skipped" decision for a suggestion.
func (t *Tracker) MarkSkipped(uuid string) {
	t.state.Skipped[uuid] = time.Now().UTC()
}

// IsApplied reports whether the suggestion was applied.
func (t *Tracker) IsApplied(uuid string) bool {
	_, ok := t.state.Applied[uuid]
	return ok
}

// IsSkipped reports whether the suggestion was skipped.
func (t *Tracker) IsSkipped(uuid string) bool {
	_, ok := t.state.Skipped[uuid]
	return ok
}

// AppliedIDs returns all applied suggestion uuids.
func (t *Tracker) AppliedIDs() []string {
	return sortedKeys(t.state.Applied)
}

// SkippedIDs returns all skipped suggestion uuids.
func (t *Tracker) SkippedIDs() []string {
	return sortedKeys(t.state.Skipped)
}

// SetPrevious remembers the suggestion list of the latest review so a
// suggestion-applied turn can reuse it without a new AI call.
func (t *Tracker) SetPrevious(suggestions []types.Suggestion) {
	t.state.PreviousSuggestions = append([]types.Suggestion(nil), suggestions...)
}

// Previous returns the remembered suggestion list.
func (t *Tracker) Previous() []types.Suggestion {
	return append([]types.Suggestion(nil), t.state.PreviousSuggestions...)
}

// Active filters the tracker's previous suggestions against the
// current content and the tracker's own applied/skipped sets.
func (t *Tracker) Active(content string) []types.Suggestion {
	return FilterActive(t.state.PreviousSuggestions, content, t.AppliedIDs(), t.SkippedIDs())
}

// FilterActive drops suggestions that were applied, skipped, or whose
// original text no longer exists in the content (the user already
// fixed it by hand). Order is preserved.
func FilterActive(suggestions []types.Suggestion, content string, appliedIDs, skippedIDs []string) []types.Suggestion {
	applied := toSet(appliedIDs)
	skipped := toSet(skippedIDs)

	var out []types.Suggestion
	for _, s := range suggestions {
		if applied[s.UUID] || skipped[s.UUID] {
			continue
		}
		if s.OriginalText != "" && !strings.Contains(content, s.OriginalText) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Order sorts suggestions for presentation: region first (beginning,
// middle, end), then ascending start index, then priority.
func Order(suggestions []types.Suggestion) []types.Suggestion {
	out := append([]types.Suggestion(nil), suggestions...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Region.Order() != b.Region.Order() {
			return a.Region.Order() < b.Region.Order()
		}
		if a.StartIndex != b.StartIndex {
			return a.StartIndex < b.StartIndex
		}
		return a.Priority.Order() < b.Priority.Order()
	})
	return out
}

// Serialize renders the tracker state as JSON.
func (t *Tracker) Serialize() (string, error) {
	data, err := json.Marshal(t.state)
	if err != nil {
		return "", fmt.Errorf("failed to serialize suggestion tracker: %w", err)
	}
	return string(data), nil
}

// Deserialize reconstructs a tracker from its serialized form.
func Deserialize(serialized string) (*Tracker, error) {
	if strings.TrimSpace(serialized) == "" {
		return NewTracker(), nil
	}
	var st trackerState
	if err := json.Unmarshal([]byte(serialized), &st); err != nil {
		return nil, fmt.Errorf("failed to deserialize suggestion tracker: %w", err)
	}
	if st.Applied == nil {
		st.Applied = make(map[string]time.Time)
	}
	if st.Skipped == nil {
		st.Skipped = make(map[string]time.Time)
	}
	return &Tracker{state: &st}, nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func sortedKeys(m map[string]time.Time) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
