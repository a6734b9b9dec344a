package types

// TextChange is one localized word-level change between two text
// snapshots. StartIndex and EndIndex are character offsets into the
// old text; replacing each old span with NewText in order reconstructs
// the new text.
type TextChange struct {
	StartIndex int        `json:"start_index"`
	EndIndex   int        `json:"end_index"`
	OldText    string     `json:"old_text"`
	NewText    string     `json:"new_text"`
	Kind       ChangeKind `json:"change_type"`
	Region     Region     `json:"region"`
}

// Transition is the classified difference between two essay versions.
// Exactly one variant exists per transition type, so a variant only
// carries the fields meaningful for its case.
type Transition interface {
	// Type returns the transition classification.
	Type() TransitionType
	// AffectedRegions returns the distinct regions touched, in document order.
	AffectedRegions() []Region
	// ChangeCount returns the number of localized text changes detected.
	ChangeCount() int
}

// NoChange means the two versions are identical up to surrounding whitespace.
type NoChange struct{}

func (NoChange) Type() TransitionType      { return TransitionNoChange }
func (NoChange) AffectedRegions() []Region { return nil }
func (NoChange) ChangeCount() int          { return 0 }

// ManualEdit means the user edited the essay by hand.
type ManualEdit struct {
	Changes []TextChange
}

func (t ManualEdit) Type() TransitionType      { return TransitionManualEdit }
func (t ManualEdit) AffectedRegions() []Region { return regionsOf(t.Changes) }
func (t ManualEdit) ChangeCount() int          { return len(t.Changes) }

// SuggestionApplied means the transition is explained by accepted
// suggestions. Bulk is set when more than three were applied in one turn.
type SuggestionApplied struct {
	Changes    []TextChange
	AppliedIDs []string
	Bulk       bool
}

func (t SuggestionApplied) Type() TransitionType {
	if t.Bulk {
		return TransitionBulkSuggestionApplied
	}
	return TransitionSuggestionApplied
}

func (t SuggestionApplied) AffectedRegions() []Region { return regionsOf(t.Changes) }
func (t SuggestionApplied) ChangeCount() int          { return len(t.Changes) }

// Mixed means the turn combined applied suggestions with independent
// manual edits. ManualChanges holds only the changes not explained by
// an applied suggestion.
type Mixed struct {
	Changes       []TextChange
	AppliedIDs    []string
	ManualChanges []TextChange
}

func (t Mixed) Type() TransitionType      { return TransitionMixed }
func (t Mixed) AffectedRegions() []Region { return regionsOf(t.Changes) }
func (t Mixed) ChangeCount() int          { return len(t.Changes) }

// regionsOf aggregates the distinct regions of a change set in document order.
func regionsOf(changes []TextChange) []Region {
	seen := make(map[Region]bool, 3)
	for _, c := range changes {
		seen[c.Region] = true
	}
	var out []Region
	for _, r := range AllRegions() {
		if seen[r] {
			out = append(out, r)
		}
	}
	return out
}
