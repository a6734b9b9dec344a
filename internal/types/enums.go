// Package types provides type definitions for structured data used throughout the essay-coach system.
package types

// Region identifies which third of the essay a change or suggestion falls in.
type Region string

const (
	RegionBeginning Region = "beginning"
	RegionMiddle    Region = "middle"
	RegionEnd       Region = "end"
)

// AllRegions returns every region in document order.
func AllRegions() []Region {
	return []Region{RegionBeginning, RegionMiddle, RegionEnd}
}

// regionOrder maps regions to their document order for sorting.
var regionOrder = map[Region]int{
	RegionBeginning: 0,
	RegionMiddle:    1,
	RegionEnd:       2,
}

// Order returns the document order of the region (beginning first).
// Unknown regions sort last.
func (r Region) Order() int {
	if o, ok := regionOrder[r]; ok {
		return o
	}
	return len(regionOrder)
}

// ChangeKind classifies a single text change emitted by the differ.
type ChangeKind string

const (
	ChangeAddition     ChangeKind = "addition"
	ChangeDeletion     ChangeKind = "deletion"
	ChangeModification ChangeKind = "modification"
)

// TransitionType classifies the transition between two essay versions.
type TransitionType string

const (
	TransitionInitial               TransitionType = "initial"
	TransitionNoChange              TransitionType = "no_change"
	TransitionManualEdit            TransitionType = "manual_edit"
	TransitionSuggestionApplied     TransitionType = "suggestion_applied"
	TransitionBulkSuggestionApplied TransitionType = "bulk_suggestion_applied"
	TransitionMixed                 TransitionType = "mixed"
)

// SuggestionCategory is the kind of improvement a suggestion proposes.
type SuggestionCategory string

const (
	CategoryGrammar      SuggestionCategory = "Grammar"
	CategorySpelling     SuggestionCategory = "Spelling"
	CategoryWordChoice   SuggestionCategory = "Word Choice"
	CategoryToneVoice    SuggestionCategory = "Tone & Voice"
	CategoryIdeaStrength SuggestionCategory = "Idea Strength"
	CategoryRephrase     SuggestionCategory = "Rephrase"
	CategoryStructure    SuggestionCategory = "Structure"
	CategoryClarity      SuggestionCategory = "Clarity"
)

// Priority orders suggestions by urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// priorityOrder maps priorities to sort order (high first).
var priorityOrder = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// Order returns the sort order of the priority; unknown priorities sort last.
func (p Priority) Order() int {
	if o, ok := priorityOrder[p]; ok {
		return o
	}
	return len(priorityOrder)
}

// GenerationType describes how a review round sourced its suggestions.
type GenerationType string

const (
	// GenerationFull requests suggestions spanning the whole essay (first review).
	GenerationFull GenerationType = "full"
	// GenerationTargeted requests a small suggestion set focused on edited regions.
	GenerationTargeted GenerationType = "targeted"
	// GenerationScoreUpdateOnly skips suggestion generation entirely.
	GenerationScoreUpdateOnly GenerationType = "score_update_only"
)
