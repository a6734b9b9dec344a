// Package version keeps the append-only ledger of essay versions.
// Every version links to its parent, so the chain records how the
// essay evolved and which suggestions produced each step.
package version

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/everwrite/essay-coach/internal/types"
)

// Store owns an essay's version chain. Versions are immutable once
// created and only this package creates them. A Store is a value per
// essay, never shared between essays.
type Store struct {
	versions []types.EssayVersion
	latestID string
}

// NewStore returns an empty version store.
func NewStore() *Store {
	return &Store{}
}

// ErrNoVersions indicates the chain has no versions yet.
type ErrNoVersions struct{}

func (e *ErrNoVersions) Error() string { return "version store has no versions" }

// ErrVersionNotFound indicates an unknown version id.
type ErrVersionNotFound struct {
	ID string
}

func (e *ErrVersionNotFound) Error() string { return fmt.Sprintf("version not found: %s", e.ID) }

// CreateInitial creates the first version of the chain.
func (s *Store) CreateInitial(content string) types.EssayVersion {
	v := types.EssayVersion{
		ID:         uuid.New().String(),
		Content:    content,
		CreatedAt:  time.Now().UTC(),
		WordCount:  countWords(content),
		ChangeType: types.TransitionInitial,
	}
	s.versions = append(s.versions, v)
	s.latestID = v.ID
	return v
}

// Append records a new version produced by the given transition,
// linked to the current latest version.
func (s *Store) Append(content string, tr types.Transition) (types.EssayVersion, error) {
	latest, err := s.Latest()
	if err != nil {
		return types.EssayVersion{}, err
	}

	v := types.EssayVersion{
		ID:              uuid.New().String(),
		Content:         content,
		CreatedAt:       time.Now().UTC(),
		WordCount:       countWords(content),
		ChangeType:      tr.Type(),
		ParentVersionID: latest.ID,
	}
	if sa, ok := tr.(types.SuggestionApplied); ok {
		v.AppliedSuggestionIDs = append([]string(nil), sa.AppliedIDs...)
	}
	if mx, ok := tr.(types.Mixed); ok {
		v.AppliedSuggestionIDs = append([]string(nil), mx.AppliedIDs...)
	}

	s.versions = append(s.versions, v)
	s.latestID = v.ID
	return v, nil
}

// Latest returns the most recently appended version.
func (s *Store) Latest() (types.EssayVersion, error) {
	if len(s.versions) == 0 {
		return types.EssayVersion{}, &ErrNoVersions{}
	}
	return s.versions[len(s.versions)-1], nil
}

// Get returns the version with the given id.
func (s *Store) Get(id string) (types.EssayVersion, error) {
	for _, v := range s.versions {
		if v.ID == id {
			return v, nil
		}
	}
	return types.EssayVersion{}, &ErrVersionNotFound{ID: id}
}

// History returns the full chain, oldest first.
func (s *Store) History() []types.EssayVersion {
	out := make([]types.EssayVersion, len(s.versions))
	copy(out, s.versions)
	return out
}

// Len returns the number of versions in the chain.
func (s *Store) Len() int {
	return len(s.versions)
}

// state is the serialized form of a Store.
type state struct {
	Versions []types.EssayVersion `json:"versions"`
	LatestID string               `json:"latest_id"`
}

// Serialize renders the store as JSON for the persistence collaborator.
func (s *Store) Serialize() (string, error) {
	data, err := json.Marshal(state{Versions: s.versions, LatestID: s.latestID})
	if err != nil {
		return "", fmt.Errorf("failed to serialize version state: %w", err)
	}
	return string(data), nil
}

// Deserialize reconstructs a Store from its serialized form. Time
// fields round-trip through RFC 3339 via encoding/json.
func Deserialize(serialized string) (*Store, error) {
	if strings.TrimSpace(serialized) == "" {
		return NewStore(), nil
	}
	var st state
	if err := json.Unmarshal([]byte(serialized), &st); err != nil {
		return nil, fmt.Errorf("failed to deserialize version state: %w", err)
	}
	return &Store{versions: st.Versions, latestID: st.LatestID}, nil
}

// countWords counts whitespace-separated words.
func countWords(content string) int {
	return len(strings.Fields(content))
}
