package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everwrite/essay-coach/internal/types"
)

func TestStore_CreateInitial(t *testing.T) {
	s := NewStore()
	v := s.CreateInitial("My first draft of the essay.")

	assert.NotEmpty(t, v.ID)
	assert.Equal(t, types.TransitionInitial, v.ChangeType)
	assert.Equal(t, 6, v.WordCount)
	assert.Empty(t, v.ParentVersionID)

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, v.ID, latest.ID)
}

func TestStore_LatestEmpty(t *testing.T) {
	s := NewStore()
	_, err := s.Latest()
	var notFound *ErrNoVersions
	assert.ErrorAs(t, err, &notFound)
}

func TestStore_AppendLinksParent(t *testing.T) {
	s := NewStore()
	first := s.CreateInitial("draft one")

	second, err := s.Append("draft two", types.ManualEdit{})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ParentVersionID)
	assert.Equal(t, types.TransitionManualEdit, second.ChangeType)

	third, err := s.Append("draft three", types.SuggestionApplied{AppliedIDs: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, second.ID, third.ParentVersionID)
	assert.Equal(t, []string{"a", "b"}, third.AppliedSuggestionIDs)
	assert.Equal(t, 3, s.Len())
}

func TestStore_AppendWithoutInitialFails(t *testing.T) {
	s := NewStore()
	_, err := s.Append("content", types.ManualEdit{})
	var noVersions *ErrNoVersions
	assert.ErrorAs(t, err, &noVersions)
}

func TestStore_Get(t *testing.T) {
	s := NewStore()
	v := s.CreateInitial("content")

	got, err := s.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.Content, got.Content)

	_, err = s.Get("missing")
	var notFound *ErrVersionNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestStore_SerializeRoundTrip(t *testing.T) {
	s := NewStore()
	s.CreateInitial("draft one")
	v2, err := s.Append("draft two", types.SuggestionApplied{AppliedIDs: []string{"x"}, Bulk: false})
	require.NoError(t, err)

	serialized, err := s.Serialize()
	require.NoError(t, err)

	restored, err := Deserialize(serialized)
	require.NoError(t, err)
	assert.Equal(t, 2, restored.Len())

	latest, err := restored.Latest()
	require.NoError(t, err)
	assert.Equal(t, v2.ID, latest.ID)
	assert.Equal(t, v2.CreatedAt.Unix(), latest.CreatedAt.Unix())
	assert.Equal(t, []string{"x"}, latest.AppliedSuggestionIDs)
}

func TestDeserialize_Empty(t *testing.T) {
	s, err := Deserialize("")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestDeserialize_Garbage(t *testing.T) {
	_, err := Deserialize("{not json")
	assert.Error(t, err)
}
