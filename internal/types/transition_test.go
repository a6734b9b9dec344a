package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionTypes(t *testing.T) {
	assert.Equal(t, TransitionNoChange, NoChange{}.Type())
	assert.Equal(t, TransitionManualEdit, ManualEdit{}.Type())
	assert.Equal(t, TransitionSuggestionApplied, SuggestionApplied{}.Type())
	assert.Equal(t, TransitionBulkSuggestionApplied, SuggestionApplied{Bulk: true}.Type())
	assert.Equal(t, TransitionMixed, Mixed{}.Type())
}

func TestAffectedRegionsDocumentOrder(t *testing.T) {
	edit := ManualEdit{Changes: []TextChange{
		{Region: RegionEnd},
		{Region: RegionBeginning},
		{Region: RegionEnd},
	}}

	regions := edit.AffectedRegions()
	assert.Equal(t, []Region{RegionBeginning, RegionEnd}, regions)
	assert.Equal(t, 3, edit.ChangeCount())
}

func TestNoChangeHasNoRegions(t *testing.T) {
	assert.Nil(t, NoChange{}.AffectedRegions())
	assert.Equal(t, 0, NoChange{}.ChangeCount())
}

func TestScoreMetricLookup(t *testing.T) {
	score := ReviewScore{Metrics: []Metric{
		{Label: MetricClarity, Value: 70},
		{Label: MetricDelivery, Value: 65},
	}}

	v, ok := score.Metric(MetricClarity)
	assert.True(t, ok)
	assert.Equal(t, 70, v)

	_, ok = score.Metric(MetricQuality)
	assert.False(t, ok)
}

func TestRequestValidation(t *testing.T) {
	valid := ReviewRequest{
		AssistID: "a3bb189e-8bf9-4c8b-9be6-30c4f7c9aeb1",
		Content:  "This essay is comfortably longer than the fifty character floor.",
	}
	assert.NoError(t, valid.Validate())

	short := valid
	short.Content = "too short"
	assert.Error(t, short.Validate())

	badID := valid
	badID.AssistID = "not-a-uuid"
	assert.Error(t, badID.Validate())

	assert.Error(t, (&ChatRequest{}).Validate())
	assert.NoError(t, (&ChatRequest{Message: "hi"}).Validate())

	assert.Error(t, (&ApplySuggestionRequest{}).Validate())
	assert.NoError(t, (&ApplySuggestionRequest{SuggestionUUID: "s-1"}).Validate())
}
