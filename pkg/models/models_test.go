package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/versify/automation/pkg/models"
)

func TestContact_CustomFields(t *testing.T) {
	var contact models.Contact

	err := json.Unmarshal([]byte(`{
		"id": "c_1",
		"email": "ada@example.com",
		"tags": ["Customer"],
		"spend": 120,
		"address": {"city": "Lisbon"}
	}`), &contact)
	require.NoError(t, err)

	assert.Equal(t, "c_1", contact.ID)
	assert.Equal(t, []string{"Customer"}, contact.Tags)
	assert.NotContains(t, contact.Fields, "email")

	spend, ok := contact.Field("spend")
	require.True(t, ok)
	assert.InDelta(t, 120.0, spend, 0)

	city, ok := contact.Field("address.city")
	require.True(t, ok)
	assert.Equal(t, "Lisbon", city)

	_, ok = contact.Field("address.zip")
	assert.False(t, ok)

	_, ok = contact.Field("name")
	assert.False(t, ok)

	tags, ok := contact.Field("tags")
	require.True(t, ok)
	assert.Equal(t, []any{"Customer"}, tags)

	encoded, err := json.Marshal(contact)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "c_1",
		"email": "ada@example.com",
		"tags": ["Customer"],
		"spend": 120,
		"address": {"city": "Lisbon"}
	}`, string(encoded))
}

func TestRunUpdate_Apply(t *testing.T) {
	run := &models.JourneyRun{
		ID:      "r_1",
		Status:  models.RunStatusRunning,
		Results: map[string]models.RunListItem{"check": {Name: "check"}},
		Version: 2,
	}

	models.RunUpdate{}.Apply(run)
	assert.Equal(t, models.RunStatusRunning, run.Status)
	assert.Len(t, run.Results, 1)
	assert.Equal(t, 3, run.Version)

	status := models.RunStatusCompleted
	ended := int64(1714564800)

	models.RunUpdate{
		Status:    &status,
		TimeEnded: &ended,
		Results:   map[string]models.RunListItem{},
	}.Apply(run)

	assert.Equal(t, models.RunStatusCompleted, run.Status)
	require.NotNil(t, run.TimeEnded)
	assert.Equal(t, ended, *run.TimeEnded)
	assert.Empty(t, run.Results)
	assert.Equal(t, 4, run.Version)
}

func TestJourneyRun_CloneResults(t *testing.T) {
	run := &models.JourneyRun{Results: map[string]models.RunListItem{"check": {Name: "check"}}}

	results := run.CloneResults()
	results["tag"] = models.RunListItem{Name: "tag"}

	assert.Len(t, run.Results, 1)
	assert.Len(t, results, 2)
	assert.NotNil(t, (&models.JourneyRun{}).CloneResults())
}

func TestJourney_State(t *testing.T) {
	journey := &models.Journey{States: map[string]*models.State{
		"check": {ActionType: models.ActionTypeMatchAll},
		"empty": nil,
	}}

	state, ok := journey.State("check")
	require.True(t, ok)
	assert.Equal(t, models.ActionTypeMatchAll, state.ActionType)

	_, ok = journey.State("empty")
	assert.False(t, ok)

	_, ok = journey.State("missing")
	assert.False(t, ok)

	var nilJourney *models.Journey

	_, ok = nilJourney.State("check")
	assert.False(t, ok)
}

func TestEnums(t *testing.T) {
	assert.True(t, models.ActionTypeTagContact.IsValid())
	assert.False(t, models.ActionType("call_webhook").IsValid())
	assert.True(t, models.RunStatusFailed.IsTerminal())
	assert.False(t, models.RunStatusRunning.IsTerminal())
}
