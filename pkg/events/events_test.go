package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/versify/automation/pkg/models"
)

func TestEvents_GetType(t *testing.T) {
	tests := []struct {
		event    interface{ GetType() EventType }
		expected EventType
	}{
		{TaskRequested{}, TaskRequestedEvent},
		{TaskCompleted{}, TaskCompletedEvent},
		{TaskFailed{}, TaskFailedEvent},
		{JourneyRunCreated{}, JourneyRunCreatedEvent},
		{JourneyRunStateCompleted{}, JourneyRunStateCompletedEvent},
		{JourneyRunFinished{}, JourneyRunFinishedEvent},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.GetType())
		})
	}
}

func TestNewBaseEvent(t *testing.T) {
	base := NewBaseEvent(JourneyRunCreatedEvent, "j_1")

	assert.NotEmpty(t, base.ID)
	assert.Equal(t, JourneyRunCreatedEvent, base.Type)
	assert.Equal(t, "j_1", base.JourneyID)
	assert.False(t, base.Timestamp.IsZero())
	assert.NotNil(t, base.Metadata)

	other := NewBaseEvent(JourneyRunCreatedEvent, "j_1")
	assert.NotEqual(t, base.ID, other.ID)
}

func TestJourneyRunStateCompleted_JSON(t *testing.T) {
	original := JourneyRunStateCompleted{
		BaseEvent:    NewBaseEvent(JourneyRunStateCompletedEvent, "j_1"),
		JourneyRunID: "run_1",
		StateName:    "tag",
		ActionType:   models.ActionTypeTagContact,
		Result:       map[string]any{"tags": []any{"Customer", "VIP"}},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"journey.run.state.completed"`)
	assert.Contains(t, string(data), `"journey_id":"j_1"`)
	assert.Contains(t, string(data), `"action_type":"tag_contact"`)

	var decoded JourneyRunStateCompleted

	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, original.JourneyRunID, decoded.JourneyRunID)
	assert.Equal(t, original.StateName, decoded.StateName)
	assert.Equal(t, original.Result, decoded.Result)
}

func TestTaskRequested_CarriesRawTask(t *testing.T) {
	data := []byte(`{"type":"journey.task.requested","journey_id":"j_1","request_id":"req_1",
		"task":{"task_type":"match_all","journey_id":"j_1","journey_run_id":"run_1","state_name":"check"}}`)

	var event TaskRequested

	err := json.Unmarshal(data, &event)
	require.NoError(t, err)
	assert.Equal(t, "req_1", event.RequestID)
	assert.Equal(t, "match_all", event.Task["task_type"])
	assert.Equal(t, "run_1", event.Task["journey_run_id"])
}
