package automation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/versify/automation/pkg/models"
)

func TestDecodeTask_EveryTaskType(t *testing.T) {
	for _, taskType := range TaskTypes() {
		t.Run(string(taskType), func(t *testing.T) {
			task, known, err := DecodeTask(taskType, map[string]any{"task_type": string(taskType)})
			require.NoError(t, err)
			assert.True(t, known)
			assert.Equal(t, taskType, task.Type())
		})
	}
}

func TestDecodeTask_Unknown(t *testing.T) {
	task, known, err := DecodeTask("legacy_webhook", map[string]any{"task_type": "legacy_webhook"})
	require.NoError(t, err)
	assert.False(t, known)
	assert.Nil(t, task)
}

func TestDecodeTask_StateFields(t *testing.T) {
	task, known, err := DecodeTask(TaskTypeSendReward, map[string]any{
		"task_type":       "send_reward",
		"state_name":      "reward",
		"journey_id":      "j_1",
		"journey_run_id":  "r_1",
		"idempotency_key": "k_1",
	})
	require.NoError(t, err)
	require.True(t, known)

	reward, ok := task.(*SendRewardTask)
	require.True(t, ok)
	assert.Equal(t, StateRef{StateName: "reward", JourneyID: "j_1", JourneyRunID: "r_1"}, reward.StateRef)
	assert.Equal(t, "k_1", reward.IdempotencyKey)
	assert.Equal(t, taskRef{JourneyID: "j_1", JourneyRunID: "r_1", StateName: "reward"}, task.ref())
}

func TestDecodeTask_UpdateRunStatus(t *testing.T) {
	task, _, err := DecodeTask(TaskTypeUpdateRun, map[string]any{
		"journey_id":     "j_1",
		"journey_run_id": "r_1",
		"status":         "FAILED",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusFailed, task.(*UpdateRunTask).Status)
}

func TestSuffixCallerKey(t *testing.T) {
	assert.Equal(t, "", suffixCallerKey("", "create"))
	assert.Equal(t, "k:create", suffixCallerKey("k", "create"))
	assert.Equal(t, "k:send", suffixCallerKey("k", "send"))
}

func TestDecodeFilters(t *testing.T) {
	filters, err := decodeFilters(map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, filters)

	filters, err = decodeFilters(map[string]any{"filters": []any{
		map[string]any{"field": "email", "operator": "ends_with", "value": "@versify.io"},
	}})
	require.NoError(t, err)
	assert.Equal(t, []models.Filter{{Field: "email", Operator: models.OperatorEndsWith, Value: "@versify.io"}}, filters)

	_, err = decodeFilters(map[string]any{"filters": "email ends_with versify"})
	assert.Error(t, err)
}
