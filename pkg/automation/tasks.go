package automation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/versify/automation/pkg/eventbus"
	"github.com/versify/automation/pkg/models"
)

// TaskType is the task_type string the orchestrator sends.
type TaskType string

const (
	TaskTypeCreateRun        TaskType = "create_run"
	TaskTypeUpdateRun        TaskType = "update_run"
	TaskTypeMatchAll         TaskType = "match_all"
	TaskTypeMatchAny         TaskType = "match_any"
	TaskTypeCreateNote       TaskType = "create_note"
	TaskTypeSendAppMessage   TaskType = "send_app_message"
	TaskTypeSendEmailMessage TaskType = "send_email_message"
	TaskTypeSendReward       TaskType = "send_reward"
	TaskTypeTagContact       TaskType = "tag_contact"
)

func TaskTypes() []TaskType {
	return []TaskType{
		TaskTypeCreateRun,
		TaskTypeUpdateRun,
		TaskTypeMatchAll,
		TaskTypeMatchAny,
		TaskTypeCreateNote,
		TaskTypeSendAppMessage,
		TaskTypeSendEmailMessage,
		TaskTypeSendReward,
		TaskTypeTagContact,
	}
}

// Task is one orchestrator step. Its unexported methods close the set of
// kinds to this package: every kind carries its own handler.
type Task interface {
	Type() TaskType

	ref() taskRef
	execute(ctx context.Context, e *Engine) (*outcome, error)
}

type taskRef struct {
	JourneyID    string
	JourneyRunID string
	StateName    string
}

// outcome is what a handler hands back to the dispatcher: the response for
// the orchestrator and the events to publish, keyed by run id.
type outcome struct {
	response map[string]any
	key      string
	events   []eventbus.Event
}

// CreateRunTask starts a run of a journey for the contact in the trigger event.
type CreateRunTask struct {
	JourneyID    string         `json:"journey_id"    validate:"required"`
	TriggerEvent map[string]any `json:"trigger_event" validate:"required"`
}

func (CreateRunTask) Type() TaskType { return TaskTypeCreateRun }

func (t CreateRunTask) ref() taskRef {
	return taskRef{JourneyID: t.JourneyID}
}

// UpdateRunTask moves a run to a terminal status.
type UpdateRunTask struct {
	JourneyID    string           `json:"journey_id"     validate:"required"`
	JourneyRunID string           `json:"journey_run_id" validate:"required"`
	Status       models.RunStatus `json:"status"         validate:"required,oneof=COMPLETED FAILED"`
}

func (UpdateRunTask) Type() TaskType { return TaskTypeUpdateRun }

func (t UpdateRunTask) ref() taskRef {
	return taskRef{JourneyID: t.JourneyID, JourneyRunID: t.JourneyRunID}
}

// StateRef names the state of a journey a task executes for a run.
type StateRef struct {
	StateName    string `json:"state_name"     validate:"required"`
	JourneyID    string `json:"journey_id"     validate:"required"`
	JourneyRunID string `json:"journey_run_id" validate:"required"`
}

func (r StateRef) ref() taskRef {
	return taskRef{JourneyID: r.JourneyID, JourneyRunID: r.JourneyRunID, StateName: r.StateName}
}

type MatchAllTask struct {
	StateRef
}

func (MatchAllTask) Type() TaskType { return TaskTypeMatchAll }

type MatchAnyTask struct {
	StateRef
}

func (MatchAnyTask) Type() TaskType { return TaskTypeMatchAny }

type CreateNoteTask struct {
	StateRef
}

func (CreateNoteTask) Type() TaskType { return TaskTypeCreateNote }

// SendAppMessageTask and the other sending tasks are not idempotent. A caller
// that retries should supply IdempotencyKey; it is forwarded, never derived.
type SendAppMessageTask struct {
	StateRef

	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

func (SendAppMessageTask) Type() TaskType { return TaskTypeSendAppMessage }

type SendEmailMessageTask struct {
	StateRef

	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

func (SendEmailMessageTask) Type() TaskType { return TaskTypeSendEmailMessage }

type SendRewardTask struct {
	StateRef

	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

func (SendRewardTask) Type() TaskType { return TaskTypeSendReward }

type TagContactTask struct {
	StateRef
}

func (TagContactTask) Type() TaskType { return TaskTypeTagContact }

// DecodeTask builds the typed task for taskType from a raw payload. The
// boolean is false when the task type is not recognized.
func DecodeTask(taskType TaskType, payload map[string]any) (Task, bool, error) {
	var task Task

	switch taskType {
	case TaskTypeCreateRun:
		task = &CreateRunTask{}
	case TaskTypeUpdateRun:
		task = &UpdateRunTask{}
	case TaskTypeMatchAll:
		task = &MatchAllTask{}
	case TaskTypeMatchAny:
		task = &MatchAnyTask{}
	case TaskTypeCreateNote:
		task = &CreateNoteTask{}
	case TaskTypeSendAppMessage:
		task = &SendAppMessageTask{}
	case TaskTypeSendEmailMessage:
		task = &SendEmailMessageTask{}
	case TaskTypeSendReward:
		task = &SendRewardTask{}
	case TaskTypeTagContact:
		task = &TagContactTask{}
	default:
		return nil, false, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %s: %w", ErrInvalidTask, taskType, err)
	}

	err = json.Unmarshal(data, task)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %s: %w", ErrInvalidTask, taskType, err)
	}

	return task, true, nil
}
