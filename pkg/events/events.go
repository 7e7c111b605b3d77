// Package events defines event types and structures for journey run lifecycle notifications.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/versify/automation/pkg/models"
)

type EventType string

// Topic carries every automation event; consumers filter on the event type metadata.
const Topic = "versify.automation.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Orchestrator task events.
	TaskRequestedEvent EventType = "journey.task.requested"
	TaskCompletedEvent EventType = "journey.task.completed"
	TaskFailedEvent    EventType = "journey.task.failed"

	// Journey run lifecycle events.
	JourneyRunCreatedEvent        EventType = "journey.run.created"
	JourneyRunStateCompletedEvent EventType = "journey.run.state.completed"
	JourneyRunFinishedEvent       EventType = "journey.run.finished"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	JourneyID string         `json:"journey_id"`
	WorkerID  string         `json:"worker_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// TaskRequested asks a worker to dispatch one orchestrator task. Task holds
// the same payload the HTTP entry point accepts, task_type included.
type TaskRequested struct {
	BaseEvent

	RequestID string         `json:"request_id"`
	Task      map[string]any `json:"task"`
}

func (t TaskRequested) GetType() EventType {
	return TaskRequestedEvent
}

type TaskCompleted struct {
	BaseEvent

	RequestID string         `json:"request_id"`
	TaskType  string         `json:"task_type"`
	Result    map[string]any `json:"result"`
}

func (t TaskCompleted) GetType() EventType {
	return TaskCompletedEvent
}

type TaskFailed struct {
	BaseEvent

	RequestID string `json:"request_id"`
	TaskType  string `json:"task_type"`
	Error     string `json:"error"`
}

func (t TaskFailed) GetType() EventType {
	return TaskFailedEvent
}

type JourneyRunCreated struct {
	BaseEvent

	JourneyRunID string `json:"journey_run_id"`
	Account      string `json:"account"`
	Contact      string `json:"contact"`
}

func (j JourneyRunCreated) GetType() EventType {
	return JourneyRunCreatedEvent
}

// JourneyRunStateCompleted reports the result a state recorded into a run.
type JourneyRunStateCompleted struct {
	BaseEvent

	JourneyRunID string            `json:"journey_run_id"`
	StateName    string            `json:"state_name"`
	ActionType   models.ActionType `json:"action_type"`
	Result       map[string]any    `json:"result"`
}

func (j JourneyRunStateCompleted) GetType() EventType {
	return JourneyRunStateCompletedEvent
}

type JourneyRunFinished struct {
	BaseEvent

	JourneyRunID string           `json:"journey_run_id"`
	Status       models.RunStatus `json:"status"`
	TimeEnded    int64            `json:"time_ended"`
}

func (j JourneyRunFinished) GetType() EventType {
	return JourneyRunFinishedEvent
}

func NewBaseEvent(eventType EventType, journeyID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		JourneyID: journeyID,
		Metadata:  make(map[string]any),
	}
}
