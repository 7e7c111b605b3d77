package main

import (
	"context"
	"log/slog"

	"github.com/versify/automation/pkg/eventbus"
	"github.com/versify/automation/pkg/events"
)

// Dispatcher runs one orchestrator task payload.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload map[string]any) (map[string]any, error)
}

// WorkerManager consumes task requests from the event bus and answers each
// with a completed or failed event.
type WorkerManager struct {
	id         string
	logger     *slog.Logger
	dispatcher Dispatcher
	eventBus   eventbus.EventBus
}

func NewWorkerManager(
	id string,
	dispatcher Dispatcher,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
) *WorkerManager {
	return &WorkerManager{
		id:         id,
		logger:     logger.With("module", "versify-automation-worker", "worker_id", id),
		dispatcher: dispatcher,
		eventBus:   eventBus,
	}
}

// Start registers the task handler and subscribes. It returns once the
// subscription is running.
func (w *WorkerManager) Start(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Starting worker manager")

	err := w.eventBus.Handle(events.TaskRequestedEvent, w.handleTaskRequested)
	if err != nil {
		return err
	}

	err = w.eventBus.Subscribe(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	w.logger.InfoContext(ctx, "Worker started successfully")

	return nil
}

// handleTaskRequested dispatches the task once and always acks. A lost answer
// is logged; it never leads to a second dispatch of the same request.
func (w *WorkerManager) handleTaskRequested(ctx context.Context, event any) error {
	requested, ok := event.(*events.TaskRequested)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for TaskRequested")

		return nil
	}

	taskType, _ := requested.Task["task_type"].(string)
	runID, _ := requested.Task["journey_run_id"].(string)

	logger := w.logger.With(
		"request_id", requested.RequestID,
		"task_type", taskType,
		"journey_id", requested.JourneyID,
		"event_id", requested.ID,
	)
	logger.InfoContext(ctx, "Processing task requested event")

	key := runID
	if key == "" {
		key = requested.RequestID
	}

	result, err := w.dispatcher.Dispatch(ctx, requested.Task)
	if err != nil {
		failed := events.TaskFailed{
			BaseEvent: events.NewBaseEvent(events.TaskFailedEvent, requested.JourneyID),
			RequestID: requested.RequestID,
			TaskType:  taskType,
			Error:     err.Error(),
		}
		failed.WorkerID = w.id

		publishErr := w.eventBus.Publish(ctx, key, failed)
		if publishErr != nil {
			logger.ErrorContext(ctx, "Failed to publish task failed event", "error", publishErr)
		}

		return nil
	}

	if id, ok := result["journey_run_id"].(string); ok && key == requested.RequestID {
		key = id
	}

	completed := events.TaskCompleted{
		BaseEvent: events.NewBaseEvent(events.TaskCompletedEvent, requested.JourneyID),
		RequestID: requested.RequestID,
		TaskType:  taskType,
		Result:    result,
	}
	completed.WorkerID = w.id

	err = w.eventBus.Publish(ctx, key, completed)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to publish task completed event", "error", err)
	}

	return nil
}
