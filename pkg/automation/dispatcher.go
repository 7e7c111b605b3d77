package automation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/versify/automation/pkg/filter"
	"github.com/versify/automation/pkg/otelhelper"
	"github.com/versify/automation/pkg/persistence"
	"go.opentelemetry.io/otel/attribute"
)

// Dispatch is the orchestrator entry point. It reads task_type from the
// payload and runs the matching handler. An unrecognized task type yields an
// empty result and a warning, never an error.
func (e *Engine) Dispatch(ctx context.Context, payload map[string]any) (map[string]any, error) {
	taskType, _ := payload["task_type"].(string)

	task, known, err := DecodeTask(TaskType(taskType), payload)
	if !known {
		e.logger.WarnContext(ctx, "Unrecognized task type, ignoring",
			"task_type", taskType,
			"journey_id", stringValue(payload, "journey_id"),
			"journey_run_id", stringValue(payload, "journey_run_id"),
		)

		return map[string]any{}, nil
	}

	if err != nil {
		e.logger.ErrorContext(ctx, "Failed to decode task", "task_type", taskType, "error", err)

		return nil, err
	}

	return e.Execute(ctx, task)
}

// Execute validates and runs a typed task, then publishes its lifecycle events.
func (e *Engine) Execute(ctx context.Context, task Task) (map[string]any, error) {
	ref := task.ref()

	logger := e.logger.With(
		"task_type", task.Type(),
		"journey_id", ref.JourneyID,
		"journey_run_id", ref.JourneyRunID,
		"state_name", ref.StateName,
	)

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "automation.dispatch",
		attribute.String(otelhelper.TaskTypeKey, string(task.Type())),
		attribute.String(otelhelper.JourneyIDKey, ref.JourneyID),
		attribute.String(otelhelper.JourneyRunIDKey, ref.JourneyRunID),
		attribute.String(otelhelper.StateNameKey, ref.StateName),
	)
	defer span.End()

	err := e.validate.StructCtx(ctx, task)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrInvalidTask, task.Type(), err)
		otelhelper.SetError(span, err, errorClass(err))
		logger.WarnContext(ctx, "Rejected invalid task", "error", err)

		return nil, err
	}

	logger.InfoContext(ctx, "Dispatching task")

	out, err := task.execute(ctx, e)
	if err != nil {
		otelhelper.SetError(span, err, errorClass(err))
		logger.ErrorContext(ctx, "Task failed", "error", err)

		return nil, err
	}

	e.publish(ctx, logger, out)

	logger.InfoContext(ctx, "Task completed", "run_key", out.key)

	return out.response, nil
}

// publish emits the outcome's events. Failures are logged, not returned.
func (e *Engine) publish(ctx context.Context, logger *slog.Logger, out *outcome) {
	if e.publisher == nil {
		return
	}

	for _, event := range out.events {
		err := e.publisher.Publish(ctx, out.key, event)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to publish journey event", "event_type", event.GetType(), "error", err)
		}
	}
}

// errorClass names the category of a handler error for tracing.
func errorClass(err error) string {
	switch {
	case IsInvalidTask(err):
		return "invalid_task"
	case IsInvalidState(err):
		return "invalid_state"
	case filter.IsInvalidOperator(err):
		return "invalid_operator"
	case IsNotFound(err):
		return "not_found"
	case persistence.IsRunVersionConflict(err):
		return "version_conflict"
	default:
		return "external"
	}
}
