package automation

import (
	"context"
	"fmt"

	"github.com/versify/automation/pkg/eventbus"
	"github.com/versify/automation/pkg/events"
	"github.com/versify/automation/pkg/models"
)

func (t CreateRunTask) execute(ctx context.Context, e *Engine) (*outcome, error) {
	account := stringValue(t.TriggerEvent, "account")
	contact := stringValue(t.TriggerEvent, "contact")

	if account == "" || contact == "" {
		return nil, fmt.Errorf("%w: trigger_event must carry account and contact", ErrInvalidTask)
	}

	journey, err := e.journeys.Get(ctx, t.JourneyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journey %s: %w", t.JourneyID, err)
	}

	run, err := e.runs.Create(ctx, &models.JourneyRun{
		Account:      account,
		Contact:      contact,
		Journey:      journey.ID,
		TriggerEvent: t.TriggerEvent,
		Results:      map[string]models.RunListItem{},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create run of journey %s: %w", journey.ID, err)
	}

	created := events.JourneyRunCreated{
		BaseEvent:    events.NewBaseEvent(events.JourneyRunCreatedEvent, journey.ID),
		JourneyRunID: run.ID,
		Account:      run.Account,
		Contact:      run.Contact,
	}

	return &outcome{
		response: runResponse(journey.ID, run.ID),
		key:      run.ID,
		events:   []eventbus.Event{created},
	}, nil
}

// execute sets the terminal status. A run that already finished is updated
// again without complaint; ordering is the orchestrator's job.
func (t UpdateRunTask) execute(ctx context.Context, e *Engine) (*outcome, error) {
	run, err := e.runs.Get(ctx, t.JourneyRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", t.JourneyRunID, err)
	}

	if run.Journey != t.JourneyID {
		return nil, fmt.Errorf("%w: run %s belongs to journey %s, not %s", ErrInvalidState, run.ID, run.Journey, t.JourneyID)
	}

	status := t.Status
	timeEnded := e.now().Unix()

	update := models.RunUpdate{Status: &status, TimeEnded: &timeEnded}
	e.expectVersion(&update, run)

	_, err = e.runs.Update(ctx, run.ID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update run %s: %w", run.ID, err)
	}

	finished := events.JourneyRunFinished{
		BaseEvent:    events.NewBaseEvent(events.JourneyRunFinishedEvent, run.Journey),
		JourneyRunID: run.ID,
		Status:       status,
		TimeEnded:    timeEnded,
	}

	return &outcome{
		response: runResponse(run.Journey, run.ID),
		key:      run.ID,
		events:   []eventbus.Event{finished},
	}, nil
}

func (e *Engine) expectVersion(update *models.RunUpdate, run *models.JourneyRun) {
	if e.strictVersions {
		version := run.Version
		update.ExpectedVersion = &version
	}
}

func runResponse(journeyID, runID string) map[string]any {
	return map[string]any{
		"journey_id":     journeyID,
		"journey_run_id": runID,
	}
}

func stringValue(data map[string]any, key string) string {
	value, _ := data[key].(string)

	return value
}
