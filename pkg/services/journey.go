package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/versify/automation/pkg/models"
	"github.com/versify/automation/pkg/persistence"
)

// Journey administers journey definitions and exposes run history for audit.
type Journey struct {
	persistence persistence.Persistence
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewJourney creates a new journey service.
func NewJourney(persistence persistence.Persistence, validate *validator.Validate, logger *slog.Logger) *Journey {
	return &Journey{
		persistence: persistence,
		validate:    validate,
		logger:      logger.With("module", "journey_service"),
	}
}

// HealthCheck checks the health of the persistence layer.
func (j *Journey) HealthCheck(ctx context.Context) (string, bool) {
	if j.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := j.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

func (j *Journey) Get(ctx context.Context, id string) (*models.Journey, error) {
	return j.persistence.JourneyRepository().Get(ctx, id)
}

// Save validates the definition and stores it under id, replacing any
// existing journey with that id.
func (j *Journey) Save(ctx context.Context, id string, journey *models.Journey) (*models.Journey, error) {
	if journey == nil {
		return nil, ErrJourneyNil
	}

	if journey.ID == "" {
		journey.ID = id
	}

	if journey.ID != id {
		return nil, NewValidationError("save_journey", "id_mismatch",
			fmt.Sprintf("body id %q does not match path id %q", journey.ID, id), ErrIDMismatch)
	}

	err := j.Validate(journey)
	if err != nil {
		return nil, err
	}

	err = j.persistence.JourneyRepository().Save(ctx, journey)
	if err != nil {
		return nil, fmt.Errorf("failed to save journey %s: %w", id, err)
	}

	j.logger.InfoContext(ctx, "journey saved", "journey_id", id, "states", len(journey.States))

	return journey, nil
}

// Validate checks the struct tags, that the start state exists, and every
// state's config against its action schema.
func (j *Journey) Validate(journey *models.Journey) error {
	err := j.validate.Struct(journey)
	if err != nil {
		return NewValidationError("validate_journey", "invalid_request", err.Error(), ErrInvalidRequest)
	}

	if _, ok := journey.State(journey.Start); !ok {
		return fmt.Errorf("%w: %q", ErrStartStateMissing, journey.Start)
	}

	names := make([]string, 0, len(journey.States))
	for name := range journey.States {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		state := journey.States[name]

		if !state.ActionType.IsValid() {
			return fmt.Errorf("state %q: %w: %q", name, ErrUnknownActionType, state.ActionType)
		}

		err = validateActionConfig(state.ActionType, state.Config)
		if err != nil {
			return fmt.Errorf("state %q: %w", name, err)
		}
	}

	return nil
}

// ListRuns returns the runs of a journey, newest first. An unknown journey is
// reported as not found rather than an empty list.
func (j *Journey) ListRuns(ctx context.Context, journeyID string) ([]*models.JourneyRun, error) {
	_, err := j.persistence.JourneyRepository().Get(ctx, journeyID)
	if err != nil {
		return nil, err
	}

	runs, err := j.persistence.RunRepository().ListByJourney(ctx, journeyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs of journey %s: %w", journeyID, err)
	}

	if runs == nil {
		runs = []*models.JourneyRun{}
	}

	return runs, nil
}

func (j *Journey) GetRun(ctx context.Context, id string) (*models.JourneyRun, error) {
	return j.persistence.RunRepository().Get(ctx, id)
}
