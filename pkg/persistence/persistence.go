// Package persistence provides the document storage abstraction for journeys and journey runs.
package persistence

import (
	"context"

	"github.com/versify/automation/pkg/models"
)

// Persistence groups the repositories of one storage backend.
type Persistence interface {
	JourneyRepository() JourneyRepository
	RunRepository() RunRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// JourneyRepository reads journey definitions. Save exists for seeding and
// administration; step handlers never write journeys.
type JourneyRepository interface {
	Get(ctx context.Context, id string) (*models.Journey, error)
	Save(ctx context.Context, journey *models.Journey) error
}

// RunRepository stores journey runs keyed by run ID.
type RunRepository interface {
	// Create assigns an ID when none is set, marks the run RUNNING with
	// time_started set to now, and persists it.
	Create(ctx context.Context, run *models.JourneyRun) (*models.JourneyRun, error)

	Get(ctx context.Context, id string) (*models.JourneyRun, error)

	// Update shallow-merges the given fields into the stored run and returns
	// the stored result. Results are replaced wholesale, never deep-merged.
	Update(ctx context.Context, id string, update models.RunUpdate) (*models.JourneyRun, error)

	ListByJourney(ctx context.Context, journeyID string) ([]*models.JourneyRun, error)
}
