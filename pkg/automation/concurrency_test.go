package automation_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/versify/automation/pkg/automation"
	"github.com/versify/automation/pkg/mocks"
	"github.com/versify/automation/pkg/models"
	"github.com/versify/automation/pkg/persistence"
	"github.com/versify/automation/pkg/persistence/file"
)

// racingRuns lets another writer record a result between the handler's read
// of the run and its first write.
type racingRuns struct {
	automation.RunRepository

	raced bool
}

func (r *racingRuns) Update(ctx context.Context, id string, update models.RunUpdate) (*models.JourneyRun, error) {
	if !r.raced {
		r.raced = true

		_, err := r.RunRepository.Update(ctx, id, models.RunUpdate{
			Results: map[string]models.RunListItem{
				"concurrent": {Name: "concurrent", Status: models.ResultStatusCompleted},
			},
		})
		if err != nil {
			return nil, err
		}
	}

	return r.RunRepository.Update(ctx, id, update)
}

func newRacingEngine(t *testing.T, strict bool) (*automation.Engine, *file.Persistence, string) {
	t.Helper()

	ctx := context.Background()
	store := file.NewPersistence(t.TempDir())
	require.NoError(t, store.JourneyRepository().Save(ctx, testJourney()))

	run, err := store.RunRepository().Create(ctx, &models.JourneyRun{
		Account: "a_1",
		Contact: "c_1",
		Journey: "j_1",
	})
	require.NoError(t, err)

	contacts := &mocks.MockContactService{}
	contacts.On("Get", mock.Anything, "c_1").Return(customer(), nil)

	engine := automation.NewEngine(automation.Dependencies{
		Journeys: store.JourneyRepository(),
		Runs:     &racingRuns{RunRepository: store.RunRepository()},
		Contacts: contacts,
	},
		automation.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		automation.WithStrictVersions(strict),
	)

	return engine, store, run.ID
}

func TestStrictVersions_ConcurrentWriteFailsLoser(t *testing.T) {
	engine, store, runID := newRacingEngine(t, true)

	_, err := engine.Dispatch(context.Background(), map[string]any{
		"task_type":      "match_all",
		"state_name":     "check",
		"journey_id":     "j_1",
		"journey_run_id": runID,
	})
	require.Error(t, err)
	assert.True(t, persistence.IsRunVersionConflict(err))

	run, err := store.RunRepository().Get(context.Background(), runID)
	require.NoError(t, err)
	assert.Contains(t, run.Results, "concurrent")
	assert.NotContains(t, run.Results, "check")
}

// Without the version check the later write replaces the whole results map
// and the concurrent result is silently lost.
func TestRelaxedVersions_LastWriteWins(t *testing.T) {
	engine, store, runID := newRacingEngine(t, false)

	_, err := engine.Dispatch(context.Background(), map[string]any{
		"task_type":      "match_all",
		"state_name":     "check",
		"journey_id":     "j_1",
		"journey_run_id": runID,
	})
	require.NoError(t, err)

	run, err := store.RunRepository().Get(context.Background(), runID)
	require.NoError(t, err)
	assert.Contains(t, run.Results, "check")
	assert.NotContains(t, run.Results, "concurrent")
	assert.Equal(t, 3, run.Version)
}
