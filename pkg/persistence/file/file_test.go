package file

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/versify/automation/pkg/models"
	"github.com/versify/automation/pkg/persistence"
)

func TestNewPersistence(t *testing.T) {
	fp := NewPersistence("/tmp/test")
	assert.Equal(t, "/tmp/test", fp.root)

	fp = NewPersistence("file:///tmp/test")
	assert.Equal(t, "/tmp/test", fp.root)
}

func TestPersistence_HealthCheck(t *testing.T) {
	fp := NewPersistence(t.TempDir())
	require.NoError(t, fp.HealthCheck(t.Context()))

	missing := NewPersistence(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, missing.HealthCheck(t.Context()))
	require.NoError(t, missing.Close(t.Context()))
}

func TestJourneyRepository_SaveAndGet(t *testing.T) {
	fp := NewPersistence(t.TempDir())
	repo := fp.JourneyRepository()

	journey := &models.Journey{
		ID:      "j_1",
		Account: "a_1",
		Name:    "Welcome",
		Start:   "is_customer",
		States: map[string]*models.State{
			"is_customer": {
				ActionType: models.ActionTypeMatchAll,
				Config: map[string]any{
					"filters": []any{
						map[string]any{"field": "tags", "operator": "exists", "value": nil},
					},
				},
			},
		},
	}

	err := repo.Save(t.Context(), journey)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(fp.root, "journeys", "j_1.json"))

	loaded, err := repo.Get(t.Context(), "j_1")
	require.NoError(t, err)
	assert.Equal(t, "a_1", loaded.Account)
	assert.Equal(t, "is_customer", loaded.Start)

	state, ok := loaded.State("is_customer")
	require.True(t, ok)
	assert.Equal(t, models.ActionTypeMatchAll, state.ActionType)
}

func TestJourneyRepository_GetNotFound(t *testing.T) {
	repo := NewPersistence(t.TempDir()).JourneyRepository()

	_, err := repo.Get(t.Context(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsJourneyNotFound(err))
}

func TestJourneyRepository_RejectsUnsafeID(t *testing.T) {
	repo := NewPersistence(t.TempDir()).JourneyRepository()

	_, err := repo.Get(t.Context(), "../etc/passwd")
	require.ErrorIs(t, err, persistence.ErrInvalidID)
}

func TestRunRepository_CreateAndGet(t *testing.T) {
	fp := NewPersistence(t.TempDir())
	repo := fp.RunRepository()

	trigger := map[string]any{"account": "a_1", "contact": "c_1", "source": "signup"}

	created, err := repo.Create(t.Context(), &models.JourneyRun{
		Account:      "a_1",
		Contact:      "c_1",
		Journey:      "j_1",
		TriggerEvent: trigger,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.RunStatusRunning, created.Status)
	assert.NotZero(t, created.TimeStarted)
	assert.Nil(t, created.TimeEnded)
	assert.Empty(t, created.Results)
	assert.Equal(t, 1, created.Version)

	fetched, err := repo.Get(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Account, fetched.Account)
	assert.Equal(t, created.Contact, fetched.Contact)
	assert.Equal(t, created.Journey, fetched.Journey)
	assert.Equal(t, trigger, fetched.TriggerEvent)
	assert.Equal(t, models.RunStatusRunning, fetched.Status)
}

func TestRunRepository_CreateDuplicate(t *testing.T) {
	repo := NewPersistence(t.TempDir()).RunRepository()

	_, err := repo.Create(t.Context(), &models.JourneyRun{ID: "run-1", Journey: "j_1"})
	require.NoError(t, err)

	_, err = repo.Create(t.Context(), &models.JourneyRun{ID: "run-1", Journey: "j_1"})
	require.ErrorIs(t, err, persistence.ErrRunAlreadyExists)
}

func TestRunRepository_GetNotFound(t *testing.T) {
	repo := NewPersistence(t.TempDir()).RunRepository()

	_, err := repo.Get(t.Context(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsRunNotFound(err))

	status := models.RunStatusCompleted
	_, err = repo.Update(t.Context(), "missing", models.RunUpdate{Status: &status})
	require.Error(t, err)
	assert.True(t, persistence.IsRunNotFound(err))
}

func TestRunRepository_UpdateShallowMerge(t *testing.T) {
	repo := NewPersistence(t.TempDir()).RunRepository()

	created, err := repo.Create(t.Context(), &models.JourneyRun{Account: "a_1", Contact: "c_1", Journey: "j_1"})
	require.NoError(t, err)

	results := map[string]models.RunListItem{
		"first": {Name: "first", Result: map[string]any{"match": true}, Status: models.ResultStatusCompleted},
	}

	updated, err := repo.Update(t.Context(), created.ID, models.RunUpdate{Results: results})
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusRunning, updated.Status)
	assert.Len(t, updated.Results, 1)
	assert.Equal(t, 2, updated.Version)

	// a results map without "first" replaces it entirely
	updated, err = repo.Update(t.Context(), created.ID, models.RunUpdate{
		Results: map[string]models.RunListItem{"second": {Name: "second", Status: models.ResultStatusCompleted}},
	})
	require.NoError(t, err)
	assert.NotContains(t, updated.Results, "first")
	assert.Contains(t, updated.Results, "second")

	status := models.RunStatusCompleted
	ended := time.Now().Unix()

	updated, err = repo.Update(t.Context(), created.ID, models.RunUpdate{Status: &status, TimeEnded: &ended})
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, updated.Status)
	require.NotNil(t, updated.TimeEnded)
	assert.Equal(t, ended, *updated.TimeEnded)
	assert.Contains(t, updated.Results, "second", "results survive an update that does not carry them")

	fetched, err := repo.Get(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, fetched)
}

func TestRunRepository_UpdateVersionConflict(t *testing.T) {
	repo := NewPersistence(t.TempDir()).RunRepository()

	created, err := repo.Create(t.Context(), &models.JourneyRun{Journey: "j_1"})
	require.NoError(t, err)

	staleVersion := created.Version

	_, err = repo.Update(t.Context(), created.ID, models.RunUpdate{
		Results:         map[string]models.RunListItem{"a": {Name: "a"}},
		ExpectedVersion: &staleVersion,
	})
	require.NoError(t, err)

	_, err = repo.Update(t.Context(), created.ID, models.RunUpdate{
		Results:         map[string]models.RunListItem{"b": {Name: "b"}},
		ExpectedVersion: &staleVersion,
	})
	require.Error(t, err)
	assert.True(t, persistence.IsRunVersionConflict(err))

	fetched, err := repo.Get(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Contains(t, fetched.Results, "a")
	assert.NotContains(t, fetched.Results, "b")
}

func TestRunRepository_ListByJourney(t *testing.T) {
	fp := NewPersistence(t.TempDir())
	repo := fp.RunRepository()

	clock := time.Unix(1_700_000_000, 0)
	fp.runRepo.now = func() time.Time {
		clock = clock.Add(time.Second)

		return clock
	}

	first, err := repo.Create(t.Context(), &models.JourneyRun{Journey: "j_1"})
	require.NoError(t, err)

	second, err := repo.Create(t.Context(), &models.JourneyRun{Journey: "j_1"})
	require.NoError(t, err)

	_, err = repo.Create(t.Context(), &models.JourneyRun{Journey: "j_2"})
	require.NoError(t, err)

	runs, err := repo.ListByJourney(t.Context(), "j_1")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)

	empty, err := NewPersistence(t.TempDir()).RunRepository().ListByJourney(t.Context(), "j_1")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
