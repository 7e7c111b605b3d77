package redis_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/versify/automation/pkg/models"
	"github.com/versify/automation/pkg/persistence"
	redispersistence "github.com/versify/automation/pkg/persistence/redis"
)

func setupTestRedis(t *testing.T) (*redispersistence.Persistence, context.Context) {
	t.Helper()

	p, ctx, _ := setupTestRedisURL(t)

	return p, ctx
}

func setupTestRedisURL(t *testing.T) (*redispersistence.Persistence, context.Context, string) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping Redis integration test in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	redisURL := fmt.Sprintf("redis://%s:%s/0", host, port.Port())

	p, err := redispersistence.NewPersistence(ctx, slog.Default(), redisURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = p.Close(ctx)
		_ = container.Terminate(ctx)
	})

	return p, ctx, redisURL
}

func TestNewPersistence_InvalidURL(t *testing.T) {
	_, err := redispersistence.NewPersistence(context.Background(), slog.Default(), "not-a-redis-url")
	assert.Error(t, err)
}

func TestRedis_JourneyRoundTrip(t *testing.T) {
	p, ctx := setupTestRedis(t)

	journey := &models.Journey{
		ID:      "j_1",
		Account: "a_1",
		Start:   "check",
		States: map[string]*models.State{
			"check": {ActionType: models.ActionTypeMatchAll, Config: map[string]any{"filters": []any{}}},
		},
	}

	require.NoError(t, p.JourneyRepository().Save(ctx, journey))

	loaded, err := p.JourneyRepository().Get(ctx, "j_1")
	require.NoError(t, err)
	assert.Equal(t, journey, loaded)

	_, err = p.JourneyRepository().Get(ctx, "missing")
	assert.True(t, persistence.IsJourneyNotFound(err))
}

func TestRedis_RunLifecycle(t *testing.T) {
	p, ctx := setupTestRedis(t)
	repo := p.RunRepository()

	created, err := repo.Create(ctx, &models.JourneyRun{
		Account:      "a_1",
		Contact:      "c_1",
		Journey:      "j_1",
		TriggerEvent: map[string]any{"source": "signup"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)

	_, err = repo.Create(ctx, &models.JourneyRun{ID: created.ID, Journey: "j_1"})
	assert.ErrorIs(t, err, persistence.ErrRunAlreadyExists)

	stale := created.Version

	_, err = repo.Update(ctx, created.ID, models.RunUpdate{
		Results:         map[string]models.RunListItem{"a": {Name: "a", Status: models.ResultStatusCompleted}},
		ExpectedVersion: &stale,
	})
	require.NoError(t, err)

	_, err = repo.Update(ctx, created.ID, models.RunUpdate{
		Results:         map[string]models.RunListItem{},
		ExpectedVersion: &stale,
	})
	assert.True(t, persistence.IsRunVersionConflict(err))

	fetched, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched.Version)
	assert.Contains(t, fetched.Results, "a")

	_, err = repo.Update(ctx, "missing", models.RunUpdate{})
	assert.True(t, persistence.IsRunNotFound(err))
}

func TestRedis_ConcurrentUpdatesWithoutVersionAllLand(t *testing.T) {
	p, ctx := setupTestRedis(t)
	repo := p.RunRepository()

	created, err := repo.Create(ctx, &models.JourneyRun{Journey: "j_1", Contact: "c_1", Account: "a_1"})
	require.NoError(t, err)

	var wg sync.WaitGroup

	for range 3 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, _ = repo.Update(ctx, created.ID, models.RunUpdate{Results: map[string]models.RunListItem{}})
		}()
	}

	wg.Wait()

	fetched, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, fetched.Version, 2)
}

func TestRedis_ListByJourney(t *testing.T) {
	p, ctx := setupTestRedis(t)
	repo := p.RunRepository()

	journeyID := "j_" + uuid.NewString()

	first, err := repo.Create(ctx, &models.JourneyRun{Journey: journeyID, Contact: "c_1", Account: "a_1"})
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	second, err := repo.Create(ctx, &models.JourneyRun{Journey: journeyID, Contact: "c_2", Account: "a_1"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.JourneyRun{Journey: "other", Contact: "c_3", Account: "a_1"})
	require.NoError(t, err)

	runs, err := repo.ListByJourney(ctx, journeyID)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)

	empty, err := repo.ListByJourney(ctx, "none")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRedis_CreateIndexFailureLeavesNoRun(t *testing.T) {
	p, ctx, redisURL := setupTestRedisURL(t)

	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() {
		_ = client.Close()
	})

	// A plain string where the journey's run index should be makes ZADD fail.
	require.NoError(t, client.Set(ctx, "versify:journey_runs:j_broken", "not-a-sorted-set", 0).Err())

	_, err = p.RunRepository().Create(ctx, &models.JourneyRun{
		ID:      "r_unindexed",
		Account: "a_1",
		Contact: "c_1",
		Journey: "j_broken",
	})
	require.Error(t, err)

	_, err = p.RunRepository().Get(ctx, "r_unindexed")
	assert.True(t, persistence.IsRunNotFound(err))

	exists, err := client.Exists(ctx, "versify:journey_run:r_unindexed").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}
