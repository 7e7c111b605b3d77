package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/versify/automation/pkg/models"
	"github.com/versify/automation/pkg/persistence"
)

const maxUpdateAttempts = 5

// RunRepository stores each run as a JSON string and keeps a sorted set per
// journey scored by time_started.
type RunRepository struct {
	client redis.UniversalClient
	logger *slog.Logger
	now    func() time.Time
}

func NewRunRepository(client redis.UniversalClient, logger *slog.Logger) *RunRepository {
	return &RunRepository{client: client, logger: logger, now: time.Now}
}

func (rr *RunRepository) Create(ctx context.Context, run *models.JourneyRun) (*models.JourneyRun, error) {
	created := persistence.InitRun(run, rr.now())

	err := persistence.ValidateID(created.ID)
	if err != nil {
		return nil, persistence.NewRunError("Create", created.ID, err)
	}

	data, err := json.Marshal(created)
	if err != nil {
		return nil, persistence.NewRunError("Create", created.ID, fmt.Errorf("failed to marshal journey run: %w", err))
	}

	ok, err := rr.client.SetNX(ctx, runKey(created.ID), data, 0).Result()
	if err != nil {
		return nil, persistence.NewRunError("Create", created.ID, fmt.Errorf("failed to store journey run: %w", err))
	}

	if !ok {
		return nil, persistence.NewRunError("Create", created.ID, persistence.ErrRunAlreadyExists)
	}

	err = rr.client.ZAdd(ctx, journeyRunsKey(created.Journey), redis.Z{
		Score:  float64(created.TimeStarted),
		Member: created.ID,
	}).Err()
	if err != nil {
		// Drop the document so no run exists that ListByJourney cannot see.
		delErr := rr.client.Del(ctx, runKey(created.ID)).Err()
		if delErr != nil {
			rr.logger.ErrorContext(ctx, "Failed to remove unindexed journey run", "journey_run_id", created.ID, "error", delErr)
		}

		return nil, persistence.NewRunError("Create", created.ID, fmt.Errorf("failed to index journey run: %w", err))
	}

	return created, nil
}

func (rr *RunRepository) Get(ctx context.Context, id string) (*models.JourneyRun, error) {
	var run models.JourneyRun

	found, err := getDocument(ctx, rr.client, runKey(id), &run)
	if err != nil {
		return nil, persistence.NewRunError("Get", id, err)
	}

	if !found {
		return nil, persistence.NewRunError("Get", id, persistence.ErrRunNotFound)
	}

	return &run, nil
}

// Update watches the run key so a concurrent write aborts the transaction.
// Without an expected version the merge is retried on the fresh document.
func (rr *RunRepository) Update(ctx context.Context, id string, update models.RunUpdate) (*models.JourneyRun, error) {
	key := runKey(id)

	var updated *models.JourneyRun

	txf := func(tx *redis.Tx) error {
		var run models.JourneyRun

		found, err := getDocument(ctx, tx, key, &run)
		if err != nil {
			return err
		}

		if !found {
			return persistence.ErrRunNotFound
		}

		err = persistence.CheckVersion(update.ExpectedVersion, run.Version)
		if err != nil {
			return err
		}

		update.Apply(&run)

		data, err := json.Marshal(&run)
		if err != nil {
			return fmt.Errorf("failed to marshal journey run: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)

			return nil
		})
		if err != nil {
			return err
		}

		updated = &run

		return nil
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := rr.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}

		if !errors.Is(err, redis.TxFailedErr) {
			return nil, persistence.NewRunError("Update", id, err)
		}

		if update.ExpectedVersion != nil {
			return nil, persistence.NewRunError("Update", id, persistence.ErrRunVersionConflict)
		}

		rr.logger.DebugContext(ctx, "journey run changed during update, retrying", "run_id", id, "attempt", attempt)
	}

	return nil, persistence.NewRunError("Update", id, persistence.ErrRunVersionConflict)
}

func (rr *RunRepository) ListByJourney(ctx context.Context, journeyID string) ([]*models.JourneyRun, error) {
	ids, err := rr.client.ZRevRange(ctx, journeyRunsKey(journeyID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list journey runs: %w", err)
	}

	runs := make([]*models.JourneyRun, 0, len(ids))
	if len(ids) == 0 {
		return runs, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = runKey(id)
	}

	values, err := rr.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load journey runs: %w", err)
	}

	for i, value := range values {
		data, ok := value.(string)
		if !ok {
			continue
		}

		var run models.JourneyRun

		err = json.Unmarshal([]byte(data), &run)
		if err != nil {
			rr.logger.WarnContext(ctx, "skipping unreadable journey run", "run_id", ids[i], "error", err)

			continue
		}

		runs = append(runs, &run)
	}

	return runs, nil
}
