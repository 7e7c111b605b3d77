// Package redis provides Redis persistence for journeys and journey runs.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/versify/automation/pkg/persistence"
)

const keyPrefix = "versify:"

func journeyKey(id string) string {
	return keyPrefix + "journey:" + id
}

func runKey(id string) string {
	return keyPrefix + "journey_run:" + id
}

func journeyRunsKey(journeyID string) string {
	return keyPrefix + "journey_runs:" + journeyID
}

// Persistence implements the persistence layer on top of a Redis server.
type Persistence struct {
	client      redis.UniversalClient
	logger      *slog.Logger
	journeyRepo *JourneyRepository
	runRepo     *RunRepository
}

// NewPersistence connects to the Redis server addressed by redisURL
// (redis://[user:password@]host:port/db).
func NewPersistence(ctx context.Context, logger *slog.Logger, redisURL string) (*Persistence, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = client.Ping(pingCtx).Err()
	if err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.InfoContext(ctx, "Connected to Redis", "addr", opts.Addr, "db", opts.DB)

	return NewPersistenceWithClient(client, logger), nil
}

// NewPersistenceWithClient wraps an existing client.
func NewPersistenceWithClient(client redis.UniversalClient, logger *slog.Logger) *Persistence {
	return &Persistence{
		client:      client,
		logger:      logger,
		journeyRepo: NewJourneyRepository(client),
		runRepo:     NewRunRepository(client, logger),
	}
}

func (p *Persistence) Close(_ context.Context) error {
	err := p.client.Close()
	if err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

func (p *Persistence) JourneyRepository() persistence.JourneyRepository {
	return p.journeyRepo
}

func (p *Persistence) RunRepository() persistence.RunRepository {
	return p.runRepo
}

// getDocument loads and decodes key. It reports false when the key is absent.
func getDocument(ctx context.Context, cmd redis.Cmdable, key string, doc any) (bool, error) {
	data, err := cmd.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	err = json.Unmarshal(data, doc)
	if err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return true, nil
}
