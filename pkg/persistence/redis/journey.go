package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/versify/automation/pkg/models"
	"github.com/versify/automation/pkg/persistence"
)

// JourneyRepository stores journey definitions as JSON strings.
type JourneyRepository struct {
	client redis.UniversalClient
}

func NewJourneyRepository(client redis.UniversalClient) *JourneyRepository {
	return &JourneyRepository{client: client}
}

func (jr *JourneyRepository) Get(ctx context.Context, id string) (*models.Journey, error) {
	var journey models.Journey

	found, err := getDocument(ctx, jr.client, journeyKey(id), &journey)
	if err != nil {
		return nil, persistence.NewJourneyError("Get", id, err)
	}

	if !found {
		return nil, persistence.NewJourneyError("Get", id, persistence.ErrJourneyNotFound)
	}

	return &journey, nil
}

func (jr *JourneyRepository) Save(ctx context.Context, journey *models.Journey) error {
	err := persistence.ValidateID(journey.ID)
	if err != nil {
		return persistence.NewJourneyError("Save", journey.ID, err)
	}

	data, err := json.Marshal(journey)
	if err != nil {
		return persistence.NewJourneyError("Save", journey.ID, fmt.Errorf("failed to marshal journey: %w", err))
	}

	err = jr.client.Set(ctx, journeyKey(journey.ID), data, 0).Err()
	if err != nil {
		return persistence.NewJourneyError("Save", journey.ID, fmt.Errorf("failed to save journey: %w", err))
	}

	return nil
}
