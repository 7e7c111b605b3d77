package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/versify/automation/pkg/models"
	"github.com/versify/automation/pkg/persistence"
)

// JourneyRepository handles journey database operations.
type JourneyRepository struct {
	db *sql.DB
}

// NewJourneyRepository creates a new journey repository.
func NewJourneyRepository(db *sql.DB) *JourneyRepository {
	return &JourneyRepository{db: db}
}

// Get retrieves a journey by ID.
func (jr *JourneyRepository) Get(ctx context.Context, id string) (*models.Journey, error) {
	query := `SELECT id, account, COALESCE(name, ''), start_state, states FROM journeys WHERE id = $1`

	var (
		journey    models.Journey
		statesJSON []byte
	)

	err := jr.db.QueryRowContext(ctx, query, id).Scan(
		&journey.ID,
		&journey.Account,
		&journey.Name,
		&journey.Start,
		&statesJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewJourneyError("Get", id, persistence.ErrJourneyNotFound)
		}

		return nil, persistence.NewJourneyError("Get", id, fmt.Errorf("failed to scan journey: %w", err))
	}

	err = json.Unmarshal(statesJSON, &journey.States)
	if err != nil {
		return nil, persistence.NewJourneyError("Get", id, fmt.Errorf("failed to unmarshal states: %w", err))
	}

	return &journey, nil
}

// Save inserts or replaces a journey definition.
func (jr *JourneyRepository) Save(ctx context.Context, journey *models.Journey) error {
	statesJSON, err := json.Marshal(journey.States)
	if err != nil {
		return persistence.NewJourneyError("Save", journey.ID, fmt.Errorf("failed to marshal states: %w", err))
	}

	query := `
		INSERT INTO journeys (id, account, name, start_state, states, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			account = EXCLUDED.account,
			name = EXCLUDED.name,
			start_state = EXCLUDED.start_state,
			states = EXCLUDED.states,
			updated_at = EXCLUDED.updated_at
	`

	_, err = jr.db.ExecContext(ctx, query, journey.ID, journey.Account, journey.Name, journey.Start, statesJSON)
	if err != nil {
		return persistence.NewJourneyError("Save", journey.ID, fmt.Errorf("failed to save journey: %w", err))
	}

	return nil
}
