package file

import (
	"context"
	"path/filepath"

	"github.com/versify/automation/pkg/models"
	"github.com/versify/automation/pkg/persistence"
)

// JourneyRepository handles journey-related file operations.
type JourneyRepository struct {
	root string
}

// NewJourneyRepository creates a new journey repository.
func NewJourneyRepository(root string) *JourneyRepository {
	return &JourneyRepository{root: root}
}

func (jr *JourneyRepository) dir() string {
	return filepath.Join(jr.root, "journeys")
}

// Get retrieves a journey by its ID from the file system.
func (jr *JourneyRepository) Get(_ context.Context, id string) (*models.Journey, error) {
	err := persistence.ValidateID(id)
	if err != nil {
		return nil, persistence.NewJourneyError("Get", id, err)
	}

	var journey models.Journey

	found, err := readDocument(filepath.Join(jr.dir(), id+".json"), &journey)
	if err != nil {
		return nil, persistence.NewJourneyError("Get", id, err)
	}

	if !found {
		return nil, persistence.NewJourneyError("Get", id, persistence.ErrJourneyNotFound)
	}

	return &journey, nil
}

// Save writes a journey definition to the file system.
func (jr *JourneyRepository) Save(_ context.Context, journey *models.Journey) error {
	err := persistence.ValidateID(journey.ID)
	if err != nil {
		return persistence.NewJourneyError("Save", journey.ID, err)
	}

	err = writeDocument(jr.dir(), journey.ID, journey)
	if err != nil {
		return persistence.NewJourneyError("Save", journey.ID, err)
	}

	return nil
}
