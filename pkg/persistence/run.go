package persistence

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/versify/automation/pkg/models"
)

// InitRun fills the creation-time fields every backend sets on Create.
// The caller's run is copied, never modified.
func InitRun(run *models.JourneyRun, now time.Time) *models.JourneyRun {
	created := *run
	if created.ID == "" {
		created.ID = uuid.New().String()
	}

	created.Status = models.RunStatusRunning
	created.TimeStarted = now.Unix()
	created.TimeEnded = nil
	created.Version = 1

	if created.Results == nil {
		created.Results = make(map[string]models.RunListItem)
	}

	if created.TriggerEvent == nil {
		created.TriggerEvent = make(map[string]any)
	}

	return &created
}

// ValidateID rejects identifiers that are empty or unsafe as file names or keys.
func ValidateID(id string) error {
	if id == "" {
		return errors.Join(ErrInvalidID, errors.New("identifier cannot be empty"))
	}

	if strings.Contains(id, "..") || strings.ContainsAny(id, "/\\") {
		return errors.Join(ErrInvalidID, errors.New("identifier contains invalid characters"))
	}

	return nil
}
