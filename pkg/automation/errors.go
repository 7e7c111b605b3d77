package automation

import (
	"errors"

	"github.com/versify/automation/pkg/persistence"
)

var (
	// ErrContactNotFound indicates the run's contact no longer exists.
	ErrContactNotFound = errors.New("contact not found")

	// ErrInvalidState indicates a task that does not fit the journey definition:
	// an unknown state name, a state of another action type, malformed state
	// config or a run owned by a different journey.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidTask indicates a task payload missing required fields.
	ErrInvalidTask = errors.New("invalid task")
)

// IsNotFound reports whether err means the journey, run or contact is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrContactNotFound) ||
		persistence.IsJourneyNotFound(err) ||
		persistence.IsRunNotFound(err)
}

// IsContactNotFound checks if an error indicates the contact is absent.
func IsContactNotFound(err error) bool {
	return errors.Is(err, ErrContactNotFound)
}

// IsInvalidState checks if an error indicates a task/journey mismatch.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsInvalidTask checks if an error indicates a malformed task payload.
func IsInvalidTask(err error) bool {
	return errors.Is(err, ErrInvalidTask)
}
