// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrJourneyNotFound indicates a journey was not found by the given identifier.
	ErrJourneyNotFound = errors.New("journey not found")

	// ErrRunNotFound indicates a journey run was not found by the given identifier.
	ErrRunNotFound = errors.New("journey run not found")

	// ErrRunAlreadyExists indicates a journey run with the same identifier already exists.
	ErrRunAlreadyExists = errors.New("journey run already exists")

	// ErrRunVersionConflict indicates the stored run changed since the caller read it.
	ErrRunVersionConflict = errors.New("journey run version conflict")

	// ErrInvalidID indicates an identifier that cannot be used as a storage key.
	ErrInvalidID = errors.New("invalid identifier")
)

// RunError wraps journey run errors with additional context.
type RunError struct {
	Op    string // Operation being performed (e.g., "Get", "Update")
	RunID string
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s operation failed for journey run %s: %v", e.Op, e.RunID, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for run errors.
func (e *RunError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRunError creates a new journey run error with context.
func NewRunError(op, runID string, err error) *RunError {
	return &RunError{
		Op:    op,
		RunID: runID,
		Err:   err,
	}
}

// JourneyError wraps journey errors with additional context.
type JourneyError struct {
	Op        string
	JourneyID string
	Err       error
}

func (e *JourneyError) Error() string {
	return fmt.Sprintf("%s operation failed for journey %s: %v", e.Op, e.JourneyID, e.Err)
}

func (e *JourneyError) Unwrap() error {
	return e.Err
}

func (e *JourneyError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewJourneyError creates a new journey error with context.
func NewJourneyError(op, journeyID string, err error) *JourneyError {
	return &JourneyError{
		Op:        op,
		JourneyID: journeyID,
		Err:       err,
	}
}

// IsJourneyNotFound checks if an error indicates a journey was not found.
func IsJourneyNotFound(err error) bool {
	return errors.Is(err, ErrJourneyNotFound)
}

// IsRunNotFound checks if an error indicates a journey run was not found.
func IsRunNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}

// IsRunVersionConflict checks if an error indicates a concurrent run update.
func IsRunVersionConflict(err error) bool {
	return errors.Is(err, ErrRunVersionConflict)
}

// CheckVersion returns ErrRunVersionConflict when an expected version is set
// and differs from the stored one.
func CheckVersion(expected *int, stored int) error {
	if expected != nil && *expected != stored {
		return fmt.Errorf("%w: expected version %d, stored version %d", ErrRunVersionConflict, *expected, stored)
	}

	return nil
}

// IsRunAlreadyExists checks if an error indicates a duplicate run id.
func IsRunAlreadyExists(err error) bool {
	return errors.Is(err, ErrRunAlreadyExists)
}

// IsInvalidID checks if an error indicates an unusable identifier.
func IsInvalidID(err error) bool {
	return errors.Is(err, ErrInvalidID)
}
