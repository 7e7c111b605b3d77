package persistence_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/versify/automation/pkg/persistence"
)

func TestStandardizedErrors(t *testing.T) {
	t.Parallel()

	t.Run("error checking functions work correctly", func(t *testing.T) {
		runErr := persistence.NewRunError("Get", "run-123", persistence.ErrRunNotFound)
		journeyErr := persistence.NewJourneyError("Get", "journey-456", persistence.ErrJourneyNotFound)

		assert.True(t, persistence.IsRunNotFound(runErr))
		assert.True(t, persistence.IsJourneyNotFound(journeyErr))
		assert.False(t, persistence.IsJourneyNotFound(runErr))

		assert.True(t, errors.Is(runErr, persistence.ErrRunNotFound))
		assert.True(t, errors.Is(journeyErr, persistence.ErrJourneyNotFound))
	})

	t.Run("run error contains context", func(t *testing.T) {
		err := persistence.NewRunError("Update", "run-123", persistence.ErrRunVersionConflict)

		assert.Contains(t, err.Error(), "Update")
		assert.Contains(t, err.Error(), "run-123")
		assert.Contains(t, err.Error(), "version conflict")
		assert.True(t, persistence.IsRunVersionConflict(err))
	})

	t.Run("duplicate and invalid id", func(t *testing.T) {
		assert.True(t, persistence.IsRunAlreadyExists(persistence.NewRunError("Create", "r_1", persistence.ErrRunAlreadyExists)))
		assert.True(t, persistence.IsInvalidID(persistence.ValidateID("../etc")))
		assert.False(t, persistence.IsInvalidID(persistence.ValidateID("r_1")))
	})
}

func TestCheckVersion(t *testing.T) {
	t.Parallel()

	require.NoError(t, persistence.CheckVersion(nil, 4))

	expected := 4
	require.NoError(t, persistence.CheckVersion(&expected, 4))

	err := persistence.CheckVersion(&expected, 5)
	require.Error(t, err)
	assert.True(t, persistence.IsRunVersionConflict(err))
	assert.Contains(t, err.Error(), "expected version 4")
}
