package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/versify/automation/pkg/models"
	"github.com/versify/automation/pkg/persistence"
)

// MockPersistence is a mock implementation of persistence.Persistence interface.
type MockPersistence struct {
	mock.Mock
}

func (m *MockPersistence) JourneyRepository() persistence.JourneyRepository {
	args := m.Called()

	return args.Get(0).(persistence.JourneyRepository)
}

func (m *MockPersistence) RunRepository() persistence.RunRepository {
	args := m.Called()

	return args.Get(0).(persistence.RunRepository)
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

// MockRunRepository is a mock implementation of persistence.RunRepository interface.
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) Create(ctx context.Context, run *models.JourneyRun) (*models.JourneyRun, error) {
	args := m.Called(ctx, run)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.JourneyRun), args.Error(1)
}

func (m *MockRunRepository) Get(ctx context.Context, id string) (*models.JourneyRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.JourneyRun), args.Error(1)
}

func (m *MockRunRepository) Update(ctx context.Context, id string, update models.RunUpdate) (*models.JourneyRun, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.JourneyRun), args.Error(1)
}

func (m *MockRunRepository) ListByJourney(ctx context.Context, journeyID string) ([]*models.JourneyRun, error) {
	args := m.Called(ctx, journeyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.JourneyRun), args.Error(1)
}
