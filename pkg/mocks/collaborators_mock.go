// Package mocks provides testify mocks for the automation collaborators.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/versify/automation/pkg/models"
)

// MockContactService is a mock implementation of automation.ContactService.
type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Get(ctx context.Context, id string) (*models.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Contact), args.Error(1)
}

func (m *MockContactService) Update(ctx context.Context, id string, update models.ContactUpdate) (*models.Contact, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Contact), args.Error(1)
}

// MockMessageService is a mock implementation of automation.MessageService.
type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) Create(ctx context.Context, message models.NewMessage, idempotencyKey string) (*models.Message, error) {
	args := m.Called(ctx, message, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageService) Send(ctx context.Context, id string, idempotencyKey string) (*models.Message, error) {
	args := m.Called(ctx, id, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Message), args.Error(1)
}

// MockMintService is a mock implementation of automation.MintService.
type MockMintService struct {
	mock.Mock
}

func (m *MockMintService) Create(ctx context.Context, mint models.NewMint, idempotencyKey string) (*models.Mint, error) {
	args := m.Called(ctx, mint, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Mint), args.Error(1)
}

// MockNoteService is a mock implementation of automation.NoteService.
type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) Create(ctx context.Context, note models.NewNote) (*models.Note, error) {
	args := m.Called(ctx, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Note), args.Error(1)
}
