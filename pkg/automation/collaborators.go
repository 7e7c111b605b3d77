package automation

import (
	"context"

	"github.com/versify/automation/pkg/eventbus"
	"github.com/versify/automation/pkg/models"
)

// JourneyRepository reads journey definitions.
type JourneyRepository interface {
	Get(ctx context.Context, id string) (*models.Journey, error)
}

// RunRepository creates, reads and merges journey runs.
type RunRepository interface {
	Create(ctx context.Context, run *models.JourneyRun) (*models.JourneyRun, error)
	Get(ctx context.Context, id string) (*models.JourneyRun, error)
	Update(ctx context.Context, id string, update models.RunUpdate) (*models.JourneyRun, error)
}

// ContactService returns ErrContactNotFound (possibly wrapped) for an absent contact.
type ContactService interface {
	Get(ctx context.Context, id string) (*models.Contact, error)
	Update(ctx context.Context, id string, update models.ContactUpdate) (*models.Contact, error)
}

// MessageService creates and sends messages. A non-empty idempotencyKey is
// passed through to the service untouched.
type MessageService interface {
	Create(ctx context.Context, message models.NewMessage, idempotencyKey string) (*models.Message, error)
	Send(ctx context.Context, id string, idempotencyKey string) (*models.Message, error)
}

type MintService interface {
	Create(ctx context.Context, mint models.NewMint, idempotencyKey string) (*models.Mint, error)
}

type NoteService interface {
	Create(ctx context.Context, note models.NewNote) (*models.Note, error)
}

// EventPublisher is the fire-and-forget sink for run lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event eventbus.Event) error
}
