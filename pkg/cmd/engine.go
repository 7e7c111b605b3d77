package cmd

import (
	"log/slog"

	"github.com/versify/automation/pkg/automation"
	"github.com/versify/automation/pkg/clients/versify"
	"github.com/versify/automation/pkg/persistence"
	"go.opentelemetry.io/otel/trace"
)

// ServiceConfig locates the Versify services the step handlers call.
type ServiceConfig struct {
	ContactsURL string
	MessagesURL string
	MintsURL    string
	NotesURL    string
	APIKey      string
}

// EngineConfig carries what both binaries need to build an Engine.
type EngineConfig struct {
	Services       ServiceConfig
	StrictVersions bool
	// Tracer is optional; the global tracer provider is used when nil.
	Tracer trace.Tracer
}

// NewEngine wires the engine to the store, the HTTP service clients and the
// event publisher, which may be nil.
func NewEngine(
	logger *slog.Logger,
	store persistence.Persistence,
	publisher automation.EventPublisher,
	config EngineConfig,
) *automation.Engine {
	services := config.Services

	opts := []automation.Option{
		automation.WithLogger(logger),
		automation.WithStrictVersions(config.StrictVersions),
	}

	if config.Tracer != nil {
		opts = append(opts, automation.WithTracer(config.Tracer))
	}

	return automation.NewEngine(automation.Dependencies{
		Journeys:  store.JourneyRepository(),
		Runs:      store.RunRepository(),
		Contacts:  versify.NewContactService(versify.NewClient(services.ContactsURL, services.APIKey)),
		Messages:  versify.NewMessageService(versify.NewClient(services.MessagesURL, services.APIKey)),
		Mints:     versify.NewMintService(versify.NewClient(services.MintsURL, services.APIKey)),
		Notes:     versify.NewNoteService(versify.NewClient(services.NotesURL, services.APIKey)),
		Publisher: publisher,
	}, opts...)
}
