// Package automation implements the journey step handlers and the dispatcher
// the external orchestrator calls, one task at a time.
package automation

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/versify/automation/pkg/automation"

// Dependencies are the collaborators the step handlers call. Publisher may be
// nil, in which case no lifecycle events are emitted.
type Dependencies struct {
	Journeys  JourneyRepository
	Runs      RunRepository
	Contacts  ContactService
	Messages  MessageService
	Mints     MintService
	Notes     NoteService
	Publisher EventPublisher
}

// Engine runs journey tasks against its collaborators. It holds no per-run
// state, so one Engine serves any number of concurrent dispatches.
type Engine struct {
	journeys  JourneyRepository
	runs      RunRepository
	contacts  ContactService
	messages  MessageService
	mints     MintService
	notes     NoteService
	publisher EventPublisher

	validate       *validator.Validate
	tracer         trace.Tracer
	logger         *slog.Logger
	now            func() time.Time
	strictVersions bool
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

func WithValidator(validate *validator.Validate) Option {
	return func(e *Engine) {
		e.validate = validate
	}
}

// WithClock replaces time.Now for run and result timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithStrictVersions makes every run write carry the version the handler
// read, so a concurrent write to the same run fails the loser with
// persistence.ErrRunVersionConflict instead of silently dropping a result.
func WithStrictVersions(strict bool) Option {
	return func(e *Engine) {
		e.strictVersions = strict
	}
}

func NewEngine(deps Dependencies, opts ...Option) *Engine {
	engine := &Engine{
		journeys:       deps.Journeys,
		runs:           deps.Runs,
		contacts:       deps.Contacts,
		messages:       deps.Messages,
		mints:          deps.Mints,
		notes:          deps.Notes,
		publisher:      deps.Publisher,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		tracer:         otel.Tracer(tracerName),
		logger:         slog.Default(),
		now:            time.Now,
		strictVersions: true,
	}

	for _, opt := range opts {
		opt(engine)
	}

	engine.logger = engine.logger.With("module", "automation")

	return engine
}
