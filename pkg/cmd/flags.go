package cmd

import (
	"context"
	"fmt"
	"log/slog"

	cli "github.com/urfave/cli/v3"
	"github.com/versify/automation/pkg/otelhelper"
	"go.opentelemetry.io/otel/trace"
)

// CommonFlags are shared by every binary: storage, event bus, logging and tracing.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "database-url",
			Usage:    "Persistence URL (file://path, postgres://..., redis://...)",
			Required: true,
			Sources:  cli.EnvVars("DATABASE_URL"),
		},
		&cli.StringFlag{
			Name:    "event-bus",
			Usage:   "Event bus type (kafka, gochannel)",
			Value:   "gochannel",
			Sources: cli.EnvVars("EVENT_BUS_TYPE"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:    "otel",
			Usage:   "Export traces over OTLP/HTTP",
			Sources: cli.EnvVars("OTEL_ENABLED"),
		},
	}
}

// EngineFlags configure the step handlers' collaborators.
func EngineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "contacts-url",
			Usage:    "Base URL of the contact service",
			Required: true,
			Sources:  cli.EnvVars("CONTACTS_URL"),
		},
		&cli.StringFlag{
			Name:     "messages-url",
			Usage:    "Base URL of the message service",
			Required: true,
			Sources:  cli.EnvVars("MESSAGES_URL"),
		},
		&cli.StringFlag{
			Name:     "mints-url",
			Usage:    "Base URL of the mint service",
			Required: true,
			Sources:  cli.EnvVars("MINTS_URL"),
		},
		&cli.StringFlag{
			Name:     "notes-url",
			Usage:    "Base URL of the note service",
			Required: true,
			Sources:  cli.EnvVars("NOTES_URL"),
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Bearer token sent to the Versify services",
			Sources: cli.EnvVars("VERSIFY_API_KEY"),
		},
		&cli.BoolFlag{
			Name:    "strict-run-versions",
			Usage:   "Reject run writes when the run changed since it was read",
			Value:   true,
			Sources: cli.EnvVars("STRICT_RUN_VERSIONS"),
		},
	}
}

// EngineConfigFromCommand reads the EngineFlags values.
func EngineConfigFromCommand(command *cli.Command) EngineConfig {
	return EngineConfig{
		Services: ServiceConfig{
			ContactsURL: command.String("contacts-url"),
			MessagesURL: command.String("messages-url"),
			MintsURL:    command.String("mints-url"),
			NotesURL:    command.String("notes-url"),
			APIKey:      command.String("api-key"),
		},
		StrictVersions: command.Bool("strict-run-versions"),
	}
}

// NewTracer returns nil and a no-op shutdown when tracing is disabled.
// nolint:ireturn
func NewTracer(ctx context.Context, logger *slog.Logger, enabled bool, serviceName string) (trace.Tracer, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	if !enabled {
		return nil, noop, nil
	}

	tracer, shutdown, err := otelhelper.NewTracer(ctx, serviceName)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	logger.InfoContext(ctx, "Tracing enabled", "service", serviceName)

	return tracer, shutdown, nil
}
