// Package main provides the Versify automation API server: the orchestrator's
// task entry point plus journey administration and run audit reads.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"github.com/versify/automation/pkg/cmd"
	"github.com/versify/automation/pkg/log"
)

const (
	serviceName = "versify-automation-api"
	defaultPort = 9091
)

func main() {
	flags := append(cmd.CommonFlags(), &cli.IntFlag{
		Name:    "port",
		Aliases: []string{"p"},
		Usage:   "Port to run the API server on",
		Value:   defaultPort,
		Sources: cli.EnvVars("PORT"),
	})

	command := &cli.Command{
		Name:                  serviceName,
		Usage:                 "Run journey tasks over HTTP and manage journeys",
		EnableShellCompletion: true,
		Flags:                 append(flags, cmd.EngineFlags()...),
		Action:                run,
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))

	logger := log.WithModule("api")

	logger.InfoContext(ctx, "Initializing Versify automation API")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, shutdownTracer, err := cmd.NewTracer(ctx, logger, command.Bool("otel"), serviceName)
	if err != nil {
		return err
	}

	defer func() {
		err := shutdownTracer(context.Background())
		if err != nil {
			logger.ErrorContext(ctx, "Failed to shutdown tracer", "error", err)
		}
	}()

	persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		err := persistence.Close(context.Background())
		if err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	// Lifecycle events go out on the bus; tasks arrive over HTTP.
	eventBus, err := cmd.NewEventBus(command.String("event-bus"), serviceName, logger, command.Bool("otel"))
	if err != nil {
		return err
	}

	defer func() {
		err := eventBus.Close()
		if err != nil {
			logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}()

	config := cmd.EngineConfigFromCommand(command)
	config.Tracer = tracer

	engine := cmd.NewEngine(logger, persistence, eventBus, config)

	api := NewAPI(logger, persistence, engine)

	err = api.Start(ctx, command.Int("port"))
	if err != nil {
		logger.ErrorContext(ctx, "API server stopped", "error", err)

		return err
	}

	return nil
}
