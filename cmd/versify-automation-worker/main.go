package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
	"github.com/versify/automation/pkg/cmd"
	"github.com/versify/automation/pkg/log"
)

const serviceName = "versify-automation-worker"

func main() {
	flags := append(cmd.CommonFlags(), &cli.StringFlag{
		Name:    "worker-id",
		Aliases: []string{"id"},
		Usage:   "Custom worker ID (auto-generated if not provided)",
		Sources: cli.EnvVars("WORKER_ID"),
	})

	command := &cli.Command{
		Name:                  serviceName,
		EnableShellCompletion: true,
		Usage:                 "Run journey tasks requested over the event bus",
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

	workerID := command.String("worker-id")
	if workerID == "" {
		workerID = "worker-" + uuid.New().String()[:8]
	}

	logger := log.WithModule(serviceName).With("worker_id", workerID)

	logger.InfoContext(ctx, "Initializing Versify automation worker")

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

	config := cmd.EngineConfigFromCommand(command)
	config.Tracer = tracer

	engine := cmd.NewEngine(logger, persistence, eventBus, config)

	worker := NewWorkerManager(workerID, engine, eventBus, logger)

	err = worker.Start(ctx)
	if err != nil {
		return err
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Shutting down worker...")

	return nil
}
