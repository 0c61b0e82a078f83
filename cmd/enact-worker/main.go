package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/enactflow/enact/pkg/cmd"
	"github.com/enactflow/enact/pkg/log"
	"github.com/enactflow/enact/pkg/otelhelper"
	"github.com/enactflow/enact/pkg/queue"
	"github.com/enactflow/enact/pkg/registry"
	"github.com/enactflow/enact/pkg/services"
)

func main() {
	cmd := &cli.Command{
		Name:                  "enact-worker",
		EnableShellCompletion: true,
		Usage:                 "Start a worker that executes nodes from a Redis queue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "worker-id",
				Aliases: []string{"id"},
				Usage:   "Custom worker ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("WORKER_ID"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Usage:   "Redis address the execution queue lives on",
				Value:   queue.DefaultAddr,
				Sources: cli.EnvVars("REDIS_ADDR"),
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Usage:   "Redis password",
				Value:   "",
				Sources: cli.EnvVars("REDIS_PASSWORD"),
			},
			&cli.IntFlag{
				Name:    "redis-db",
				Usage:   "Redis database number",
				Value:   0,
				Sources: cli.EnvVars("REDIS_DB"),
			},
			&cli.StringFlag{
				Name:    "redis-queue",
				Usage:   "Queue key execution requests are pushed to",
				Value:   queue.DefaultQueue,
				Sources: cli.EnvVars("REDIS_QUEUE"),
			},
			&cli.StringFlag{
				Name:    "python-bin",
				Usage:   "Python interpreter used by code nodes",
				Value:   "python3",
				Sources: cli.EnvVars("PYTHON_BIN"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export traces to the OTLP endpoint",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			workerID := command.String("worker-id")
			if workerID == "" {
				workerID = "worker-" + uuid.New().String()[:8]
			}

			logger := log.WithWorker("enact-worker", workerID)

			logger.InfoContext(ctx, "Initializing Enact worker")

			if command.Bool("tracing") {
				_, err := otelhelper.NewTracer(ctx, "enact-worker")
				if err != nil {
					return fmt.Errorf("failed to initialize tracer: %w", err)
				}
			}

			reg := cmd.NewRegistry(logger, registry.Dependencies{
				PythonBin: command.String("python-bin"),
			})

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				err := eventBus.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			execution := services.NewExecution(workerID, reg, eventBus, logger)

			worker := queue.NewWorker(queue.Config{
				Addr:     command.String("redis-addr"),
				Password: command.String("redis-password"),
				DB:       command.Int("redis-db"),
				Queue:    command.String("redis-queue"),
			}, execution, logger)

			err := worker.Start(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start queue worker", "error", err)

				return err
			}

			logger.InfoContext(ctx, "Worker started successfully")

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			<-sigChan
			logger.InfoContext(ctx, "Shutting down worker...")

			return worker.Stop(ctx)
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
