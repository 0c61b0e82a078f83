package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/enactflow/enact/pkg/cmd"
	"github.com/enactflow/enact/pkg/log"
	"github.com/enactflow/enact/pkg/otelhelper"
	"github.com/enactflow/enact/pkg/registry"
)

const defaultPort = 9094

func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the node execution API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
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

			logger := log.WithModule("api")

			logger.InfoContext(ctx, "Initializing Enact executor API")

			if command.Bool("tracing") {
				_, err := otelhelper.NewTracer(ctx, "enact-executor")
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

			api := NewAPI(logger, reg, eventBus, "api")

			err := api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}
}
