// Package main provides the Enact node execution API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/enactflow/enact/pkg/eventbus"
	"github.com/enactflow/enact/pkg/registry"
	"github.com/enactflow/enact/pkg/services"
	"github.com/enactflow/enact/pkg/web"
)

type API struct {
	logger   *slog.Logger
	registry *registry.Registry
	eventBus eventbus.EventBus
	validate *validator.Validate
	workerID string
}

func NewAPI(
	logger *slog.Logger,
	registry *registry.Registry,
	eventBus eventbus.EventBus,
	workerID string,
) *API {
	return &API{
		logger:   logger,
		registry: registry,
		eventBus: eventBus,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		workerID: workerID,
	}
}

func (a *API) App() *fiber.App {
	executionService := services.NewExecution(a.workerID, a.registry, a.eventBus, a.logger)

	handlers := web.NewAPIHandlers(executionService, a.validate, a.registry)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Enact Executor API")
	})

	app.Post("/execute", handlers.ExecuteNode)
	app.Get("/executors", handlers.GetExecutors)
	app.Post("/context/variables", handlers.GetAvailableVariables)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
