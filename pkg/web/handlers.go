// Package web provides the HTTP handlers of the node execution API.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/enactflow/enact/pkg/models"
	"github.com/enactflow/enact/pkg/registry"
	"github.com/enactflow/enact/pkg/resolver"
	"github.com/enactflow/enact/pkg/services"
)

type APIHandlers struct {
	executionService *services.Execution
	validator        *validator.Validate
	registry         *registry.Registry
}

func NewAPIHandlers(
	executionService *services.Execution,
	validator *validator.Validate,
	registry *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		executionService: executionService,
		validator:        validator,
		registry:         registry,
	}
}

// ExecuteNode runs one node and returns its result plus the updated
// execution context.
func (h *APIHandlers) ExecuteNode(c fiber.Ctx) error {
	var req ExecuteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	execCtx := req.Context
	if execCtx == nil {
		execCtx = models.NewExecutionContext("adhoc", uuid.New().String())
	}

	outcome, err := h.executionService.Run(c.Context(), req.Node, execCtx)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(ExecuteResponse{
		Result:   outcome.Result,
		Context:  execCtx,
		Warnings: outcome.Warnings,
	})
}

// GetExecutors lists every registered executor with its config schema.
func (h *APIHandlers) GetExecutors(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"executors": h.registry.Executors(),
	})
}

// GetAvailableVariables lists the context variables a node can reference.
func (h *APIHandlers) GetAvailableVariables(c fiber.Ctx) error {
	var req VariablesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	return c.JSON(fiber.Map{
		"variables": resolver.AvailableVariables(req.ExcludeNodeID, req.Context),
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.registry.HealthCheck()

	status := "unhealthy"
	message := "Enact executor is unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk {
		status = "healthy"
		message = "Enact executor is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry": registryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
