package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/enactflow/enact/pkg/eventbus"
	"github.com/enactflow/enact/pkg/events"
	"github.com/enactflow/enact/pkg/models"
	"github.com/enactflow/enact/pkg/otelhelper"
	"github.com/enactflow/enact/pkg/registry"
	"github.com/enactflow/enact/pkg/resolver"
)

// RunOutcome is the result of running one node. The execution context the
// caller passed in is updated in place; Warnings carries output mappings
// that could not be applied.
type RunOutcome struct {
	Result   *models.NodeResult `json:"result"`
	Warnings []string           `json:"warnings,omitempty"`
}

// Execution runs single nodes on behalf of an orchestrator: it validates
// the node, dispatches to the registered executor, records the result on
// the execution context and emits lifecycle events.
type Execution struct {
	workerID string
	registry *registry.Registry
	eventBus eventbus.EventBus
	validate *validator.Validate
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewExecution creates an execution service. The event bus may be nil, in
// which case lifecycle events are skipped.
func NewExecution(
	workerID string,
	reg *registry.Registry,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
) *Execution {
	return &Execution{
		workerID: workerID,
		registry: reg,
		eventBus: eventBus,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		tracer:   otel.Tracer("github.com/enactflow/enact/pkg/services"),
		logger:   logger,
	}
}

// Run executes a single node against the given execution context.
//
// Validation failures and unknown node types return typed service errors
// before anything runs. Once the executor is invoked, runtime failures come
// back as a failed NodeResult inside the outcome; a non-nil error after
// that point means the executor broke its contract.
func (e *Execution) Run(ctx context.Context, node *models.Node, execCtx *models.ExecutionContext) (*RunOutcome, error) {
	if node == nil {
		return nil, NewValidationError("Execution.Run", "NODE_NIL", "node cannot be nil", ErrNodeNil)
	}

	if execCtx == nil {
		return nil, NewValidationError("Execution.Run", "CONTEXT_NIL", "execution context cannot be nil", ErrContextNil)
	}

	err := e.validate.Struct(node)
	if err != nil {
		return nil, NewValidationError("Execution.Run", "INVALID_NODE", err.Error(), ErrInvalidNode)
	}

	executor, err := e.registry.ExecutorFor(node.Type)
	if err != nil {
		return nil, &ServiceError{
			Op:      "Execution.Run",
			Code:    "EXECUTOR_NOT_REGISTERED",
			Message: err.Error(),
			Err:     ErrExecutorNotFound,
		}
	}

	err = e.registry.ValidateConfig(node)
	if err != nil {
		return nil, NewValidationError("Execution.Run", "INVALID_CONFIG", err.Error(), ErrInvalidConfig)
	}

	execCtx.CurrentNodeID = node.ID

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "node.execute",
		attribute.String(otelhelper.WorkflowIDKey, execCtx.WorkflowID),
		attribute.String(otelhelper.InstanceIDKey, execCtx.InstanceID),
		attribute.String(otelhelper.NodeIDKey, node.ID),
		attribute.String(otelhelper.NodeNameKey, node.Name),
		attribute.String(otelhelper.NodeTypeKey, string(node.Type)),
	)
	defer span.End()

	e.logger.DebugContext(ctx, "Executing node",
		"node_id", node.ID,
		"node_type", node.Type,
		"instance_id", execCtx.InstanceID,
	)

	startedAt := time.Now()

	e.publishStarted(ctx, node, execCtx)

	result, err := executor.Execute(ctx, node, execCtx)
	if err != nil {
		otelhelper.SetError(span, err)
		e.publishFailed(ctx, node, execCtx, err.Error(), time.Since(startedAt))

		return nil, fmt.Errorf("executor %s: %w", executor.Name(), err)
	}

	duration := time.Since(startedAt)

	execCtx.RecordNodeResult(result)
	span.SetAttributes(attribute.String(otelhelper.ResultStateKey, string(result.Status)))

	if result.Failed() {
		otelhelper.SetError(span, errors.New(result.Error))
		e.publishFailed(ctx, node, execCtx, result.Error, duration)

		return &RunOutcome{Result: result}, nil
	}

	_, warnings := resolver.ExtractOutputs(node, result, execCtx)
	for _, warning := range warnings {
		e.logger.WarnContext(ctx, "Output mapping skipped",
			"node_id", node.ID,
			"warning", warning,
		)
	}

	e.publishFinished(ctx, node, execCtx, result.Variables, duration)

	return &RunOutcome{Result: result, Warnings: warnings}, nil
}

func (e *Execution) publishStarted(ctx context.Context, node *models.Node, execCtx *models.ExecutionContext) {
	base := events.NewBaseEvent(events.NodeExecutionStartedEvent, execCtx.WorkflowID)
	base.WorkerID = e.workerID

	e.publish(ctx, execCtx.WorkflowID, events.NodeExecutionStarted{
		BaseEvent:  base,
		InstanceID: execCtx.InstanceID,
		NodeID:     node.ID,
		NodeName:   node.Name,
		NodeType:   node.Type,
	})
}

func (e *Execution) publishFinished(
	ctx context.Context,
	node *models.Node,
	execCtx *models.ExecutionContext,
	variables map[string]any,
	duration time.Duration,
) {
	base := events.NewBaseEvent(events.NodeExecutionFinishedEvent, execCtx.WorkflowID)
	base.WorkerID = e.workerID

	e.publish(ctx, execCtx.WorkflowID, events.NodeExecutionFinished{
		BaseEvent:  base,
		InstanceID: execCtx.InstanceID,
		NodeID:     node.ID,
		Variables:  variables,
		Duration:   duration,
	})
}

func (e *Execution) publishFailed(
	ctx context.Context,
	node *models.Node,
	execCtx *models.ExecutionContext,
	message string,
	duration time.Duration,
) {
	base := events.NewBaseEvent(events.NodeExecutionFailedEvent, execCtx.WorkflowID)
	base.WorkerID = e.workerID

	e.publish(ctx, execCtx.WorkflowID, events.NodeExecutionFailed{
		BaseEvent:  base,
		InstanceID: execCtx.InstanceID,
		NodeID:     node.ID,
		Error:      message,
		Duration:   duration,
	})
}

// publish is best-effort: a bus failure must never fail the execution.
func (e *Execution) publish(ctx context.Context, key string, event eventbus.Event) {
	if e.eventBus == nil {
		return
	}

	err := e.eventBus.Publish(ctx, key, event)
	if err != nil {
		e.logger.WarnContext(ctx, "Failed to publish execution event",
			"event_type", event.GetType(),
			"error", err,
		)
	}
}
