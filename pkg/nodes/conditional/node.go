// Package conditional provides the branching node executor. It evaluates a
// boolean condition against the execution context so the orchestrator can
// route the workflow down the matching path.
package conditional

import (
	"context"
	"fmt"

	"github.com/enactflow/enact/pkg/models"
	"github.com/enactflow/enact/pkg/protocol"
	"github.com/enactflow/enact/pkg/resolver"
	"github.com/enactflow/enact/pkg/script"
)

const executorName = "ConditionalExecutor"

const (
	ConditionTypeJSONPath   = "jsonpath"
	ConditionTypeJavaScript = "javascript"
)

// Executor evaluates conditional nodes.
type Executor struct{}

// NewExecutor creates a conditional node executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Type returns the node type this executor accepts.
func (e *Executor) Type() models.NodeType {
	return models.NodeTypeConditional
}

// Execute evaluates the node's condition. Evaluation failures produce a
// failed result with conditionResult pinned to false so the caller can
// still branch deterministically; only a wrong node type is a Go error.
func (e *Executor) Execute(ctx context.Context, node *models.Node, execCtx *models.ExecutionContext) (*models.NodeResult, error) {
	config, ok := node.Config.(models.ConditionalConfig)
	if !ok || node.Type != models.NodeTypeConditional {
		return nil, protocol.InvalidNodeTypeError(executorName)
	}

	if config.Condition == "" {
		return failedResult(node, "Condition is required"), nil
	}

	conditionType := config.ConditionType
	if conditionType == "" {
		conditionType = ConditionTypeJSONPath
	}

	switch conditionType {
	case ConditionTypeJSONPath:
		return e.evaluateJSONPath(node, config, execCtx), nil
	case ConditionTypeJavaScript:
		return e.evaluateJavaScript(ctx, node, config, execCtx), nil
	default:
		return failedResult(node, fmt.Sprintf("Unsupported condition type: %s", conditionType)), nil
	}
}

func (e *Executor) evaluateJSONPath(node *models.Node, config models.ConditionalConfig, execCtx *models.ExecutionContext) *models.NodeResult {
	value, err := resolver.EvaluateCondition(config.Condition, execCtx)
	if err != nil {
		return failedResult(node, fmt.Sprintf("Condition evaluation failed: %v", err))
	}
	return successResult(node, config, value)
}

func (e *Executor) evaluateJavaScript(ctx context.Context, node *models.Node, config models.ConditionalConfig, execCtx *models.ExecutionContext) *models.NodeResult {
	nodeCtx, err := resolver.BuildNodeContext(node, execCtx)
	if err != nil {
		return failedResult(node, err.Error())
	}

	value, err := script.EvalExpression(ctx, config.Condition, nodeCtx)
	if err != nil {
		return failedResult(node, fmt.Sprintf("Condition evaluation failed: %v", err))
	}

	boolean, ok := value.(bool)
	if !ok {
		return failedResult(node, fmt.Sprintf("JavaScript condition must return boolean, got %s", jsTypeName(value)))
	}
	return successResult(node, config, boolean)
}

func successResult(node *models.Node, config models.ConditionalConfig, value bool) *models.NodeResult {
	output := map[string]any{
		"conditionResult": value,
		"condition":       config.Condition,
	}
	variables := map[string]any{"conditionResult": value}
	return models.NewSuccessResult(node, output, variables)
}

// failedResult keeps conditionResult present and false on every failure.
func failedResult(node *models.Node, message string) *models.NodeResult {
	result := models.NewFailedResult(node, message)
	result.Output = map[string]any{"conditionResult": false}
	return result
}

func jsTypeName(value any) string {
	switch value.(type) {
	case nil:
		return "undefined"
	case bool:
		return "boolean"
	case string:
		return "string"
	case int, int32, int64, uint, uint32, uint64, float32, float64:
		return "number"
	default:
		return "object"
	}
}
