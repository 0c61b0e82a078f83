package loop

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enactflow/enact/pkg/models"
	"github.com/enactflow/enact/pkg/protocol"
)

func loopNode(config models.LoopConfig) *models.Node {
	return &models.Node{
		ID:     "iterate",
		Name:   "Iterate",
		Type:   models.NodeTypeLoop,
		Config: config,
	}
}

func outputOf(t *testing.T, result *models.NodeResult) map[string]any {
	t.Helper()
	output, ok := result.Output.(map[string]any)
	require.True(t, ok, "expected map output, got %T", result.Output)
	return output
}

func TestExecuteForEachIteratesCollection(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.Variables["items"] = []any{"a", "b", "c"}

	var seen []any
	executor := NewExecutorWithBody(func(_ context.Context, _ int, iterationCtx map[string]any) error {
		seen = append(seen, iterationCtx["item"])
		return nil
	})

	node := loopNode(models.LoopConfig{
		LoopType:   LoopTypeForEach,
		Collection: "$.variables.items",
	})

	result, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	assert.Equal(t, models.NodeStatusSuccess, result.Status)
	assert.Equal(t, []any{"a", "b", "c"}, seen)

	output := outputOf(t, result)
	assert.Equal(t, 3, output["iterationCount"])

	summary, ok := output["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3, summary["totalIterations"])
	assert.Equal(t, 3, summary["successCount"])
	assert.Equal(t, 0, summary["failureCount"])
	assert.Equal(t, 1.0, summary["successRate"])
}

func TestExecuteForEachEmptyCollection(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.Variables["items"] = []any{}

	node := loopNode(models.LoopConfig{
		LoopType:   LoopTypeForEach,
		Collection: "$.variables.items",
	})

	result, err := NewExecutor().Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	assert.Equal(t, models.NodeStatusSuccess, result.Status)
	output := outputOf(t, result)
	assert.Equal(t, 0, output["iterationCount"])
	assert.Nil(t, output["lastIteration"])
}

func TestExecuteForEachNonArrayFails(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.Variables["items"] = "not-a-list"

	node := loopNode(models.LoopConfig{
		LoopType:   LoopTypeForEach,
		Collection: "$.variables.items",
	})

	result, err := NewExecutor().Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	assert.Equal(t, models.NodeStatusFailed, result.Status)
	assert.Contains(t, result.Error, "not an array")
}

func TestExecuteForEachUnresolvableCollectionFails(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")

	node := loopNode(models.LoopConfig{
		LoopType:   LoopTypeForEach,
		Collection: "$.variables.ghost",
	})

	result, err := NewExecutor().Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	assert.Equal(t, models.NodeStatusFailed, result.Status)
	assert.Contains(t, result.Error, "Failed to evaluate collection")
}

func TestExecuteForEachMissingCollectionPath(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")

	node := loopNode(models.LoopConfig{LoopType: LoopTypeForEach})

	result, err := NewExecutor().Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	assert.Equal(t, models.NodeStatusFailed, result.Status)
	assert.Contains(t, result.Error, "requires a collection path")
}

func TestExecuteForEachSetsIteratorAndIndexVariables(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.Variables["items"] = []any{"only"}

	node := loopNode(models.LoopConfig{
		LoopType:         LoopTypeForEach,
		Collection:       "$.variables.items",
		IteratorVariable: "current",
		IndexVariable:    "position",
	})

	_, err := NewExecutor().Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	assert.Equal(t, "only", execCtx.Variables["current"])
	assert.Equal(t, 0, execCtx.Variables["position"])
}

func TestExecuteCountBoundaries(t *testing.T) {
	for _, count := range []any{0, -3, "zero", nil} {
		execCtx := models.NewExecutionContext("wf", "inst")
		node := loopNode(models.LoopConfig{LoopType: LoopTypeCount, Count: count})

		result, err := NewExecutor().Execute(context.Background(), node, execCtx)
		require.NoError(t, err)

		assert.Equal(t, models.NodeStatusFailed, result.Status, "count=%v", count)
		assert.Contains(t, result.Error, "positive count value")
	}
}

func TestExecuteCountSingleIteration(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	node := loopNode(models.LoopConfig{LoopType: LoopTypeCount, Count: 1})

	result, err := NewExecutor().Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	assert.Equal(t, models.NodeStatusSuccess, result.Status)
	output := outputOf(t, result)
	assert.Equal(t, 1, output["iterationCount"])
	assert.NotNil(t, output["lastIteration"])
}

func TestExecuteCountFromJSONNumber(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	node := loopNode(models.LoopConfig{LoopType: LoopTypeCount, Count: 3.0})

	var iterations int
	executor := NewExecutorWithBody(func(_ context.Context, _ int, _ map[string]any) error {
		iterations++
		return nil
	})

	result, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)
	assert.Equal(t, models.NodeStatusSuccess, result.Status)
	assert.Equal(t, 3, iterations)
}

func TestExecuteWhileLoopStopsWhenConditionTurnsFalse(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.Variables["remaining"] = 3

	executor := NewExecutorWithBody(func(_ context.Context, _ int, _ map[string]any) error {
		remaining, _ := execCtx.Variables["remaining"].(int)
		execCtx.SetVariable("remaining", remaining-1)
		return nil
	})

	node := loopNode(models.LoopConfig{
		LoopType:       LoopTypeWhile,
		WhileCondition: "{{remaining}} > 0",
	})

	result, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	output := outputOf(t, result)
	assert.Equal(t, 3, output["iterationCount"])
	assert.Equal(t, 0, execCtx.Variables["remaining"])
}

func TestExecuteWhileLoopZeroIterations(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.Variables["remaining"] = 0

	node := loopNode(models.LoopConfig{
		LoopType:       LoopTypeWhile,
		WhileCondition: "{{remaining}} > 0",
	})

	result, err := NewExecutor().Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	output := outputOf(t, result)
	assert.Equal(t, 0, output["iterationCount"])
	assert.Nil(t, output["lastIteration"])
}

func TestExecuteWhileLoopHardStopsAtMaxIterations(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.Variables["always"] = 1

	node := loopNode(models.LoopConfig{
		LoopType:       LoopTypeWhile,
		WhileCondition: "{{always}} == 1",
		MaxIterations:  25,
	})

	result, err := NewExecutor().Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	output := outputOf(t, result)
	assert.Equal(t, 25, output["iterationCount"])
}

func TestExecuteWhileMissingCondition(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	node := loopNode(models.LoopConfig{LoopType: LoopTypeWhile})

	result, err := NewExecutor().Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	assert.Equal(t, models.NodeStatusFailed, result.Status)
	assert.Contains(t, result.Error, "requires a condition")
}

func TestExecuteUnknownLoopType(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	node := loopNode(models.LoopConfig{LoopType: "spiral"})

	result, err := NewExecutor().Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	assert.Equal(t, models.NodeStatusFailed, result.Status)
	assert.Contains(t, result.Error, "Unknown loop type: spiral")
}

func TestExecuteBodyFailuresCountWithoutAborting(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.Variables["items"] = []any{"ok", "bad", "ok"}

	executor := NewExecutorWithBody(func(_ context.Context, _ int, iterationCtx map[string]any) error {
		if iterationCtx["item"] == "bad" {
			return errors.New("boom")
		}
		return nil
	})

	node := loopNode(models.LoopConfig{
		LoopType:   LoopTypeForEach,
		Collection: "$.variables.items",
	})

	result, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)

	output := outputOf(t, result)
	summary := output["summary"].(map[string]any)
	assert.Equal(t, 3, summary["totalIterations"])
	assert.Equal(t, 2, summary["successCount"])
	assert.Equal(t, 1, summary["failureCount"])
}

func TestExecuteRestoresLoopStackDepth(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.Variables["items"] = []any{1, 2}

	var depthDuringIteration int
	executor := NewExecutorWithBody(func(_ context.Context, _ int, _ map[string]any) error {
		depthDuringIteration = execCtx.LoopDepth()
		return nil
	})

	node := loopNode(models.LoopConfig{
		LoopType:   LoopTypeForEach,
		Collection: "$.variables.items",
	})

	_, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)
	assert.Equal(t, 1, depthDuringIteration)
	assert.Equal(t, 0, execCtx.LoopDepth())
}

func TestExecuteRestoresLoopStackDepthOnFailure(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.Variables["items"] = 42

	node := loopNode(models.LoopConfig{
		LoopType:   LoopTypeForEach,
		Collection: "$.variables.items",
	})

	result, err := NewExecutor().Execute(context.Background(), node, execCtx)
	require.NoError(t, err)
	assert.Equal(t, models.NodeStatusFailed, result.Status)
	assert.Equal(t, 0, execCtx.LoopDepth())
}

func TestExecuteRejectsWrongNodeType(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	node := &models.Node{
		ID:     "not-loop",
		Name:   "Code",
		Type:   models.NodeTypeCode,
		Config: models.CodeConfig{Language: "javascript", Code: "return 1"},
	}

	result, err := NewExecutor().Execute(context.Background(), node, execCtx)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, protocol.ErrInvalidNodeType)
	assert.Contains(t, err.Error(), "LoopExecutor received invalid node type")
}
