package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enactflow/enact/pkg/models"
)

func newTestContext() *models.ExecutionContext {
	execCtx := models.NewExecutionContext("wf-test", "inst-test")
	execCtx.Variables["userName"] = "ada"
	execCtx.Variables["score"] = 85
	execCtx.Variables["nested"] = map[string]any{
		"array": []any{
			map[string]any{"name": "first"},
			map[string]any{"name": "second"},
			map[string]any{"name": "third"},
		},
	}
	return execCtx
}

func TestEvaluateJSONPathVariableReference(t *testing.T) {
	execCtx := newTestContext()

	value, err := EvaluateJSONPath("{{userName}}", execCtx)
	require.NoError(t, err)
	assert.Equal(t, "ada", value)
}

func TestEvaluateJSONPathVariableNotFound(t *testing.T) {
	execCtx := newTestContext()

	_, err := EvaluateJSONPath("{{missing}}", execCtx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVariableNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestEvaluateJSONPathDotPath(t *testing.T) {
	execCtx := newTestContext()

	value, err := EvaluateJSONPath("$.variables.score", execCtx)
	require.NoError(t, err)
	assert.Equal(t, 85, value)
}

func TestEvaluateJSONPathArrayIndex(t *testing.T) {
	execCtx := newTestContext()

	value, err := EvaluateJSONPath("$.variables.nested.array[1].name", execCtx)
	require.NoError(t, err)
	assert.Equal(t, "second", value)
}

func TestEvaluateJSONPathWildcardReturnsAllMatches(t *testing.T) {
	execCtx := newTestContext()

	value, err := EvaluateJSONPath("$.variables.nested.array[*].name", execCtx)
	require.NoError(t, err)
	assert.Equal(t, []any{"first", "second", "third"}, value)
}

func TestEvaluateJSONPathNoResults(t *testing.T) {
	execCtx := newTestContext()

	_, err := EvaluateJSONPath("$.doesNotExist", execCtx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestEvaluateJSONPathReadsNodeOutputs(t *testing.T) {
	execCtx := newTestContext()
	node := &models.Node{ID: "fetch", Name: "Fetch", Type: models.NodeTypeHTTP}
	execCtx.RecordNodeResult(models.NewSuccessResult(node, map[string]any{"status": 200.0}, nil))

	value, err := EvaluateJSONPath("$.nodeOutputs.fetch.output.status", execCtx)
	require.NoError(t, err)
	assert.Equal(t, 200.0, value)
}
