package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enactflow/enact/pkg/models"
)

func TestEvaluateConditionRelationalOperators(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.Variables["score"] = 85

	tests := []struct {
		condition string
		expected  bool
	}{
		{"{{score}} >= 70", true},
		{"{{score}} >= 85", true},
		{"{{score}} >= 90", false},
		{"{{score}} <= 85", true},
		{"{{score}} <= 70", false},
		{"{{score}} > 84", true},
		{"{{score}} < 84", false},
		{"{{score}} == 85", true},
		{"{{score}} != 85", false},
		{"{{score}} != 86", true},
	}

	for _, tc := range tests {
		t.Run(tc.condition, func(t *testing.T) {
			result, err := EvaluateCondition(tc.condition, execCtx)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestEvaluateConditionCoercesNumericStrings(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.Variables["count"] = "15"

	result, err := EvaluateCondition("{{count}} > 10", execCtx)
	require.NoError(t, err)
	assert.True(t, result)

	result, err = EvaluateCondition("{{count}} == 15", execCtx)
	require.NoError(t, err)
	assert.True(t, result)
}

func TestEvaluateConditionStrictEquality(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.Variables["count"] = "15"
	execCtx.Variables["limit"] = 15

	result, err := EvaluateCondition("{{count}} === 15", execCtx)
	require.NoError(t, err)
	assert.False(t, result, "string never strictly equals number")

	result, err = EvaluateCondition("{{limit}} === 15", execCtx)
	require.NoError(t, err)
	assert.True(t, result)

	result, err = EvaluateCondition(`{{count}} === "15"`, execCtx)
	require.NoError(t, err)
	assert.True(t, result)
}

func TestEvaluateConditionStringComparison(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.Variables["status"] = "active"

	result, err := EvaluateCondition(`{{status}} == "active"`, execCtx)
	require.NoError(t, err)
	assert.True(t, result)

	result, err = EvaluateCondition(`{{status}} == 'inactive'`, execCtx)
	require.NoError(t, err)
	assert.False(t, result)
}

func TestEvaluateConditionBooleanAndNullLiterals(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.Variables["enabled"] = true
	execCtx.Variables["missing"] = nil

	result, err := EvaluateCondition("{{enabled}} == true", execCtx)
	require.NoError(t, err)
	assert.True(t, result)

	result, err = EvaluateCondition("{{missing}} == null", execCtx)
	require.NoError(t, err)
	assert.True(t, result)
}

func TestEvaluateConditionJSONPathOperands(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.Variables["threshold"] = 10
	node := &models.Node{ID: "countItems", Name: "Count", Type: models.NodeTypeCode}
	execCtx.RecordNodeResult(models.NewSuccessResult(node, map[string]any{"total": 25.0}, nil))

	result, err := EvaluateCondition("$.nodeOutputs.countItems.output.total > {{threshold}}", execCtx)
	require.NoError(t, err)
	assert.True(t, result)
}

func TestEvaluateConditionUnresolvableLeftIsFalse(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")

	result, err := EvaluateCondition("{{ghost}} > 5", execCtx)
	require.Error(t, err)
	assert.False(t, result)
}

func TestEvaluateConditionWithoutOperator(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")

	result, err := EvaluateCondition("{{score}}", execCtx)
	require.Error(t, err)
	assert.False(t, result)
}

func TestFindOperatorPrefersLongestMatch(t *testing.T) {
	op, idx := findOperator("$.a >= 3")
	assert.Equal(t, ">=", op)
	assert.Equal(t, 4, idx)

	op, _ = findOperator("$.a === 3")
	assert.Equal(t, "===", op)

	op, _ = findOperator("$.a == 3")
	assert.Equal(t, "==", op)
}
