package script

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReturnsValue(t *testing.T) {
	result, err := Run(context.Background(), "return context.value * 2;", Options{
		Context: map[string]any{"value": 21},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 42, result.Value)
}

func TestRunCapturesConsoleOutput(t *testing.T) {
	code := `
		console.log("starting");
		console.log("count:", context.count);
		return "done";
	`
	result, err := Run(context.Background(), code, Options{
		Context: map[string]any{"count": 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "done", result.Value)
	assert.Equal(t, "starting\ncount: 3\n", result.Stdout)
}

func TestRunWithoutReturnYieldsNil(t *testing.T) {
	result, err := Run(context.Background(), "const x = 1 + 1;", Options{})
	require.NoError(t, err)
	assert.Nil(t, result.Value)
}

func TestRunTimeoutInterruptsRunawayCode(t *testing.T) {
	_, err := Run(context.Background(), "while (true) {}", Options{TimeoutMs: 50})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Code execution timed out after 50ms")
}

func TestRunSurfacesRuntimeErrors(t *testing.T) {
	_, err := Run(context.Background(), "return missingFn();", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missingFn")
}

func TestRunSurfacesSyntaxErrors(t *testing.T) {
	_, err := Run(context.Background(), "return ((;", Options{})
	require.Error(t, err)
}

func TestRunHostAccessExposesEnvironment(t *testing.T) {
	t.Setenv("SCRIPT_TEST_TOKEN", "sekret")

	result, err := Run(context.Background(), "return process.env.SCRIPT_TEST_TOKEN;", Options{
		HostAccess: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "sekret", result.Value)
}

func TestRunSandboxHidesProcess(t *testing.T) {
	_, err := Run(context.Background(), "return process.env.HOME;", Options{})
	require.Error(t, err, "process is not defined without host access")
}

func TestEvalExpressionBoolean(t *testing.T) {
	value, err := EvalExpression(context.Background(), "context.value > 10", map[string]any{"value": 42})
	require.NoError(t, err)
	assert.Equal(t, true, value)
}

func TestEvalExpressionNonBoolean(t *testing.T) {
	value, err := EvalExpression(context.Background(), "context.value + 10", map[string]any{"value": 42})
	require.NoError(t, err)
	assert.EqualValues(t, 52, value)
}

func TestEvalExpressionSyntaxError(t *testing.T) {
	_, err := EvalExpression(context.Background(), "context.value >", map[string]any{"value": 1})
	require.Error(t, err)
}
