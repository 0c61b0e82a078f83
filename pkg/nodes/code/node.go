// Package code provides the code execution node executor. JavaScript runs
// on an embedded interpreter, Python in a subprocess; sandboxed code is
// security-scanned first and JavaScript additionally gets an interpreter
// interrupt when a timeout is configured.
package code

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/enactflow/enact/pkg/enforcer"
	"github.com/enactflow/enact/pkg/models"
	"github.com/enactflow/enact/pkg/protocol"
	"github.com/enactflow/enact/pkg/resolver"
	"github.com/enactflow/enact/pkg/script"
	"github.com/enactflow/enact/pkg/subprocess"
)

const executorName = "CodeExecutionExecutor"

const (
	LanguageJavaScript = "javascript"
	LanguagePython     = "python"
)

// DefaultPythonBinary is the interpreter used when none is configured.
const DefaultPythonBinary = "python3"

// contextEnvVar carries the JSON-encoded node context into Python code.
const contextEnvVar = "NODE_CONTEXT"

// Executor performs code execution nodes.
type Executor struct {
	runner    subprocess.Runner
	pythonBin string
}

// NewExecutor creates a code executor. A nil runner defaults to spawning
// real subprocesses; an empty pythonBin defaults to DefaultPythonBinary.
func NewExecutor(runner subprocess.Runner, pythonBin string) *Executor {
	if runner == nil {
		runner = subprocess.NewRunner()
	}
	if pythonBin == "" {
		pythonBin = DefaultPythonBinary
	}
	return &Executor{runner: runner, pythonBin: pythonBin}
}

// Type returns the node type this executor accepts.
func (e *Executor) Type() models.NodeType {
	return models.NodeTypeCode
}

// Execute validates the code, scans it when sandboxed, then dispatches on
// the configured language.
func (e *Executor) Execute(ctx context.Context, node *models.Node, execCtx *models.ExecutionContext) (*models.NodeResult, error) {
	config, ok := node.Config.(models.CodeConfig)
	if !ok || node.Type != models.NodeTypeCode {
		return nil, protocol.InvalidNodeTypeError(executorName)
	}

	if strings.TrimSpace(config.Code) == "" {
		return models.NewFailedResult(node, "Code is required"), nil
	}

	if config.Sandboxed() {
		if err := enforcer.Scan(config.Code, config.AllowedModules); err != nil {
			return models.NewFailedResult(node, err.Error()), nil
		}
	}

	nodeContext, err := resolver.BuildNodeContext(node, execCtx)
	if err != nil {
		return models.NewFailedResult(node, err.Error()), nil
	}
	for name, value := range config.Context {
		nodeContext[name] = value
	}

	language := config.Language
	if language == "" {
		language = LanguageJavaScript
	}
	switch language {
	case LanguageJavaScript:
		return e.runJavaScript(ctx, node, config, nodeContext), nil
	case LanguagePython:
		return e.runPython(ctx, node, config, nodeContext), nil
	default:
		return models.NewFailedResult(node, fmt.Sprintf("Unsupported language: %s", language)), nil
	}
}

func (e *Executor) runJavaScript(ctx context.Context, node *models.Node, config models.CodeConfig, nodeContext map[string]any) *models.NodeResult {
	opts := script.Options{
		Context:    nodeContext,
		HostAccess: !config.Sandboxed(),
	}
	if config.Sandboxed() {
		// The interpreter interrupt is the sandbox's runaway-script
		// guard; unsandboxed code runs without it.
		opts.TimeoutMs = config.TimeoutMs
	}

	res, err := script.Run(ctx, config.Code, opts)
	if err != nil {
		var timeout *script.TimeoutError
		if errors.As(err, &timeout) {
			return models.NewFailedResult(node, timeout.Error())
		}
		return models.NewFailedResult(node, "JavaScript execution error: "+err.Error())
	}

	return codeResult(node, res.Stdout, "", res.Value)
}

func (e *Executor) runPython(ctx context.Context, node *models.Node, config models.CodeConfig, nodeContext map[string]any) *models.NodeResult {
	contextJSON, err := json.Marshal(nodeContext)
	if err != nil {
		return models.NewFailedResult(node, fmt.Sprintf("Failed to encode node context: %v", err))
	}

	res, err := e.runner.Run(ctx, subprocess.Spec{
		Command:   e.pythonBin,
		Args:      []string{"-c", config.Code},
		Env:       []string{contextEnvVar + "=" + string(contextJSON)},
		TimeoutMs: config.TimeoutMs,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.NewFailedResult(node, (&script.TimeoutError{Millis: config.TimeoutMs}).Error())
		}
		return models.NewFailedResult(node, fmt.Sprintf("Python execution failed: %v", err))
	}

	if res.ExitCode != 0 {
		message := fmt.Sprintf("Python execution failed with exit code %d", res.ExitCode)
		if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
			message += ": " + stderr
		}
		return models.NewFailedResult(node, message)
	}

	return codeResult(node, res.Stdout, res.Stderr, pythonReturnValue(res.Stdout))
}

// pythonReturnValue recovers a structured return value from Python stdout.
// Code that prints a single JSON document gets it back as returnValue;
// anything else leaves returnValue null.
func pythonReturnValue(stdout string) any {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "" {
		return nil
	}
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return nil
	}
	var parsed any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return nil
	}
	return parsed
}

func codeResult(node *models.Node, stdout, stderr string, returnValue any) *models.NodeResult {
	result := map[string]any{
		"stdout":      stdout,
		"stderr":      stderr,
		"returnValue": returnValue,
	}
	variables := map[string]any{
		"result": result,
		"stdout": stdout,
		"stderr": stderr,
	}
	return models.NewSuccessResult(node, result, variables)
}
