// Package script runs user-supplied JavaScript on an embedded interpreter.
// Code bodies execute inside a function wrapper so top-level return works,
// with the node context injected as a global named context and console.log
// captured into the result. A millisecond timeout interrupts runaway code.
package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dop251/goja"
)

// Options configures one script run.
type Options struct {
	// Context is exposed to the script as the global `context` object.
	Context map[string]any
	// TimeoutMs interrupts execution after the given bound; 0 disables it.
	TimeoutMs int
	// HostAccess exposes host bindings (process.env). Leaving the sandbox
	// is explicitly dangerous and skips no other checks here; callers gate
	// it on node configuration.
	HostAccess bool
}

// Result carries the script's return value and captured console output.
type Result struct {
	Value  any
	Stdout string
}

// TimeoutError reports an interrupted script, naming the configured bound.
type TimeoutError struct {
	Millis int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("Code execution timed out after %dms", e.Millis)
}

type interruptCause int

const causeTimeout interruptCause = 1

// Run executes a JavaScript code body. The body is wrapped in an
// immediately-invoked function so `return` yields the script's value.
func Run(ctx context.Context, code string, opts Options) (*Result, error) {
	vm := goja.New()

	var stdout strings.Builder
	if err := bindConsole(vm, &stdout); err != nil {
		return nil, err
	}
	if err := vm.Set("context", opts.Context); err != nil {
		return nil, err
	}
	if opts.HostAccess {
		if err := bindHost(vm); err != nil {
			return nil, err
		}
	}

	if opts.TimeoutMs > 0 {
		timer := time.AfterFunc(time.Duration(opts.TimeoutMs)*time.Millisecond, func() {
			vm.Interrupt(causeTimeout)
		})
		defer timer.Stop()
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	wrapped := "(function() {\n" + code + "\n})()"
	value, err := vm.RunString(wrapped)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if cause, ok := interrupted.Value().(interruptCause); ok && cause == causeTimeout {
				return nil, &TimeoutError{Millis: opts.TimeoutMs}
			}
			return nil, ctx.Err()
		}
		return nil, err
	}

	return &Result{Value: exportValue(value), Stdout: stdout.String()}, nil
}

// EvalExpression evaluates a single JavaScript expression with the given
// context object bound, returning its value unchanged so callers can apply
// their own type checks.
func EvalExpression(ctx context.Context, expr string, contextObj map[string]any) (any, error) {
	vm := goja.New()
	if err := vm.Set("context", contextObj); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	value, err := vm.RunString("(" + expr + ")")
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return exportValue(value), nil
}

func bindConsole(vm *goja.Runtime, stdout *strings.Builder) error {
	log := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = formatConsoleArg(arg)
		}
		stdout.WriteString(strings.Join(parts, " "))
		stdout.WriteByte('\n')
		return goja.Undefined()
	}

	console := vm.NewObject()
	for _, level := range []string{"log", "info", "warn", "error"} {
		if err := console.Set(level, log); err != nil {
			return err
		}
	}
	return vm.Set("console", console)
}

func bindHost(vm *goja.Runtime) error {
	env := make(map[string]string)
	for _, entry := range os.Environ() {
		if key, value, found := strings.Cut(entry, "="); found {
			env[key] = value
		}
	}
	process := vm.NewObject()
	if err := process.Set("env", env); err != nil {
		return err
	}
	return vm.Set("process", process)
}

func formatConsoleArg(value goja.Value) string {
	exported := value.Export()
	switch v := exported.(type) {
	case nil:
		return "null"
	case string:
		return v
	case map[string]any, []any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func exportValue(value goja.Value) any {
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return nil
	}
	return value.Export()
}
