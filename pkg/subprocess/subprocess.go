// Package subprocess spawns external interpreters with captured stdio.
// It wraps go-execute behind a small Runner interface so executors can be
// tested without real processes.
package subprocess

import (
	"context"
	"time"

	execute "github.com/alexellis/go-execute/v2"
)

// Spec describes one process invocation.
type Spec struct {
	Command string
	Args    []string
	// Env entries (KEY=VALUE) are appended to the inherited environment.
	Env []string
	Dir string
	// TimeoutMs kills the process after the given bound; 0 disables it.
	TimeoutMs int
}

// Result carries the captured process outcome. A non-zero exit code is not
// a Go error; callers decide what it means.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner runs a process to completion.
type Runner interface {
	Run(ctx context.Context, spec Spec) (*Result, error)
}

// ExecRunner is the production Runner backed by go-execute.
type ExecRunner struct{}

// NewRunner returns a process runner for real subprocess execution.
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, spec Spec) (*Result, error) {
	if spec.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(spec.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	task := execute.ExecTask{
		Command:     spec.Command,
		Args:        spec.Args,
		Env:         spec.Env,
		Cwd:         spec.Dir,
		StreamStdio: false,
	}

	res, err := task.Execute(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		// The kill shows up as a generic exec error; report the
		// context cause instead.
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
	}, nil
}
