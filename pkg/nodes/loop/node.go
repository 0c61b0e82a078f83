// Package loop provides the iteration node executor. It drives forEach,
// count and while loops over the execution context, tracks nesting on the
// context's loop stack, and reports a per-loop summary.
package loop

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/enactflow/enact/pkg/models"
	"github.com/enactflow/enact/pkg/protocol"
	"github.com/enactflow/enact/pkg/resolver"
)

const executorName = "LoopExecutor"

const (
	LoopTypeForEach = "forEach"
	LoopTypeCount   = "count"
	LoopTypeWhile   = "while"
)

// DefaultMaxIterations bounds while loops that never see a false condition.
const DefaultMaxIterations = 1000

const defaultIteratorVariable = "item"

// IterationFunc runs the loop body for one iteration. The orchestrator
// supplies it when loop nodes wrap other nodes; a nil body makes iterations
// pure bookkeeping. A body error marks the iteration failed without
// aborting the loop.
type IterationFunc func(ctx context.Context, iteration int, iterationCtx map[string]any) error

// Executor evaluates loop nodes.
type Executor struct {
	body IterationFunc
}

// NewExecutor creates a loop executor without an iteration body.
func NewExecutor() *Executor {
	return &Executor{}
}

// NewExecutorWithBody creates a loop executor that invokes body once per
// iteration.
func NewExecutorWithBody(body IterationFunc) *Executor {
	return &Executor{body: body}
}

// Type returns the node type this executor accepts.
func (e *Executor) Type() models.NodeType {
	return models.NodeTypeLoop
}

// Execute validates the loop configuration, pushes a frame onto the loop
// stack, iterates, and pops the frame on every exit path so the stack depth
// always returns to its pre-call value.
func (e *Executor) Execute(ctx context.Context, node *models.Node, execCtx *models.ExecutionContext) (*models.NodeResult, error) {
	config, ok := node.Config.(models.LoopConfig)
	if !ok || node.Type != models.NodeTypeLoop {
		return nil, protocol.InvalidNodeTypeError(executorName)
	}

	switch config.LoopType {
	case LoopTypeForEach:
		if config.Collection == "" {
			return models.NewFailedResult(node, "forEach loop requires a collection path"), nil
		}
	case LoopTypeCount:
		if _, valid := positiveCount(config.Count); !valid {
			return models.NewFailedResult(node, "Count loop requires a positive count value"), nil
		}
	case LoopTypeWhile:
		if config.WhileCondition == "" {
			return models.NewFailedResult(node, "While loop requires a condition"), nil
		}
	default:
		return models.NewFailedResult(node, fmt.Sprintf("Unknown loop type: %s", config.LoopType)), nil
	}

	execCtx.PushLoopFrame(models.LoopFrame{
		NodeID:    node.ID,
		LoopType:  config.LoopType,
		StartedAt: time.Now().UTC(),
	})
	defer execCtx.PopLoopFrame()

	var run *loopRun
	switch config.LoopType {
	case LoopTypeForEach:
		items, err := e.resolveCollection(config, execCtx)
		if err != nil {
			return models.NewFailedResult(node, err.Error()), nil
		}
		run = e.runForEach(ctx, config, execCtx, items)
	case LoopTypeCount:
		count, _ := positiveCount(config.Count)
		run = e.runCount(ctx, config, execCtx, count)
	default:
		run = e.runWhile(ctx, config, execCtx)
	}

	return models.NewSuccessResult(node, run.output(config), run.variables()), nil
}

func (e *Executor) resolveCollection(config models.LoopConfig, execCtx *models.ExecutionContext) ([]any, error) {
	value, err := resolver.EvaluateJSONPath(config.Collection, execCtx)
	if err != nil {
		return nil, fmt.Errorf("Failed to evaluate collection: %v", err)
	}
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("Collection at %s is not an array", config.Collection)
	}
	return items, nil
}

func (e *Executor) runForEach(ctx context.Context, config models.LoopConfig, execCtx *models.ExecutionContext, items []any) *loopRun {
	run := newLoopRun()
	iterator := iteratorName(config)
	for i, item := range items {
		iterationCtx := map[string]any{iterator: item}
		if config.IndexVariable != "" {
			iterationCtx[config.IndexVariable] = i
		}
		e.iterate(ctx, execCtx, run, i, iterationCtx)
	}
	return run
}

func (e *Executor) runCount(ctx context.Context, config models.LoopConfig, execCtx *models.ExecutionContext, count int) *loopRun {
	run := newLoopRun()
	iterator := iteratorName(config)
	for i := 0; i < count; i++ {
		iterationCtx := map[string]any{iterator: i}
		if config.IndexVariable != "" {
			iterationCtx[config.IndexVariable] = i
		}
		e.iterate(ctx, execCtx, run, i, iterationCtx)
	}
	return run
}

func (e *Executor) runWhile(ctx context.Context, config models.LoopConfig, execCtx *models.ExecutionContext) *loopRun {
	run := newLoopRun()
	iterator := iteratorName(config)

	maxIterations := config.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	for i := 0; i < maxIterations; i++ {
		// Condition errors stop the loop instead of failing it: an
		// unresolvable condition reads as false.
		proceed, err := resolver.EvaluateCondition(config.WhileCondition, execCtx)
		if err != nil || !proceed {
			break
		}
		iterationCtx := map[string]any{iterator: i}
		if config.IndexVariable != "" {
			iterationCtx[config.IndexVariable] = i
		}
		e.iterate(ctx, execCtx, run, i, iterationCtx)
	}
	return run
}

// iterate applies one iteration: publish the iteration variables into the
// shared context, bump the frame counter, and invoke the body when set.
func (e *Executor) iterate(ctx context.Context, execCtx *models.ExecutionContext, run *loopRun, iteration int, iterationCtx map[string]any) {
	for name, value := range iterationCtx {
		execCtx.SetVariable(name, value)
	}
	if depth := len(execCtx.LoopStack); depth > 0 {
		execCtx.LoopStack[depth-1].Iteration = iteration
	}

	status := string(models.NodeStatusSuccess)
	var errorMessage string
	if e.body != nil {
		if err := e.body(ctx, iteration, iterationCtx); err != nil {
			status = string(models.NodeStatusFailed)
			errorMessage = err.Error()
		}
	}
	run.record(iteration, iterationCtx, status, errorMessage)
}

func iteratorName(config models.LoopConfig) string {
	if config.IteratorVariable != "" {
		return config.IteratorVariable
	}
	return defaultIteratorVariable
}

// positiveCount accepts a strictly positive integer in any of the numeric
// shapes a decoded config can carry.
func positiveCount(value any) (int, bool) {
	var count float64
	switch v := value.(type) {
	case int:
		count = float64(v)
	case int64:
		count = float64(v)
	case uint64:
		count = float64(v)
	case float64:
		count = v
	case float32:
		count = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		count = parsed
	default:
		return 0, false
	}
	if count < 1 || count != math.Trunc(count) {
		return 0, false
	}
	return int(count), true
}

type loopRun struct {
	iterations   []any
	successCount int
	failureCount int
}

func newLoopRun() *loopRun {
	return &loopRun{iterations: []any{}}
}

func (r *loopRun) record(iteration int, iterationCtx map[string]any, status, errorMessage string) {
	snapshot := map[string]any{
		"index":   iteration,
		"context": iterationCtx,
		"status":  status,
	}
	if errorMessage != "" {
		snapshot["error"] = errorMessage
	}
	r.iterations = append(r.iterations, snapshot)
	if status == string(models.NodeStatusSuccess) {
		r.successCount++
	} else {
		r.failureCount++
	}
}

func (r *loopRun) output(config models.LoopConfig) map[string]any {
	total := len(r.iterations)

	var lastIteration any
	if total > 0 {
		lastIteration = r.iterations[total-1]
	}

	successRate := 0.0
	if total > 0 {
		successRate = float64(r.successCount) / float64(total)
	}

	return map[string]any{
		"loopType":       config.LoopType,
		"iterationCount": total,
		"iterations":     r.iterations,
		"lastIteration":  lastIteration,
		"summary": map[string]any{
			"totalIterations": total,
			"successCount":    r.successCount,
			"failureCount":    r.failureCount,
			"successRate":     successRate,
		},
	}
}

func (r *loopRun) variables() map[string]any {
	return map[string]any{
		"iterationCount": len(r.iterations),
		"successCount":   r.successCount,
		"failureCount":   r.failureCount,
	}
}
