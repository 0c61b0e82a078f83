package models

import "time"

// LoopFrame records one active loop on the loop stack. Nested loops push
// a frame on entry and pop it on exit, so the stack depth mirrors the
// nesting depth at any point of an execution.
type LoopFrame struct {
	NodeID    string    `json:"nodeId"`
	LoopType  string    `json:"loopType"`
	Iteration int       `json:"iteration"`
	StartedAt time.Time `json:"startedAt"`
}

// ExecutionContext is the shared state of one workflow instance. The
// orchestrator owns it between nodes; executors read it and return results,
// and only output mapping writes back into Variables.
type ExecutionContext struct {
	Variables      map[string]any         `json:"variables"`
	NodeOutputs    map[string]*NodeResult `json:"nodeOutputs"`
	ProjectFolder  string                 `json:"projectFolder,omitempty"`
	InstanceID     string                 `json:"instanceId"`
	WorkflowID     string                 `json:"workflowId"`
	CurrentNodeID  string                 `json:"currentNodeId,omitempty"`
	UserID         string                 `json:"userId,omitempty"`
	CompletedNodes []string               `json:"completedNodes,omitempty"`
	LoopStack      []LoopFrame            `json:"loopStack,omitempty"`
	MCPData        map[string]any         `json:"mcpData,omitempty"`
	StartedAt      time.Time              `json:"startedAt"`
}

// NewExecutionContext builds an empty context for one workflow instance.
func NewExecutionContext(workflowID, instanceID string) *ExecutionContext {
	return &ExecutionContext{
		Variables:   make(map[string]any),
		NodeOutputs: make(map[string]*NodeResult),
		WorkflowID:  workflowID,
		InstanceID:  instanceID,
		StartedAt:   time.Now().UTC(),
	}
}

// SetVariable stores a context variable, allocating the map on first use.
func (c *ExecutionContext) SetVariable(name string, value any) {
	if c.Variables == nil {
		c.Variables = make(map[string]any)
	}
	c.Variables[name] = value
}

// RecordNodeResult stores a node's result and marks the node completed.
// Re-recording the same node, as loop bodies do, replaces the stored result
// without duplicating the completion entry.
func (c *ExecutionContext) RecordNodeResult(result *NodeResult) {
	if result == nil {
		return
	}
	if c.NodeOutputs == nil {
		c.NodeOutputs = make(map[string]*NodeResult)
	}
	if _, seen := c.NodeOutputs[result.NodeID]; !seen {
		c.CompletedNodes = append(c.CompletedNodes, result.NodeID)
	}
	c.NodeOutputs[result.NodeID] = result
}

// PushLoopFrame enters a loop, growing the loop stack by one frame.
func (c *ExecutionContext) PushLoopFrame(frame LoopFrame) {
	c.LoopStack = append(c.LoopStack, frame)
}

// PopLoopFrame leaves the innermost loop. It reports false when the stack
// is already empty.
func (c *ExecutionContext) PopLoopFrame() (LoopFrame, bool) {
	if len(c.LoopStack) == 0 {
		return LoopFrame{}, false
	}
	frame := c.LoopStack[len(c.LoopStack)-1]
	c.LoopStack = c.LoopStack[:len(c.LoopStack)-1]
	return frame, true
}

// LoopDepth reports how many loops are currently active.
func (c *ExecutionContext) LoopDepth() int {
	return len(c.LoopStack)
}

// Root renders the context as a plain map mirroring its JSON shape. JSONPath
// expressions evaluate against this tree, so $.variables.x and
// $.nodeOutputs.<id>.output address live context state.
func (c *ExecutionContext) Root() map[string]any {
	outputs := make(map[string]any, len(c.NodeOutputs))
	for id, result := range c.NodeOutputs {
		outputs[id] = result.AsMap()
	}

	completed := make([]any, len(c.CompletedNodes))
	for i, id := range c.CompletedNodes {
		completed[i] = id
	}

	stack := make([]any, len(c.LoopStack))
	for i, frame := range c.LoopStack {
		stack[i] = map[string]any{
			"nodeId":    frame.NodeID,
			"loopType":  frame.LoopType,
			"iteration": frame.Iteration,
			"startedAt": frame.StartedAt,
		}
	}

	root := map[string]any{
		"variables":      c.Variables,
		"nodeOutputs":    outputs,
		"projectFolder":  c.ProjectFolder,
		"instanceId":     c.InstanceID,
		"workflowId":     c.WorkflowID,
		"currentNodeId":  c.CurrentNodeID,
		"userId":         c.UserID,
		"completedNodes": completed,
		"loopStack":      stack,
		"startedAt":      c.StartedAt,
	}
	if c.Variables == nil {
		root["variables"] = map[string]any{}
	}
	if c.MCPData != nil {
		root["mcpData"] = c.MCPData
	}
	return root
}
