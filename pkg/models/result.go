package models

import "time"

// NodeStatus is the terminal state of a node execution. Runtime failures
// surface as a failed result, not as a Go error from the executor.
type NodeStatus string

const (
	NodeStatusSuccess NodeStatus = "success"
	NodeStatusFailed  NodeStatus = "failed"
)

// NodeResult is the outcome of executing one node. Output carries the
// node's primary payload; Variables carries values the orchestrator folds
// back into the execution context.
type NodeResult struct {
	NodeID    string         `json:"nodeId"`
	NodeName  string         `json:"nodeName"`
	Timestamp time.Time      `json:"timestamp"`
	Status    NodeStatus     `json:"status"`
	Output    any            `json:"output,omitempty"`
	Variables map[string]any `json:"variables,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// NewSuccessResult builds a success result for the given node.
func NewSuccessResult(node *Node, output any, variables map[string]any) *NodeResult {
	return &NodeResult{
		NodeID:    node.ID,
		NodeName:  node.Name,
		Timestamp: time.Now().UTC(),
		Status:    NodeStatusSuccess,
		Output:    output,
		Variables: variables,
	}
}

// NewFailedResult builds a failed result carrying the failure message.
func NewFailedResult(node *Node, message string) *NodeResult {
	return &NodeResult{
		NodeID:    node.ID,
		NodeName:  node.Name,
		Timestamp: time.Now().UTC(),
		Status:    NodeStatusFailed,
		Error:     message,
	}
}

// Failed reports whether the execution ended in failure.
func (r *NodeResult) Failed() bool {
	return r.Status == NodeStatusFailed
}

// AsMap renders the result as a plain map mirroring its JSON shape, for
// JSONPath evaluation over recorded node outputs.
func (r *NodeResult) AsMap() map[string]any {
	m := map[string]any{
		"nodeId":    r.NodeID,
		"nodeName":  r.NodeName,
		"timestamp": r.Timestamp,
		"status":    string(r.Status),
	}
	if r.Output != nil {
		m["output"] = r.Output
	}
	if r.Variables != nil {
		m["variables"] = r.Variables
	}
	if r.Error != "" {
		m["error"] = r.Error
	}
	return m
}
