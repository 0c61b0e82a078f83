// Package web provides HTTP request and response types for the node execution API.
package web

import "github.com/enactflow/enact/pkg/models"

// ExecuteRequest represents the request body for executing a single node.
// Context is optional; a fresh ad-hoc context is created when it is omitted.
type ExecuteRequest struct {
	Node    *models.Node             `json:"node"              validate:"required"`
	Context *models.ExecutionContext `json:"context,omitempty"`
}

// ExecuteResponse carries the node result together with the updated
// execution context the orchestrator should carry forward.
type ExecuteResponse struct {
	Result   *models.NodeResult       `json:"result"`
	Context  *models.ExecutionContext `json:"context"`
	Warnings []string                 `json:"warnings,omitempty"`
}

// VariablesRequest represents the request body for listing the variables
// available to a node, for the editor's variable picker.
type VariablesRequest struct {
	ExcludeNodeID string                   `json:"exclude_node_id,omitempty"`
	Context       *models.ExecutionContext `json:"context"                   validate:"required"`
}
