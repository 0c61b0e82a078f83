// Package protocol defines the contract every node executor implements.
package protocol

import (
	"context"
	"errors"
	"fmt"

	"github.com/enactflow/enact/pkg/models"
)

// NodeExecutor executes one kind of workflow node.
//
// Execute returns a non-nil error ONLY for contract violations such as a
// node of the wrong type; every runtime, validation or security failure is
// reported as a NodeResult with status "failed" and a nil error. This split
// lets the orchestrator distinguish its own programming errors from node
// failures it can surface to users.
type NodeExecutor interface {
	// Execute runs the node against the shared execution context.
	Execute(ctx context.Context, node *models.Node, execCtx *models.ExecutionContext) (*models.NodeResult, error)

	// Type returns the node type this executor accepts.
	Type() models.NodeType

	// Name returns the human-readable name for this node type.
	Name() string

	// Description returns a description of what this node does.
	Description() string

	// Schema returns the JSON schema for configuring this node.
	Schema() map[string]any
}

// ErrInvalidNodeType marks a contract violation: an executor received a node
// whose type (or config variant) it does not accept.
var ErrInvalidNodeType = errors.New("received invalid node type")

// InvalidNodeTypeError builds the contract-violation error for an executor,
// e.g. "CodeExecutionExecutor received invalid node type".
func InvalidNodeTypeError(executorName string) error {
	return fmt.Errorf("%s %w", executorName, ErrInvalidNodeType)
}
