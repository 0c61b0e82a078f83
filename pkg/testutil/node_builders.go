// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/google/uuid"

	"github.com/enactflow/enact/pkg/models"
)

// CreateTestNode creates a code node with default values that can be overridden.
func CreateTestNode(overrides ...func(*models.Node)) *models.Node {
	node := &models.Node{
		ID:     uuid.New().String(),
		Name:   "Test Node",
		Type:   models.NodeTypeCode,
		Config: models.CodeConfig{Code: "return 1"},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithID sets the node ID.
func WithID(id string) func(*models.Node) {
	return func(n *models.Node) {
		n.ID = id
	}
}

// WithName sets the node name.
func WithName(name string) func(*models.Node) {
	return func(n *models.Node) {
		n.Name = name
	}
}

// WithCodeConfig turns the node into a code node with the given config.
func WithCodeConfig(config models.CodeConfig) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = models.NodeTypeCode
		n.Config = config
	}
}

// WithHTTPConfig turns the node into an HTTP request node.
func WithHTTPConfig(config models.HTTPConfig) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = models.NodeTypeHTTP
		n.Config = config
	}
}

// WithFileConfig turns the node into a file operation node.
func WithFileConfig(config models.FileConfig) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = models.NodeTypeFile
		n.Config = config
	}
}

// WithConditionalConfig turns the node into a conditional node.
func WithConditionalConfig(config models.ConditionalConfig) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = models.NodeTypeConditional
		n.Config = config
	}
}

// WithLoopConfig turns the node into a loop node.
func WithLoopConfig(config models.LoopConfig) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = models.NodeTypeLoop
		n.Config = config
	}
}

// WithUserInputConfig turns the node into a user input node.
func WithUserInputConfig(config models.UserInputConfig) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = models.NodeTypeUserInput
		n.Config = config
	}
}

// WithInputMappings switches the node to advanced context mode with the
// given input mappings.
func WithInputMappings(mappings ...models.ContextMapping) func(*models.Node) {
	return func(n *models.Node) {
		n.ContextConfig.Mode = models.ContextModeAdvanced
		n.ContextConfig.InputMappings = mappings
	}
}

// WithOutputMappings switches the node to advanced context mode with the
// given output mappings.
func WithOutputMappings(mappings ...models.ContextMapping) func(*models.Node) {
	return func(n *models.Node) {
		n.ContextConfig.Mode = models.ContextModeAdvanced
		n.ContextConfig.OutputMappings = mappings
	}
}

// CreateTestContext creates an execution context with default identifiers.
func CreateTestContext(overrides ...func(*models.ExecutionContext)) *models.ExecutionContext {
	execCtx := models.NewExecutionContext("workflow-test", "instance-"+uuid.New().String()[:8])

	for _, override := range overrides {
		override(execCtx)
	}

	return execCtx
}

// WithVariable sets one context variable.
func WithVariable(name string, value any) func(*models.ExecutionContext) {
	return func(c *models.ExecutionContext) {
		c.SetVariable(name, value)
	}
}

// WithProjectFolder sets the project folder file nodes are confined to.
func WithProjectFolder(path string) func(*models.ExecutionContext) {
	return func(c *models.ExecutionContext) {
		c.ProjectFolder = path
	}
}

// WithNodeResult records a prior node result on the context.
func WithNodeResult(result *models.NodeResult) func(*models.ExecutionContext) {
	return func(c *models.ExecutionContext) {
		c.RecordNodeResult(result)
	}
}
