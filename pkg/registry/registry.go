// Package registry keeps the set of node executors and validates node
// configurations against each executor's schema.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/enactflow/enact/pkg/models"
	"github.com/enactflow/enact/pkg/protocol"
)

// Registry maps node types to their executors.
type Registry struct {
	logger    *slog.Logger
	executors map[models.NodeType]protocol.NodeExecutor
}

// ExecutorInfo is the editor-facing description of one executor.
type ExecutorInfo struct {
	Type        models.NodeType `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Schema      map[string]any  `json:"schema"`
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:    log,
		executors: make(map[models.NodeType]protocol.NodeExecutor),
	}
}

// Register adds an executor, replacing any previous one for the same type.
func (r *Registry) Register(executor protocol.NodeExecutor) {
	r.executors[executor.Type()] = executor
	if r.logger != nil {
		r.logger.Debug("Registered node executor", "type", executor.Type(), "name", executor.Name())
	}
}

// ExecutorFor returns the executor handling the given node type.
func (r *Registry) ExecutorFor(nodeType models.NodeType) (protocol.NodeExecutor, error) {
	executor, ok := r.executors[nodeType]
	if !ok {
		return nil, fmt.Errorf("node type '%s' not registered", nodeType)
	}
	return executor, nil
}

// Executors returns metadata for every registered executor, ordered by type.
func (r *Registry) Executors() []ExecutorInfo {
	infos := make([]ExecutorInfo, 0, len(r.executors))
	for _, executor := range r.executors {
		infos = append(infos, ExecutorInfo{
			Type:        executor.Type(),
			Name:        executor.Name(),
			Description: executor.Description(),
			Schema:      executor.Schema(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Type < infos[j].Type })
	return infos
}

// HealthCheck reports whether the registry can serve executions.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.executors) == 0 {
		return "No node executors registered", false
	}

	return fmt.Sprintf("%d node executors registered", len(r.executors)), true
}

// ValidateConfig checks the node's configuration against the schema
// published by its executor.
func (r *Registry) ValidateConfig(node *models.Node) error {
	executor, err := r.ExecutorFor(node.Type)
	if err != nil {
		return err
	}

	var config any = node.Config
	if config == nil {
		config = map[string]any{}
	}

	schemaLoader := gojsonschema.NewGoLoader(executor.Schema())
	configLoader := gojsonschema.NewGoLoader(config)

	result, err := gojsonschema.Validate(schemaLoader, configLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		var messages []string
		for _, resultErr := range result.Errors() {
			messages = append(messages, resultErr.String())
		}
		return fmt.Errorf("JSON schema validation failed: %s", strings.Join(messages, "; "))
	}

	return nil
}
