package resolver

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/enactflow/enact/pkg/expression"
	"github.com/enactflow/enact/pkg/models"
)

// BuildNodeContext assembles the context a node sees during execution.
//
// Simple mode inherits everything: all context variables plus a
// previousOutputs map of node id to that node's result variables. Advanced
// mode resolves only the declared input mappings; if ANY mapping fails to
// resolve or transform, no partial context is built and the call fails with
// a *MissingVariablesError naming every failed source.
func BuildNodeContext(node *models.Node, execCtx *models.ExecutionContext) (map[string]any, error) {
	if !node.ContextConfig.Advanced() {
		nodeCtx := make(map[string]any, len(execCtx.Variables)+1)
		for name, value := range execCtx.Variables {
			nodeCtx[name] = value
		}
		previous := make(map[string]any, len(execCtx.NodeOutputs))
		for nodeID, result := range execCtx.NodeOutputs {
			previous[nodeID] = result.Variables
		}
		nodeCtx["previousOutputs"] = previous
		return nodeCtx, nil
	}

	nodeCtx := make(map[string]any, len(node.ContextConfig.InputMappings))
	var missing []string
	for _, mapping := range node.ContextConfig.InputMappings {
		value, err := EvaluateJSONPath(mapping.Source, execCtx)
		if err != nil {
			missing = append(missing, mapping.Source)
			continue
		}
		if mapping.Transform != "" {
			value, err = expression.Apply(mapping.Transform, value)
			if err != nil {
				missing = append(missing, mapping.Source)
				continue
			}
		}
		nodeCtx[mapping.Target] = value
	}
	if len(missing) > 0 {
		return nil, &MissingVariablesError{Missing: missing}
	}
	return nodeCtx, nil
}

// ExtractOutputs derives the variables a finished node contributes back to
// the workflow. Simple mode exposes the whole output under "output".
// Advanced mode evaluates each output mapping against the synthetic root
// {"currentNodeOutput": result.Output}; a failing mapping becomes a warning
// and is skipped rather than failing the extraction. Extracted values are
// also written into execCtx.Variables so later nodes can reference them.
func ExtractOutputs(node *models.Node, result *models.NodeResult, execCtx *models.ExecutionContext) (map[string]any, []string) {
	if !node.ContextConfig.Advanced() {
		return map[string]any{"output": result.Output}, nil
	}

	root := map[string]any{"currentNodeOutput": result.Output}
	extracted := make(map[string]any, len(node.ContextConfig.OutputMappings))
	var warnings []string
	for _, mapping := range node.ContextConfig.OutputMappings {
		value, err := evaluateAgainst(mapping.Source, root)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("output mapping %q: %v", mapping.Source, err))
			continue
		}
		if mapping.Transform != "" {
			value, err = expression.Apply(mapping.Transform, value)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("output mapping %q: %v", mapping.Source, err))
				continue
			}
		}
		extracted[mapping.Target] = value
		execCtx.SetVariable(mapping.Target, value)
	}
	return extracted, warnings
}

// VariableInfo describes one variable available to a node, for the
// editor-facing variable picker.
type VariableInfo struct {
	NodeID   string `json:"nodeId"`
	Path     string `json:"path"`
	Type     string `json:"type"`
	NodeName string `json:"nodeName,omitempty"`
	Value    any    `json:"value,omitempty"`
}

// AvailableVariables enumerates the context variables visible to a node:
// globals under node id "global", then the result variables of every
// completed node except excludeNodeID, in completion order.
func AvailableVariables(excludeNodeID string, execCtx *models.ExecutionContext) []VariableInfo {
	infos := make([]VariableInfo, 0, len(execCtx.Variables))

	for _, name := range sortedKeys(execCtx.Variables) {
		value := execCtx.Variables[name]
		infos = append(infos, VariableInfo{
			NodeID: "global",
			Path:   "{{" + name + "}}",
			Type:   jsonTypeName(value),
			Value:  value,
		})
	}

	for _, nodeID := range execCtx.CompletedNodes {
		if nodeID == excludeNodeID {
			continue
		}
		result := execCtx.NodeOutputs[nodeID]
		if result == nil {
			continue
		}
		for _, name := range sortedKeys(result.Variables) {
			value := result.Variables[name]
			infos = append(infos, VariableInfo{
				NodeID:   nodeID,
				NodeName: result.NodeName,
				Path:     "{{" + name + "}}",
				Type:     jsonTypeName(value),
				Value:    value,
			})
		}
	}

	return infos
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func jsonTypeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct, reflect.Pointer:
		return "object"
	default:
		return "string"
	}
}
