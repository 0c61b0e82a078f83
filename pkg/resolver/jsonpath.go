package resolver

import (
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/enactflow/enact/pkg/models"
)

// EvaluateJSONPath resolves a reference against the execution context.
// A `{{name}}` reference reads the named context variable; anything else is
// parsed as a JSONPath and applied to the context root, so expressions like
// $.variables.user or $.nodeOutputs.fetch.output.items[*].name address live
// context state. Wildcard expressions return every match in document order;
// plain expressions return the first match. A reference that resolves to
// nothing is an error, never a silent nil.
func EvaluateJSONPath(expr string, execCtx *models.ExecutionContext) (any, error) {
	return evaluateAgainst(expr, execCtx.Root())
}

func evaluateAgainst(expr string, root map[string]any) (any, error) {
	expr = strings.TrimSpace(expr)

	if name, ok := variableReference(expr); ok {
		variables, _ := root["variables"].(map[string]any)
		value, found := variables[name]
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrVariableNotFound, name)
		}
		return value, nil
	}

	path, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath %q: %w", expr, err)
	}

	matches := path.Get(root)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoResults, expr)
	}
	if strings.Contains(expr, "[*]") {
		return matches, nil
	}
	return matches[0], nil
}

func variableReference(expr string) (string, bool) {
	if strings.HasPrefix(expr, "{{") && strings.HasSuffix(expr, "}}") && len(expr) > 4 {
		return strings.TrimSpace(expr[2 : len(expr)-2]), true
	}
	return "", false
}
