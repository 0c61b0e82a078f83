package resolver

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/enactflow/enact/pkg/models"
)

var templatePattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Substitute replaces every {{name}} occurrence with the stringified value
// of the named context variable. Unresolved references stay verbatim, so
// substitution never fails and is a no-op on brace-free text.
func Substitute(template string, execCtx *models.ExecutionContext) string {
	if !strings.Contains(template, "{{") {
		return template
	}
	return templatePattern.ReplaceAllStringFunc(template, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])
		value, ok := execCtx.Variables[name]
		if !ok {
			return match
		}
		return stringify(value)
	})
}

// SubstituteAny walks a decoded JSON value and substitutes templates in
// every string leaf, preserving the value's structure. Non-string scalars
// pass through untouched.
func SubstituteAny(value any, execCtx *models.ExecutionContext) any {
	switch v := value.(type) {
	case string:
		return Substitute(v, execCtx)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = SubstituteAny(item, execCtx)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = SubstituteAny(item, execCtx)
		}
		return out
	default:
		return value
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case map[string]any, []any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	default:
		return fmt.Sprintf("%v", v)
	}
}
