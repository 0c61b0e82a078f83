package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/enactflow/enact/pkg/models"
)

// Comparison operators, ordered so that longer operators win over their
// prefixes (>= before >, === before ==).
var comparisonOperators = []string{">=", "<=", "===", "==", "!=", ">", "<"}

// EvaluateCondition evaluates a binary comparison of the form
// `<left> <op> <right>`. The left side is a context reference; the right
// side is a literal (number, quoted string, true/false/null) or another
// reference. Numeric comparison coerces string operands that parse as
// numbers. The returned boolean is always safe to branch on: any resolution
// failure yields (false, err) and callers decide whether the error matters.
func EvaluateCondition(condition string, execCtx *models.ExecutionContext) (bool, error) {
	op, idx := findOperator(condition)
	if idx < 0 {
		return false, fmt.Errorf("no comparison operator in condition %q", condition)
	}

	leftExpr := strings.TrimSpace(condition[:idx])
	rightExpr := strings.TrimSpace(condition[idx+len(op):])
	if leftExpr == "" || rightExpr == "" {
		return false, fmt.Errorf("malformed condition %q", condition)
	}

	left, err := EvaluateJSONPath(leftExpr, execCtx)
	if err != nil {
		return false, err
	}

	right, err := resolveOperand(rightExpr, execCtx)
	if err != nil {
		return false, err
	}

	return compare(left, op, right), nil
}

func findOperator(condition string) (string, int) {
	for i := 0; i < len(condition); i++ {
		for _, op := range comparisonOperators {
			if strings.HasPrefix(condition[i:], op) {
				return op, i
			}
		}
	}
	return "", -1
}

func resolveOperand(expr string, execCtx *models.ExecutionContext) (any, error) {
	if strings.HasPrefix(expr, "{{") || strings.HasPrefix(expr, "$") {
		return EvaluateJSONPath(expr, execCtx)
	}

	switch expr {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}

	if len(expr) >= 2 {
		if (expr[0] == '"' && expr[len(expr)-1] == '"') || (expr[0] == '\'' && expr[len(expr)-1] == '\'') {
			return expr[1 : len(expr)-1], nil
		}
	}

	if number, err := strconv.ParseFloat(expr, 64); err == nil {
		return number, nil
	}

	// Bare words compare as string literals.
	return expr, nil
}

func compare(left any, op string, right any) bool {
	switch op {
	case "==":
		return looseEqual(left, right)
	case "!=":
		return !looseEqual(left, right)
	case "===":
		return strictEqual(left, right)
	default:
		return orderedCompare(left, op, right)
	}
}

func looseEqual(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	if ln, lok := coerceNumber(left); lok {
		if rn, rok := coerceNumber(right); rok {
			return ln == rn
		}
	}
	return fmt.Sprint(left) == fmt.Sprint(right)
}

func strictEqual(left, right any) bool {
	switch l := left.(type) {
	case nil:
		return right == nil
	case bool:
		r, ok := right.(bool)
		return ok && l == r
	case string:
		r, ok := right.(string)
		return ok && l == r
	default:
		ln, lok := numericValue(left)
		rn, rok := numericValue(right)
		return lok && rok && ln == rn
	}
}

func orderedCompare(left any, op string, right any) bool {
	ln, lok := coerceNumber(left)
	rn, rok := coerceNumber(right)
	if lok && rok {
		switch op {
		case ">":
			return ln > rn
		case ">=":
			return ln >= rn
		case "<":
			return ln < rn
		case "<=":
			return ln <= rn
		}
		return false
	}

	ls, lok2 := left.(string)
	rs, rok2 := right.(string)
	if lok2 && rok2 {
		switch op {
		case ">":
			return ls > rs
		case ">=":
			return ls >= rs
		case "<":
			return ls < rs
		case "<=":
			return ls <= rs
		}
	}
	return false
}

// numericValue unwraps Go numeric kinds without coercing strings.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// coerceNumber additionally accepts strings that parse as numbers.
func coerceNumber(v any) (float64, bool) {
	if n, ok := numericValue(v); ok {
		return n, true
	}
	if s, ok := v.(string); ok {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
