package expression

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

type evaluator struct {
	param string
	arg   any
}

func (ev *evaluator) eval(n node) (any, error) {
	switch n := n.(type) {
	case *literalNode:
		return n.value, nil
	case *identNode:
		if n.name == ev.param {
			return ev.arg, nil
		}
		return nil, errAt(n.at, "unknown identifier %q", n.name)
	case *propertyNode:
		return ev.evalProperty(n)
	case *indexNode:
		return ev.evalIndex(n)
	case *callNode:
		return ev.evalCall(n)
	case *unaryNode:
		return ev.evalUnary(n)
	case *binaryNode:
		return ev.evalBinary(n)
	case *ternaryNode:
		cond, err := ev.eval(n.cond)
		if err != nil {
			return nil, err
		}
		if truthy(cond) {
			return ev.eval(n.then)
		}
		return ev.eval(n.otherwise)
	}
	return nil, errAt(n.pos(), "unsupported expression")
}

func (ev *evaluator) evalProperty(n *propertyNode) (any, error) {
	target, err := ev.eval(n.target)
	if err != nil {
		return nil, err
	}

	if n.name == "length" {
		switch t := target.(type) {
		case string:
			return utf8.RuneCountInString(t), nil
		case []any:
			return len(t), nil
		case map[string]any:
			return len(t), nil
		}
		return nil, errAt(n.at, "length is not defined on this value")
	}

	if m, ok := target.(map[string]any); ok {
		return m[n.name], nil
	}
	return nil, errAt(n.at, "property %q is not accessible on this value", n.name)
}

func (ev *evaluator) evalIndex(n *indexNode) (any, error) {
	target, err := ev.eval(n.target)
	if err != nil {
		return nil, err
	}
	index, err := ev.eval(n.index)
	if err != nil {
		return nil, err
	}

	switch t := target.(type) {
	case []any:
		i, ok := asInt(index)
		if !ok {
			return nil, errAt(n.at, "array index must be a number")
		}
		if i < 0 || i >= len(t) {
			return nil, nil
		}
		return t[i], nil
	case map[string]any:
		key, ok := index.(string)
		if !ok {
			return nil, errAt(n.at, "object index must be a string")
		}
		return t[key], nil
	}
	return nil, errAt(n.at, "value is not indexable")
}

func (ev *evaluator) evalCall(n *callNode) (any, error) {
	target, err := ev.eval(n.target)
	if err != nil {
		return nil, err
	}

	args := make([]any, len(n.args))
	for i, arg := range n.args {
		value, err := ev.eval(arg)
		if err != nil {
			return nil, err
		}
		args[i] = value
	}

	switch n.method {
	case "toUpperCase":
		s, err := stringReceiver(n, target)
		if err != nil {
			return nil, err
		}
		return strings.ToUpper(s), nil
	case "toLowerCase":
		s, err := stringReceiver(n, target)
		if err != nil {
			return nil, err
		}
		return strings.ToLower(s), nil
	case "trim":
		s, err := stringReceiver(n, target)
		if err != nil {
			return nil, err
		}
		return strings.TrimSpace(s), nil
	case "toString":
		return jsString(target), nil
	case "toFixed":
		number, ok := asNumber(target)
		if !ok {
			return nil, errAt(n.at, "toFixed requires a number receiver")
		}
		digits := 0
		if len(args) > 0 {
			d, ok := asInt(args[0])
			if !ok {
				return nil, errAt(n.at, "toFixed digits must be a number")
			}
			digits = d
		}
		return strconv.FormatFloat(number, 'f', digits, 64), nil
	case "split":
		s, err := stringReceiver(n, target)
		if err != nil {
			return nil, err
		}
		if len(args) != 1 {
			return nil, errAt(n.at, "split requires a separator")
		}
		sep, ok := args[0].(string)
		if !ok {
			return nil, errAt(n.at, "split separator must be a string")
		}
		parts := strings.Split(s, sep)
		out := make([]any, len(parts))
		for i, part := range parts {
			out[i] = part
		}
		return out, nil
	case "join":
		items, ok := target.([]any)
		if !ok {
			return nil, errAt(n.at, "join requires an array receiver")
		}
		sep := ","
		if len(args) > 0 {
			s, ok := args[0].(string)
			if !ok {
				return nil, errAt(n.at, "join separator must be a string")
			}
			sep = s
		}
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = jsString(item)
		}
		return strings.Join(parts, sep), nil
	case "slice":
		return evalSlice(n, target, args)
	case "includes":
		if len(args) != 1 {
			return nil, errAt(n.at, "includes requires one argument")
		}
		switch t := target.(type) {
		case string:
			needle, ok := args[0].(string)
			if !ok {
				return nil, errAt(n.at, "includes argument must be a string")
			}
			return strings.Contains(t, needle), nil
		case []any:
			for _, item := range t {
				if jsStrictEqual(item, args[0]) {
					return true, nil
				}
			}
			return false, nil
		}
		return nil, errAt(n.at, "includes requires a string or array receiver")
	}
	return nil, errAt(n.at, "method %q is not allowed in transforms", n.method)
}

func evalSlice(n *callNode, target any, args []any) (any, error) {
	bound := func(length int) (int, int, error) {
		start, end := 0, length
		if len(args) > 0 {
			i, ok := asInt(args[0])
			if !ok {
				return 0, 0, errAt(n.at, "slice start must be a number")
			}
			start = clampIndex(i, length)
		}
		if len(args) > 1 {
			i, ok := asInt(args[1])
			if !ok {
				return 0, 0, errAt(n.at, "slice end must be a number")
			}
			end = clampIndex(i, length)
		}
		if end < start {
			end = start
		}
		return start, end, nil
	}

	switch t := target.(type) {
	case string:
		runes := []rune(t)
		start, end, err := bound(len(runes))
		if err != nil {
			return nil, err
		}
		return string(runes[start:end]), nil
	case []any:
		start, end, err := bound(len(t))
		if err != nil {
			return nil, err
		}
		out := make([]any, end-start)
		copy(out, t[start:end])
		return out, nil
	}
	return nil, errAt(n.at, "slice requires a string or array receiver")
}

func clampIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

func (ev *evaluator) evalUnary(n *unaryNode) (any, error) {
	operand, err := ev.eval(n.operand)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case "!":
		return !truthy(operand), nil
	case "-":
		number, ok := asNumber(operand)
		if !ok {
			return nil, errAt(n.at, "unary minus requires a number")
		}
		return -number, nil
	}
	return nil, errAt(n.at, "unsupported operator %q", n.op)
}

func (ev *evaluator) evalBinary(n *binaryNode) (any, error) {
	left, err := ev.eval(n.left)
	if err != nil {
		return nil, err
	}
	right, err := ev.eval(n.right)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "+":
		if ls, ok := left.(string); ok {
			return ls + jsString(right), nil
		}
		if rs, ok := right.(string); ok {
			return jsString(left) + rs, nil
		}
		ln, lok := asNumber(left)
		rn, rok := asNumber(right)
		if lok && rok {
			return ln + rn, nil
		}
		return jsString(left) + jsString(right), nil
	case "-", "*", "/":
		ln, lok := asNumber(left)
		rn, rok := asNumber(right)
		if !lok || !rok {
			return nil, errAt(n.at, "operator %q requires numeric operands", n.op)
		}
		switch n.op {
		case "-":
			return ln - rn, nil
		case "*":
			return ln * rn, nil
		default:
			return ln / rn, nil
		}
	case "==":
		return jsLooseEqual(left, right), nil
	case "!=":
		return !jsLooseEqual(left, right), nil
	case "===":
		return jsStrictEqual(left, right), nil
	case "!==":
		return !jsStrictEqual(left, right), nil
	case ">", ">=", "<", "<=":
		return jsOrdered(left, n.op, right), nil
	}
	return nil, errAt(n.at, "unsupported operator %q", n.op)
}

func stringReceiver(n *callNode, target any) (string, error) {
	s, ok := target.(string)
	if !ok {
		return "", errAt(n.at, "%s requires a string receiver", n.method)
	}
	return s, nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		if n, ok := asNumber(v); ok {
			return n != 0 && !math.IsNaN(n)
		}
		return true
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func asInt(v any) (int, bool) {
	n, ok := asNumber(v)
	if !ok {
		return 0, false
	}
	return int(n), true
}

func jsString(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = jsString(item)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	default:
		if n, ok := asNumber(v); ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
		return ""
	}
}

func jsStrictEqual(left, right any) bool {
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
		if _, isString := right.(string); isString {
			return false
		}
		ln, lok := numericKind(left)
		rn, rok := numericKind(right)
		return lok && rok && ln == rn
	}
}

func jsLooseEqual(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	ln, lok := asNumber(left)
	rn, rok := asNumber(right)
	if lok && rok {
		return ln == rn
	}
	return jsString(left) == jsString(right)
}

func jsOrdered(left any, op string, right any) bool {
	ls, lok := left.(string)
	rs, rok := right.(string)
	if lok && rok {
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
		return false
	}

	ln, lnum := asNumber(left)
	rn, rnum := asNumber(right)
	if !lnum || !rnum {
		return false
	}
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

func numericKind(v any) (float64, bool) {
	switch v.(type) {
	case string, bool, nil:
		return 0, false
	default:
		return asNumber(v)
	}
}
