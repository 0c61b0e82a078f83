// Package expression evaluates single-parameter arrow transforms such as
// `(x) => x.toUpperCase()` used by context mappings. It is a restricted
// interpreter, not a JavaScript engine: the grammar covers the mapping
// parameter, property and index access, a fixed whitelist of methods,
// literals, arithmetic, comparisons and the conditional operator. No
// function definitions, no assignment, no access to anything beyond the
// single bound argument.
package expression

import "fmt"

// Expression is a parsed transform ready to apply.
type Expression struct {
	param string
	body  node
}

// Parse compiles a transform of the form `x => expr` or `(x) => expr`.
func Parse(source string) (*Expression, error) {
	tokens, err := lex(source)
	if err != nil {
		return nil, err
	}
	parser := &parser{tokens: tokens}
	expr, err := parser.parseTransform()
	if err != nil {
		return nil, err
	}
	return expr, nil
}

// Apply parses source and evaluates it with arg bound to the parameter.
func Apply(source string, arg any) (any, error) {
	expr, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return expr.Apply(arg)
}

// Apply evaluates the transform against one argument.
func (e *Expression) Apply(arg any) (any, error) {
	ev := &evaluator{param: e.param, arg: arg}
	return ev.eval(e.body)
}

// SyntaxError reports where parsing or evaluation of a transform failed.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("transform error at offset %d: %s", e.Pos, e.Msg)
}

func errAt(pos int, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
