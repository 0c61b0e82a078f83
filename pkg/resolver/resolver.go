// Package resolver resolves workflow context references: JSONPath and
// {{variable}} lookups, binary condition expressions, template substitution,
// and the simple/advanced context mapping modes that feed node executors.
package resolver

import (
	"errors"
	"strings"
)

var (
	// ErrNoResults marks a JSONPath expression that matched nothing.
	ErrNoResults = errors.New("no results found")

	// ErrVariableNotFound marks a {{name}} reference with no such variable.
	ErrVariableNotFound = errors.New("variable not found")
)

// MissingVariablesError aborts advanced-mode context building when any input
// mapping fails to resolve. Missing lists every failed mapping source;
// transform failures are folded in alongside genuinely absent variables.
type MissingVariablesError struct {
	Missing []string
}

func (e *MissingVariablesError) Error() string {
	return "Missing variables: " + strings.Join(e.Missing, ", ")
}
