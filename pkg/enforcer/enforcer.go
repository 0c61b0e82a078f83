// Package enforcer scans user-supplied code for dangerous patterns before
// sandboxed execution. The pattern table is fixed at build time; the only
// per-node override is the allowed-modules whitelist, and dynamic-evaluation
// patterns are never exemptable.
package enforcer

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern pairs a detection regex with a human-readable description.
// Module names the module a match refers to; a non-empty Module makes the
// pattern exemptable by whitelisting that module on the node.
type Pattern struct {
	Regex       *regexp.Regexp
	Description string
	Module      string
}

var patterns = []Pattern{
	{regexp.MustCompile(`require\s*\(\s*['"]child_process['"]\s*\)`), "child_process module require", "child_process"},
	{regexp.MustCompile(`import\s+[^;\n]*['"]child_process['"]`), "child_process module import", "child_process"},
	{regexp.MustCompile(`require\s*\(\s*['"]fs['"]\s*\)`), "fs module require", "fs"},
	{regexp.MustCompile(`require\s*\(\s*['"]net['"]\s*\)`), "net module require", "net"},
	{regexp.MustCompile(`\beval\s*\(`), "dynamic code evaluation via eval", ""},
	{regexp.MustCompile(`new\s+Function\s*\(`), "dynamic code evaluation via Function constructor", ""},
	{regexp.MustCompile(`\bprocess\.exit\b`), "process termination", ""},
	{regexp.MustCompile(`\bimport\s+os\b`), "os module import", "os"},
	{regexp.MustCompile(`\bfrom\s+os\s+import\b`), "os module import", "os"},
	{regexp.MustCompile(`\bimport\s+subprocess\b`), "subprocess module import", "subprocess"},
	{regexp.MustCompile(`\bfrom\s+subprocess\s+import\b`), "subprocess module import", "subprocess"},
	{regexp.MustCompile(`\bimport\s+sys\b`), "sys module import", "sys"},
	{regexp.MustCompile(`__import__\s*\(`), "dynamic module import", ""},
	{regexp.MustCompile(`\bexec\s*\(`), "dynamic code execution via exec", ""},
}

// Patterns returns the active pattern table.
func Patterns() []Pattern {
	out := make([]Pattern, len(patterns))
	copy(out, patterns)
	return out
}

// Scan checks code against the pattern table. A match fails with an error
// naming the offending pattern unless the pattern's module is whitelisted
// in allowedModules. Patterns without a module name cannot be whitelisted.
func Scan(code string, allowedModules []string) error {
	allowed := make(map[string]bool, len(allowedModules))
	for _, module := range allowedModules {
		allowed[strings.TrimSpace(module)] = true
	}

	for _, pattern := range patterns {
		if !pattern.Regex.MatchString(code) {
			continue
		}
		if pattern.Module != "" && allowed[pattern.Module] {
			continue
		}
		return fmt.Errorf("Code contains dangerous pattern: %s", pattern.Description)
	}
	return nil
}
