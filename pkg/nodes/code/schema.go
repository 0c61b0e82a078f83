package code

// Name returns the human readable executor name.
func (e *Executor) Name() string {
	return "Code Execution"
}

// Description returns a short summary for the executor catalog.
func (e *Executor) Description() string {
	return "Runs JavaScript in an embedded sandbox or Python in a subprocess, with security scanning of sandboxed code"
}

// Schema returns the JSON schema describing the node configuration.
func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"language": map[string]any{
				"type":        "string",
				"description": "Language the code is written in",
				"enum":        []string{LanguageJavaScript, LanguagePython},
				"default":     LanguageJavaScript,
			},
			"code": map[string]any{
				"type":        "string",
				"description": "Source to execute. JavaScript may return a value; Python communicates through stdout",
				"examples":    []string{"return context.count * 2"},
			},
			"sandbox": map[string]any{
				"type":        "boolean",
				"description": "Scan for dangerous patterns and restrict host access. Disabling this runs code with full host capabilities",
				"default":     true,
			},
			"timeoutMs": map[string]any{
				"type":        "integer",
				"description": "Execution time limit in milliseconds. Zero disables the limit",
			},
			"allowedModules": map[string]any{
				"type":        "array",
				"description": "Module names exempted from the security scan",
				"items":       map[string]any{"type": "string"},
			},
			"context": map[string]any{
				"type":        "object",
				"description": "Extra values merged into the injected context object",
			},
		},
		"required": []string{"code"},
	}
}
