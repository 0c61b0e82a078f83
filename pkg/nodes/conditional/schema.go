package conditional

// Name returns the human-readable executor name.
func (e *Executor) Name() string {
	return "Conditional"
}

// Description returns what this executor does.
func (e *Executor) Description() string {
	return "Evaluates a JSONPath comparison or JavaScript expression against the execution context for workflow branching"
}

// Schema returns the JSON schema for conditional node configuration.
func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"conditionType": map[string]any{
				"type":        "string",
				"description": "How the condition is evaluated",
				"default":     ConditionTypeJSONPath,
				"enum":        []string{ConditionTypeJSONPath, ConditionTypeJavaScript},
			},
			"condition": map[string]any{
				"type":        "string",
				"description": "The condition expression. JSONPath conditions compare a context reference against a literal or another reference; JavaScript conditions must evaluate to a boolean",
				"examples": []string{
					"{{score}} >= 70",
					`$.nodeOutputs.fetch.output.status == 200`,
					"context.items.length > 0",
				},
			},
		},
		"required": []string{"condition"},
	}
}
