package userinput

// Name returns the human readable executor name.
func (e *Executor) Name() string {
	return "User Input"
}

// Description returns a short summary for the executor catalog.
func (e *Executor) Description() string {
	return "Collects a validated value supplied by the surrounding application or falls back to a configured default"
}

// Schema returns the JSON schema describing the node configuration.
func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{
				"type":        "string",
				"description": "Question shown to the user",
				"examples":    []string{"Which environment should this deploy to?"},
			},
			"inputType": map[string]any{
				"type":        "string",
				"description": "Kind of value collected",
				"enum":        []string{InputTypeText, InputTypeTextarea, InputTypeNumber, InputTypeSelect},
				"default":     InputTypeText,
			},
			"defaultValue": map[string]any{
				"description": "Value used when no answer was supplied",
			},
			"required": map[string]any{
				"type":        "boolean",
				"description": "Fail when no value can be resolved",
				"default":     false,
			},
			"minLength": map[string]any{
				"type":        "integer",
				"description": "Minimum text length in characters",
			},
			"maxLength": map[string]any{
				"type":        "integer",
				"description": "Maximum text length in characters",
			},
			"pattern": map[string]any{
				"type":        "string",
				"description": "Regular expression the text must match",
			},
			"min": map[string]any{
				"type":        "number",
				"description": "Minimum numeric value",
			},
			"max": map[string]any{
				"type":        "number",
				"description": "Maximum numeric value",
			},
			"options": map[string]any{
				"type":        "array",
				"description": "Allowed values for select inputs",
				"items":       map[string]any{"type": "string"},
			},
		},
	}
}
