package loop

// Name returns the human-readable executor name.
func (e *Executor) Name() string {
	return "Loop"
}

// Description returns what this executor does.
func (e *Executor) Description() string {
	return "Iterates with forEach, count or while semantics, bounded by a safety cap and tracked on the execution context's loop stack"
}

// Schema returns the JSON schema for loop node configuration.
func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"loopType": map[string]any{
				"type":        "string",
				"description": "Iteration strategy",
				"enum":        []string{LoopTypeForEach, LoopTypeCount, LoopTypeWhile},
			},
			"collection": map[string]any{
				"type":        "string",
				"description": "forEach only: context reference that must resolve to an array",
				"examples": []string{
					"$.variables.items",
					"$.nodeOutputs.fetch.output.data[*].id",
				},
			},
			"count": map[string]any{
				"type":        "number",
				"description": "count only: number of iterations, a strictly positive integer",
			},
			"whileCondition": map[string]any{
				"type":        "string",
				"description": "while only: condition re-evaluated before each iteration",
				"examples":    []string{"{{remaining}} > 0"},
			},
			"iteratorVariable": map[string]any{
				"type":        "string",
				"description": "Variable name receiving the current item (forEach) or 0-based index (count/while)",
				"default":     defaultIteratorVariable,
			},
			"indexVariable": map[string]any{
				"type":        "string",
				"description": "Optional variable name receiving the 0-based iteration index",
			},
			"maxIterations": map[string]any{
				"type":        "number",
				"description": "Hard stop for while loops regardless of condition state",
				"default":     DefaultMaxIterations,
			},
		},
		"required": []string{"loopType"},
	}
}
