package fileop

// Name returns the human readable executor name.
func (e *Executor) Name() string {
	return "File Operation"
}

// Description returns a short summary for the executor catalog.
func (e *Executor) Description() string {
	return "Reads, writes, copies, moves, deletes or checks files inside the project folder"
}

// Schema returns the JSON schema describing the node configuration.
func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type":        "string",
				"description": "Filesystem operation to perform",
				"enum": []string{
					OperationRead, OperationWrite, OperationCopy,
					OperationMove, OperationDelete, OperationExists,
				},
			},
			"sourcePath": map[string]any{
				"type":        "string",
				"description": "Path to read from, may contain {{variable}} references",
				"examples":    []string{"data/{{fileName}}.json"},
			},
			"targetPath": map[string]any{
				"type":        "string",
				"description": "Path to write to, may contain {{variable}} references",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Content for write operations. Falls back to the context variable 'content' when empty",
			},
			"encoding": map[string]any{
				"type":        "string",
				"description": "Content encoding. Binary content travels as base64",
				"enum":        []string{EncodingUTF8, EncodingBinary},
				"default":     EncodingUTF8,
			},
			"overwrite": map[string]any{
				"type":        "boolean",
				"description": "Allow write to replace an existing file",
				"default":     false,
			},
			"requireProjectFolder": map[string]any{
				"type":        "boolean",
				"description": "Confine all paths to the execution context's project folder",
				"default":     true,
			},
		},
		"required": []string{"operation"},
	}
}
