package httprequest

// Name returns the human readable executor name.
func (e *Executor) Name() string {
	return "HTTP Request"
}

// Description returns a short summary for the executor catalog.
func (e *Executor) Description() string {
	return "Performs an HTTP request with templated URL, headers and body, optional authentication and retry on server errors"
}

// Schema returns the JSON schema describing the node configuration.
func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "Request URL, may contain {{variable}} references",
				"examples":    []string{"https://api.example.com/users/{{userId}}"},
			},
			"method": map[string]any{
				"type":        "string",
				"description": "HTTP method",
				"enum":        []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
				"default":     "GET",
			},
			"headers": map[string]any{
				"type":        "object",
				"description": "Request headers, values may contain {{variable}} references",
				"additionalProperties": map[string]any{
					"type": "string",
				},
			},
			"body": map[string]any{
				"description": "Request body. Objects are sent as JSON; strings that parse as JSON are treated as JSON",
			},
			"auth": map[string]any{
				"type":        "object",
				"description": "Authentication applied to the request",
				"properties": map[string]any{
					"type": map[string]any{
						"type":    "string",
						"enum":    []string{AuthTypeNone, AuthTypeBasic, AuthTypeBearer, AuthTypeAPIKey},
						"default": AuthTypeNone,
					},
					"username":   map[string]any{"type": "string"},
					"password":   map[string]any{"type": "string"},
					"token":      map[string]any{"type": "string"},
					"apiKey":     map[string]any{"type": "string"},
					"headerName": map[string]any{"type": "string", "default": defaultAPIKeyName},
				},
			},
			"responseType": map[string]any{
				"type":        "string",
				"description": "How the response body is decoded",
				"enum":        []string{ResponseTypeJSON, ResponseTypeText, ResponseTypeBuffer},
				"default":     ResponseTypeJSON,
			},
			"timeoutMs": map[string]any{
				"type":        "integer",
				"description": "Request timeout in milliseconds",
				"default":     30000,
			},
			"retry": map[string]any{
				"type":        "object",
				"description": "Retry policy for responses with status 500 and above",
				"properties": map[string]any{
					"maxRetries": map[string]any{
						"type":        "integer",
						"description": "Number of retries after the initial attempt",
						"default":     0,
					},
					"retryDelayMs": map[string]any{
						"type":        "integer",
						"description": "Base delay between attempts in milliseconds",
						"default":     0,
					},
					"backoffMultiplier": map[string]any{
						"type":        "number",
						"description": "Multiplier applied to the delay after each retry",
						"default":     1,
					},
				},
			},
		},
		"required": []string{"url"},
	}
}
