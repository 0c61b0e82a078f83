// Package httprequest provides the HTTP request node executor. It issues a
// single request with variable-substituted URL, headers, body and auth, and
// retries server-side failures with exponential backoff.
package httprequest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/enactflow/enact/pkg/models"
	"github.com/enactflow/enact/pkg/protocol"
	"github.com/enactflow/enact/pkg/resolver"
)

const executorName = "HTTPRequestExecutor"

const (
	defaultTimeout    = 30 * time.Second
	defaultAPIKeyName = "X-API-Key"
	maxErrorBodyBytes = 256
)

const (
	AuthTypeNone   = "none"
	AuthTypeBasic  = "basic"
	AuthTypeBearer = "bearer"
	AuthTypeAPIKey = "api-key"
)

const (
	ResponseTypeJSON   = "json"
	ResponseTypeText   = "text"
	ResponseTypeBuffer = "buffer"
)

// Executor performs HTTP request nodes.
type Executor struct {
	client *http.Client
}

// NewExecutor creates an HTTP request executor. A nil client gets a default
// one with a 30 second timeout.
func NewExecutor(client *http.Client) *Executor {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Executor{client: client}
}

// Type returns the node type this executor accepts.
func (e *Executor) Type() models.NodeType {
	return models.NodeTypeHTTP
}

// Execute issues the request. Responses with status >= 500 are retried up
// to the configured budget; 4xx responses and network errors fail
// immediately. The status code and decoded body are always exposed in the
// result variables, success or not.
func (e *Executor) Execute(ctx context.Context, node *models.Node, execCtx *models.ExecutionContext) (*models.NodeResult, error) {
	config, ok := node.Config.(models.HTTPConfig)
	if !ok || node.Type != models.NodeTypeHTTP {
		return nil, protocol.InvalidNodeTypeError(executorName)
	}

	if config.URL == "" {
		return models.NewFailedResult(node, "URL is required"), nil
	}

	request, failure := e.prepareRequest(config, execCtx)
	if failure != "" {
		return models.NewFailedResult(node, failure), nil
	}

	retry := retryPolicy(config)
	var resp *response
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			delay := float64(retry.RetryDelayMs) * math.Pow(retry.BackoffMultiplier, float64(attempt-1))
			select {
			case <-time.After(time.Duration(delay) * time.Millisecond):
			case <-ctx.Done():
				return models.NewFailedResult(node, fmt.Sprintf("HTTP request failed: %v", ctx.Err())), nil
			}
		}

		var err error
		resp, err = e.perform(ctx, config, request)
		if err != nil {
			// Network-level failures never retry; the underlying
			// error surfaces verbatim.
			return models.NewFailedResult(node, fmt.Sprintf("HTTP request failed: %v", err)), nil
		}

		if resp.status < 500 || attempt >= retry.MaxRetries {
			break
		}
	}

	data := decodeBody(resp.body, config.ResponseType)
	output := map[string]any{
		"status":  resp.status,
		"headers": flattenHeaders(resp.headers),
		"data":    data,
	}
	variables := map[string]any{
		"status": resp.status,
		"data":   data,
	}

	if resp.status >= 400 {
		message := fmt.Sprintf("HTTP request failed with status %d", resp.status)
		if snippet := errorSnippet(resp.body); snippet != "" {
			message += ": " + snippet
		}
		result := models.NewFailedResult(node, message)
		result.Output = output
		result.Variables = variables
		return result, nil
	}

	return models.NewSuccessResult(node, output, variables), nil
}

// preparedRequest carries the substituted request parts; building it cannot
// touch the network.
type preparedRequest struct {
	method  string
	url     string
	headers map[string]string
	body    []byte
}

func (e *Executor) prepareRequest(config models.HTTPConfig, execCtx *models.ExecutionContext) (*preparedRequest, string) {
	request := &preparedRequest{
		method:  strings.ToUpper(config.Method),
		url:     resolver.Substitute(config.URL, execCtx),
		headers: make(map[string]string, len(config.Headers)+1),
	}
	if request.method == "" {
		request.method = http.MethodGet
	}

	for name, value := range config.Headers {
		request.headers[name] = resolver.Substitute(value, execCtx)
	}

	body, failure := encodeBody(config.Body, execCtx)
	if failure != "" {
		return nil, failure
	}
	request.body = body

	if failure := applyAuth(request, config.Auth, execCtx); failure != "" {
		return nil, failure
	}

	return request, ""
}

// encodeBody substitutes templates through the body. String bodies that
// parse as JSON are parsed first so substitution reaches every string leaf.
func encodeBody(body any, execCtx *models.ExecutionContext) ([]byte, string) {
	switch b := body.(type) {
	case nil:
		return nil, ""
	case string:
		if b == "" {
			return nil, ""
		}
		var parsed any
		if err := json.Unmarshal([]byte(b), &parsed); err == nil {
			substituted := resolver.SubstituteAny(parsed, execCtx)
			encoded, err := json.Marshal(substituted)
			if err != nil {
				return nil, fmt.Sprintf("Failed to encode request body: %v", err)
			}
			return encoded, ""
		}
		return []byte(resolver.Substitute(b, execCtx)), ""
	default:
		substituted := resolver.SubstituteAny(body, execCtx)
		encoded, err := json.Marshal(substituted)
		if err != nil {
			return nil, fmt.Sprintf("Failed to encode request body: %v", err)
		}
		return encoded, ""
	}
}

func applyAuth(request *preparedRequest, auth *models.AuthConfig, execCtx *models.ExecutionContext) string {
	if auth == nil {
		return ""
	}
	switch auth.Type {
	case "", AuthTypeNone:
		return ""
	case AuthTypeBasic:
		username := resolver.Substitute(auth.Username, execCtx)
		password := resolver.Substitute(auth.Password, execCtx)
		credentials := basicAuth(username, password)
		request.headers["Authorization"] = "Basic " + credentials
		return ""
	case AuthTypeBearer:
		token := resolver.Substitute(auth.Token, execCtx)
		request.headers["Authorization"] = "Bearer " + token
		return ""
	case AuthTypeAPIKey:
		name := auth.HeaderName
		if name == "" {
			name = defaultAPIKeyName
		}
		request.headers[name] = resolver.Substitute(auth.APIKey, execCtx)
		return ""
	default:
		return fmt.Sprintf("Unsupported auth type: %s", auth.Type)
	}
}

type response struct {
	status  int
	headers http.Header
	body    []byte
}

// perform executes a single attempt. Any received status is a response;
// only transport failures return an error.
func (e *Executor) perform(ctx context.Context, config models.HTTPConfig, request *preparedRequest) (*response, error) {
	if config.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(config.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	var reqBody io.Reader
	if len(request.body) > 0 {
		reqBody = bytes.NewReader(request.body)
	}

	req, err := http.NewRequestWithContext(ctx, request.method, request.url, reqBody)
	if err != nil {
		return nil, err
	}
	for name, value := range request.headers {
		req.Header.Set(name, value)
	}
	if len(request.body) > 0 && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &response{status: resp.StatusCode, headers: resp.Header, body: body}, nil
}

func retryPolicy(config models.HTTPConfig) models.RetryPolicy {
	policy := models.RetryPolicy{BackoffMultiplier: 1}
	if config.Retry != nil {
		policy = *config.Retry
	}
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	if policy.RetryDelayMs < 0 {
		policy.RetryDelayMs = 0
	}
	if policy.BackoffMultiplier < 1 {
		policy.BackoffMultiplier = 1
	}
	return policy
}

func decodeBody(body []byte, responseType string) any {
	switch responseType {
	case ResponseTypeText:
		return string(body)
	case ResponseTypeBuffer:
		return body
	default:
		var parsed any
		if err := json.Unmarshal(body, &parsed); err == nil {
			return parsed
		}
		return string(body)
	}
}

func flattenHeaders(headers http.Header) map[string]any {
	out := make(map[string]any, len(headers))
	for name, values := range headers {
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func errorSnippet(body []byte) string {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > maxErrorBodyBytes {
		snippet = snippet[:maxErrorBodyBytes]
	}
	return snippet
}

func basicAuth(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}
