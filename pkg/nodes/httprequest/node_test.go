package httprequest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enactflow/enact/pkg/models"
	"github.com/enactflow/enact/pkg/protocol"
)

func httpNode(config models.HTTPConfig) *models.Node {
	return &models.Node{
		ID:     "http-node",
		Name:   "HTTP Node",
		Type:   models.NodeTypeHTTP,
		Config: config,
	}
}

func TestExecuteParsesJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 7, "name": "Ada"}`))
	}))
	defer server.Close()

	executor := NewExecutor(nil)
	execCtx := models.NewExecutionContext("wf", "inst")

	result, err := executor.Execute(context.Background(), httpNode(models.HTTPConfig{URL: server.URL}), execCtx)
	require.NoError(t, err)
	require.Equal(t, models.NodeStatusSuccess, result.Status)

	assert.Equal(t, 200, result.Variables["status"])
	data, ok := result.Variables["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada", data["name"])

	output, ok := result.Output.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 200, output["status"])
	assert.Contains(t, output, "headers")
}

func TestExecuteRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	executor := NewExecutor(nil)
	execCtx := models.NewExecutionContext("wf", "inst")
	node := httpNode(models.HTTPConfig{
		URL:   server.URL,
		Retry: &models.RetryPolicy{MaxRetries: 2, RetryDelayMs: 1, BackoffMultiplier: 2},
	})

	result, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)
	assert.Equal(t, models.NodeStatusSuccess, result.Status)
	assert.Equal(t, int32(2), attempts.Load())
	assert.Equal(t, 200, result.Variables["status"])
}

func TestExecuteDoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "missing"}`))
	}))
	defer server.Close()

	executor := NewExecutor(nil)
	execCtx := models.NewExecutionContext("wf", "inst")
	node := httpNode(models.HTTPConfig{
		URL:   server.URL,
		Retry: &models.RetryPolicy{MaxRetries: 3, RetryDelayMs: 1},
	})

	result, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)
	assert.Equal(t, models.NodeStatusFailed, result.Status)
	assert.Equal(t, int32(1), attempts.Load())
	assert.Contains(t, result.Error, "404")
	assert.Equal(t, 404, result.Variables["status"])
}

func TestExecuteExhaustsRetryBudget(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	executor := NewExecutor(nil)
	execCtx := models.NewExecutionContext("wf", "inst")
	node := httpNode(models.HTTPConfig{
		URL:   server.URL,
		Retry: &models.RetryPolicy{MaxRetries: 2, RetryDelayMs: 1, BackoffMultiplier: 1.5},
	})

	result, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)
	assert.Equal(t, models.NodeStatusFailed, result.Status)
	assert.Equal(t, int32(3), attempts.Load())
	assert.Contains(t, result.Error, "503")
}

func TestExecuteNetworkErrorFailsImmediately(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	executor := NewExecutor(nil)
	execCtx := models.NewExecutionContext("wf", "inst")
	node := httpNode(models.HTTPConfig{
		URL:   url,
		Retry: &models.RetryPolicy{MaxRetries: 5, RetryDelayMs: 1},
	})

	start := time.Now()
	result, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)
	assert.Equal(t, models.NodeStatusFailed, result.Status)
	assert.Contains(t, result.Error, "HTTP request failed")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestExecuteTimesOutSlowServers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	executor := NewExecutor(nil)
	execCtx := models.NewExecutionContext("wf", "inst")
	node := httpNode(models.HTTPConfig{URL: server.URL, TimeoutMs: 20})

	result, err := executor.Execute(context.Background(), node, execCtx)
	require.NoError(t, err)
	assert.Equal(t, models.NodeStatusFailed, result.Status)
	assert.Contains(t, result.Error, "HTTP request failed")
}

func TestExecuteSubstitutesTemplates(t *testing.T) {
	var gotPath, gotHeader string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeader = r.Header.Get("X-Trace")
		payload, _ := io.ReadAll(r.Body)
		json.Unmarshal(payload, &gotBody)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	execCtx := models.NewExecutionContext("wf", "inst")
	execCtx.SetVariable("userId", 42)
	execCtx.SetVariable("traceId", "abc-123")
	execCtx.SetVariable("name", "Ada")

	node := httpNode(models.HTTPConfig{
		URL:     server.URL + "/users/{{userId}}",
		Method:  "post",
		Headers: map[string]string{"X-Trace": "{{traceId}}"},
		Body:    `{"user": "{{name}}"}`,
	})

	result, err := NewExecutor(nil).Execute(context.Background(), node, execCtx)
	require.NoError(t, err)
	require.Equal(t, models.NodeStatusSuccess, result.Status)

	assert.Equal(t, "/users/42", gotPath)
	assert.Equal(t, "abc-123", gotHeader)
	assert.Equal(t, "Ada", gotBody["user"])
}

func TestExecuteSendsStructuredBody(t *testing.T) {
	var gotContentType string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		payload, _ := io.ReadAll(r.Body)
		json.Unmarshal(payload, &gotBody)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	execCtx := models.NewExecutionContext("wf", "inst")
	node := httpNode(models.HTTPConfig{
		URL:    server.URL,
		Method: "POST",
		Body:   map[string]any{"count": 3, "tags": []any{"a", "b"}},
	})

	result, err := NewExecutor(nil).Execute(context.Background(), node, execCtx)
	require.NoError(t, err)
	require.Equal(t, models.NodeStatusSuccess, result.Status)

	assert.Equal(t, "application/json", gotContentType)
	assert.EqualValues(t, 3, gotBody["count"])
}

func TestExecuteAuthHeaders(t *testing.T) {
	tests := []struct {
		name   string
		auth   *models.AuthConfig
		header string
		want   string
	}{
		{
			name:   "bearer token",
			auth:   &models.AuthConfig{Type: AuthTypeBearer, Token: "tok-{{suffix}}"},
			header: "Authorization",
			want:   "Bearer tok-99",
		},
		{
			name:   "basic credentials",
			auth:   &models.AuthConfig{Type: AuthTypeBasic, Username: "ada", Password: "secret"},
			header: "Authorization",
			// base64("ada:secret")
			want: "Basic YWRhOnNlY3JldA==",
		},
		{
			name:   "api key default header",
			auth:   &models.AuthConfig{Type: AuthTypeAPIKey, APIKey: "k-1"},
			header: "X-API-Key",
			want:   "k-1",
		},
		{
			name:   "api key custom header",
			auth:   &models.AuthConfig{Type: AuthTypeAPIKey, APIKey: "k-2", HeaderName: "X-Custom-Key"},
			header: "X-Custom-Key",
			want:   "k-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get(tt.header)
				w.Write([]byte(`{}`))
			}))
			defer server.Close()

			execCtx := models.NewExecutionContext("wf", "inst")
			execCtx.SetVariable("suffix", 99)
			node := httpNode(models.HTTPConfig{URL: server.URL, Auth: tt.auth})

			result, err := NewExecutor(nil).Execute(context.Background(), node, execCtx)
			require.NoError(t, err)
			require.Equal(t, models.NodeStatusSuccess, result.Status)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecuteUnsupportedAuthType(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")
	node := httpNode(models.HTTPConfig{
		URL:  "http://localhost:1",
		Auth: &models.AuthConfig{Type: "jwt"},
	})

	result, err := NewExecutor(nil).Execute(context.Background(), node, execCtx)
	require.NoError(t, err)
	assert.Equal(t, models.NodeStatusFailed, result.Status)
	assert.Equal(t, "Unsupported auth type: jwt", result.Error)
}

func TestExecuteResponseTypeText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"keep": "raw"}`))
	}))
	defer server.Close()

	execCtx := models.NewExecutionContext("wf", "inst")
	node := httpNode(models.HTTPConfig{URL: server.URL, ResponseType: ResponseTypeText})

	result, err := NewExecutor(nil).Execute(context.Background(), node, execCtx)
	require.NoError(t, err)
	require.Equal(t, models.NodeStatusSuccess, result.Status)
	assert.Equal(t, `{"keep": "raw"}`, result.Variables["data"])
}

func TestExecuteRequiresURL(t *testing.T) {
	execCtx := models.NewExecutionContext("wf", "inst")

	result, err := NewExecutor(nil).Execute(context.Background(), httpNode(models.HTTPConfig{}), execCtx)
	require.NoError(t, err)
	assert.Equal(t, models.NodeStatusFailed, result.Status)
	assert.Equal(t, "URL is required", result.Error)
}

func TestExecuteRejectsWrongNodeType(t *testing.T) {
	node := &models.Node{
		ID:     "not-http",
		Name:   "Not HTTP",
		Type:   models.NodeTypeConditional,
		Config: models.ConditionalConfig{Condition: "$.variables.x == 1"},
	}
	execCtx := models.NewExecutionContext("wf", "inst")

	result, err := NewExecutor(nil).Execute(context.Background(), node, execCtx)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, protocol.ErrInvalidNodeType)
	assert.Contains(t, err.Error(), "HTTPRequestExecutor received invalid node type")
}
