package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enactflow/enact/pkg/models"
)

func TestEventTypes(t *testing.T) {
	assert.Equal(t, NodeExecutionStartedEvent, NodeExecutionStarted{}.GetType())
	assert.Equal(t, NodeExecutionFinishedEvent, NodeExecutionFinished{}.GetType())
	assert.Equal(t, NodeExecutionFailedEvent, NodeExecutionFailed{}.GetType())
}

func TestNewBaseEvent(t *testing.T) {
	event := NewBaseEvent(NodeExecutionStartedEvent, "wf-123")

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, NodeExecutionStartedEvent, event.Type)
	assert.Equal(t, "wf-123", event.WorkflowID)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, time.Minute)
	assert.NotNil(t, event.Metadata)

	other := NewBaseEvent(NodeExecutionStartedEvent, "wf-123")
	assert.NotEqual(t, event.ID, other.ID)
}

func TestNodeExecutionStartedSerialization(t *testing.T) {
	original := &NodeExecutionStarted{
		BaseEvent:  NewBaseEvent(NodeExecutionStartedEvent, "wf-123"),
		InstanceID: "inst-456",
		NodeID:     "fetch-user",
		NodeName:   "Fetch User",
		NodeType:   models.NodeTypeHTTP,
	}

	jsonData, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"type":"node.execution.started"`)
	assert.Contains(t, string(jsonData), `"instance_id":"inst-456"`)
	assert.Contains(t, string(jsonData), `"node_type":"http"`)

	var decoded NodeExecutionStarted
	require.NoError(t, json.Unmarshal(jsonData, &decoded))
	assert.Equal(t, original.NodeID, decoded.NodeID)
	assert.Equal(t, original.NodeType, decoded.NodeType)
}

func TestNodeExecutionFailedSerialization(t *testing.T) {
	original := &NodeExecutionFailed{
		BaseEvent:  NewBaseEvent(NodeExecutionFailedEvent, "wf-123"),
		InstanceID: "inst-456",
		NodeID:     "fetch-user",
		Error:      "HTTP request failed with status 502",
		Duration:   1500 * time.Millisecond,
	}

	jsonData, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"error":"HTTP request failed with status 502"`)

	var decoded NodeExecutionFailed
	require.NoError(t, json.Unmarshal(jsonData, &decoded))
	assert.Equal(t, original.Error, decoded.Error)
	assert.Equal(t, original.Duration, decoded.Duration)
}
