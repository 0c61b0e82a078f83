// Package events defines the lifecycle notifications emitted around node
// executions.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/enactflow/enact/pkg/models"
)

type EventType string

// Topic carries every execution lifecycle event.
const Topic = "enact.executions"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	NodeExecutionStartedEvent  EventType = "node.execution.started"
	NodeExecutionFinishedEvent EventType = "node.execution.finished"
	NodeExecutionFailedEvent   EventType = "node.execution.failed"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id"`
	WorkerID   string         `json:"worker_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NodeExecutionStarted marks the moment an executor takes over a node.
type NodeExecutionStarted struct {
	BaseEvent

	InstanceID string          `json:"instance_id"`
	NodeID     string          `json:"node_id"`
	NodeName   string          `json:"node_name"`
	NodeType   models.NodeType `json:"node_type"`
}

func (n NodeExecutionStarted) GetType() EventType {
	return NodeExecutionStartedEvent
}

// NodeExecutionFinished reports a node that produced a success result.
type NodeExecutionFinished struct {
	BaseEvent

	InstanceID string         `json:"instance_id"`
	NodeID     string         `json:"node_id"`
	Variables  map[string]any `json:"variables,omitempty"`
	Duration   time.Duration  `json:"duration"`
}

func (n NodeExecutionFinished) GetType() EventType {
	return NodeExecutionFinishedEvent
}

// NodeExecutionFailed reports a node that produced a failed result.
type NodeExecutionFailed struct {
	BaseEvent

	InstanceID string        `json:"instance_id"`
	NodeID     string        `json:"node_id"`
	Error      string        `json:"error"`
	Duration   time.Duration `json:"duration"`
}

func (n NodeExecutionFailed) GetType() EventType {
	return NodeExecutionFailedEvent
}

func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
		Metadata:   make(map[string]any),
	}
}
