// Package queue consumes node execution requests from a Redis list and
// pushes the outcome back to the requester's reply list.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/enactflow/enact/pkg/models"
	"github.com/enactflow/enact/pkg/services"
)

const (
	DefaultAddr  = "localhost:6379"
	DefaultQueue = "enact:executions"
)

// ExecutionRequest is one message on the execution queue.
type ExecutionRequest struct {
	ID      string                   `json:"id"`
	Node    *models.Node             `json:"node"`
	Context *models.ExecutionContext `json:"context,omitempty"`
	ReplyTo string                   `json:"reply_to,omitempty"`
}

// ExecutionReply is pushed to the request's reply_to list when one is set.
// Error is populated only for request-level failures; node runtime failures
// arrive as a failed Result instead.
type ExecutionReply struct {
	ID       string                   `json:"id"`
	Result   *models.NodeResult       `json:"result,omitempty"`
	Context  *models.ExecutionContext `json:"context,omitempty"`
	Warnings []string                 `json:"warnings,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

// Config carries the Redis connection settings for the worker.
type Config struct {
	Addr     string
	Password string
	DB       int
	Queue    string
}

// Worker runs a single BLPop loop over the execution queue. Each message is
// executed to completion before the next one is popped, so in-flight
// executions never share a context.
type Worker struct {
	config    Config
	execution *services.Execution
	logger    *slog.Logger

	client redis.UniversalClient
	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewWorker(config Config, execution *services.Execution, logger *slog.Logger) *Worker {
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}

	if config.Queue == "" {
		config.Queue = DefaultQueue
	}

	return &Worker{
		config:    config,
		execution: execution,
		stopCh:    make(chan struct{}),
		logger: logger.With(
			"module", "queue_worker",
			"queue", config.Queue,
		),
	}
}

func (w *Worker) Start(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Starting queue worker")

	err := w.initializeClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize queue client: %w", err)
	}

	w.wg.Add(1)

	go w.consume(ctx)

	return nil
}

func (w *Worker) initializeClient(ctx context.Context) error {
	w.client = redis.NewClient(&redis.Options{
		Addr:     w.config.Addr,
		Password: w.config.Password,
		DB:       w.config.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := w.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	w.logger.InfoContext(ctx, "Connected to Redis", "addr", w.config.Addr, "db", w.config.DB)

	return nil
}

func (w *Worker) consume(ctx context.Context) {
	defer w.wg.Done()

	w.logger.InfoContext(ctx, "Starting queue consumer")

	for {
		select {
		case <-w.stopCh:
			w.logger.InfoContext(ctx, "Queue consumer stopped")

			return
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Context cancelled, stopping queue consumer")

			return
		default:
			err := w.processMessage(ctx)
			if err != nil {
				w.logger.ErrorContext(ctx, "Error processing message", "error", err)
				time.Sleep(1 * time.Second)
			}
		}
	}
}

func (w *Worker) processMessage(ctx context.Context) error {
	result, err := w.client.BLPop(ctx, 1*time.Second, w.config.Queue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}

		return fmt.Errorf("failed to pop message from queue: %w", err)
	}

	if len(result) < 2 {
		return nil
	}

	request, reply := w.handleMessage(ctx, result[1])
	if request != nil && request.ReplyTo != "" {
		w.reply(ctx, request.ReplyTo, reply)
	}

	return nil
}

// handleMessage decodes and executes one queue message. A nil request means
// the payload was malformed and dropped.
func (w *Worker) handleMessage(ctx context.Context, message string) (*ExecutionRequest, *ExecutionReply) {
	var request ExecutionRequest

	err := json.Unmarshal([]byte(message), &request)
	if err != nil {
		w.logger.WarnContext(ctx, "Dropping malformed execution request", "error", err)

		return nil, nil
	}

	if request.Node == nil {
		w.logger.WarnContext(ctx, "Dropping execution request without node", "request_id", request.ID)

		return nil, nil
	}

	execCtx := request.Context
	if execCtx == nil {
		execCtx = models.NewExecutionContext("adhoc", request.ID)
	}

	reply := &ExecutionReply{ID: request.ID}

	outcome, err := w.execution.Run(ctx, request.Node, execCtx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Execution request failed", "request_id", request.ID, "error", err)
		reply.Error = err.Error()

		return &request, reply
	}

	reply.Result = outcome.Result
	reply.Context = execCtx
	reply.Warnings = outcome.Warnings

	return &request, reply
}

func (w *Worker) reply(ctx context.Context, replyTo string, reply *ExecutionReply) {
	payload, err := json.Marshal(reply)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to encode execution reply", "error", err)

		return
	}

	err = w.client.LPush(ctx, replyTo, payload).Err()
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to push execution reply", "reply_to", replyTo, "error", err)
	}
}

func (w *Worker) Stop(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Stopping queue worker")

	close(w.stopCh)
	w.wg.Wait()

	if w.client != nil {
		err := w.client.Close()
		if err != nil {
			w.logger.ErrorContext(ctx, "Error closing Redis client", "error", err)
		}
	}

	return nil
}
