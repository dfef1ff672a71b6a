// Package workers provides an async worker pool for background task execution.
// Event handlers submit typed tasks and return immediately; executors
// registered per task type do the actual work on the pool's goroutines.
package workers

import (
	"context"
	"errors"
	"time"
)

// Task represents a unit of work to be executed by a worker.
type Task struct {
	ID      string          // Unique task identifier, generated when empty
	Type    string          // Task type, selects the registered executor
	Payload any             // Executor-specific payload
	Context context.Context // Task-specific context for cancellation/timeout
}

// Result represents the outcome of a task execution.
type Result struct {
	TaskID   string        // ID of the executed task
	Type     string        // Task type
	Error    error         // Error if execution failed
	Output   string        // Task output
	Duration time.Duration // Execution duration
}

// PoolMetrics tracks execution metrics for the worker pool.
type PoolMetrics struct {
	TasksSubmitted uint64
	TasksCompleted uint64
	TasksFailed    uint64
	TasksRejected  uint64
	TotalDuration  time.Duration
}

// TaskExecutor defines the interface for task-specific execution logic
type TaskExecutor func(context.Context, Task) (string, error)

// Recorder receives one call per finished task.
type Recorder interface {
	RecordTask(taskType string, err error)
}

var (
	// ErrQueueFull is returned by Submit when the queue has no free slot.
	ErrQueueFull = errors.New("worker pool queue is full")
	// ErrPoolStopped is returned by Submit after Stop.
	ErrPoolStopped = errors.New("worker pool is stopped")
)

// Constants for worker pool configuration
const (
	DefaultPoolSize  = 2
	DefaultQueueSize = 64
)
