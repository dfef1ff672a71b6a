package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/google/uuid"
)

// WorkerPool manages a pool of goroutine workers for concurrent task execution.
type WorkerPool struct {
	taskQueue chan Task
	resultCh  chan Result
	workers   int
	wg        *taskWaitGroup
	inflight  sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *logger.Logger
	metrics   *PoolMetrics
	recorder  Recorder

	mu        sync.RWMutex
	executors map[string]TaskExecutor
	started   bool
	stopped   bool
}

// Option configures a WorkerPool.
type Option func(*WorkerPool)

// WithRecorder sets the per-task metrics sink.
func WithRecorder(r Recorder) Option {
	return func(p *WorkerPool) {
		p.recorder = r
	}
}

// NewPool creates a new worker pool with the specified configuration.
func NewPool(workers int, bufferSize int, log *logger.Logger, opts ...Option) *WorkerPool {
	if workers <= 0 {
		workers = DefaultPoolSize
	}
	if bufferSize <= 0 {
		bufferSize = DefaultQueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &WorkerPool{
		taskQueue: make(chan Task, bufferSize),
		resultCh:  make(chan Result, bufferSize),
		workers:   workers,
		wg:        newTaskWaitGroup(),
		ctx:       ctx,
		cancel:    cancel,
		logger:    log,
		metrics:   &PoolMetrics{},
		executors: make(map[string]TaskExecutor),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register binds an executor to a task type. Registering the same type
// again replaces the executor.
func (p *WorkerPool) Register(taskType string, executor TaskExecutor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.executors[taskType] = executor
}

func (p *WorkerPool) executorFor(taskType string) (TaskExecutor, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.executors[taskType]
	return e, ok
}

// Start initializes and starts all worker goroutines.
func (p *WorkerPool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true

	p.logger.Info("starting worker pool",
		logger.Field{Key: "workers", Value: p.workers},
		logger.Field{Key: "buffer_size", Value: cap(p.taskQueue)})

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Submit queues a task without blocking. It fails with ErrQueueFull when the
// queue is at capacity and with ErrPoolStopped after Stop.
func (p *WorkerPool) Submit(task Task) (string, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		p.incrementRejected()
		return task.ID, ErrPoolStopped
	}

	select {
	case p.taskQueue <- task:
		p.incrementSubmitted()
		p.logger.Debug("task submitted",
			logger.Field{Key: "task_id", Value: task.ID},
			logger.Field{Key: "task_type", Value: task.Type})
		return task.ID, nil
	default:
		p.incrementRejected()
		p.logger.Warn("task rejected, queue is full",
			logger.Field{Key: "task_id", Value: task.ID},
			logger.Field{Key: "task_type", Value: task.Type},
			logger.Field{Key: "queue_size", Value: cap(p.taskQueue)})
		return task.ID, ErrQueueFull
	}
}

// SubmitWithContext waits for a free queue slot until ctx is done or the
// pool stops.
func (p *WorkerPool) SubmitWithContext(ctx context.Context, task Task) (string, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	p.mu.RLock()
	stopped := p.stopped
	p.mu.RUnlock()
	if stopped {
		p.incrementRejected()
		return task.ID, ErrPoolStopped
	}

	select {
	case p.taskQueue <- task:
		p.incrementSubmitted()
		p.logger.DebugCtx(ctx, "task submitted with context",
			logger.Field{Key: "task_id", Value: task.ID},
			logger.Field{Key: "task_type", Value: task.Type})
		return task.ID, nil
	case <-p.ctx.Done():
		p.incrementRejected()
		return task.ID, ErrPoolStopped
	case <-ctx.Done():
		p.incrementRejected()
		return task.ID, fmt.Errorf("submit %s: %w", task.ID, ctx.Err())
	}
}

// Results returns a read-only channel for receiving task results. Results
// are dropped when nobody reads them and the buffer is full.
func (p *WorkerPool) Results() <-chan Result {
	return p.resultCh
}

// Stop shuts the pool down. Tasks still queued are discarded; tasks already
// executing are waited for.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	p.cancel()

	// Wait for all workers to finish
	p.wg.Wait()
	p.inflight.Wait()

	dropped := len(p.taskQueue)
	metrics := p.Metrics()

	p.logger.Info("stopping worker pool",
		logger.Field{Key: "tasks_submitted", Value: metrics.TasksSubmitted},
		logger.Field{Key: "tasks_completed", Value: metrics.TasksCompleted},
		logger.Field{Key: "tasks_failed", Value: metrics.TasksFailed},
		logger.Field{Key: "tasks_dropped", Value: dropped})

	close(p.resultCh)

	p.logger.Info("worker pool stopped")
}

// WorkerCount returns the number of active workers.
func (p *WorkerPool) WorkerCount() int {
	return p.workers
}

// QueueSize returns the current number of tasks waiting in the queue.
func (p *WorkerPool) QueueSize() int {
	return len(p.taskQueue)
}

// taskWaitGroup wraps sync.WaitGroup with thread-safe metrics access.
type taskWaitGroup struct {
	sync.RWMutex
	wg sync.WaitGroup
}

func newTaskWaitGroup() *taskWaitGroup {
	return &taskWaitGroup{}
}

func (twg *taskWaitGroup) Add(delta int) {
	twg.wg.Add(delta)
}

func (twg *taskWaitGroup) Done() {
	twg.wg.Done()
}

func (twg *taskWaitGroup) Wait() {
	twg.wg.Wait()
}
