package workers

import (
	"context"
	"fmt"

	"github.com/aatumaykin/kioskclean/internal/logger"
)

// executeTask dispatches task execution based on type.
func (p *WorkerPool) executeTask(ctx context.Context, task Task) Result {
	// Handle context cancellation before execution
	select {
	case <-ctx.Done():
		return Result{TaskID: task.ID, Type: task.Type, Error: ctx.Err()}
	default:
	}

	executor, ok := p.executorFor(task.Type)
	if !ok {
		return Result{
			TaskID: task.ID,
			Type:   task.Type,
			Error:  fmt.Errorf("unknown task type: %s", task.Type),
		}
	}

	return p.executeWithRecovery(ctx, task, executor)
}

// executeWithRecovery runs the executor with panic recovery. The worker is
// released when ctx is cancelled; the execution itself is tracked in
// inflight so Stop still waits for it.
func (p *WorkerPool) executeWithRecovery(ctx context.Context, task Task, executor TaskExecutor) Result {
	done := make(chan struct{})
	var output string
	var err error

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic during task execution: %v", r)
				p.logger.ErrorCtx(ctx, "task panic recovered", fmt.Errorf("panic: %v", r),
					logger.Field{Key: "task_id", Value: task.ID},
					logger.Field{Key: "task_type", Value: task.Type})
			}
		}()

		output, err = executor(ctx, task)
	}()

	select {
	case <-done:
		return Result{TaskID: task.ID, Type: task.Type, Output: output, Error: err}
	case <-ctx.Done():
		return Result{TaskID: task.ID, Type: task.Type, Error: ctx.Err()}
	}
}
