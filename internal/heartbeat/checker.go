// Package heartbeat writes a periodic liveness line to the log. It performs
// no cleanup work; an operator reading the log can tell a silent service
// from a dead one.
package heartbeat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/workers"
	"github.com/robfig/cron/v3"
)

// StatusSource exposes the background pool state included in each beat.
type StatusSource interface {
	Metrics() workers.PoolMetrics
	QueueSize() int
}

// Checker logs "still running" on a cron schedule.
type Checker struct {
	spec    string
	cron    *cron.Cron
	status  StatusSource
	logger  *logger.Logger
	startAt time.Time
	beats   int
	started bool
	mu      sync.RWMutex
}

// NewChecker creates a heartbeat checker. spec is a standard cron expression
// or descriptor such as "@every 1h". status may be nil.
func NewChecker(spec string, status StatusSource, log *logger.Logger) (*Checker, error) {
	c := &Checker{
		spec:    spec,
		cron:    cron.New(),
		status:  status,
		logger:  log,
		startAt: time.Now(),
	}
	if _, err := c.cron.AddFunc(spec, c.Beat); err != nil {
		return nil, fmt.Errorf("invalid heartbeat schedule %q: %w", spec, err)
	}
	return c, nil
}

// Start begins the heartbeat schedule. Starting twice is a no-op.
func (c *Checker) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return nil
	}
	c.started = true
	c.startAt = time.Now()
	c.cron.Start()

	c.logger.Info("heartbeat started", logger.Field{Key: "schedule", Value: c.spec})
	return nil
}

// Stop halts the schedule and waits for a running beat to finish.
func (c *Checker) Stop() error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = false
	c.mu.Unlock()

	<-c.cron.Stop().Done()
	c.logger.Info("heartbeat stopped")
	return nil
}

// Beat writes one liveness line.
func (c *Checker) Beat() {
	c.mu.Lock()
	c.beats++
	beats := c.beats
	uptime := time.Since(c.startAt).Truncate(time.Second)
	c.mu.Unlock()

	fields := []logger.Field{
		{Key: "uptime", Value: uptime.String()},
		{Key: "beat", Value: beats},
	}
	if c.status != nil {
		m := c.status.Metrics()
		fields = append(fields,
			logger.Field{Key: "tasks_submitted", Value: m.TasksSubmitted},
			logger.Field{Key: "tasks_completed", Value: m.TasksCompleted},
			logger.Field{Key: "tasks_failed", Value: m.TasksFailed},
			logger.Field{Key: "queued", Value: c.status.QueueSize()})
	}

	c.logger.Info("service heartbeat: still running", fields...)
}

// Beats returns the number of beats written so far.
func (c *Checker) Beats() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.beats
}

// RunUntil starts the checker and stops it when ctx is done.
func (c *Checker) RunUntil(ctx context.Context) {
	_ = c.Start()
	go func() {
		<-ctx.Done()
		_ = c.Stop()
	}()
}
