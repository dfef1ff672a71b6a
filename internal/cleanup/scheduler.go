package cleanup

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/robfig/cron/v3"
)

// ScheduledTrigger runs a trigger label on a cron schedule.
type ScheduledTrigger struct {
	Spec    string // Standard 5-field cron expression or descriptor (@daily, @every 2h)
	Trigger string // Trigger label handed to the engine
}

// SubmitFunc hands a trigger to whoever executes cleanups (normally the worker pool).
type SubmitFunc func(trigger string)

// Scheduler fires configured triggers on their cron schedules.
type Scheduler struct {
	cron    *cron.Cron
	submit  SubmitFunc
	logger  *logger.Logger
	entries []ScheduledTrigger
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex
}

// NewScheduler creates a scheduler and registers every entry. An invalid
// expression fails the whole scheduler so a typo is not silently ignored.
func NewScheduler(entries []ScheduledTrigger, submit SubmitFunc, log *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		submit: submit,
		logger: log,
	}

	for _, e := range entries {
		e.Trigger = strings.TrimSpace(e.Trigger)
		if e.Trigger == "" {
			return nil, fmt.Errorf("schedule %q: trigger is required", e.Spec)
		}
		entry := e
		if _, err := s.cron.AddFunc(entry.Spec, func() { s.fire(entry) }); err != nil {
			return nil, fmt.Errorf("schedule %q: invalid cron expression: %w", entry.Spec, err)
		}
		s.entries = append(s.entries, entry)
	}

	return s, nil
}

// Start begins firing scheduled triggers until ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}
	if len(s.entries) == 0 {
		s.logger.Debug("no scheduled cleanups configured")
		return nil
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true
	s.cron.Start()

	s.logger.Info("cleanup scheduler started", logger.Field{Key: "entries", Value: len(s.entries)})

	go func() {
		<-s.ctx.Done()
		<-s.cron.Stop().Done()
		s.logger.Info("cleanup scheduler stopped")
	}()

	return nil
}

// Stop stops the scheduler. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.cancel()
	s.started = false
}

// Entries returns the registered schedules.
func (s *Scheduler) Entries() []ScheduledTrigger {
	return append([]ScheduledTrigger(nil), s.entries...)
}

func (s *Scheduler) fire(e ScheduledTrigger) {
	s.logger.Info("scheduled cleanup triggered",
		logger.Field{Key: "spec", Value: e.Spec},
		logger.Field{Key: "trigger", Value: e.Trigger})
	s.submit(e.Trigger)
}
