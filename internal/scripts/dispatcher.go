// Package scripts runs administrator-supplied scripts on session events.
//
// Up to 20 Script{N} slots are read from app settings. Every slot matching
// the event is started on its own goroutine with the slot timeout; a slow or
// failing script never delays its siblings or the caller.
package scripts

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aatumaykin/kioskclean/internal/config"
	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/session"
)

// Script status labels passed to the Recorder.
const (
	StatusSuccess  = "success"
	StatusFailure  = "failure"
	StatusTimeout  = "timeout"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// Executor runs one slot. *Runner is the production implementation.
type Executor interface {
	Run(ctx context.Context, slot Slot, ev session.Event, sessionID *int) (Outcome, error)
}

// Recorder receives one status per finished script.
type Recorder interface {
	RecordScript(status string, duration time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) RecordScript(string, time.Duration) {}

// Dispatcher matches slots to events and launches them concurrently.
type Dispatcher struct {
	settings config.Settings
	exec     Executor
	log      *logger.Logger
	recorder Recorder
	ctx      context.Context
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. ctx bounds every launched script in
// addition to its own timeout; cancelling it kills running scripts.
func NewDispatcher(ctx context.Context, settings config.Settings, exec Executor, recorder Recorder, log *logger.Logger) *Dispatcher {
	if exec == nil {
		exec = NewRunner()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Dispatcher{
		settings: settings,
		exec:     exec,
		log:      log.With(logger.Field{Key: "component", Value: "scripts"}),
		recorder: recorder,
		ctx:      ctx,
	}
}

// Enabled reports the EnableScripts flag. Only an explicit false disables.
func (d *Dispatcher) Enabled() bool {
	return d.settings.Bool("EnableScripts", true)
}

// RunScriptsForEvent launches every slot matching ev and returns the number
// launched without waiting for any of them.
func (d *Dispatcher) RunScriptsForEvent(ev session.Event, sessionID *int) int {
	fields := []logger.Field{
		{Key: "event", Value: ev.String()},
		{Key: "session_id", Value: formatSessionID(sessionID)},
	}

	if !d.Enabled() {
		d.log.Info("scripts feature is disabled in configuration", fields...)
		return 0
	}

	slots := Matching(LoadSlots(d.settings, d.log), ev)
	if len(slots) == 0 {
		d.log.Info("no scripts configured for event", fields...)
		return 0
	}

	d.log.Info("dispatching scripts", append(fields, logger.Field{Key: "count", Value: len(slots)})...)

	for _, slot := range slots {
		d.wg.Add(1)
		go func(slot Slot) {
			defer d.wg.Done()
			d.execute(slot, ev, sessionID)
		}(slot)
	}

	return len(slots)
}

// Wait blocks until every dispatched script has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) execute(slot Slot, ev session.Event, sessionID *int) {
	log := d.log.With(
		logger.Field{Key: "script", Value: slot.Path},
		logger.Field{Key: "slot", Value: slot.Index},
		logger.Field{Key: "event", Value: ev.String()})

	defer func() {
		if r := recover(); r != nil {
			log.Error("script execution panicked", errors.New("panic"), logger.Field{Key: "panic", Value: r})
			d.recorder.RecordScript(StatusError, 0)
		}
	}()

	log.Info("starting script", logger.Field{Key: "timeout", Value: slot.Timeout.String()})

	out, err := d.exec.Run(d.ctx, slot, ev, sessionID)
	if err != nil {
		status := StatusError
		if errors.Is(err, ErrScriptNotFound) {
			status = StatusNotFound
		}
		log.Error("script could not be started", err)
		d.recorder.RecordScript(status, out.Duration)
		return
	}

	if s := Sanitize(out.Stdout); s != "" {
		log.Info("script output", logger.Field{Key: "stdout", Value: s})
	}
	if s := Sanitize(out.Stderr); s != "" {
		log.Warn("script errors", logger.Field{Key: "stderr", Value: s})
	}

	done := []logger.Field{{Key: "duration_ms", Value: out.Duration.Milliseconds()}}
	switch {
	case out.TimedOut:
		log.Error("script timed out and was terminated", errors.New("timeout"),
			append(done, logger.Field{Key: "timeout", Value: slot.Timeout.String()})...)
		d.recorder.RecordScript(StatusTimeout, out.Duration)
	case out.ExitCode != 0:
		log.Error("script failed", errors.New("non-zero exit code"),
			append(done, logger.Field{Key: "exit_code", Value: out.ExitCode})...)
		d.recorder.RecordScript(StatusFailure, out.Duration)
	default:
		log.Info("script completed successfully", append(done, logger.Field{Key: "exit_code", Value: 0})...)
		d.recorder.RecordScript(StatusSuccess, out.Duration)
	}
}
