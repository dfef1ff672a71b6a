package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/session"
	"github.com/aatumaykin/kioskclean/internal/workers"
)

// Task types handled by the worker pool.
const (
	taskCleanup = "cleanup"
	taskScripts = "scripts"
)

// cleanupJob is the payload of a cleanup task.
type cleanupJob struct {
	Trigger        string
	CloseProcesses bool
	RestartShell   bool
}

// scriptsJob is the payload of a scripts task.
type scriptsJob struct {
	Event     session.Event
	SessionID *int
}

// jobFor maps an event to its cleanup work.
func jobFor(ev session.Event) cleanupJob {
	job := cleanupJob{Trigger: ev.Trigger()}
	switch ev {
	case session.Lock:
		job.CloseProcesses = true
		job.RestartShell = true
	case session.Unlock:
		job.CloseProcesses = true
	}
	return job
}

// HandleEvent reacts to a session event. It only queues work and returns
// immediately, except for Shutdown, which runs its cleanup and scripts
// before returning so they finish before the host stops.
func (a *App) HandleEvent(ev session.Event, sessionID *int) {
	fields := []logger.Field{
		{Key: "event", Value: ev.String()},
		{Key: "session_id", Value: sessionLabel(sessionID)},
	}
	a.logger.Info("session event received", fields...)

	if !a.isStarted() {
		a.logger.Warn("session event ignored, application not initialized", fields...)
		return
	}

	switch ev {
	case session.Shutdown:
		a.handleShutdownEvent(sessionID)
	case session.Startup:
		a.scheduleStartup(sessionID)
	default:
		a.submit(taskCleanup, jobFor(ev))
		a.submit(taskScripts, scriptsJob{Event: ev, SessionID: sessionID})
	}
}

// RunTrigger queues a cleanup for an arbitrary trigger label. Used by the
// cron scheduler.
func (a *App) RunTrigger(trigger string) {
	a.submit(taskCleanup, cleanupJob{Trigger: trigger})
}

func (a *App) scheduleStartup(sessionID *int) {
	delay := a.config.StartupDelay()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.startupTimer != nil {
		a.startupTimer.Stop()
	}
	a.startupTimer = time.AfterFunc(delay, func() {
		a.logger.Info("running startup cleanup")
		a.submit(taskCleanup, jobFor(session.Startup))
		a.submit(taskScripts, scriptsJob{Event: session.Startup, SessionID: sessionID})
	})

	a.logger.Info("startup cleanup scheduled", logger.Field{Key: "delay", Value: delay.String()})
}

// handleShutdownEvent runs synchronously: the host is about to stop and
// queued work would be lost.
func (a *App) handleShutdownEvent(sessionID *int) {
	a.logger.Info("system shutdown detected, performing final cleanup")

	a.quiesce()

	func() {
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error("shutdown cleanup panicked", fmt.Errorf("panic: %v", r))
			}
		}()
		a.cleaner.RunCleanup(session.Shutdown.Trigger())
	}()

	a.scripts.RunScriptsForEvent(session.Shutdown, sessionID)
	a.scripts.Wait()

	a.logger.Info("shutdown cleanup completed")
}

// quiesce stops every source of background work and waits for running
// tasks. After it returns nothing else dispatches scripts, so waiting on the
// dispatcher is safe.
func (a *App) quiesce() {
	a.mu.Lock()
	if a.startupTimer != nil {
		a.startupTimer.Stop()
	}
	scheduler, pool := a.scheduler, a.workerPool
	a.mu.Unlock()

	if scheduler != nil {
		scheduler.Stop()
	}
	if pool != nil {
		pool.Stop()
	}
}

func (a *App) submit(taskType string, payload any) {
	a.mu.RLock()
	pool := a.workerPool
	a.mu.RUnlock()

	if pool == nil {
		a.logger.Warn("work dropped, application not initialized",
			logger.Field{Key: "task_type", Value: taskType})
		return
	}

	_, err := pool.Submit(workers.Task{Type: taskType, Payload: payload})
	switch {
	case err == nil:
	case errors.Is(err, workers.ErrPoolStopped):
		a.logger.Warn("work dropped, service is stopping",
			logger.Field{Key: "task_type", Value: taskType})
	default:
		a.logger.Error("failed to queue background work", err,
			logger.Field{Key: "task_type", Value: taskType})
	}
}

// executeCleanup runs the cleanup plan, then the process actions attached
// to the event.
func (a *App) executeCleanup(_ context.Context, task workers.Task) (string, error) {
	job, ok := task.Payload.(cleanupJob)
	if !ok {
		return "", fmt.Errorf("invalid cleanup payload: %T", task.Payload)
	}

	stats := a.cleaner.RunCleanup(job.Trigger)

	if job.CloseProcesses {
		a.terminator.CloseConfiguredProcesses(a.settings.List("ProcessesToClose"))
		if a.settings.Bool("CloseOfficeApps", false) {
			a.terminator.CloseOfficeApps()
		}
	}
	if job.RestartShell {
		a.terminator.RestartShell()
	}

	return fmt.Sprintf("%s: %d files deleted", job.Trigger, stats.FilesDeleted), nil
}

func (a *App) executeScripts(_ context.Context, task workers.Task) (string, error) {
	job, ok := task.Payload.(scriptsJob)
	if !ok {
		return "", fmt.Errorf("invalid scripts payload: %T", task.Payload)
	}
	n := a.scripts.RunScriptsForEvent(job.Event, job.SessionID)
	return fmt.Sprintf("%d scripts dispatched", n), nil
}

func (a *App) isStarted() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.started
}

func sessionLabel(id *int) string {
	if id == nil {
		return "n/a"
	}
	return strconv.Itoa(*id)
}
