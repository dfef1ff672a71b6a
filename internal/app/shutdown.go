package app

import (
	"context"
	"time"
)

// metricsShutdownTimeout bounds the HTTP server drain.
const metricsShutdownTimeout = 5 * time.Second

// Shutdown performs graceful shutdown of all components.
// It stops the application in the following order:
//  1. Cancels the pending startup cleanup
//  2. Stops the scheduled triggers and the heartbeat
//  3. Stops the worker pool, waiting for running tasks
//  4. Cancels the application context (kills scripts still running)
//  5. Stops the metrics endpoint
//
// The method is thread-safe and can be called more than once.
func (a *App) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started {
		return nil
	}
	a.started = false

	a.logger.Info("stopping service")

	if a.startupTimer != nil {
		a.startupTimer.Stop()
	}

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	if a.heartbeat != nil {
		if err := a.heartbeat.Stop(); err != nil {
			a.logger.Error("failed to stop heartbeat", err)
		}
	}

	if a.workerPool != nil {
		a.workerPool.Stop()
	}

	a.cancel()

	if a.scripts != nil {
		a.scripts.Wait()
	}

	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.logger.Error("failed to stop metrics endpoint", err)
		}
	}

	a.logger.Info("service stopped")
	return nil
}
