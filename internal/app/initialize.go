package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aatumaykin/kioskclean/internal/cleanup"
	"github.com/aatumaykin/kioskclean/internal/heartbeat"
	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/metrics"
	"github.com/aatumaykin/kioskclean/internal/workers"
	"github.com/prometheus/client_golang/prometheus"
)

// Initialize builds and starts every component:
//  1. Metrics registry and collectors
//  2. Cleanup engine, terminator and script dispatcher (unless injected)
//  3. Worker pool with the cleanup and scripts executors
//  4. Heartbeat
//  5. Scheduled triggers
//  6. Metrics endpoint when enabled
func (a *App) Initialize(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return errors.New("application already initialized")
	}

	// 1. Create application context
	a.ctx, a.cancel = context.WithCancel(ctx)

	// 2. Metrics
	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.New("kioskclean", a.registry)

	// 3. Domain components
	if a.cleaner == nil {
		a.cleaner = buildEngine(a.config, a.settings, a.metrics, a.logger)
	}
	if a.terminator == nil {
		a.terminator = buildTerminator(a.config, a.metrics, a.logger)
	}
	if a.scripts == nil {
		a.scripts = buildDispatcher(a.ctx, a.settings, a.metrics, a.logger)
	}

	// 4. Worker pool
	a.workerPool = workers.NewPool(a.config.Service.Workers, a.config.Service.QueueSize, a.logger,
		workers.WithRecorder(a.metrics))
	a.workerPool.Register(taskCleanup, a.executeCleanup)
	a.workerPool.Register(taskScripts, a.executeScripts)
	a.workerPool.Start()

	// 5. Heartbeat
	hb, err := heartbeat.NewChecker(a.config.Service.HeartbeatSchedule, a.workerPool, a.logger)
	if err != nil {
		a.abortInit()
		return err
	}
	a.heartbeat = hb
	if err := a.heartbeat.Start(); err != nil {
		a.abortInit()
		return fmt.Errorf("failed to start heartbeat: %w", err)
	}

	// 6. Scheduled triggers
	entries := make([]cleanup.ScheduledTrigger, 0, len(a.config.Schedule))
	for _, e := range a.config.Schedule {
		entries = append(entries, cleanup.ScheduledTrigger{Spec: e.Spec, Trigger: e.Trigger})
	}
	scheduler, err := cleanup.NewScheduler(entries, a.RunTrigger, a.logger)
	if err != nil {
		a.abortInit()
		return err
	}
	a.scheduler = scheduler
	if err := a.scheduler.Start(a.ctx); err != nil {
		a.abortInit()
		return fmt.Errorf("failed to start cleanup scheduler: %w", err)
	}

	// 7. Metrics endpoint
	if a.config.Metrics.Enabled {
		if err := a.startMetricsServer(); err != nil {
			a.abortInit()
			return err
		}
	}

	a.started = true
	return nil
}

// abortInit unwinds a partially initialized app. Caller holds a.mu.
func (a *App) abortInit() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.heartbeat != nil {
		_ = a.heartbeat.Stop()
	}
	if a.workerPool != nil {
		a.workerPool.Stop()
	}
	a.cancel()
}

func (a *App) startMetricsServer() error {
	ln, err := net.Listen("tcp", a.config.Metrics.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.config.Metrics.Listen, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(a.registry))
	a.metricsServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.logger.Info("metrics endpoint listening", logger.Field{Key: "addr", Value: ln.Addr().String()})

	go func() {
		if err := a.metricsServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics endpoint failed", err)
		}
	}()
	return nil
}
