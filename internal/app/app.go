// Package app wires the cleanup service together. It owns the worker pool,
// the heartbeat, the scheduled triggers and the metrics endpoint, and it
// translates session events into background cleanup and script work.
package app

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/aatumaykin/kioskclean/internal/cleanup"
	"github.com/aatumaykin/kioskclean/internal/config"
	"github.com/aatumaykin/kioskclean/internal/heartbeat"
	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/metrics"
	"github.com/aatumaykin/kioskclean/internal/session"
	"github.com/aatumaykin/kioskclean/internal/workers"
	"github.com/prometheus/client_golang/prometheus"
)

// Cleaner runs one cleanup plan. *cleanup.Engine implements it.
type Cleaner interface {
	RunCleanup(trigger string) cleanup.Stats
}

// ProcessCloser closes applications and restarts the shell.
// *terminator.Terminator implements it.
type ProcessCloser interface {
	CloseConfiguredProcesses(names []string) int
	CloseOfficeApps() int
	RestartShell() int
}

// ScriptDispatcher launches scripts for an event. *scripts.Dispatcher
// implements it.
type ScriptDispatcher interface {
	RunScriptsForEvent(ev session.Event, sessionID *int) int
	Wait()
}

// App represents the main application structure.
// It holds references to all major components and manages their lifecycle.
type App struct {
	// Configuration and core services
	config   *config.Config
	settings config.Settings
	logger   *logger.Logger

	// Domain components
	cleaner    Cleaner
	terminator ProcessCloser
	scripts    ScriptDispatcher

	// Background task execution
	workerPool *workers.WorkerPool

	// Timers
	heartbeat    *heartbeat.Checker
	scheduler    *cleanup.Scheduler
	startupTimer *time.Timer

	// Metrics
	registry      *prometheus.Registry
	metrics       *metrics.PrometheusMetrics
	metricsServer *http.Server

	// Context management
	ctx    context.Context
	cancel context.CancelFunc

	// Thread-safety
	mu      sync.RWMutex
	started bool
}

// Option overrides a component, mostly for tests.
type Option func(*App)

// WithCleaner replaces the cleanup engine.
func WithCleaner(c Cleaner) Option {
	return func(a *App) { a.cleaner = c }
}

// WithProcessCloser replaces the process terminator.
func WithProcessCloser(p ProcessCloser) Option {
	return func(a *App) { a.terminator = p }
}

// WithScriptDispatcher replaces the script dispatcher.
func WithScriptDispatcher(d ScriptDispatcher) Option {
	return func(a *App) { a.scripts = d }
}

// New creates a new App. Components not supplied through options are built
// from the configuration in Initialize.
func New(cfg *config.Config, log *logger.Logger, opts ...Option) *App {
	a := &App{
		config:   cfg,
		settings: cfg.Settings(),
		logger:   log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run initializes the application, schedules the startup cleanup and blocks
// until ctx is cancelled. Used by foreground runs; the Windows service host
// drives Initialize, HandleEvent and Shutdown itself.
func (a *App) Run(ctx context.Context) error {
	if err := a.Initialize(ctx); err != nil {
		return err
	}

	a.HandleEvent(session.Startup, nil)
	a.logger.Info("service is running")

	<-ctx.Done()

	return a.Shutdown()
}

// Metrics returns the Prometheus collectors, nil before Initialize.
func (a *App) Metrics() *metrics.PrometheusMetrics {
	return a.metrics
}

// Pool returns the worker pool, nil before Initialize.
func (a *App) Pool() *workers.WorkerPool {
	return a.workerPool
}
