package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aatumaykin/kioskclean/internal/cleanup"
	"github.com/aatumaykin/kioskclean/internal/config"
	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCleaner struct {
	mu       sync.Mutex
	triggers []string
}

func (f *fakeCleaner) RunCleanup(trigger string) cleanup.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, trigger)
	return cleanup.Stats{Trigger: trigger, FilesDeleted: 2}
}

func (f *fakeCleaner) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.triggers...)
}

type fakeCloser struct {
	mu       sync.Mutex
	closed   [][]string
	office   int
	restarts int
}

func (f *fakeCloser) CloseConfiguredProcesses(names []string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, names)
	return len(names)
}

func (f *fakeCloser) CloseOfficeApps() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.office++
	return 0
}

func (f *fakeCloser) RestartShell() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restarts++
	return 1
}

func (f *fakeCloser) snapshot() ([][]string, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.closed...), f.office, f.restarts
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []session.Event
	ids    []*int
	waits  int
}

func (f *fakeDispatcher) RunScriptsForEvent(ev session.Event, sessionID *int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	f.ids = append(f.ids, sessionID)
	return 1
}

func (f *fakeDispatcher) Wait() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waits++
}

func (f *fakeDispatcher) seen() []session.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]session.Event(nil), f.events...)
}

type harness struct {
	app     *App
	cleaner *fakeCleaner
	closer  *fakeCloser
	scripts *fakeDispatcher
}

func newHarness(t *testing.T, settings map[string]string) *harness {
	t.Helper()

	cfg := config.Default()
	cfg.Service.StartupDelaySeconds = 0
	cfg.Metrics.Enabled = false
	cfg.AppSettings = settings

	h := &harness{
		cleaner: &fakeCleaner{},
		closer:  &fakeCloser{},
		scripts: &fakeDispatcher{},
	}
	h.app = New(cfg, logger.Discard(),
		WithCleaner(h.cleaner),
		WithProcessCloser(h.closer),
		WithScriptDispatcher(h.scripts),
	)
	require.NoError(t, h.app.Initialize(context.Background()))
	t.Cleanup(func() { _ = h.app.Shutdown() })
	return h
}

func TestHandleEvent_QueuesCleanupAndScripts(t *testing.T) {
	h := newHarness(t, nil)

	id := 4
	h.app.HandleEvent(session.Logoff, &id)

	assert.Eventually(t, func() bool {
		return len(h.cleaner.seen()) == 1 && len(h.scripts.seen()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{session.TriggerLogoff}, h.cleaner.seen())
	assert.Equal(t, []session.Event{session.Logoff}, h.scripts.seen())

	h.scripts.mu.Lock()
	require.NotNil(t, h.scripts.ids[0])
	assert.Equal(t, 4, *h.scripts.ids[0])
	h.scripts.mu.Unlock()

	closed, office, restarts := h.closer.snapshot()
	assert.Empty(t, closed)
	assert.Zero(t, office)
	assert.Zero(t, restarts)
}

func TestHandleEvent_LockClosesProcessesAndRestartsShell(t *testing.T) {
	h := newHarness(t, map[string]string{
		"ProcessesToClose": "chrome; notepad",
		"CloseOfficeApps":  "true",
	})

	h.app.HandleEvent(session.Lock, nil)

	assert.Eventually(t, func() bool {
		_, _, restarts := h.closer.snapshot()
		return restarts == 1
	}, 2*time.Second, 10*time.Millisecond)

	closed, office, _ := h.closer.snapshot()
	assert.Equal(t, [][]string{{"chrome", "notepad"}}, closed)
	assert.Equal(t, 1, office)
	assert.Equal(t, []string{session.TriggerLock}, h.cleaner.seen())
}

func TestHandleEvent_UnlockClosesProcessesWithoutShellRestart(t *testing.T) {
	h := newHarness(t, map[string]string{
		"ProcessesToClose": "chrome",
		"CloseOfficeApps":  "no-such-bool",
	})

	h.app.HandleEvent(session.Unlock, nil)

	assert.Eventually(t, func() bool {
		closed, _, _ := h.closer.snapshot()
		return len(closed) == 1
	}, 2*time.Second, 10*time.Millisecond)

	closed, office, restarts := h.closer.snapshot()
	assert.Equal(t, [][]string{{"chrome"}}, closed)
	assert.Zero(t, office)
	assert.Zero(t, restarts)
}

func TestHandleEvent_ShutdownRunsSynchronously(t *testing.T) {
	h := newHarness(t, nil)

	h.app.HandleEvent(session.Shutdown, nil)

	assert.Equal(t, []string{session.TriggerShutdown}, h.cleaner.seen())
	assert.Equal(t, []session.Event{session.Shutdown}, h.scripts.seen())

	h.scripts.mu.Lock()
	assert.Equal(t, 1, h.scripts.waits)
	h.scripts.mu.Unlock()
}

func TestHandleEvent_StartupIsDelayed(t *testing.T) {
	h := newHarness(t, nil)

	h.app.HandleEvent(session.Startup, nil)

	assert.Eventually(t, func() bool {
		return len(h.cleaner.seen()) == 1 && len(h.scripts.seen()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{session.TriggerStartup}, h.cleaner.seen())
}

func TestHandleEvent_BeforeInitializeIsIgnored(t *testing.T) {
	cleaner := &fakeCleaner{}
	a := New(config.Default(), logger.Discard(), WithCleaner(cleaner))

	a.HandleEvent(session.Shutdown, nil)
	a.HandleEvent(session.Logoff, nil)

	assert.Empty(t, cleaner.seen())
}

func TestRunTrigger(t *testing.T) {
	h := newHarness(t, nil)

	h.app.RunTrigger("Nightly")

	assert.Eventually(t, func() bool {
		return len(h.cleaner.seen()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"Nightly"}, h.cleaner.seen())
	assert.Empty(t, h.scripts.seen())
}

func TestInitialize_Twice(t *testing.T) {
	h := newHarness(t, nil)

	err := h.app.Initialize(context.Background())
	assert.Error(t, err)
	assert.NotNil(t, h.app.Metrics())
	assert.NotNil(t, h.app.Pool())
}

func TestInitialize_InvalidSchedule(t *testing.T) {
	cfg := config.Default()
	cfg.Schedule = []config.ScheduleEntry{{Spec: "not a cron", Trigger: "Nightly"}}

	a := New(cfg, logger.Discard(),
		WithCleaner(&fakeCleaner{}),
		WithProcessCloser(&fakeCloser{}),
		WithScriptDispatcher(&fakeDispatcher{}),
	)
	assert.Error(t, a.Initialize(context.Background()))
	assert.NoError(t, a.Shutdown())
}

func TestShutdown_Idempotent(t *testing.T) {
	h := newHarness(t, nil)

	assert.NoError(t, h.app.Shutdown())
	assert.NoError(t, h.app.Shutdown())

	h.app.HandleEvent(session.Logoff, nil)
	assert.Empty(t, h.cleaner.seen())
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Service.StartupDelaySeconds = 60

	a := New(cfg, logger.Discard(),
		WithCleaner(&fakeCleaner{}),
		WithProcessCloser(&fakeCloser{}),
		WithScriptDispatcher(&fakeDispatcher{}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	assert.Eventually(t, a.isStarted, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestJobFor(t *testing.T) {
	tests := []struct {
		event session.Event
		want  cleanupJob
	}{
		{session.Logon, cleanupJob{Trigger: session.TriggerLogon}},
		{session.Lock, cleanupJob{Trigger: session.TriggerLock, CloseProcesses: true, RestartShell: true}},
		{session.Unlock, cleanupJob{Trigger: session.TriggerUnlock, CloseProcesses: true}},
		{session.Resume, cleanupJob{Trigger: session.TriggerResume}},
		{session.ManualFull, cleanupJob{Trigger: session.TriggerManual}},
	}

	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, jobFor(tt.event))
		})
	}
}

// journal records cleanup and script calls in the order they happen.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(s string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, s)
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

type gatedCleaner struct {
	j       *journal
	started chan struct{}
	release chan struct{}
}

func (g *gatedCleaner) RunCleanup(trigger string) cleanup.Stats {
	if trigger == session.TriggerLogoff {
		close(g.started)
		<-g.release
	}
	g.j.add("cleanup " + trigger)
	return cleanup.Stats{Trigger: trigger}
}

type journalDispatcher struct{ j *journal }

func (d journalDispatcher) RunScriptsForEvent(ev session.Event, _ *int) int {
	d.j.add("scripts " + ev.String())
	return 1
}

func (d journalDispatcher) Wait() { d.j.add("wait") }

func TestHandleEvent_ShutdownWaitsForRunningWorkFirst(t *testing.T) {
	j := &journal{}
	cleaner := &gatedCleaner{j: j, started: make(chan struct{}), release: make(chan struct{})}

	cfg := config.Default()
	cfg.Service.StartupDelaySeconds = 0
	cfg.Metrics.Enabled = false
	a := New(cfg, logger.Discard(),
		WithCleaner(cleaner),
		WithProcessCloser(&fakeCloser{}),
		WithScriptDispatcher(journalDispatcher{j: j}),
	)
	require.NoError(t, a.Initialize(context.Background()))
	t.Cleanup(func() { _ = a.Shutdown() })

	a.HandleEvent(session.Logoff, nil)
	<-cleaner.started

	done := make(chan struct{})
	go func() {
		a.HandleEvent(session.Shutdown, nil)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("shutdown handling returned while background cleanup was running")
	case <-time.After(100 * time.Millisecond):
	}
	close(cleaner.release)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown handling did not finish")
	}

	entries := j.list()
	require.NotEmpty(t, entries)
	assert.Equal(t, "wait", entries[len(entries)-1])
	assert.Equal(t, 1, countOf(entries, "wait"))

	tail := entries[len(entries)-3:]
	assert.Equal(t, []string{"cleanup " + session.TriggerShutdown, "scripts Shutdown", "wait"}, tail)
	assert.Less(t, indexOf(entries, "cleanup "+session.TriggerLogoff), indexOf(entries, "cleanup "+session.TriggerShutdown))

	// Pool is closed for new work once shutdown has started.
	a.HandleEvent(session.Lock, nil)
	assert.Never(t, func() bool {
		return indexOf(j.list(), "cleanup "+session.TriggerLock) >= 0
	}, 200*time.Millisecond, 20*time.Millisecond)
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func countOf(list []string, s string) int {
	n := 0
	for _, v := range list {
		if v == s {
			n++
		}
	}
	return n
}
