package scripts

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aatumaykin/kioskclean/internal/config"
	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor returns a canned outcome per script path. When gate is set,
// every run blocks until it is closed.
type fakeExecutor struct {
	mu       sync.Mutex
	outcomes map[string]Outcome
	errs     map[string]error
	gate     chan struct{}
	started  chan string
	ran      []string
	ids      []string
}

func (f *fakeExecutor) Run(_ context.Context, slot Slot, ev session.Event, sessionID *int) (Outcome, error) {
	f.mu.Lock()
	f.ran = append(f.ran, slot.Path)
	f.ids = append(f.ids, fmt.Sprintf("%s/%s", ev, formatSessionID(sessionID)))
	f.mu.Unlock()

	if f.started != nil {
		f.started <- slot.Path
	}
	if f.gate != nil {
		<-f.gate
	}
	if slot.Path == "panic.bat" {
		panic("boom")
	}
	return f.outcomes[slot.Path], f.errs[slot.Path]
}

type statuses struct {
	mu  sync.Mutex
	got map[string]int
}

func (s *statuses) RecordScript(status string, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.got == nil {
		s.got = map[string]int{}
	}
	s.got[status]++
}

func newTestDispatcher(t *testing.T, values map[string]string, exec Executor) (*Dispatcher, *statuses, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	log, err := logger.NewWithWriter(logger.Config{Level: "debug", Format: "text"}, &lockedWriter{w: buf})
	require.NoError(t, err)
	rec := &statuses{}
	return NewDispatcher(context.Background(), config.NewSettings(values), exec, rec, log), rec, buf
}

// lockedWriter keeps the shared buffer safe for concurrent script goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  *bytes.Buffer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func TestDispatcher_DisabledFlag(t *testing.T) {
	tests := []struct {
		value   string
		present bool
		enabled bool
	}{
		{present: false, enabled: true},
		{value: "", present: true, enabled: true},
		{value: "true", present: true, enabled: true},
		{value: "FALSE", present: true, enabled: false},
		{value: "0", present: true, enabled: false},
		{value: "maybe", present: true, enabled: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q/%v", tt.value, tt.present), func(t *testing.T) {
			values := map[string]string{"Script1Path": "a.bat", "Script1Events": "AllSessions"}
			if tt.present {
				values["EnableScripts"] = tt.value
			}
			exec := &fakeExecutor{}
			d, _, _ := newTestDispatcher(t, values, exec)

			n := d.RunScriptsForEvent(session.Logon, nil)
			d.Wait()

			assert.Equal(t, tt.enabled, d.Enabled())
			if tt.enabled {
				assert.Equal(t, 1, n)
				assert.Equal(t, []string{"a.bat"}, exec.ran)
			} else {
				assert.Zero(t, n)
				assert.Empty(t, exec.ran)
			}
		})
	}
}

func TestDispatcher_DoesNotBlockCaller(t *testing.T) {
	exec := &fakeExecutor{
		gate:    make(chan struct{}),
		started: make(chan string, 2),
	}
	d, rec, _ := newTestDispatcher(t, map[string]string{
		"Script1Path": "first.bat", "Script1Events": "Lock",
		"Script2Path": "second.bat", "Script2Events": "Lock;Unlock",
	}, exec)

	returned := make(chan int)
	go func() { returned <- d.RunScriptsForEvent(session.Lock, nil) }()

	select {
	case n := <-returned:
		assert.Equal(t, 2, n)
	case <-time.After(2 * time.Second):
		t.Fatal("RunScriptsForEvent blocked on running scripts")
	}

	// Оба скрипта выполняются одновременно
	got := []string{<-exec.started, <-exec.started}
	assert.ElementsMatch(t, []string{"first.bat", "second.bat"}, got)

	close(exec.gate)
	d.Wait()
	assert.Equal(t, 2, rec.got[StatusSuccess])
}

func TestDispatcher_OutcomesAreRecorded(t *testing.T) {
	exec := &fakeExecutor{
		outcomes: map[string]Outcome{
			"ok.bat":   {ExitCode: 0, Stdout: "cleaned\x1b[0m", Stderr: "password=hunter2"},
			"fail.bat": {ExitCode: 2},
			"slow.bat": {ExitCode: exitCodeTimedOut, TimedOut: true},
		},
		errs: map[string]error{
			"missing.bat": fmt.Errorf("%w: missing.bat", ErrScriptNotFound),
			"weird.txt":   fmt.Errorf("%w: .txt", ErrUnsupportedScript),
		},
	}
	d, rec, buf := newTestDispatcher(t, map[string]string{
		"Script1Path": "ok.bat", "Script1Events": "AllSessions",
		"Script2Path": "fail.bat", "Script2Events": "AllSessions",
		"Script3Path": "slow.bat", "Script3Events": "AllSessions",
		"Script4Path": "missing.bat", "Script4Events": "AllSessions",
		"Script5Path": "weird.txt", "Script5Events": "AllSessions",
		"Script6Path": "panic.bat", "Script6Events": "AllSessions",
	}, exec)

	assert.Equal(t, 6, d.RunScriptsForEvent(session.Resume, nil))
	d.Wait()

	assert.Equal(t, map[string]int{
		StatusSuccess:  1,
		StatusFailure:  1,
		StatusTimeout:  1,
		StatusNotFound: 1,
		StatusError:    2,
	}, rec.got)

	out := buf.String()
	assert.Contains(t, out, "script completed successfully")
	assert.Contains(t, out, "script failed")
	assert.Contains(t, out, "script timed out and was terminated")
	assert.Contains(t, out, "script could not be started")
	assert.Contains(t, out, "script execution panicked")
	assert.Contains(t, out, "password=[REDACTED]")
	assert.NotContains(t, out, "hunter2")
}

func TestDispatcher_PassesEventAndSessionID(t *testing.T) {
	exec := &fakeExecutor{}
	d, _, _ := newTestDispatcher(t, map[string]string{
		"Script1Path": "a.bat", "Script1Events": "Logoff",
	}, exec)

	id := 3
	d.RunScriptsForEvent(session.Logoff, &id)
	d.RunScriptsForEvent(session.Logoff, nil)
	d.RunScriptsForEvent(session.Logon, &id)
	d.Wait()

	assert.ElementsMatch(t, []string{"Logoff/3", "Logoff/0"}, exec.ids)
}

func TestDispatcher_NoMatchingSlots(t *testing.T) {
	exec := &fakeExecutor{}
	d, _, buf := newTestDispatcher(t, map[string]string{
		"Script1Path": "a.bat", "Script1Events": "Logon",
	}, exec)

	assert.Zero(t, d.RunScriptsForEvent(session.Shutdown, nil))
	d.Wait()
	assert.Empty(t, exec.ran)
	assert.Contains(t, buf.String(), "no scripts configured for event")
}

func TestOutcome_Success(t *testing.T) {
	assert.True(t, Outcome{}.Success())
	assert.False(t, Outcome{ExitCode: 1}.Success())
	assert.False(t, Outcome{TimedOut: true}.Success())
}
