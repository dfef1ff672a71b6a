// Package terminator closes configured applications and restarts the
// desktop shell. Each instance is handled on its own: a failure to close one
// process never stops the rest of the list.
package terminator

import (
	"strings"
	"time"

	"github.com/aatumaykin/kioskclean/internal/constants"
	"github.com/aatumaykin/kioskclean/internal/logger"
)

// Outcome labels passed to the Recorder.
const (
	OutcomeClosed      = "closed"
	OutcomeKilled      = "killed"
	OutcomeFailed      = "failed"
	OutcomeShellKilled = "shell_killed"
)

// officeKeyword used to be a magic entry of the close list. Office closing is
// now the separate CloseOfficeApps setting.
const officeKeyword = "office"

// Recorder receives one outcome per handled process instance.
type Recorder interface {
	RecordProcess(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordProcess(string) {}

// Terminator closes processes found in a ProcessTable.
type Terminator struct {
	table    ProcessTable
	shell    string
	log      *logger.Logger
	recorder Recorder

	gracePeriod  time.Duration
	shellWait    time.Duration
	settleDelay  time.Duration
	pollInterval time.Duration
	sleep        func(time.Duration)
}

// Option configures a Terminator.
type Option func(*Terminator)

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(t *Terminator) {
		if r != nil {
			t.recorder = r
		}
	}
}

// WithTimings overrides the close grace period, the per-instance shell exit
// wait and the settle delay after a shell restart.
func WithTimings(grace, shellWait, settle time.Duration) Option {
	return func(t *Terminator) {
		t.gracePeriod = grace
		t.shellWait = shellWait
		t.settleDelay = settle
	}
}

// WithPollInterval sets how often exit is checked while waiting.
func WithPollInterval(d time.Duration) Option {
	return func(t *Terminator) {
		if d > 0 {
			t.pollInterval = d
		}
	}
}

// New creates a Terminator. shell is the desktop-shell image name; empty
// disables RestartShell.
func New(table ProcessTable, shell string, log *logger.Logger, opts ...Option) *Terminator {
	t := &Terminator{
		table:        table,
		shell:        shell,
		log:          log,
		recorder:     noopRecorder{},
		gracePeriod:  constants.CloseGracePeriod,
		shellWait:    constants.ShellExitWait,
		settleDelay:  constants.ShellSettleDelay,
		pollInterval: 100 * time.Millisecond,
		sleep:        time.Sleep,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CloseConfiguredProcesses closes every running instance of each name:
// graceful close first, forced kill after the grace period. Returns the
// number of instances that are gone.
func (t *Terminator) CloseConfiguredProcesses(names []string) int {
	if len(names) == 0 {
		t.log.Debug("no processes configured to close")
		return 0
	}

	t.log.Info("closing configured processes", logger.Field{Key: "count", Value: len(names)})

	closed := 0
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if strings.EqualFold(name, officeKeyword) {
			t.log.Warn("\"office\" in ProcessesToClose is ignored, set CloseOfficeApps=true instead")
			continue
		}
		closed += t.closeAll(name)
	}

	t.log.Info("finished closing configured processes", logger.Field{Key: "closed", Value: closed})
	return closed
}

// CloseOfficeApps closes the fixed list of Office applications.
func (t *Terminator) CloseOfficeApps() int {
	t.log.Info("closing office applications")
	closed := 0
	for _, name := range constants.OfficeProcesses() {
		closed += t.closeAll(name)
	}
	return closed
}

func (t *Terminator) closeAll(name string) int {
	procs, err := t.table.Find(name)
	if err != nil {
		t.log.Error("failed to look up process", err, logger.Field{Key: "process", Value: name})
		return 0
	}
	if len(procs) == 0 {
		t.log.Debug("no running instances", logger.Field{Key: "process", Value: name})
		return 0
	}

	t.log.Info("found running instances",
		logger.Field{Key: "process", Value: name},
		logger.Field{Key: "instances", Value: len(procs)})

	closed := 0
	for _, p := range procs {
		if t.closeOne(p) {
			closed++
		}
	}
	return closed
}

// closeOne never panics the caller; a misbehaving process handle is logged
// and counted as failed.
func (t *Terminator) closeOne(p Proc) (ok bool) {
	fields := []logger.Field{
		{Key: "process", Value: p.Name()},
		{Key: "pid", Value: p.PID()},
	}
	defer func() {
		if r := recover(); r != nil {
			t.log.Warn("panic while closing process", append(fields, logger.Field{Key: "panic", Value: r})...)
			t.recorder.RecordProcess(OutcomeFailed)
			ok = false
		}
	}()

	if err := p.RequestClose(); err != nil {
		t.log.Debug("close request failed", append(fields, logger.Field{Key: "error", Value: err})...)
	}

	if t.waitExit(p, t.gracePeriod) {
		t.log.Info("process closed", fields...)
		t.recorder.RecordProcess(OutcomeClosed)
		return true
	}

	t.log.Info("process not responding to close request, force killing", fields...)
	if err := p.Kill(); err != nil {
		t.log.Error("failed to kill process", err, fields...)
		t.recorder.RecordProcess(OutcomeFailed)
		return false
	}

	t.log.Info("process killed", fields...)
	t.recorder.RecordProcess(OutcomeKilled)
	return true
}

// RestartShell force-terminates every shell instance. The session manager is
// expected to start a fresh one.
func (t *Terminator) RestartShell() int {
	if t.shell == "" {
		t.log.Debug("no shell process configured, skipping restart")
		return 0
	}

	procs, err := t.table.Find(t.shell)
	if err != nil {
		t.log.Error("failed to look up shell process", err, logger.Field{Key: "process", Value: t.shell})
		return 0
	}
	if len(procs) == 0 {
		t.log.Info("no shell processes found", logger.Field{Key: "process", Value: t.shell})
		return 0
	}

	t.log.Info("restarting shell",
		logger.Field{Key: "process", Value: t.shell},
		logger.Field{Key: "instances", Value: len(procs)})

	killed := 0
	for _, p := range procs {
		fields := []logger.Field{{Key: "process", Value: p.Name()}, {Key: "pid", Value: p.PID()}}
		if err := p.Kill(); err != nil {
			t.log.Error("failed to terminate shell process", err, fields...)
			t.recorder.RecordProcess(OutcomeFailed)
			continue
		}
		t.waitExit(p, t.shellWait)
		t.log.Info("terminated shell process", fields...)
		t.recorder.RecordProcess(OutcomeShellKilled)
		killed++
	}

	t.sleep(t.settleDelay)
	return killed
}

// waitExit polls until p exits or timeout elapses.
func (t *Terminator) waitExit(p Proc, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if !p.Running() {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		t.sleep(t.pollInterval)
	}
}
