package scripts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aatumaykin/kioskclean/internal/constants"
	"github.com/aatumaykin/kioskclean/internal/session"
)

var (
	// ErrScriptNotFound is returned when the slot path does not exist.
	ErrScriptNotFound = errors.New("script file not found")
	// ErrUnsupportedScript is returned for extensions without an interpreter.
	ErrUnsupportedScript = errors.New("unsupported script type")
)

// captureLimit bounds what is kept of each stream. The margin over
// maxOutputLen leaves room for what Sanitize strips.
const captureLimit = maxOutputLen + 4*1024

// exitCodeTimedOut is reported when the child was killed on timeout.
const exitCodeTimedOut = -1

// Outcome is the result of one script execution.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	Duration time.Duration
}

// Success reports whether the script exited with code 0.
func (o Outcome) Success() bool {
	return !o.TimedOut && o.ExitCode == 0
}

// Invocation describes how a script is started.
type Invocation struct {
	Name string
	Args []string
	// PassEnv is false only for .ps1 slots that get session info as parameters.
	PassEnv bool
}

// Runner starts one script and waits for it within the slot timeout.
type Runner struct {
	waitDelay time.Duration
}

// NewRunner creates a Runner.
func NewRunner() *Runner {
	return &Runner{waitDelay: 2 * time.Second}
}

// Run executes the slot's script for ev. The returned error covers problems
// launching the script; a non-zero exit or a timeout is reported in Outcome.
func (r *Runner) Run(ctx context.Context, slot Slot, ev session.Event, sessionID *int) (Outcome, error) {
	info, err := os.Stat(slot.Path)
	if err != nil || info.IsDir() {
		return Outcome{}, fmt.Errorf("%w: %s", ErrScriptNotFound, slot.Path)
	}

	inv, err := invocationFor(slot, ev, sessionID)
	if err != nil {
		return Outcome{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, slot.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = filepath.Dir(slot.Path)
	cmd.Env = os.Environ()
	if inv.PassEnv {
		cmd.Env = append(cmd.Env,
			constants.EnvSessionEvent+"="+ev.String(),
			constants.EnvSessionID+"="+formatSessionID(sessionID))
	}

	stdout := &cappedBuffer{limit: captureLimit}
	stderr := &cappedBuffer{limit: captureLimit}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = r.waitDelay
	configureProcess(cmd, slot)

	start := time.Now()
	err = cmd.Run()
	out := Outcome{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		out.TimedOut = true
		out.ExitCode = exitCodeTimedOut
		return out, nil
	}

	if err == nil {
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}

	return out, fmt.Errorf("failed to start %s: %w", slot.Path, err)
}

func formatSessionID(id *int) string {
	if id == nil {
		return "0"
	}
	return strconv.Itoa(*id)
}

// cappedBuffer keeps the first limit bytes written and discards the rest.
// Writes always report success so the child never sees a broken pipe.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	if room := c.limit - c.buf.Len(); room > 0 {
		if len(p) > room {
			c.buf.Write(p[:room])
		} else {
			c.buf.Write(p)
		}
	}
	return len(p), nil
}

func (c *cappedBuffer) String() string {
	return c.buf.String()
}
