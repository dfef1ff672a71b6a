// Package session describes the session lifecycle events the orchestrator
// reacts to and the cleanup trigger label each one maps to.
package session

import (
	"errors"
	"fmt"
	"strings"
)

// Event is a session lifecycle trigger supplied by the host.
type Event int

const (
	Startup Event = iota
	Logon
	Logoff
	Lock
	Unlock
	Resume
	Shutdown
	ManualFull
)

// AllSessions is the wildcard event name accepted in script slot event lists.
const AllSessions = "AllSessions"

// ErrUnknownEvent is returned by Parse for names that match no event.
var ErrUnknownEvent = errors.New("unknown session event")

var names = [...]string{
	Startup:    "Startup",
	Logon:      "Logon",
	Logoff:     "Logoff",
	Lock:       "Lock",
	Unlock:     "Unlock",
	Resume:     "Resume",
	Shutdown:   "Shutdown",
	ManualFull: "ManualFull",
}

// Trigger labels understood by the cleanup engine.
const (
	TriggerStartup  = "System Startup"
	TriggerLogon    = "User Logon"
	TriggerLogoff   = "User Logoff"
	TriggerLock     = "Session Lock"
	TriggerUnlock   = "Session Unlock"
	TriggerResume   = "Resume From Sleep"
	TriggerShutdown = "System Shutdown"
	TriggerManual   = "Manual Test"
)

var triggers = [...]string{
	Startup:    TriggerStartup,
	Logon:      TriggerLogon,
	Logoff:     TriggerLogoff,
	Lock:       TriggerLock,
	Unlock:     TriggerUnlock,
	Resume:     TriggerResume,
	Shutdown:   TriggerShutdown,
	ManualFull: TriggerManual,
}

// All returns every event in declaration order.
func All() []Event {
	return []Event{Startup, Logon, Logoff, Lock, Unlock, Resume, Shutdown, ManualFull}
}

func (e Event) String() string {
	if e < 0 || int(e) >= len(names) {
		return fmt.Sprintf("Event(%d)", int(e))
	}
	return names[e]
}

// Trigger returns the cleanup trigger label for the event.
func (e Event) Trigger() string {
	if e < 0 || int(e) >= len(triggers) {
		return TriggerManual
	}
	return triggers[e]
}

// Parse resolves an event name case-insensitively.
// "Manual" is accepted as an alias of ManualFull.
func Parse(name string) (Event, error) {
	n := strings.TrimSpace(name)
	if strings.EqualFold(n, "manual") {
		return ManualFull, nil
	}
	for i, candidate := range names {
		if strings.EqualFold(candidate, n) {
			return Event(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
}
