// Package service hosts the orchestrator. Started by the Windows service
// control manager it reacts to session, power and stop notifications; run
// from a console it works in the foreground until its context is cancelled.
package service

import (
	"context"

	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/session"
)

// Handler is driven by the host. *app.App implements it.
type Handler interface {
	Initialize(ctx context.Context) error
	HandleEvent(ev session.Event, sessionID *int)
	Shutdown() error
}

// Session change codes delivered with a session change control.
const (
	wtsSessionLogon  = 0x5
	wtsSessionLogoff = 0x6
	wtsSessionLock   = 0x7
	wtsSessionUnlock = 0x8
)

// pbtAPMResumeAutomatic is the power event sent on every wake.
const pbtAPMResumeAutomatic = 0x12

// sessionChangeEvent maps a session change code to an event. Remote connect,
// console switch and the like are ignored.
func sessionChangeEvent(code uint32) (session.Event, bool) {
	switch code {
	case wtsSessionLogon:
		return session.Logon, true
	case wtsSessionLogoff:
		return session.Logoff, true
	case wtsSessionLock:
		return session.Lock, true
	case wtsSessionUnlock:
		return session.Unlock, true
	default:
		return 0, false
	}
}

func powerEvent(code uint32) (session.Event, bool) {
	if code == pbtAPMResumeAutomatic {
		return session.Resume, true
	}
	return 0, false
}

// runForeground initializes h, schedules the startup cleanup and blocks
// until ctx is done.
func runForeground(ctx context.Context, h Handler, log *logger.Logger) error {
	if err := h.Initialize(ctx); err != nil {
		return err
	}

	h.HandleEvent(session.Startup, nil)
	log.Info("running in foreground, press Ctrl+C to stop")

	<-ctx.Done()

	log.Info("stop requested")
	return h.Shutdown()
}
