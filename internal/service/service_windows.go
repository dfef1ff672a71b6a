//go:build windows

package service

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/session"
	"golang.org/x/sys/windows/svc"
)

const accepted = svc.AcceptStop | svc.AcceptShutdown | svc.AcceptSessionChange | svc.AcceptPowerEvent

// shutdownWaitHint covers the final cleanup and scripts.
const shutdownWaitHint = 120000

// wtsSessionNotification mirrors WTSSESSION_NOTIFICATION.
type wtsSessionNotification struct {
	Size      uint32
	SessionID uint32
}

// Run hosts h under the service control manager when started by it and in
// the foreground otherwise.
func Run(ctx context.Context, name string, h Handler, log *logger.Logger) error {
	isService, err := svc.IsWindowsService()
	if err != nil {
		return fmt.Errorf("failed to detect service mode: %w", err)
	}
	if !isService {
		return runForeground(ctx, h, log)
	}

	log.Info("starting under service control manager", logger.Field{Key: "service", Value: name})
	if err := svc.Run(name, &host{ctx: ctx, handler: h, log: log}); err != nil {
		return fmt.Errorf("service %s failed: %w", name, err)
	}
	return nil
}

// IsService reports whether the process was started by the service control manager.
func IsService() bool {
	ok, err := svc.IsWindowsService()
	return err == nil && ok
}

type host struct {
	ctx     context.Context
	handler Handler
	log     *logger.Logger
}

// Execute implements svc.Handler.
func (s *host) Execute(_ []string, r <-chan svc.ChangeRequest, status chan<- svc.Status) (bool, uint32) {
	status <- svc.Status{State: svc.StartPending}

	if err := s.handler.Initialize(s.ctx); err != nil {
		s.log.Error("service initialization failed", err)
		return true, 1
	}

	status <- svc.Status{State: svc.Running, Accepts: accepted}
	s.handler.HandleEvent(session.Startup, nil)

	for {
		select {
		case <-s.ctx.Done():
			s.stop(status)
			return false, 0

		case c := <-r:
			switch c.Cmd {
			case svc.Interrogate:
				status <- c.CurrentStatus

			case svc.Stop:
				s.log.Info("service stop requested")
				s.stop(status)
				return false, 0

			case svc.Shutdown:
				status <- svc.Status{State: svc.StopPending, WaitHint: shutdownWaitHint}
				s.handler.HandleEvent(session.Shutdown, nil)
				s.stop(status)
				return false, 0

			case svc.SessionChange:
				if ev, ok := sessionChangeEvent(c.EventType); ok {
					s.handler.HandleEvent(ev, sessionIDFrom(c.EventData))
				}

			case svc.PowerEvent:
				if ev, ok := powerEvent(c.EventType); ok {
					s.handler.HandleEvent(ev, nil)
				}

			default:
				s.log.Warn("unexpected service control request",
					logger.Field{Key: "cmd", Value: uint32(c.Cmd)})
			}
		}
	}
}

func (s *host) stop(status chan<- svc.Status) {
	status <- svc.Status{State: svc.StopPending}
	if err := s.handler.Shutdown(); err != nil {
		s.log.Error("shutdown failed", err)
	}
	status <- svc.Status{State: svc.Stopped}
}

func sessionIDFrom(data uintptr) *int {
	if data == 0 {
		return nil
	}
	n := (*wtsSessionNotification)(unsafe.Pointer(data))
	id := int(n.SessionID)
	return &id
}
