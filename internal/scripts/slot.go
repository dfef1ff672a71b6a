package scripts

import (
	"fmt"
	"strings"
	"time"

	"github.com/aatumaykin/kioskclean/internal/config"
	"github.com/aatumaykin/kioskclean/internal/constants"
	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/session"
)

// Slot is one Script{N} block of app settings.
type Slot struct {
	Index           int
	Path            string
	Events          []string
	Timeout         time.Duration
	PassSessionInfo bool
}

// Matches reports whether the slot applies to ev. Event names compare
// case-insensitively; AllSessions matches everything.
func (s Slot) Matches(ev session.Event) bool {
	name := ev.String()
	for _, e := range s.Events {
		if strings.EqualFold(e, session.AllSessions) || strings.EqualFold(e, name) {
			return true
		}
	}
	return false
}

func (s Slot) String() string {
	return fmt.Sprintf("Script%d(%s)", s.Index, s.Path)
}

// LoadSlots probes Script1..Script20. A slot without a path or an event list
// is skipped. A missing, non-numeric or non-positive timeout becomes 60s.
func LoadSlots(settings config.Settings, log *logger.Logger) []Slot {
	var slots []Slot
	for i := 1; i <= constants.MaxScriptSlots; i++ {
		prefix := fmt.Sprintf("Script%d", i)

		path := settings.String(prefix+"Path", "")
		events := settings.List(prefix + "Events")
		if path == "" || len(events) == 0 {
			continue
		}

		timeout := constants.DefaultScriptTimeout
		if raw, ok := settings.Lookup(prefix + "TimeoutSeconds"); ok && raw != "" {
			if secs, valid := settings.Int(prefix + "TimeoutSeconds"); valid && secs > 0 {
				timeout = time.Duration(secs) * time.Second
			} else {
				log.Warn("invalid script timeout, using default",
					logger.Field{Key: "slot", Value: i},
					logger.Field{Key: "value", Value: raw},
					logger.Field{Key: "default", Value: timeout.String()})
			}
		}

		slots = append(slots, Slot{
			Index:           i,
			Path:            path,
			Events:          events,
			Timeout:         timeout,
			PassSessionInfo: settings.Bool(prefix+"PassSessionInfo", false),
		})
	}
	return slots
}

// Matching filters slots for ev, keeping slot order.
func Matching(slots []Slot, ev session.Event) []Slot {
	var out []Slot
	for _, s := range slots {
		if s.Matches(ev) {
			out = append(out, s)
		}
	}
	return out
}
