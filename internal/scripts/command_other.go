//go:build !windows

package scripts

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aatumaykin/kioskclean/internal/session"
)

// invocationFor picks the interpreter by extension. Batch files have no
// interpreter here.
func invocationFor(slot Slot, ev session.Event, sessionID *int) (Invocation, error) {
	switch strings.ToLower(filepath.Ext(slot.Path)) {
	case ".ps1":
		args := []string{"-NonInteractive", "-NoProfile", "-File", slot.Path}
		if slot.PassSessionInfo {
			args = append(args, "-SessionEvent", ev.String(), "-SessionId", formatSessionID(sessionID))
		}
		return Invocation{Name: "pwsh", Args: args, PassEnv: !slot.PassSessionInfo}, nil
	case ".sh":
		return Invocation{Name: "sh", Args: []string{slot.Path}, PassEnv: true}, nil
	default:
		return Invocation{}, fmt.Errorf("%w: %s", ErrUnsupportedScript, filepath.Ext(slot.Path))
	}
}
