//go:build windows

package scripts

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aatumaykin/kioskclean/internal/session"
)

// invocationFor picks the interpreter by extension.
func invocationFor(slot Slot, ev session.Event, sessionID *int) (Invocation, error) {
	switch strings.ToLower(filepath.Ext(slot.Path)) {
	case ".ps1":
		args := []string{
			"-ExecutionPolicy", "Bypass",
			"-WindowStyle", "Hidden",
			"-NonInteractive",
			"-NoProfile",
			"-File", slot.Path,
		}
		if slot.PassSessionInfo {
			args = append(args, "-SessionEvent", ev.String(), "-SessionId", formatSessionID(sessionID))
		}
		return Invocation{Name: "powershell.exe", Args: args, PassEnv: !slot.PassSessionInfo}, nil
	case ".bat", ".cmd":
		// Командная строка собирается в configureProcess: cmd.exe
		// по-своему разбирает кавычки
		return Invocation{Name: "cmd.exe", PassEnv: true}, nil
	default:
		return Invocation{}, fmt.Errorf("%w: %s", ErrUnsupportedScript, filepath.Ext(slot.Path))
	}
}
