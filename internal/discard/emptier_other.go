//go:build !windows

package discard

import (
	"os"
	"path/filepath"
)

// XDG trash folders hold the trashed entries directly.
const platformUserBins = false

func platformFacility() error {
	return ErrUnsupported
}

// platformRoots returns the XDG trash folders of the current user.
func platformRoots() []string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		base = filepath.Join(home, ".local", "share")
	}
	trash := filepath.Join(base, "Trash")
	return []string{filepath.Join(trash, "files"), filepath.Join(trash, "info")}
}
