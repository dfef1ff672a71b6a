// Package version holds build information injected through -ldflags.
package version

import (
	"fmt"
	"runtime"

	"github.com/aatumaykin/kioskclean/internal/constants"
)

var (
	Version   = constants.DefaultVersion
	BuildTime = constants.DefaultBuildTime
	GitCommit = constants.DefaultGitCommit
	GoVersion = constants.DefaultGoVersion
)

func SetInfo(v, bt, gc, gv string) {
	if v != "" {
		Version = v
	}
	if bt != "" {
		BuildTime = bt
	}
	if gc != "" {
		GitCommit = gc
	}
	if gv != "" {
		GoVersion = gv
	}
}

// String returns a one-line version for the version command.
func String() string {
	gv := GoVersion
	if gv == constants.DefaultGoVersion {
		gv = runtime.Version()
	}
	return fmt.Sprintf("kioskclean %s (commit %s, built %s, %s %s/%s)",
		Version, GitCommit, BuildTime, gv, runtime.GOOS, runtime.GOARCH)
}

// FormatStartupMessage is the first line logged by the service.
func FormatStartupMessage() string {
	return fmt.Sprintf("%s started, version %s, build %s", constants.ServiceName, Version, BuildTime)
}
