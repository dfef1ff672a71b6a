//go:build !windows

package terminator

import "github.com/shirou/gopsutil/v4/process"

// requestClose sends SIGTERM.
func requestClose(p *process.Process) error {
	return p.Terminate()
}
