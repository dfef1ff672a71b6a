//go:build windows

package terminator

import (
	"os/exec"
	"strconv"
	"syscall"

	"github.com/shirou/gopsutil/v4/process"
)

const createNoWindow = 0x08000000

// requestClose sends WM_CLOSE to the process windows via taskkill without /F.
func requestClose(p *process.Process) error {
	cmd := exec.Command("taskkill", "/PID", strconv.Itoa(int(p.Pid)))
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true, CreationFlags: createNoWindow}
	return cmd.Run()
}
