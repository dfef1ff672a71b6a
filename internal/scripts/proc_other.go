//go:build !windows

package scripts

import (
	"os/exec"
	"syscall"
)

// configureProcess puts the script in its own process group so a timeout
// kills the interpreter and every child it spawned. Otherwise children keep
// the output pipes open and Wait blocks until WaitDelay.
func configureProcess(cmd *exec.Cmd, _ Slot) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
