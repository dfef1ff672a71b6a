//go:build windows

package scripts

import (
	"os/exec"
	"strconv"
	"strings"
	"syscall"
)

const createNoWindow = 0x08000000

// configureProcess hides the console window and makes a timeout kill the
// whole process tree.
func configureProcess(cmd *exec.Cmd, slot Slot) {
	attr := &syscall.SysProcAttr{HideWindow: true, CreationFlags: createNoWindow}
	if strings.EqualFold(cmd.Args[0], "cmd.exe") {
		attr.CmdLine = `cmd.exe /c ""` + slot.Path + `""`
	}
	cmd.SysProcAttr = attr

	cmd.Cancel = func() error {
		kill := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(cmd.Process.Pid))
		kill.SysProcAttr = &syscall.SysProcAttr{HideWindow: true, CreationFlags: createNoWindow}
		if err := kill.Run(); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
}
