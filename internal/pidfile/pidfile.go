// Package pidfile guards against two foreground instances sweeping the same
// machine at once.
package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// ErrAlreadyRunning is returned by Acquire when the recorded process is alive.
var ErrAlreadyRunning = errors.New("another instance is already running")

// PIDFile is a held PID file.
type PIDFile struct {
	path string
	pid  int
}

// Write записывает PID в файл
func Write(path string, pid int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(fmt.Sprintf("%d\n", pid)), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Read читает PID из файла
func Read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var pid int
	if _, err := fmt.Sscanf(strings.TrimSpace(string(data)), "%d", &pid); err != nil {
		return 0, fmt.Errorf("malformed PID file %s: %w", path, err)
	}
	return pid, nil
}

// IsRunning проверяет что процесс запущен
func IsRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	exists, err := process.PidExists(int32(pid))
	return err == nil && exists
}

// Acquire writes the current PID to path. A file left by a dead process or a
// malformed one is replaced.
func Acquire(path string) (*PIDFile, error) {
	self := os.Getpid()

	if pid, err := Read(path); err == nil && pid != self && IsRunning(pid) {
		return nil, fmt.Errorf("%w (pid %d, %s)", ErrAlreadyRunning, pid, path)
	}

	if err := Write(path, self); err != nil {
		return nil, err
	}
	return &PIDFile{path: path, pid: self}, nil
}

// Path returns the file location.
func (p *PIDFile) Path() string { return p.path }

// Release удаляет PID файл, если он всё ещё наш
func (p *PIDFile) Release() error {
	pid, err := Read(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if pid != p.pid {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
