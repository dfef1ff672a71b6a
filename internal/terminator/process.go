package terminator

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
	"golang.org/x/text/cases"
)

// Proc is one running process instance.
type Proc interface {
	PID() int32
	Name() string
	// RequestClose asks the process to exit on its own.
	RequestClose() error
	Kill() error
	Running() bool
}

// ProcessTable finds running processes by image name.
type ProcessTable interface {
	Find(name string) ([]Proc, error)
}

// normalizeName folds case and drops the ".exe" suffix, so "Chrome.exe" and
// "chrome" refer to the same image.
func normalizeName(name string) string {
	n := cases.Fold().String(strings.TrimSpace(name))
	return strings.TrimSuffix(n, ".exe")
}

// SystemTable reads the live process list through gopsutil.
type SystemTable struct{}

// Find returns every running process whose image name matches name.
func (SystemTable) Find(name string) ([]Proc, error) {
	want := normalizeName(name)
	if want == "" {
		return nil, nil
	}

	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	var out []Proc
	for _, p := range procs {
		// Процесс мог завершиться между листингом и чтением имени
		n, err := p.Name()
		if err != nil {
			continue
		}
		if normalizeName(n) == want {
			out = append(out, &systemProc{p: p, name: n})
		}
	}
	return out, nil
}

type systemProc struct {
	p    *process.Process
	name string
}

func (s *systemProc) PID() int32 { return s.p.Pid }
func (s *systemProc) Name() string { return s.name }
func (s *systemProc) Kill() error { return s.p.Kill() }
func (s *systemProc) RequestClose() error {
	return requestClose(s.p)
}

func (s *systemProc) Running() bool {
	running, err := s.p.IsRunning()
	return err == nil && running
}
