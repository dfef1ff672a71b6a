// Package privilege reports whether the process runs with an administrative
// or system identity. The answer is informational: callers log it and carry on.
package privilege

// Identity describes the current process token.
type Identity struct {
	Privileged bool
	Name       string
}

// Current inspects the running process.
func Current() Identity {
	return current()
}
