// Package probe classifies filesystem entries before a sweep touches them:
// whether a file is held open by another process, whether an entry is a
// reparse point (junction or symlink), and clearing the read-only bit.
//
// Probes never return errors. Any failure is folded into the answer that
// keeps the caller on the safe side.
package probe

// Prober is the interface the sweeper and cleanup engine depend on.
type Prober interface {
	IsLocked(path string) bool
	IsReparsePoint(path string) bool
	ClearReadOnly(path string) error
}

// OS is the Prober backed by the host operating system.
type OS struct{}

var _ Prober = OS{}

// IsLocked reports whether path cannot be opened exclusively right now.
// Sharing violations, access errors and vanished files all count as locked.
func (OS) IsLocked(path string) bool {
	return isLocked(path)
}

// IsReparsePoint reports whether path is a junction, symlink or other reparse
// point. It returns false when the attributes cannot be read.
func (OS) IsReparsePoint(path string) bool {
	return isReparsePoint(path)
}

// ClearReadOnly removes the read-only attribute so the entry can be deleted.
func (OS) ClearReadOnly(path string) error {
	return clearReadOnly(path)
}
