//go:build windows

package probe

import (
	"golang.org/x/sys/windows"
)

func isLocked(path string) bool {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return true
	}

	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return true
	}

	// Read-only files can't be opened for write, but they are not locked.
	access := uint32(windows.GENERIC_READ | windows.GENERIC_WRITE)
	if attrs&windows.FILE_ATTRIBUTE_READONLY != 0 {
		access = windows.GENERIC_READ
	}

	// Share mode 0: any other open handle makes this fail with a sharing violation.
	h, err := windows.CreateFile(p, access, 0, nil, windows.OPEN_EXISTING, windows.FILE_ATTRIBUTE_NORMAL, 0)
	if err != nil {
		return true
	}
	_ = windows.CloseHandle(h)
	return false
}

func isReparsePoint(path string) bool {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0
}

func clearReadOnly(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return err
	}
	if attrs&windows.FILE_ATTRIBUTE_READONLY == 0 {
		return nil
	}
	return windows.SetFileAttributes(p, attrs&^windows.FILE_ATTRIBUTE_READONLY)
}
