//go:build windows

package discard

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/windows"
)

const (
	sherbNoConfirmation = 0x00000001
	sherbNoProgressUI   = 0x00000002
	sherbNoSound        = 0x00000004
)

var (
	shell32             = windows.NewLazySystemDLL("shell32.dll")
	procEmptyRecycleBin = shell32.NewProc("SHEmptyRecycleBinW")
)

// $Recycle.Bin holds one folder per user SID.
const platformUserBins = true

// platformFacility empties the recycle bin of every drive in one call.
func platformFacility() error {
	if err := procEmptyRecycleBin.Find(); err != nil {
		return fmt.Errorf("SHEmptyRecycleBinW not available: %w", err)
	}
	hr, _, _ := procEmptyRecycleBin.Call(0, 0, sherbNoConfirmation|sherbNoProgressUI|sherbNoSound)
	if hr != 0 {
		return fmt.Errorf("SHEmptyRecycleBinW failed: HRESULT 0x%08X", uint32(hr))
	}
	return nil
}

// platformRoots returns $Recycle.Bin on every fixed drive.
func platformRoots() []string {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil
	}

	var roots []string
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		drive := string(rune('A'+i)) + `:\`
		p, err := windows.UTF16PtrFromString(drive)
		if err != nil {
			continue
		}
		if windows.GetDriveType(p) != windows.DRIVE_FIXED {
			continue
		}
		roots = append(roots, filepath.Join(drive, "$Recycle.Bin"))
	}
	return roots
}
