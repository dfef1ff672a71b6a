package constants

import "path/filepath"

// Folder tables are fixed for the lifetime of the process. Accessors return
// fresh slices so callers can't mutate them.

var userTempPaths = [...][]string{
	{"AppData", "Local", "Temp"},
	{"AppData", "Local", "Microsoft", "Windows", "Temporary Internet Files"},
	{"AppData", "Local", "Microsoft", "Windows", "INetCache"},
	{"AppData", "Local", "Microsoft", "Windows", "WER"},
	{"AppData", "Local", "CrashDumps"},
}

var browserCachePaths = [...][]string{
	{"AppData", "Local", "Google", "Chrome", "User Data", "Default", "Cache"},
	{"AppData", "Local", "Google", "Chrome", "User Data", "Default", "Media Cache"},
	{"AppData", "Local", "Microsoft", "Edge", "User Data", "Default", "Cache"},
	{"AppData", "Local", "Mozilla", "Firefox", "Profiles"},
}

// Desktop and Downloads are swept on every profile pass, the rest only when thorough.
var alwaysSweptFolders = [...]string{"Desktop", "Downloads"}

var thoroughOnlyFolders = [...]string{
	"Pictures",
	"Videos",
	"Music",
	"Favorites",
	"Contacts",
	"Links",
	"Saved Games",
	"Searches",
}

var recentItemsPath = []string{"AppData", "Roaming", "Microsoft", "Windows", "Recent"}

// DocumentsFolder gets per-subdirectory handling because of legacy junctions.
const DocumentsFolder = "Documents"

var knownJunctions = [...]string{"My Music", "My Pictures", "My Videos"}

var profileMarkers = [...]string{"Desktop", "Documents", "AppData"}

var systemAccounts = [...]string{
	"Administrator",
	"Default",
	"Public",
	"defaultuser0",
	"All Users",
	"Default User",
	"Administrator.DESKTOP",
	"Administrator.WORKGROUP",
	"Administrator.DOMAIN",
}

var officeProcesses = [...]string{
	"WINWORD",
	"EXCEL",
	"POWERPNT",
	"OUTLOOK",
	"ONENOTE",
	"MSACCESS",
	"MSPUB",
	"VISIO",
	"lync",
}

func joinAll(parts [][]string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, filepath.Join(p...))
	}
	return out
}

// SystemTempFolders returns the machine-wide temp folders swept on startup and resume.
func SystemTempFolders() []string { return append([]string(nil), defaultSystemTemp[:]...) }

// UserTempPaths returns temp locations relative to a profile directory.
func UserTempPaths() []string { return joinAll(userTempPaths[:]) }

// BrowserCachePaths returns browser cache locations relative to a profile directory.
func BrowserCachePaths() []string { return joinAll(browserCachePaths[:]) }

// NamedFolders returns the named user folders for a pass.
func NamedFolders(thorough bool) []string {
	out := append([]string(nil), alwaysSweptFolders[:]...)
	if thorough {
		out = append(out, thoroughOnlyFolders[:]...)
	}
	return out
}

// RecentItemsPath is the extra per-profile path swept after the named folders.
func RecentItemsPath() string { return filepath.Join(recentItemsPath...) }

func KnownJunctions() []string { return append([]string(nil), knownJunctions[:]...) }

func ProfileMarkers() []string { return append([]string(nil), profileMarkers[:]...) }

func SystemAccounts() []string { return append([]string(nil), systemAccounts[:]...) }

// OfficeProcesses lists process names closed by the CloseOfficeApps policy.
func OfficeProcesses() []string { return append([]string(nil), officeProcesses[:]...) }
