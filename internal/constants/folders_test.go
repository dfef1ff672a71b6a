package constants

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamedFolders(t *testing.T) {
	assert.Equal(t, []string{"Desktop", "Downloads"}, NamedFolders(false))

	thorough := NamedFolders(true)
	assert.Len(t, thorough, 10)
	assert.Equal(t, "Desktop", thorough[0])
	assert.Equal(t, "Downloads", thorough[1])
	assert.Contains(t, thorough, "Saved Games")
}

func TestTablesAreCopies(t *testing.T) {
	accounts := SystemAccounts()
	accounts[0] = "mutated"
	assert.Equal(t, "Administrator", SystemAccounts()[0])

	junctions := KnownJunctions()
	junctions[0] = "mutated"
	assert.Equal(t, []string{"My Music", "My Pictures", "My Videos"}, KnownJunctions())
}

func TestRelativePaths(t *testing.T) {
	assert.Equal(t, filepath.Join("AppData", "Local", "Temp"), UserTempPaths()[0])
	assert.Len(t, UserTempPaths(), 5)
	assert.Len(t, BrowserCachePaths(), 4)
	assert.Equal(t, filepath.Join("AppData", "Roaming", "Microsoft", "Windows", "Recent"), RecentItemsPath())
	assert.Equal(t, []string{"Desktop", "Documents", "AppData"}, ProfileMarkers())
	assert.NotEmpty(t, SystemTempFolders())
	assert.Contains(t, OfficeProcesses(), "WINWORD")
}
