//go:build windows

package constants

const (
	DefaultProfileRoot  = `C:\Users`
	DefaultLogOutput    = `C:\Logs\ProfileCleanUp\ProfileCleanup.log`
	DefaultPIDFile      = `C:\Logs\ProfileCleanUp\kioskclean.pid`
	DefaultShellProcess = "explorer.exe"
)

var defaultSystemTemp = [...]string{
	`C:\WINDOWS\TEMP`,
	`C:\WINDOWS\Prefetch`,
}
