//go:build !windows

package constants

const (
	DefaultProfileRoot = "/home"
	DefaultLogOutput   = "/var/log/kioskclean/kioskclean.log"
	DefaultPIDFile     = "/run/kioskclean.pid"

	// Нет процесса оболочки, который стоит перезапускать
	DefaultShellProcess = ""
)

var defaultSystemTemp = [...]string{
	"/var/tmp/kioskclean",
}
