package constants

import "time"

// DefaultVersion is the default version of the application
const DefaultVersion = "0.1.0-dev"

// DefaultBuildTime is the default build time when not provided at build time
const DefaultBuildTime = "unknown"

// DefaultGitCommit is the default git commit hash when not provided at build time
const DefaultGitCommit = "unknown"

// DefaultGoVersion is the default Go version when not provided at build time
const DefaultGoVersion = "unknown"

// ServiceName is the name the service is registered under.
const ServiceName = "KioskCleanupService"

const (
	// DefaultStartupDelay is how long after service start the startup cleanup runs.
	DefaultStartupDelay = 60 * time.Second

	// DefaultHeartbeatSpec is the robfig/cron schedule of the liveness log line.
	DefaultHeartbeatSpec = "@every 1h"

	// DefaultScriptTimeout applies to slots without a valid timeout.
	DefaultScriptTimeout = 60 * time.Second

	// MaxScriptSlots is the number of Script{N} slots probed in configuration.
	MaxScriptSlots = 20

	// DefaultProgressEvery is the number of deletions between progress lines.
	DefaultProgressEvery = 50

	// CloseGracePeriod is how long a process gets to exit after a close request.
	CloseGracePeriod = 3 * time.Second

	// ShellExitWait bounds the wait for each killed shell instance.
	ShellExitWait = 2 * time.Second

	// ShellSettleDelay gives the session manager time to respawn the shell.
	ShellSettleDelay = 1 * time.Second

	// DefaultWorkers is the background pool size.
	DefaultWorkers = 2

	// DefaultQueueSize is the background pool queue capacity.
	DefaultQueueSize = 64

	// DefaultMetricsListen is the address of the Prometheus endpoint.
	DefaultMetricsListen = "127.0.0.1:9477"
)

// Environment variables handed to scripts.
const (
	EnvSessionEvent = "KIOSK_SESSION_EVENT"
	EnvSessionID    = "KIOSK_SESSION_ID"
)
