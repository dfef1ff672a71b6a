// Package config provides configuration loading and validation for the
// cleanup service. It supports TOML and YAML files (chosen by extension) with
// environment variable expansion, default values and validation.
//
// Configuration structure:
//   - [logging]: level, format, output and rotation of the log file
//   - [service]: service name, startup delay, heartbeat schedule, worker pool
//   - [paths]: profile root, system temp folders, discard roots, shell process
//   - [sweep]: file name pattern and progress interval
//   - [metrics]: Prometheus endpoint
//   - [[schedule]]: optional cron-scheduled cleanup triggers
//   - [app_settings]: flat key/value settings (ProcessesToClose, TargetProfiles,
//     EnableScripts, Script{N}Path, ...)
//
// Environment variables:
// Values can reference ${VAR} or ${VAR:default}.
// For example: profile_root = "${KIOSK_PROFILE_ROOT:C:\\Users}"
package config

// Config represents the main application configuration.
type Config struct {
	Logging     LoggingConfig     `toml:"logging" yaml:"logging"`
	Service     ServiceConfig     `toml:"service" yaml:"service"`
	Paths       PathsConfig       `toml:"paths" yaml:"paths"`
	Sweep       SweepConfig       `toml:"sweep" yaml:"sweep"`
	Metrics     MetricsConfig     `toml:"metrics" yaml:"metrics"`
	Schedule    []ScheduleEntry   `toml:"schedule" yaml:"schedule"`
	AppSettings map[string]string `toml:"app_settings" yaml:"app_settings"`
}

// LoggingConfig представляет конфигурацию логирования
type LoggingConfig struct {
	Level      string `toml:"level" yaml:"level"`
	Format     string `toml:"format" yaml:"format"`
	Output     string `toml:"output" yaml:"output"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `toml:"compress" yaml:"compress"`
}

// ServiceConfig представляет конфигурацию хоста сервиса
type ServiceConfig struct {
	Name                string `toml:"name" yaml:"name"`
	StartupDelaySeconds int    `toml:"startup_delay_seconds" yaml:"startup_delay_seconds"`
	HeartbeatSchedule   string `toml:"heartbeat_schedule" yaml:"heartbeat_schedule"`
	Workers             int    `toml:"workers" yaml:"workers"`
	QueueSize           int    `toml:"queue_size" yaml:"queue_size"`
	PIDFile             string `toml:"pid_file" yaml:"pid_file"`
}

// PathsConfig представляет пути, с которыми работает очистка
type PathsConfig struct {
	ProfileRoot  string   `toml:"profile_root" yaml:"profile_root"`
	SystemTemp   []string `toml:"system_temp" yaml:"system_temp"`
	DiscardRoots []string `toml:"discard_roots" yaml:"discard_roots"`
	ShellProcess string   `toml:"shell_process" yaml:"shell_process"`
}

// SweepConfig представляет настройки удаления файлов
type SweepConfig struct {
	Pattern       string `toml:"pattern" yaml:"pattern"`
	ProgressEvery int    `toml:"progress_every" yaml:"progress_every"`
}

// MetricsConfig представляет настройки Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Listen  string `toml:"listen" yaml:"listen"`
}

// ScheduleEntry runs a cleanup trigger on a cron schedule.
type ScheduleEntry struct {
	Spec    string `toml:"spec" yaml:"spec"`
	Trigger string `toml:"trigger" yaml:"trigger"`
}
