package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/aatumaykin/kioskclean/internal/constants"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию из TOML или YAML файла
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse разбирает конфигурацию из байтов; format - "toml" или "yaml"
func Parse(data []byte, format string) (*Config, error) {
	var cfg Config
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)
	expandEnvVars(&cfg)

	return &cfg, nil
}

// Default возвращает конфигурацию только со значениями по умолчанию
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

// Settings возвращает плоский key/value источник из [app_settings]
func (c *Config) Settings() Settings {
	return NewSettings(c.AppSettings)
}

// StartupDelay возвращает задержку перед очисткой при старте
func (c *Config) StartupDelay() time.Duration {
	return time.Duration(c.Service.StartupDelaySeconds) * time.Second
}

// Validate проверяет валидность конфигурации
func (c *Config) Validate() []error {
	var errors []error

	if c.Logging.Level == "" {
		errors = append(errors, fmt.Errorf("logging.level is required"))
	} else {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
		if !validLevels[strings.ToLower(c.Logging.Level)] {
			errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
		}
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errors = append(errors, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
	}

	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		errors = append(errors, fmt.Errorf("logging rotation limits must not be negative"))
	}

	if c.Service.StartupDelaySeconds < 0 {
		errors = append(errors, fmt.Errorf("service.startup_delay_seconds must be >= 0"))
	}
	if c.Service.Workers < 1 {
		errors = append(errors, fmt.Errorf("service.workers must be >= 1"))
	}
	if c.Service.QueueSize < 1 {
		errors = append(errors, fmt.Errorf("service.queue_size must be >= 1"))
	}
	if _, err := cron.ParseStandard(c.Service.HeartbeatSchedule); err != nil {
		errors = append(errors, fmt.Errorf("invalid service.heartbeat_schedule %q: %w", c.Service.HeartbeatSchedule, err))
	}

	if c.Paths.ProfileRoot == "" {
		errors = append(errors, fmt.Errorf("paths.profile_root is required"))
	} else if err := validatePath(c.Paths.ProfileRoot, "paths.profile_root"); err != nil {
		errors = append(errors, err)
	}
	for i, p := range c.Paths.SystemTemp {
		if err := validatePath(p, fmt.Sprintf("paths.system_temp[%d]", i)); err != nil {
			errors = append(errors, err)
		}
	}
	for i, p := range c.Paths.DiscardRoots {
		if err := validatePath(p, fmt.Sprintf("paths.discard_roots[%d]", i)); err != nil {
			errors = append(errors, err)
		}
	}

	if c.Sweep.ProgressEvery < 1 {
		errors = append(errors, fmt.Errorf("sweep.progress_every must be >= 1"))
	}

	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		errors = append(errors, fmt.Errorf("metrics.listen is required when metrics are enabled"))
	}

	for i, entry := range c.Schedule {
		if _, err := cron.ParseStandard(entry.Spec); err != nil {
			errors = append(errors, fmt.Errorf("invalid schedule[%d].spec %q: %w", i, entry.Spec, err))
		}
		if strings.TrimSpace(entry.Trigger) == "" {
			errors = append(errors, fmt.Errorf("schedule[%d].trigger is required", i))
		}
	}

	return errors
}

func validatePath(path, fieldName string) error {
	if path == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return fmt.Errorf("%s contains potentially dangerous path traversal sequence", fieldName)
		}
	}

	return nil
}

// applyDefaults применяет значения по умолчанию
func applyDefaults(c *Config) {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = constants.DefaultLogOutput
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 1
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 5
	}

	if c.Service.Name == "" {
		c.Service.Name = constants.ServiceName
	}
	if c.Service.StartupDelaySeconds == 0 {
		c.Service.StartupDelaySeconds = int(constants.DefaultStartupDelay / time.Second)
	}
	if c.Service.HeartbeatSchedule == "" {
		c.Service.HeartbeatSchedule = constants.DefaultHeartbeatSpec
	}
	if c.Service.Workers == 0 {
		c.Service.Workers = constants.DefaultWorkers
	}
	if c.Service.QueueSize == 0 {
		c.Service.QueueSize = constants.DefaultQueueSize
	}
	if c.Service.PIDFile == "" {
		c.Service.PIDFile = constants.DefaultPIDFile
	}

	if c.Paths.ProfileRoot == "" {
		c.Paths.ProfileRoot = constants.DefaultProfileRoot
	}
	if c.Paths.SystemTemp == nil {
		c.Paths.SystemTemp = constants.SystemTempFolders()
	}
	if c.Paths.ShellProcess == "" {
		c.Paths.ShellProcess = constants.DefaultShellProcess
	}

	if c.Sweep.Pattern == "" {
		c.Sweep.Pattern = "*"
	}
	if c.Sweep.ProgressEvery == 0 {
		c.Sweep.ProgressEvery = constants.DefaultProgressEvery
	}

	if c.Metrics.Listen == "" {
		c.Metrics.Listen = constants.DefaultMetricsListen
	}

	if c.AppSettings == nil {
		c.AppSettings = map[string]string{}
	}
}

// expandEnvVars расширяет переменные окружения в конфигурации
func expandEnvVars(c *Config) {
	c.Logging.Output = expandHome(expandEnv(c.Logging.Output))
	c.Service.PIDFile = expandHome(expandEnv(c.Service.PIDFile))
	c.Paths.ProfileRoot = expandHome(expandEnv(c.Paths.ProfileRoot))

	for i, dir := range c.Paths.SystemTemp {
		c.Paths.SystemTemp[i] = expandHome(expandEnv(dir))
	}
	for i, dir := range c.Paths.DiscardRoots {
		c.Paths.DiscardRoots[i] = expandHome(expandEnv(dir))
	}

	for k, v := range c.AppSettings {
		c.AppSettings[k] = expandEnv(v)
	}
}

// expandEnv расширяет переменную окружения формата ${VAR:default}
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}

	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	content := s[2:end]
	rest := s[end+1:]
	if parts := strings.SplitN(content, ":", 2); len(parts) == 2 {
		if val := os.Getenv(parts[0]); val != "" {
			return val + rest
		}
		return parts[1] + rest
	}

	// Без значения по умолчанию
	return os.Getenv(content) + rest
}

// expandHome расширяет ~ в пути
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
