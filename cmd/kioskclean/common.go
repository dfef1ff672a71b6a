package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aatumaykin/kioskclean/internal/config"
	"github.com/aatumaykin/kioskclean/internal/constants"
	"github.com/aatumaykin/kioskclean/internal/logger"
)

// loadConfig reads the .env file and the config file. A missing config at
// the default location yields the built-in defaults; an explicit path must
// exist.
func loadConfig() (*config.Config, error) {
	env := envPath
	if env == "" {
		env = constants.DefaultEnvPath
	}
	if err := config.LoadEnvOptional(env); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", env, err)
	}

	path := configPath
	explicit := path != ""
	if !explicit {
		path = constants.DefaultConfigPath
	}

	var cfg *config.Config
	if _, err := os.Stat(path); err != nil && !explicit && os.IsNotExist(err) {
		cfg = config.Default()
	} else {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// newLogger builds the logger from the [logging] section.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetDefault(log)
	return log, nil
}

// consoleLogger is used by the one-shot commands: same level and format,
// written to stderr so stdout carries only the command's result.
func consoleLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: "stderr",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := consoleLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
