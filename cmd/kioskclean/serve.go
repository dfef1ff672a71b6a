package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aatumaykin/kioskclean/internal/app"
	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/pidfile"
	"github.com/aatumaykin/kioskclean/internal/service"
	"github.com/aatumaykin/kioskclean/internal/version"
	"github.com/spf13/cobra"
)

var serveNoPIDFile bool

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the cleanup service (main command)",
	Long: `Run the cleanup orchestrator.

Started by the Windows service control manager it reacts to session and power
notifications. Started from a console it runs in the foreground until
interrupted.`,
	RunE: serveHandler,
}

func serveHandler(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	if !serveNoPIDFile && !service.IsService() {
		pf, err := pidfile.Acquire(cfg.Service.PIDFile)
		if err != nil {
			log.Error("failed to acquire PID file", err)
			return err
		}
		defer func() {
			if err := pf.Release(); err != nil {
				log.Warn("failed to remove PID file", logger.Field{Key: "error", Value: err.Error()})
			}
		}()
	}

	log.Info(version.FormatStartupMessage(),
		logger.Field{Key: "service", Value: cfg.Service.Name},
		logger.Field{Key: "git_commit", Value: version.GitCommit},
		logger.Field{Key: "profile_root", Value: cfg.Paths.ProfileRoot},
		logger.Field{Key: "workers", Value: cfg.Service.Workers},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg, log)
	if err := service.Run(ctx, cfg.Service.Name, a, log); err != nil {
		log.Error("service terminated with error", err)
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoPIDFile, "no-pid-file", false, "Do not write the PID file")
}
