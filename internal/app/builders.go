package app

import (
	"context"

	"github.com/aatumaykin/kioskclean/internal/cleanup"
	"github.com/aatumaykin/kioskclean/internal/config"
	"github.com/aatumaykin/kioskclean/internal/constants"
	"github.com/aatumaykin/kioskclean/internal/discard"
	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/metrics"
	"github.com/aatumaykin/kioskclean/internal/probe"
	"github.com/aatumaykin/kioskclean/internal/profiles"
	"github.com/aatumaykin/kioskclean/internal/scripts"
	"github.com/aatumaykin/kioskclean/internal/sweep"
	"github.com/aatumaykin/kioskclean/internal/terminator"
)

// BuildEngine assembles the cleanup engine from configuration. Exported for
// the one-shot CLI commands that run without the service.
func BuildEngine(cfg *config.Config, log *logger.Logger, m *metrics.PrometheusMetrics) *cleanup.Engine {
	return buildEngine(cfg, cfg.Settings(), m, log)
}

func buildEngine(cfg *config.Config, settings config.Settings, m *metrics.PrometheusMetrics, log *logger.Logger) *cleanup.Engine {
	prober := probe.OS{}

	opts := []sweep.Option{
		sweep.WithPattern(cfg.Sweep.Pattern),
		sweep.WithProgressEvery(cfg.Sweep.ProgressEvery),
		sweep.WithProtectedNames(constants.KnownJunctions()...),
	}
	var rec cleanup.Recorder
	if m != nil {
		opts = append(opts, sweep.WithRecorder(m))
		rec = m
	}
	sweeper := sweep.New(log, prober, opts...)

	return cleanup.NewEngine(cleanup.Config{
		SystemTemp: cfg.Paths.SystemTemp,
		Sweeper:    sweeper,
		Profiles:   profiles.NewResolver(cfg.Paths.ProfileRoot, settings.List("TargetProfiles"), log),
		Discard:    discard.New(log, sweeper, discard.WithRoots(cfg.Paths.DiscardRoots)),
		Prober:     prober,
		Recorder:   rec,
	}, log)
}

// BuildResolver creates the profile resolver honoring TargetProfiles.
func BuildResolver(cfg *config.Config, log *logger.Logger) *profiles.Resolver {
	return profiles.NewResolver(cfg.Paths.ProfileRoot, cfg.Settings().List("TargetProfiles"), log)
}

func buildTerminator(cfg *config.Config, m *metrics.PrometheusMetrics, log *logger.Logger) *terminator.Terminator {
	var opts []terminator.Option
	if m != nil {
		opts = append(opts, terminator.WithRecorder(m))
	}
	return terminator.New(terminator.SystemTable{}, cfg.Paths.ShellProcess, log, opts...)
}

// BuildDispatcher creates a script dispatcher bound to ctx.
func BuildDispatcher(ctx context.Context, cfg *config.Config, log *logger.Logger) *scripts.Dispatcher {
	return buildDispatcher(ctx, cfg.Settings(), nil, log)
}

func buildDispatcher(ctx context.Context, settings config.Settings, m *metrics.PrometheusMetrics, log *logger.Logger) *scripts.Dispatcher {
	var rec scripts.Recorder
	if m != nil {
		rec = m
	}
	return scripts.NewDispatcher(ctx, settings, scripts.NewRunner(), rec, log)
}
