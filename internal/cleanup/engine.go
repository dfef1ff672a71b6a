// Package cleanup maps trigger labels to cleanup plans and executes them
// against the system temp folders, user profiles and the discard area.
package cleanup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aatumaykin/kioskclean/internal/constants"
	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/privilege"
	"github.com/aatumaykin/kioskclean/internal/profiles"
	"github.com/google/uuid"
)

// Sweeper deletes files under a root.
type Sweeper interface {
	Sweep(root string, recursive bool) int
	PruneIfEmpty(dir string) bool
}

// ProfileSource yields the profiles a run should clean.
type ProfileSource interface {
	ResolveTargets() []profiles.Profile
}

// DiscardArea empties the recycle bin.
type DiscardArea interface {
	Empty() int
}

// ReparseProber tells junctions apart from real directories.
type ReparseProber interface {
	IsReparsePoint(path string) bool
}

// Recorder receives per-run metrics.
type Recorder interface {
	RecordCleanup(trigger string, duration time.Duration)
}

// Config holds the engine's collaborators and paths.
type Config struct {
	SystemTemp []string
	Sweeper    Sweeper
	Profiles   ProfileSource
	Discard    DiscardArea
	Prober     ReparseProber
	Recorder   Recorder
	Identity   func() privilege.Identity
}

// Engine runs cleanup plans. Runs are serialized so two triggers never sweep
// the same folders at once.
type Engine struct {
	cfg Config
	log *logger.Logger
	mu  sync.Mutex
}

// NewEngine creates a cleanup engine.
func NewEngine(cfg Config, log *logger.Logger) *Engine {
	if cfg.Identity == nil {
		cfg.Identity = privilege.Current
	}
	return &Engine{cfg: cfg, log: log}
}

// RunCleanup executes the plan for trigger. It never fails: every error is
// logged and the run continues with the next item.
func (e *Engine) RunCleanup(trigger string) (stats Stats) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	stats = Stats{
		RunID:   uuid.NewString(),
		Trigger: trigger,
		Plan:    PlanFor(trigger),
	}
	log := e.log.With(
		logger.Field{Key: "run_id", Value: stats.RunID},
		logger.Field{Key: "trigger", Value: trigger})

	defer func() {
		if r := recover(); r != nil {
			log.Error("cleanup aborted by panic", fmt.Errorf("panic: %v", r))
		}
		stats.Duration = time.Since(start)
		if e.cfg.Recorder != nil {
			e.cfg.Recorder.RecordCleanup(strings.ToLower(trigger), stats.Duration)
		}
		log.Info("cleanup completed",
			logger.Field{Key: "files_deleted", Value: stats.FilesDeleted},
			logger.Field{Key: "profiles", Value: stats.ProfilesSwept},
			logger.Field{Key: "recycle_bin_files", Value: stats.DiscardDeleted},
			logger.Field{Key: "duration_ms", Value: stats.Duration.Milliseconds()})
	}()

	id := e.cfg.Identity()
	log.Info("starting cleanup",
		logger.Field{Key: "plan", Value: stats.Plan.String()},
		logger.Field{Key: "identity", Value: id.Name},
		logger.Field{Key: "elevated", Value: id.Privileged})
	if !id.Privileged {
		log.Warn("not running as administrator or system, some items may fail")
	}

	plan := stats.Plan

	if plan.SweepSystemTemp {
		stats.FilesDeleted += e.sweepSystemTemp(log)
	}

	if plan.SweepUserProfiles || plan.SweepBrowserCachesOnly {
		for _, p := range e.cfg.Profiles.ResolveTargets() {
			stats.ProfilesSwept++
			if plan.SweepBrowserCachesOnly {
				stats.FilesDeleted += e.sweepBrowserCaches(log, p)
				continue
			}
			stats.FilesDeleted += e.sweepProfile(log, p, plan.ThoroughProfileSweep)
		}
	}

	if plan.EmptyDiscardArea {
		stats.DiscardDeleted = e.cfg.Discard.Empty()
	}

	return stats
}

func (e *Engine) sweepSystemTemp(log *logger.Logger) int {
	total := 0
	for _, dir := range e.cfg.SystemTemp {
		log.Info("cleaning system temp folder", logger.Field{Key: "path", Value: dir})
		total += e.cfg.Sweeper.Sweep(dir, true)
	}
	return total
}

// sweepProfile visits folder classes in a fixed order: user temp, browser
// caches, named folders, recent items, then Documents.
func (e *Engine) sweepProfile(log *logger.Logger, p profiles.Profile, thorough bool) int {
	log = log.With(logger.Field{Key: "account", Value: p.Account})
	log.Info("cleaning user profile",
		logger.Field{Key: "path", Value: p.Path},
		logger.Field{Key: "thorough", Value: thorough})

	total := 0
	for _, rel := range constants.UserTempPaths() {
		total += e.cfg.Sweeper.Sweep(filepath.Join(p.Path, rel), true)
	}

	total += e.sweepBrowserCaches(log, p)

	for _, name := range constants.NamedFolders(thorough) {
		total += e.cfg.Sweeper.Sweep(filepath.Join(p.Path, name), true)
	}

	total += e.cfg.Sweeper.Sweep(filepath.Join(p.Path, constants.RecentItemsPath()), true)

	total += e.sweepDocuments(log, filepath.Join(p.Path, constants.DocumentsFolder))

	return total
}

func (e *Engine) sweepBrowserCaches(log *logger.Logger, p profiles.Profile) int {
	total := 0
	for _, rel := range constants.BrowserCachePaths() {
		total += e.cfg.Sweeper.Sweep(filepath.Join(p.Path, rel), true)
	}
	log.Debug("browser caches cleaned",
		logger.Field{Key: "account", Value: p.Account},
		logger.Field{Key: "files_deleted", Value: total})
	return total
}

// sweepDocuments cleans the Documents root, then each subdirectory on its
// own. Legacy junction names and reparse points are never descended into,
// since deleting through a junction removes the target's content.
func (e *Engine) sweepDocuments(log *logger.Logger, docs string) int {
	info, err := os.Stat(docs)
	if err != nil || !info.IsDir() {
		return 0
	}
	// Перенаправленная папка Documents: листинг пошёл бы через ссылку
	if e.cfg.Prober.IsReparsePoint(docs) {
		log.Info("skipping junction point", logger.Field{Key: "path", Value: docs})
		return 0
	}

	log.Info("cleaning documents folder", logger.Field{Key: "path", Value: docs})
	total := e.cfg.Sweeper.Sweep(docs, false)

	entries, err := os.ReadDir(docs)
	if err != nil {
		log.Warn("cannot list documents folder",
			logger.Field{Key: "path", Value: docs},
			logger.Field{Key: "error", Value: err})
		return total
	}

	junctions := constants.KnownJunctions()
	for _, entry := range entries {
		sub := filepath.Join(docs, entry.Name())

		if isKnownJunction(entry.Name(), junctions) {
			log.Info("skipping known junction", logger.Field{Key: "path", Value: sub})
			continue
		}
		if e.cfg.Prober.IsReparsePoint(sub) {
			log.Info("skipping junction point", logger.Field{Key: "path", Value: sub})
			continue
		}
		if !entry.IsDir() {
			continue
		}

		total += e.cfg.Sweeper.Sweep(sub, true)
		if e.cfg.Sweeper.PruneIfEmpty(sub) {
			log.Info("removed empty documents subfolder", logger.Field{Key: "path", Value: sub})
		}
	}

	return total
}

func isKnownJunction(name string, junctions []string) bool {
	for _, j := range junctions {
		if strings.EqualFold(name, j) {
			return true
		}
	}
	return false
}
