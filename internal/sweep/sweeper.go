// Package sweep deletes files under a root directory while tolerating
// per-entry failures. Locked files and reparse points are skipped, read-only
// attributes are cleared, and nothing above the given root is ever touched.
package sweep

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/IGLOU-EU/go-wildcard"
	"github.com/aatumaykin/kioskclean/internal/constants"
	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/probe"
)

// Skip reasons reported to the Recorder.
const (
	SkipLocked  = "locked"
	SkipReparse = "reparse_point"
	SkipFailed  = "delete_failed"
)

// Recorder receives per-file outcomes, typically Prometheus counters.
type Recorder interface {
	FileDeleted()
	FileSkipped(reason string)
}

type nopRecorder struct{}

func (nopRecorder) FileDeleted()       {}
func (nopRecorder) FileSkipped(string) {}

// Sweeper deletes matching files under a root.
type Sweeper struct {
	log           *logger.Logger
	probe         probe.Prober
	pattern       string
	progressEvery int
	recorder      Recorder
	protected     map[string]bool
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithPattern limits deletion to file names matching a wildcard pattern.
func WithPattern(pattern string) Option {
	return func(s *Sweeper) {
		if pattern != "" {
			s.pattern = strings.ToLower(pattern)
		}
	}
}

// WithProgressEvery sets the number of deletions between progress lines.
func WithProgressEvery(n int) Option {
	return func(s *Sweeper) {
		if n > 0 {
			s.progressEvery = n
		}
	}
}

// WithProtectedNames keeps directories with these names (case-insensitive)
// from being pruned as empty.
func WithProtectedNames(names ...string) Option {
	return func(s *Sweeper) {
		for _, n := range names {
			s.protected[strings.ToLower(n)] = true
		}
	}
}

// WithRecorder attaches a per-file outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Sweeper) {
		if r != nil {
			s.recorder = r
		}
	}
}

// New creates a Sweeper.
func New(log *logger.Logger, p probe.Prober, opts ...Option) *Sweeper {
	s := &Sweeper{
		log:           log,
		probe:         p,
		pattern:       "*",
		progressEvery: constants.DefaultProgressEvery,
		recorder:      nopRecorder{},
		protected:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sweep deletes matching files under root and returns how many were removed.
// With recursive=false only the top level is swept, after which empty
// immediate subdirectories are pruned. A missing root yields 0.
func (s *Sweeper) Sweep(root string, recursive bool) int {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Info("folder does not exist, nothing to sweep", logger.Field{Key: "path", Value: root})
		} else {
			s.log.Warn("cannot access folder", logger.Field{Key: "path", Value: root}, logger.Field{Key: "error", Value: err})
		}
		return 0
	}
	if !info.IsDir() {
		s.log.Warn("sweep root is not a directory", logger.Field{Key: "path", Value: root})
		return 0
	}
	if s.probe.IsReparsePoint(root) {
		s.log.Warn("sweep root is a reparse point, skipping", logger.Field{Key: "path", Value: root})
		s.recorder.FileSkipped(SkipReparse)
		return 0
	}

	s.log.Info("sweeping folder",
		logger.Field{Key: "path", Value: root},
		logger.Field{Key: "recursive", Value: recursive})

	run := &sweepRun{Sweeper: s, root: root}
	run.sweepDir(root, recursive)

	if !recursive {
		run.pruneEmptySubdirs(root)
	}

	s.log.Info("folder swept",
		logger.Field{Key: "path", Value: root},
		logger.Field{Key: "files_deleted", Value: run.deleted})

	return run.deleted
}

// IsEmpty reports whether dir holds no files at any depth. Reparse points
// and read errors count as content, so uncertainty never reads as empty.
func (s *Sweeper) IsEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if !e.IsDir() || s.probe.IsReparsePoint(path) {
			return false
		}
		if !s.IsEmpty(path) {
			return false
		}
	}
	return true
}

// PruneIfEmpty removes dir when it is empty and not a reparse point.
func (s *Sweeper) PruneIfEmpty(dir string) bool {
	if s.probe.IsReparsePoint(dir) || !s.IsEmpty(dir) {
		return false
	}
	if err := os.RemoveAll(dir); err != nil {
		s.log.Warn("failed to remove empty folder",
			logger.Field{Key: "path", Value: dir},
			logger.Field{Key: "error", Value: err})
		return false
	}
	s.log.Debug("removed empty folder", logger.Field{Key: "path", Value: dir})
	return true
}

// DeleteTree removes dir and everything below it entry by entry, clearing
// read-only attributes on the way. Reparse points are unlinked without
// descending. Failures are logged and skipped. Returns files deleted.
func (s *Sweeper) DeleteTree(dir string) int {
	deleted := 0

	info, err := os.Lstat(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("cannot access entry", logger.Field{Key: "path", Value: dir}, logger.Field{Key: "error", Value: err})
		}
		return 0
	}

	if !info.IsDir() || s.probe.IsReparsePoint(dir) {
		if s.removeEntry(dir) && info.Mode().IsRegular() {
			s.recorder.FileDeleted()
			deleted++
		}
		return deleted
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.log.Warn("cannot list folder", logger.Field{Key: "path", Value: dir}, logger.Field{Key: "error", Value: err})
		return 0
	}
	for _, e := range entries {
		deleted += s.DeleteTree(filepath.Join(dir, e.Name()))
	}

	s.removeEntry(dir)
	return deleted
}

func (s *Sweeper) removeEntry(path string) bool {
	if err := s.probe.ClearReadOnly(path); err != nil {
		s.log.Debug("failed to clear read-only attribute",
			logger.Field{Key: "path", Value: path},
			logger.Field{Key: "error", Value: err})
	}
	if err := os.Remove(path); err != nil {
		s.log.Warn("failed to delete",
			logger.Field{Key: "path", Value: path},
			logger.Field{Key: "error", Value: err})
		s.recorder.FileSkipped(SkipFailed)
		return false
	}
	return true
}

func (s *Sweeper) matches(name string) bool {
	if s.pattern == "*" {
		return true
	}
	return wildcard.Match(s.pattern, strings.ToLower(name))
}

// sweepRun carries the per-call counter.
type sweepRun struct {
	*Sweeper
	root    string
	deleted int
}

func (r *sweepRun) sweepDir(dir string, recursive bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		r.log.Warn("cannot list folder, skipping",
			logger.Field{Key: "path", Value: dir},
			logger.Field{Key: "error", Value: err})
		return
	}

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())

		if r.probe.IsReparsePoint(path) {
			r.log.Info("skipping reparse point", logger.Field{Key: "path", Value: path})
			r.recorder.FileSkipped(SkipReparse)
			continue
		}

		if e.IsDir() {
			if recursive {
				r.sweepDir(path, true)
			}
			continue
		}

		if r.matches(e.Name()) {
			r.deleteFile(path)
		}
	}
}

func (r *sweepRun) deleteFile(path string) {
	if r.probe.IsLocked(path) {
		r.log.Info("skipping locked file", logger.Field{Key: "path", Value: path})
		r.recorder.FileSkipped(SkipLocked)
		return
	}

	if err := r.probe.ClearReadOnly(path); err != nil {
		r.log.Debug("failed to clear read-only attribute",
			logger.Field{Key: "path", Value: path},
			logger.Field{Key: "error", Value: err})
	}

	if err := os.Remove(path); err != nil {
		r.log.Warn("failed to delete file",
			logger.Field{Key: "path", Value: path},
			logger.Field{Key: "error", Value: err})
		r.recorder.FileSkipped(SkipFailed)
		return
	}

	r.deleted++
	r.recorder.FileDeleted()
	if r.deleted%r.progressEvery == 0 {
		r.log.Info("sweep progress",
			logger.Field{Key: "path", Value: r.root},
			logger.Field{Key: "files_deleted", Value: r.deleted})
	}
}

func (r *sweepRun) pruneEmptySubdirs(root string) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() || r.protected[strings.ToLower(e.Name())] {
			continue
		}
		r.PruneIfEmpty(filepath.Join(root, e.Name()))
	}
}
