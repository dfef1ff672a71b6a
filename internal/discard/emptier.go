// Package discard empties the system-wide discard area (the Recycle Bin on
// Windows, the XDG trash elsewhere). The OS facility is tried first; when it
// fails, every discard root is walked and its contents deleted entry by entry.
package discard

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aatumaykin/kioskclean/internal/logger"
)

// ErrUnsupported is returned by the facility on hosts without one.
var ErrUnsupported = errors.New("discard facility not supported on this platform")

// Facility empties the discard area through an OS-level call.
type Facility func() error

// Deleter removes a directory tree entry by entry and reports files deleted.
type Deleter interface {
	DeleteTree(dir string) int
}

// Emptier runs the two-tier strategy.
type Emptier struct {
	log      *logger.Logger
	facility Facility
	roots    func() []string
	deleter  Deleter
	userBins bool
}

// Option configures an Emptier.
type Option func(*Emptier)

// WithFacility overrides the OS facility.
func WithFacility(f Facility) Option {
	return func(e *Emptier) { e.facility = f }
}

// WithRoots fixes the fallback roots instead of discovering them.
func WithRoots(roots []string) Option {
	return func(e *Emptier) {
		if len(roots) > 0 {
			fixed := append([]string(nil), roots...)
			e.roots = func() []string { return fixed }
		}
	}
}

// WithUserBins sets whether each root holds one folder per user. Those
// folders carry the owner's ACL and are emptied, not removed.
func WithUserBins(on bool) Option {
	return func(e *Emptier) { e.userBins = on }
}

// New creates an Emptier using the platform facility and discard roots.
func New(log *logger.Logger, deleter Deleter, opts ...Option) *Emptier {
	e := &Emptier{
		log:      log,
		facility: platformFacility,
		roots:    platformRoots,
		deleter:  deleter,
		userBins: platformUserBins,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Empty empties the discard area. It never fails; the return value is the
// number of files removed by the fallback (0 when the facility succeeded).
func (e *Emptier) Empty() int {
	e.log.Info("emptying recycle bin")

	err := e.facility()
	if err == nil {
		e.log.Info("recycle bin emptied")
		return 0
	}
	if errors.Is(err, ErrUnsupported) {
		e.log.Info("recycle bin facility unavailable, deleting contents directly")
	} else {
		e.log.Warn("recycle bin facility failed, deleting contents directly",
			logger.Field{Key: "error", Value: err})
	}

	return e.fallback()
}

func (e *Emptier) fallback() int {
	deleted := 0
	for _, root := range e.roots() {
		entries, err := os.ReadDir(root)
		if err != nil {
			if !os.IsNotExist(err) {
				e.log.Warn("cannot list recycle bin folder",
					logger.Field{Key: "path", Value: root},
					logger.Field{Key: "error", Value: err})
			}
			continue
		}

		n := 0
		for _, entry := range entries {
			path := filepath.Join(root, entry.Name())
			if e.userBins && entry.IsDir() {
				n += e.emptyUserBin(path)
				continue
			}
			n += e.deleter.DeleteTree(path)
		}
		e.log.Info("recycle bin folder cleared",
			logger.Field{Key: "path", Value: root},
			logger.Field{Key: "files_deleted", Value: n})
		deleted += n
	}
	return deleted
}

// emptyUserBin deletes everything inside a per-user bin and keeps the folder.
func (e *Emptier) emptyUserBin(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		e.log.Warn("cannot list user recycle bin",
			logger.Field{Key: "path", Value: dir},
			logger.Field{Key: "error", Value: err})
		return 0
	}

	n := 0
	for _, entry := range entries {
		n += e.deleter.DeleteTree(filepath.Join(dir, entry.Name()))
	}
	return n
}
