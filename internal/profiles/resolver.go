// Package profiles finds the end-user profile directories a cleanup run
// should touch. Profiles are discovered fresh on every call.
package profiles

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aatumaykin/kioskclean/internal/constants"
	"github.com/aatumaykin/kioskclean/internal/logger"
	"golang.org/x/text/cases"
)

// Profile is a real user profile directory.
type Profile struct {
	Path    string
	Account string
}

// Resolver discovers profiles under a root and applies the optional allow-list.
type Resolver struct {
	root      string
	allowList []string
	log       *logger.Logger
	excluded  map[string]bool
}

// NewResolver creates a Resolver. allowList holds account names from the
// TargetProfiles setting; an empty list means every profile.
func NewResolver(root string, allowList []string, log *logger.Logger) *Resolver {
	r := &Resolver{
		root:      root,
		allowList: allowList,
		log:       log,
		excluded:  make(map[string]bool),
	}
	for _, name := range constants.SystemAccounts() {
		r.excluded[fold(name)] = true
	}
	return r
}

// Root returns the directory profiles are discovered under.
func (r *Resolver) Root() string {
	return r.root
}

// DiscoverAll lists every real profile under the root: not a system account
// and holding all marker folders.
func (r *Resolver) DiscoverAll() []Profile {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		r.log.Warn("cannot list profile root",
			logger.Field{Key: "path", Value: r.root},
			logger.Field{Key: "error", Value: err})
		return nil
	}

	var out []Profile
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		account := e.Name()
		if r.excluded[fold(account)] {
			r.log.Debug("skipping system profile", logger.Field{Key: "account", Value: account})
			continue
		}

		path := filepath.Join(r.root, account)
		if !hasMarkers(path) {
			r.log.Debug("skipping incomplete profile", logger.Field{Key: "path", Value: path})
			continue
		}
		out = append(out, Profile{Path: path, Account: account})
	}

	return out
}

// ResolveTargets returns the profiles to clean. Configured names are
// matched case-insensitively; unknown names are logged, and an empty match
// falls back to every discovered profile.
func (r *Resolver) ResolveTargets() []Profile {
	all := r.DiscoverAll()

	wanted := make([]string, 0, len(r.allowList))
	for _, name := range r.allowList {
		if name = strings.TrimSpace(name); name != "" {
			wanted = append(wanted, name)
		}
	}
	if len(wanted) == 0 {
		r.log.Info("cleaning all user profiles", logger.Field{Key: "count", Value: len(all)})
		return all
	}

	byAccount := make(map[string]Profile, len(all))
	for _, p := range all {
		byAccount[fold(p.Account)] = p
	}

	var targets []Profile
	picked := make(map[string]bool)
	for _, name := range wanted {
		key := fold(name)
		p, ok := byAccount[key]
		if !ok {
			r.log.Warn("configured target profile not found", logger.Field{Key: "account", Value: name})
			continue
		}
		if picked[key] {
			continue
		}
		picked[key] = true
		targets = append(targets, p)
	}

	if len(targets) == 0 {
		r.log.Warn("no configured target profiles matched, falling back to all profiles",
			logger.Field{Key: "configured", Value: strings.Join(wanted, ",")},
			logger.Field{Key: "count", Value: len(all)})
		return all
	}

	r.log.Info("cleaning configured user profiles", logger.Field{Key: "count", Value: len(targets)})
	return targets
}

// fold приводит имя учётной записи к виду для сравнения без учёта регистра
func fold(name string) string {
	return cases.Fold().String(name)
}

func hasMarkers(path string) bool {
	for _, marker := range constants.ProfileMarkers() {
		info, err := os.Stat(filepath.Join(path, marker))
		if err != nil || !info.IsDir() {
			return false
		}
	}
	return true
}
