//go:build !windows

package cleanup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aatumaykin/kioskclean/internal/constants"
	"github.com/aatumaykin/kioskclean/internal/privilege"
	"github.com/aatumaykin/kioskclean/internal/probe"
	"github.com/aatumaykin/kioskclean/internal/profiles"
	"github.com/aatumaykin/kioskclean/internal/sweep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCleanup_SymlinkedDocumentsKeepsTargetContent(t *testing.T) {
	root := t.TempDir()
	shared := filepath.Join(t.TempDir(), "shared-target")
	require.NoError(t, os.MkdirAll(filepath.Join(shared, "Project"), 0755))
	kept := []string{
		filepath.Join(shared, "top.txt"),
		filepath.Join(shared, "Project", "precious.txt"),
	}
	for _, f := range kept {
		require.NoError(t, os.WriteFile(f, []byte("keep"), 0644))
	}

	profile := filepath.Join(root, "alice")
	require.NoError(t, os.MkdirAll(filepath.Join(profile, "Desktop"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(profile, "Desktop", "left.txt"), nil, 0644))
	require.NoError(t, os.Symlink(shared, filepath.Join(profile, constants.DocumentsFolder)))

	log, buf := newTestLogger(t)
	prober := probe.OS{}
	rec := &recorder{}
	engine := NewEngine(Config{
		Sweeper:  sweep.New(log, prober),
		Profiles: fakeProfiles{rec: rec, list: []profiles.Profile{{Path: profile, Account: "alice"}}},
		Discard:  fakeDiscard{rec: rec},
		Prober:   prober,
		Identity: func() privilege.Identity { return privilege.Identity{Privileged: true} },
	}, log)

	stats := engine.RunCleanup("user logoff")

	for _, f := range kept {
		assert.FileExists(t, f)
	}
	assert.NoFileExists(t, filepath.Join(profile, "Desktop", "left.txt"))
	assert.Equal(t, 1, stats.FilesDeleted)
	assert.Contains(t, buf.String(), "skipping junction point")
}
