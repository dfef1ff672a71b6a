package profiles

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeProfile(t *testing.T, root, name string, markers ...string) {
	t.Helper()
	if markers == nil {
		markers = []string{"Desktop", "Documents", "AppData"}
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0755))
	for _, m := range markers {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name, m), 0755))
	}
}

func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	log, err := logger.NewWithWriter(logger.Config{Level: "debug", Format: "text"}, buf)
	require.NoError(t, err)
	return log, buf
}

func accounts(ps []Profile) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Account)
	}
	return out
}

func fixtureRoot(t *testing.T) string {
	root := t.TempDir()
	makeProfile(t, root, "alice")
	makeProfile(t, root, "bob")
	makeProfile(t, root, "Public")
	makeProfile(t, root, "ADMINISTRATOR")
	makeProfile(t, root, "defaultuser0")
	makeProfile(t, root, "half", "Desktop", "AppData")
	require.NoError(t, os.WriteFile(filepath.Join(root, "desktop.ini"), nil, 0644))
	return root
}

func TestDiscoverAll(t *testing.T) {
	log, _ := newTestLogger(t)
	r := NewResolver(fixtureRoot(t), nil, log)

	got := r.DiscoverAll()

	assert.ElementsMatch(t, []string{"alice", "bob"}, accounts(got))
	for _, p := range got {
		assert.Equal(t, filepath.Join(r.Root(), p.Account), p.Path)
	}
}

func TestDiscoverAll_MissingRoot(t *testing.T) {
	log, buf := newTestLogger(t)
	r := NewResolver(filepath.Join(t.TempDir(), "nope"), nil, log)

	assert.Empty(t, r.DiscoverAll())
	assert.Contains(t, buf.String(), "cannot list profile root")
}

func TestResolveTargets(t *testing.T) {
	root := fixtureRoot(t)

	tests := []struct {
		name         string
		allow        []string
		want         []string
		wantWarnings int
	}{
		{"empty list means all", nil, []string{"alice", "bob"}, 0},
		{"blank entries ignored", []string{" ", ""}, []string{"alice", "bob"}, 0},
		{"case-insensitive and trimmed", []string{" ALICE "}, []string{"alice"}, 0},
		{"duplicates collapse", []string{"bob", "Bob"}, []string{"bob"}, 0},
		{"partial match keeps matches", []string{"alice", "carol"}, []string{"alice"}, 1},
		{"no match falls back to all", []string{"carol", "dave"}, []string{"alice", "bob"}, 2},
		{"system accounts never match", []string{"Public"}, []string{"alice", "bob"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, buf := newTestLogger(t)
			r := NewResolver(root, tt.allow, log)

			got := r.ResolveTargets()

			assert.ElementsMatch(t, tt.want, accounts(got))
			assert.Equal(t, tt.wantWarnings, strings.Count(buf.String(), "configured target profile not found"))
		})
	}
}

func TestResolveTargets_EmptyListEqualsDiscoverAll(t *testing.T) {
	log, _ := newTestLogger(t)
	r := NewResolver(fixtureRoot(t), nil, log)

	assert.Equal(t, r.DiscoverAll(), r.ResolveTargets())
}
