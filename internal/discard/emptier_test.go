package discard

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/probe"
	"github.com/aatumaykin/kioskclean/internal/sweep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	log, err := logger.NewWithWriter(logger.Config{Level: "debug", Format: "text"}, buf)
	require.NoError(t, err)
	return log, buf
}

func seedBin(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "$Recycle.Bin")
	user := filepath.Join(root, "S-1-5-21-42")
	require.NoError(t, os.MkdirAll(filepath.Join(user, "$RXYZ"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(user, "$R1.txt"), []byte("a"), 0444))
	require.NoError(t, os.WriteFile(filepath.Join(user, "$RXYZ", "inner.bin"), []byte("b"), 0644))
	return root
}

func TestEmpty_FacilitySucceeds(t *testing.T) {
	log, _ := newTestLogger(t)
	root := seedBin(t)
	called := 0

	e := New(log, sweep.New(log, probe.OS{}),
		WithFacility(func() error { called++; return nil }),
		WithRoots([]string{root}))

	assert.Equal(t, 0, e.Empty())
	assert.Equal(t, 1, called)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "fallback must not run when the facility succeeded")
}

func TestEmpty_FallbackAfterFacilityFailure(t *testing.T) {
	log, buf := newTestLogger(t)
	root := seedBin(t)

	e := New(log, sweep.New(log, probe.OS{}),
		WithFacility(func() error { return errors.New("access denied") }),
		WithRoots([]string{root, filepath.Join(t.TempDir(), "absent")}),
		WithUserBins(false))

	assert.Equal(t, 2, e.Empty())

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Contains(t, buf.String(), "facility failed")
}

func TestEmpty_FallbackKeepsUserBinFolders(t *testing.T) {
	log, _ := newTestLogger(t)
	root := seedBin(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "desktop.ini"), []byte("x"), 0644))

	e := New(log, sweep.New(log, probe.OS{}),
		WithFacility(func() error { return ErrUnsupported }),
		WithRoots([]string{root}),
		WithUserBins(true))

	assert.Equal(t, 3, e.Empty())

	user := filepath.Join(root, "S-1-5-21-42")
	assert.DirExists(t, user)
	entries, err := os.ReadDir(user)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoFileExists(t, filepath.Join(root, "desktop.ini"))
}

func TestEmpty_UnsupportedFacilityIsNotAWarning(t *testing.T) {
	log, buf := newTestLogger(t)

	e := New(log, sweep.New(log, probe.OS{}),
		WithFacility(func() error { return ErrUnsupported }),
		WithRoots([]string{seedBin(t)}))

	assert.Equal(t, 2, e.Empty())
	assert.NotContains(t, buf.String(), "level=WARN")
}

func TestPlatformRoots(t *testing.T) {
	assert.NotPanics(t, func() { _ = platformRoots() })
}
