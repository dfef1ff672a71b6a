package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	mu        sync.Mutex
	initErr   error
	events    []session.Event
	initCalls int
	shutdowns int
}

func (f *fakeHandler) Initialize(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initCalls++
	return f.initErr
}

func (f *fakeHandler) HandleEvent(ev session.Event, _ *int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeHandler) Shutdown() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdowns++
	return nil
}

func TestSessionChangeEvent(t *testing.T) {
	tests := []struct {
		code   uint32
		want   session.Event
		wantOK bool
	}{
		{wtsSessionLogon, session.Logon, true},
		{wtsSessionLogoff, session.Logoff, true},
		{wtsSessionLock, session.Lock, true},
		{wtsSessionUnlock, session.Unlock, true},
		{0x1, 0, false}, // console connect
		{0x3, 0, false}, // remote connect
	}

	for _, tt := range tests {
		ev, ok := sessionChangeEvent(tt.code)
		assert.Equal(t, tt.wantOK, ok, "code %#x", tt.code)
		if tt.wantOK {
			assert.Equal(t, tt.want, ev)
		}
	}
}

func TestPowerEvent(t *testing.T) {
	ev, ok := powerEvent(pbtAPMResumeAutomatic)
	assert.True(t, ok)
	assert.Equal(t, session.Resume, ev)

	_, ok = powerEvent(0x4) // suspend
	assert.False(t, ok)
}

func TestRunForeground(t *testing.T) {
	h := &fakeHandler{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- runForeground(ctx, h, logger.Discard()) }()

	assert.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.events) == 1
	}, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("foreground run did not stop")
	}

	assert.Equal(t, []session.Event{session.Startup}, h.events)
	assert.Equal(t, 1, h.shutdowns)
}

func TestRunForeground_InitError(t *testing.T) {
	h := &fakeHandler{initErr: errors.New("boom")}

	err := runForeground(context.Background(), h, logger.Discard())
	assert.EqualError(t, err, "boom")
	assert.Empty(t, h.events)
	assert.Zero(t, h.shutdowns)
}
