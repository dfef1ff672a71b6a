package heartbeat

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aatumaykin/kioskclean/internal/logger"
	"github.com/aatumaykin/kioskclean/internal/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatus struct{}

func (fakeStatus) Metrics() workers.PoolMetrics {
	return workers.PoolMetrics{TasksSubmitted: 7, TasksCompleted: 5, TasksFailed: 1}
}

func (fakeStatus) QueueSize() int { return 2 }

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *safeBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *safeBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func newTestLogger(t *testing.T) (*logger.Logger, *safeBuffer) {
	t.Helper()
	buf := &safeBuffer{}
	log, err := logger.NewWithWriter(logger.Config{Level: "info", Format: "text"}, buf)
	require.NoError(t, err)
	return log, buf
}

func TestNewChecker(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{"@every 1h", false},
		{"@hourly", false},
		{"0 * * * *", false},
		{"", true},
		{"every hour", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			c, err := NewChecker(tt.spec, nil, logger.Discard())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestChecker_BeatIncludesPoolStatus(t *testing.T) {
	log, buf := newTestLogger(t)
	c, err := NewChecker("@every 1h", fakeStatus{}, log)
	require.NoError(t, err)

	c.Beat()
	c.Beat()

	out := buf.String()
	assert.Contains(t, out, "still running")
	assert.Contains(t, out, "tasks_submitted=7")
	assert.Contains(t, out, "tasks_failed=1")
	assert.Contains(t, out, "queued=2")
	assert.Contains(t, out, "beat=2")
	assert.Equal(t, 2, c.Beats())
}

func TestChecker_BeatWithoutStatus(t *testing.T) {
	log, buf := newTestLogger(t)
	c, err := NewChecker("@every 1h", nil, log)
	require.NoError(t, err)

	c.Beat()
	assert.Contains(t, buf.String(), "still running")
	assert.NotContains(t, buf.String(), "tasks_submitted")
}

func TestChecker_StartStopIdempotent(t *testing.T) {
	c, err := NewChecker("@every 1h", nil, logger.Discard())
	require.NoError(t, err)

	require.NoError(t, c.Start())
	require.NoError(t, c.Start())
	require.NoError(t, c.Stop())
	require.NoError(t, c.Stop())
	assert.Zero(t, c.Beats())
}

func TestChecker_FiresOnSchedule(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the cron tick")
	}
	c, err := NewChecker("@every 1s", nil, logger.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.RunUntil(ctx)

	assert.Eventually(t, func() bool { return c.Beats() >= 1 }, 5*time.Second, 50*time.Millisecond)
}
