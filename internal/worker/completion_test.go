package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCompleter struct {
	calls   atomic.Int32
	result  int
	err     error
	block   chan struct{}
	entered chan struct{}
	lastNow time.Time
	mu      sync.Mutex
}

func (c *countingCompleter) CompleteElapsed(ctx context.Context, now time.Time) (int, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.lastNow = now
	c.mu.Unlock()
	if c.entered != nil {
		close(c.entered)
	}
	if c.block != nil {
		<-c.block
	}
	return c.result, c.err
}

func TestRunOnce(t *testing.T) {
	fixed := time.Date(2024, 7, 2, 12, 0, 0, 0, time.UTC)
	c := &countingCompleter{result: 3}
	s := NewCompletionSweep(c)
	s.now = func() time.Time { return fixed }

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, fixed, c.lastNow)

	c.err = errors.New("db down")
	_, err = s.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestRunOnce_SkipsWhileRunning(t *testing.T) {
	c := &countingCompleter{block: make(chan struct{}), entered: make(chan struct{})}
	s := NewCompletionSweep(c)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.RunOnce(context.Background())
	}()
	<-c.entered

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	close(c.block)
	<-done
	assert.EqualValues(t, 1, c.calls.Load())
}

func TestSchedule(t *testing.T) {
	s := NewCompletionSweep(&countingCompleter{})
	c := cron.New()

	ok, err := s.Schedule(c, "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, c.Entries())

	ok, err = s.Schedule(c, "@every 15m")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, c.Entries(), 1)

	_, err = s.Schedule(c, "not a schedule")
	assert.Error(t, err)
}
