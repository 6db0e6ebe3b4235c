package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tick    = 10 * time.Millisecond
	waitFor = 2 * time.Second
)

func TestScheduler_RunsImmediatelyAndOnTicks(t *testing.T) {
	var runs atomic.Int32
	s := New(tick, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, waitFor, tick)
}

func TestScheduler_HiddenSkipsTicks(t *testing.T) {
	var runs atomic.Int32
	s := New(tick, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	s.SetVisible(false)
	s.Start(context.Background())
	defer s.Stop()

	time.Sleep(10 * tick)
	assert.Zero(t, runs.Load())
	assert.False(t, s.Visible())

	s.SetVisible(true)
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, waitFor, tick)
}

func TestScheduler_BecomingVisibleRefreshesImmediately(t *testing.T) {
	var runs atomic.Int32
	s := New(time.Hour, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, waitFor, tick)

	s.SetVisible(false)
	s.SetVisible(true)
	require.Eventually(t, func() bool { return runs.Load() == 2 }, waitFor, tick)

	// Staying visible does not trigger again.
	s.SetVisible(true)
	time.Sleep(5 * tick)
	assert.Equal(t, int32(2), runs.Load())
}

func TestScheduler_Trigger(t *testing.T) {
	var runs atomic.Int32
	s := New(time.Hour, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	s.SetVisible(false)
	s.Start(context.Background())
	defer s.Stop()

	s.Trigger()
	require.Eventually(t, func() bool { return runs.Load() == 1 }, waitFor, tick)
}

func TestScheduler_ErrorsDoNotStopLoop(t *testing.T) {
	boom := errors.New("backend down")

	var runs atomic.Int32
	var mu sync.Mutex
	var reported []error

	s := New(tick, func(context.Context) error {
		if runs.Add(1) == 1 {
			return boom
		}
		return nil
	})
	s.OnError(func(err error) {
		mu.Lock()
		reported = append(reported, err)
		mu.Unlock()
	})
	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, waitFor, tick)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], boom)
}

func TestScheduler_RecoversPanics(t *testing.T) {
	var runs atomic.Int32
	errs := make(chan error, 10)

	s := New(tick, func(context.Context) error {
		if runs.Add(1) == 1 {
			panic("nil map")
		}
		return nil
	})
	s.OnError(func(err error) { errs <- err })
	s.Start(context.Background())
	defer s.Stop()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrPanic)
		assert.Contains(t, err.Error(), "nil map")
	case <-time.After(waitFor):
		t.Fatal("panic was not reported")
	}

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, waitFor, tick)
}

func TestScheduler_SetInterval(t *testing.T) {
	s := New(0, func(context.Context) error { return nil })
	assert.Equal(t, DefaultInterval, s.Interval())

	s.SetInterval(-time.Second)
	assert.Equal(t, DefaultInterval, s.Interval())

	s.SetInterval(time.Minute)
	assert.Equal(t, time.Minute, s.Interval())
}

func TestScheduler_SetIntervalWhileRunning(t *testing.T) {
	var runs atomic.Int32
	s := New(time.Hour, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, waitFor, tick)

	s.SetInterval(tick)
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, waitFor, tick)
}

func TestScheduler_StopCancelsRuns(t *testing.T) {
	started := make(chan struct{})
	var cancelled atomic.Bool

	s := New(time.Hour, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	})
	s.Start(context.Background())

	<-started
	s.Stop()
	assert.True(t, cancelled.Load())

	// Idempotent.
	s.Stop()
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	var runs atomic.Int32
	s := New(tick, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	s.Stop()
	s.Start(context.Background())

	time.Sleep(5 * tick)
	assert.Zero(t, runs.Load())
}

func TestScheduler_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var runs atomic.Int32
	s := New(tick, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	s.Start(ctx)
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, waitFor, tick)

	cancel()
	s.Stop()

	after := runs.Load()
	time.Sleep(5 * tick)
	assert.Equal(t, after, runs.Load())
}
