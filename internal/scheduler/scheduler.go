// Package scheduler drives periodic refreshes that pause while the terminal is
// unfocused.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pan93412/Stats/internal/logger"
)

// DefaultInterval is the refresh period used when none is given.
const DefaultInterval = 5 * time.Second

// ErrPanic wraps a panic recovered from a run.
var ErrPanic = errors.New("refresh panicked")

// Func is a single refresh run.
type Func func(ctx context.Context) error

// Scheduler invokes a Func on a ticker and on demand.
//
// Ticks are skipped while the scheduler is hidden, and becoming visible again
// triggers an immediate run. Every run happens on its own goroutine, so a slow
// run never delays the next tick. Errors and panics are passed to the error
// handler and never stop the loop.
type Scheduler struct {
	fn       Func
	onError  func(error)
	trigger  chan struct{}
	reset    chan struct{}
	stopChan chan struct{}
	done     chan struct{}
	cancel   context.CancelFunc
	runs     sync.WaitGroup
	interval time.Duration
	mu       sync.Mutex
	stopOnce sync.Once
	visible  bool
	started  bool
}

// New creates a scheduler that calls fn every interval once started.
func New(interval time.Duration, fn Func) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Scheduler{
		fn:       fn,
		trigger:  make(chan struct{}, 1),
		reset:    make(chan struct{}, 1),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
		interval: interval,
		visible:  true,
	}
}

// OnError sets the handler that receives failed and panicked runs.
func (s *Scheduler) OnError(fn func(error)) {
	s.mu.Lock()
	s.onError = fn
	s.mu.Unlock()
}

// Start runs fn once (if visible) and then on every tick until ctx is done or
// Stop is called. Calling Start more than once has no effect.
func (s *Scheduler) Start(ctx context.Context) {
	select {
	case <-s.stopChan:
		return
	default:
	}

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.Interval())
	defer ticker.Stop()

	if s.Visible() {
		s.dispatch(ctx)
	}

	for {
		select {
		case <-ticker.C:
			if s.Visible() {
				s.dispatch(ctx)
			}
		case <-s.trigger:
			s.dispatch(ctx)
		case <-s.reset:
			ticker.Reset(s.Interval())
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context) {
	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		if err := s.run(ctx); err != nil {
			s.report(err)
		}
	}()
}

func (s *Scheduler) run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return s.fn(ctx)
}

func (s *Scheduler) report(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}

	s.mu.Lock()
	handler := s.onError
	s.mu.Unlock()

	if handler != nil {
		handler(err)
		return
	}
	logger.Error("refresh failed", "error", err)
}

// Trigger requests an immediate run regardless of visibility.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// SetVisible records whether the dashboard is being looked at. Going from
// hidden to visible triggers an immediate run.
func (s *Scheduler) SetVisible(visible bool) {
	s.mu.Lock()
	wasVisible := s.visible
	s.visible = visible
	s.mu.Unlock()

	if visible && !wasVisible {
		s.Trigger()
	}
}

// Visible reports whether ticks currently cause runs.
func (s *Scheduler) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// SetInterval changes the tick period. Non-positive values are ignored.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}

	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()

	select {
	case s.reset <- struct{}{}:
	default:
	}
}

// Interval returns the current tick period.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Stop ends the loop, cancels in-flight runs and waits for them to return.
// It is safe to call more than once and before Start.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		started, cancel := s.started, s.cancel
		s.mu.Unlock()

		if !started {
			return
		}
		cancel()
		<-s.done
		s.runs.Wait()
	})
}
