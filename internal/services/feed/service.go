// Package feed produces dashboard snapshots from the analytics backend.
package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pan93412/Stats/internal/bucket"
	"github.com/pan93412/Stats/internal/logger"
	"github.com/pan93412/Stats/internal/models"
	"github.com/pan93412/Stats/internal/scheduler"
)

// Fetcher is the backend surface the feed reads from.
type Fetcher interface {
	FetchHourly(ctx context.Context) ([]models.RawHourlyEvent, error)
	FetchURLs(ctx context.Context) ([]models.URLCount, error)
	FetchSessions(ctx context.Context) ([]models.Session, error)
	FetchSummary(ctx context.Context) (models.Summary, error)
}

// Event represents a feed service event.
type Event struct {
	Error    error
	Snapshot *models.Snapshot
	Type     EventType
}

// EventType defines the type of feed event.
type EventType int

const (
	// EventRefreshing indicates that a refresh has started.
	EventRefreshing EventType = iota
	// EventSnapshot indicates that a new snapshot is available.
	EventSnapshot
	// EventError indicates that a refresh failed.
	EventError
)

// Config holds configuration for the feed service.
type Config struct {
	Location     *time.Location
	PollInterval time.Duration
	TopPaths     int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Location:     time.Local,
		PollInterval: scheduler.DefaultInterval,
		TopPaths:     10,
	}
}

// Service fetches backend data on a schedule and turns it into snapshots.
type Service struct {
	fetcher   Fetcher
	scheduler *scheduler.Scheduler
	latest    *models.Snapshot
	eventChan chan Event
	now       func() time.Time
	config    Config
	mu        sync.RWMutex
}

// New creates a feed service. Call Start to begin polling.
func New(fetcher Fetcher, config Config) *Service {
	defaults := DefaultConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.TopPaths <= 0 {
		config.TopPaths = defaults.TopPaths
	}
	if config.Location == nil {
		config.Location = defaults.Location
	}

	s := &Service{
		fetcher:   fetcher,
		eventChan: make(chan Event, 100),
		now:       time.Now,
		config:    config,
	}

	s.scheduler = scheduler.New(config.PollInterval, func(ctx context.Context) error {
		_, err := s.Refresh(ctx)
		return err
	})
	s.scheduler.OnError(s.reportError)

	return s
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Start begins polling. The first refresh runs immediately.
func (s *Service) Start(ctx context.Context) {
	s.scheduler.Start(ctx)
}

// Refresh fetches all endpoints concurrently and builds a snapshot.
//
// Any failed fetch fails the whole refresh and the error is returned to the
// caller. A successful snapshot becomes the latest one only if no newer
// snapshot has been stored in the meantime.
func (s *Service) Refresh(ctx context.Context) (*models.Snapshot, error) {
	s.sendEvent(Event{Type: EventRefreshing})

	var (
		hourly   []models.RawHourlyEvent
		urls     []models.URLCount
		sessions []models.Session
		summary  models.Summary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		hourly, err = s.fetcher.FetchHourly(gctx)
		return err
	})
	g.Go(func() (err error) {
		urls, err = s.fetcher.FetchURLs(gctx)
		return err
	})
	g.Go(func() (err error) {
		sessions, err = s.fetcher.FetchSessions(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary, err = s.fetcher.FetchSummary(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("refresh failed: %w", err)
	}

	s.mu.RLock()
	loc, topPaths := s.config.Location, s.config.TopPaths
	s.mu.RUnlock()

	now := s.now().In(loc)
	slots, stats := bucket.BucketizeWithStats(hourly, now)
	if stats.Malformed > 0 {
		logger.Debug("skipped malformed hourly events", "count", stats.Malformed)
	}

	if len(urls) > topPaths {
		urls = urls[:topPaths]
	}

	snapshot := &models.Snapshot{
		FetchedAt: now,
		Hourly:    slots,
		URLs:      urls,
		Sessions:  sessions,
		Summary:   summary,
		Dropped:   stats.Dropped,
		Malformed: stats.Malformed,
	}

	if s.store(snapshot) {
		s.sendEvent(Event{Type: EventSnapshot, Snapshot: snapshot})
	}

	return snapshot, nil
}

// store keeps snapshot if it is newer than the latest one.
func (s *Service) store(snapshot *models.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !snapshot.NewerThan(s.latest) {
		return false
	}
	s.latest = snapshot
	return true
}

// Latest returns the newest snapshot, or nil before the first refresh.
func (s *Service) Latest() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Service) reportError(err error) {
	logger.Error("refresh failed", "error", err)
	s.sendEvent(Event{Type: EventError, Error: err})
}

// TriggerRefresh asks the scheduler for an immediate refresh.
func (s *Service) TriggerRefresh() {
	s.scheduler.Trigger()
}

// SetVisible pauses ticks while false; becoming visible refreshes immediately.
func (s *Service) SetVisible(visible bool) {
	s.scheduler.SetVisible(visible)
}

// SetInterval changes the polling interval.
func (s *Service) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	s.config.PollInterval = d
	s.mu.Unlock()
	s.scheduler.SetInterval(d)
}

// SetLocation changes the observer location used for bucketing.
func (s *Service) SetLocation(loc *time.Location) {
	if loc == nil {
		return
	}
	s.mu.Lock()
	s.config.Location = loc
	s.mu.Unlock()
}

// SetTopPaths changes how many top paths a snapshot keeps.
func (s *Service) SetTopPaths(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	s.config.TopPaths = n
	s.mu.Unlock()
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops polling and waits for in-flight refreshes.
func (s *Service) Close() error {
	s.scheduler.Stop()
	return nil
}
