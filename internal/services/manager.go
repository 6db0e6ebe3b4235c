// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/pan93412/Stats/internal/client"
	"github.com/pan93412/Stats/internal/config"
	"github.com/pan93412/Stats/internal/logger"
	"github.com/pan93412/Stats/internal/models"
	"github.com/pan93412/Stats/internal/services/configwatch"
	"github.com/pan93412/Stats/internal/services/feed"
)

type (
	// SnapshotEvent is emitted when a new dashboard snapshot is available.
	SnapshotEvent struct {
		Snapshot *models.Snapshot
	}

	// RefreshingEvent is emitted when a refresh starts.
	RefreshingEvent struct{}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}

	// ConfigChangedEvent is emitted after a hot reload has been applied.
	ConfigChangedEvent struct {
		Config *config.Config
	}

	// ConnectionEvent is emitted when the backend becomes reachable or unreachable.
	ConnectionEvent struct {
		Since   time.Time
		Error   error
		Healthy bool
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (SnapshotEvent) isServiceEvent()      {}
func (RefreshingEvent) isServiceEvent()    {}
func (ErrorEvent) isServiceEvent()         {}
func (ConfigChangedEvent) isServiceEvent() {}
func (ConnectionEvent) isServiceEvent()    {}

// Notifier shows a desktop notification.
type Notifier func(title, message string) error

func desktopNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}

type health int

const (
	healthUnknown health = iota
	healthUp
	healthDown
)

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	client      *client.Client
	feed        *feed.Service
	watcher     *configwatch.Service
	cfg         *config.Config
	notify      Notifier
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	connection  ConnectionEvent
	health      health
	closeOnce   sync.Once
}

// NewManager creates a new service manager. Call Start to begin polling.
func NewManager(cfg *config.Config) (*Manager, error) {
	return newManager(cfg, desktopNotify)
}

func newManager(cfg *config.Config, notify Notifier) (*Manager, error) {
	c, err := client.New(cfg.BaseURL, cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	m := &Manager{
		client:   c,
		cfg:      cfg,
		notify:   notify,
		stopChan: make(chan struct{}),
	}

	m.feed = feed.New(c, feed.Config{
		Location:     cfg.Location,
		PollInterval: cfg.PollInterval,
		TopPaths:     cfg.TopPaths,
	})

	m.watcher, err = configwatch.New(cfg.EnvPath)
	switch {
	case errors.Is(err, configwatch.ErrNoFile):
		logger.Debug("no .env file, config hot reload disabled")
	case err != nil:
		logger.Warn("failed to watch config file", "path", cfg.EnvPath, "error", err)
	}

	go m.routeEvents()

	return m, nil
}

// Start begins polling the backend.
func (m *Manager) Start(ctx context.Context) {
	m.feed.Start(ctx)
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	var watchEvents <-chan configwatch.Event
	if m.watcher != nil {
		watchEvents = m.watcher.Events()
	}

	for {
		select {
		case event := <-m.feed.Events():
			m.handleFeedEvent(event)

		case event := <-watchEvents:
			m.handleConfigEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleFeedEvent(event feed.Event) {
	switch event.Type {
	case feed.EventRefreshing:
		m.broadcast(RefreshingEvent{})

	case feed.EventSnapshot:
		m.setHealth(healthUp, nil)
		m.broadcast(SnapshotEvent{Snapshot: event.Snapshot})

	case feed.EventError:
		m.setHealth(healthDown, event.Error)
		m.broadcast(ErrorEvent{
			Service: "feed",
			Error:   event.Error,
		})
	}
}

func (m *Manager) handleConfigEvent(event configwatch.Event) {
	switch event.Type {
	case configwatch.EventConfigChanged:
		if err := m.ApplyConfig(event.Config); err != nil {
			m.broadcast(ErrorEvent{Service: "config", Error: err})
			return
		}
		m.broadcast(ConfigChangedEvent{Config: event.Config})

	case configwatch.EventError:
		m.broadcast(ErrorEvent{
			Service: "config",
			Error:   event.Error,
		})
	}
}

// setHealth records the backend state and reports transitions.
// The first observation is broadcast but never notified.
func (m *Manager) setHealth(next health, err error) {
	m.mu.Lock()
	prev := m.health
	if prev == next {
		m.mu.Unlock()
		return
	}
	m.health = next
	m.connection = ConnectionEvent{
		Healthy: next == healthUp,
		Since:   time.Now(),
		Error:   err,
	}
	event := m.connection
	notifyEnabled := m.cfg.Notify
	baseURL := m.cfg.BaseURL
	m.mu.Unlock()

	m.broadcast(event)

	if prev == healthUnknown || !notifyEnabled || m.notify == nil {
		return
	}

	title, body := "Stats backend is back", fmt.Sprintf("%s is reachable again.", baseURL)
	if next == healthDown {
		title, body = "Stats backend unreachable", fmt.Sprintf("%s: %v", baseURL, err)
	}
	if notifyErr := m.notify(title, body); notifyErr != nil {
		logger.Warn("failed to send notification", "error", notifyErr)
	}
}

// ApplyConfig switches the running services to cfg.
func (m *Manager) ApplyConfig(cfg *config.Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}

	if cfg.BaseURL != m.client.BaseURL() {
		if err := m.client.SetBaseURL(cfg.BaseURL); err != nil {
			return err
		}
	}

	m.feed.SetInterval(cfg.PollInterval)
	m.feed.SetLocation(cfg.Location)
	m.feed.SetTopPaths(cfg.TopPaths)

	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()

	logger.Info("config applied", "url", cfg.BaseURL, "interval", cfg.PollInterval, "timezone", cfg.TimezoneName())
	m.feed.TriggerRefresh()
	return nil
}

// broadcast sends an event to all subscribers. A full subscriber misses it.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Refresh requests an immediate refresh.
func (m *Manager) Refresh() {
	m.feed.TriggerRefresh()
}

// SetVisible forwards terminal focus changes to the poller.
func (m *Manager) SetVisible(visible bool) {
	m.feed.SetVisible(visible)
}

// Latest returns the newest snapshot, or nil.
func (m *Manager) Latest() *models.Snapshot {
	return m.feed.Latest()
}

// Config returns the configuration currently in effect.
func (m *Manager) Config() *config.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Connection returns the last backend state change.
func (m *Manager) Connection() ConnectionEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connection
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		close(m.stopChan)

		if err := m.feed.Close(); err != nil {
			errs = append(errs, err)
		}

		if m.watcher != nil {
			if err := m.watcher.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()
	})

	return errors.Join(errs...)
}
