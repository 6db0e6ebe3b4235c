// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/pan93412/Stats/internal/config"
	"github.com/pan93412/Stats/internal/models"
	"github.com/pan93412/Stats/internal/services"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Duration  time.Duration
	Type      NotificationType
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Refresh bool
}

// State is the data shared between the root model and the tabs.
type State struct {
	mu sync.RWMutex

	snapshot    *models.Snapshot
	config      *config.Config
	connection  services.ConnectionEvent
	lastError   error
	lastErrorAt time.Time
	lastUpdated time.Time

	Loading LoadingState

	live    bool
	liveSeq int

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty state that is waiting for its first snapshot.
func NewState() *State {
	return &State{
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "refresh":
		s.Loading.Refresh = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial || s.Loading.Refresh
}

// IsInitialLoading returns true until the first snapshot or error arrives.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// SetSnapshot stores snap if it is newer than the current one.
// It reports whether the snapshot was accepted.
func (s *State) SetSnapshot(snap *models.Snapshot) bool {
	if snap == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot != nil && !snap.NewerThan(s.snapshot) {
		return false
	}
	s.snapshot = snap
	s.lastUpdated = snap.FetchedAt
	s.lastError = nil
	s.Loading.Initial = false
	return true
}

// Snapshot returns the newest snapshot, or nil before the first refresh.
func (s *State) Snapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// SetError records a failed refresh. The last good snapshot is kept.
func (s *State) SetError(err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err
	s.lastErrorAt = at
	s.Loading.Initial = false
}

// LastError returns the error of the last failed refresh since the last success.
func (s *State) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// LastErrorAt returns when the last refresh failed.
func (s *State) LastErrorAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErrorAt
}

// SetConnection stores the latest backend state change.
func (s *State) SetConnection(conn services.ConnectionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connection = conn
}

// Connection returns the latest backend state change.
func (s *State) Connection() services.ConnectionEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connection
}

// SetConfig replaces the configuration shown to the user.
func (s *State) SetConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

// Config returns the configuration in effect, or nil.
func (s *State) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Location returns the configured display location.
func (s *State) Location() *time.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config != nil && s.config.Location != nil {
		return s.config.Location
	}
	return time.Local
}

// StartLiveFlash turns the live indicator on and returns a token for EndLiveFlash.
func (s *State) StartLiveFlash() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveSeq++
	s.live = true
	return s.liveSeq
}

// EndLiveFlash turns the indicator off unless a newer flash has started.
func (s *State) EndLiveFlash(seq int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == s.liveSeq {
		s.live = false
	}
}

// IsLive reports whether the live indicator is lit.
func (s *State) IsLive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	now := time.Now()
	id := now.Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: now,
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// LastUpdated returns the fetch time of the current snapshot.
func (s *State) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// TimeSinceUpdate returns the duration since the last snapshot.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.lastUpdated)
}
