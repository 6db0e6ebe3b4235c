package app

import (
	"time"

	"github.com/pan93412/Stats/internal/config"
	"github.com/pan93412/Stats/internal/models"
	"github.com/pan93412/Stats/internal/services"
)

// TickMsg is sent periodically to refresh clocks and expire notifications.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// RefreshMsg requests an immediate refresh of the dashboard.
type RefreshMsg struct{}

// SnapshotUpdatedMsg tells the tabs that a newer snapshot is in the state.
type SnapshotUpdatedMsg struct {
	Snapshot *models.Snapshot
}

// ConfigChangedMsg tells the tabs that the configuration was reloaded.
type ConfigChangedMsg struct {
	Config *config.Config
}

// LiveFlashEndMsg turns the live indicator off.
type LiveFlashEndMsg struct {
	Seq int
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Message  string
	Duration time.Duration
	Type     NotificationType
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearNotificationsMsg requests clearing all notifications.
type ClearNotificationsMsg struct{}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
