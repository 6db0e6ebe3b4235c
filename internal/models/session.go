package models

import (
	"fmt"
	"strings"

	"github.com/pan93412/Stats/internal/timeutil"
)

// SessionEvent is a single tracked event within a visitor session.
type SessionEvent struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Timestamp string `json:"timestamp"` // naive UTC
}

// Host returns the host the event was recorded on.
func (e SessionEvent) Host() string {
	host, _ := SplitURL(e.URL)
	return host
}

// Path returns the path and query the event was recorded on.
func (e SessionEvent) Path() string {
	_, path := SplitURL(e.URL)
	return path
}

// Collector describes where a session's events were collected from.
type Collector struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Session is a live visitor session as reported by the backend.
// Events are in chronological order.
type Session struct {
	Events    []SessionEvent `json:"events"`
	Collector Collector      `json:"collector"`
}

// Duration returns the time between the first and last event as {"HH","MM","SS"}.
func (s Session) Duration() [3]string {
	if len(s.Events) == 0 {
		return [3]string{"00", "00", "00"}
	}
	return timeutil.Elapsed(s.Events[0].Timestamp, s.Events[len(s.Events)-1].Timestamp)
}

// EventsLabel returns "1 event" or "N events".
func (s Session) EventsLabel() string {
	if len(s.Events) == 1 {
		return "1 event"
	}
	return fmt.Sprintf("%d events", len(s.Events))
}

// Origin returns "City, Country", omitting whichever part is unknown.
func (s Session) Origin() string {
	var parts []string
	for _, p := range []string{s.Collector.City, s.Collector.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "unknown location"
	}
	return strings.Join(parts, ", ")
}
