package models

import "time"

// Snapshot is the result of one refresh cycle.
type Snapshot struct {
	FetchedAt time.Time
	Hourly    []DaySlot
	URLs      []URLCount
	Sessions  []Session
	Summary   Summary
	// Dropped counts hourly events outside the custom day, Malformed those
	// that could not be read.
	Dropped   int
	Malformed int
}

// NewerThan reports whether s was fetched after other. A nil other is older
// than anything.
func (s *Snapshot) NewerThan(other *Snapshot) bool {
	if s == nil {
		return false
	}
	if other == nil {
		return true
	}
	return s.FetchedAt.After(other.FetchedAt)
}

// ActiveSessions returns the number of sessions with at least one event.
func (s *Snapshot) ActiveSessions() int {
	n := 0
	for _, sess := range s.Sessions {
		if len(sess.Events) > 0 {
			n++
		}
	}
	return n
}
