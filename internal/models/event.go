// Package models defines data structures and domain types.
package models

import "time"

// RawHourlyEvent is one hourly count as reported by the backend.
// Hour is a naive timestamp that denotes UTC.
type RawHourlyEvent struct {
	Hour  string `json:"hour"`
	Count int64  `json:"count"`
}

// DaySlot is one local hour of the custom day.
type DaySlot struct {
	Start         time.Time
	FormattedHour string
	CalendarDate  string // YYYY-MM-DD, local
	HourOfDay     int
	Count         int64
	IsCurrent     bool
	IsFuture      bool
}

// IsElapsed reports whether the slot lies before the current hour.
func (s DaySlot) IsElapsed() bool {
	return !s.IsCurrent && !s.IsFuture
}

// TotalCount sums the counts of all slots.
func TotalCount(slots []DaySlot) int64 {
	var total int64
	for _, s := range slots {
		total += s.Count
	}
	return total
}

// MaxCount returns the largest slot count, or 0 for no slots.
func MaxCount(slots []DaySlot) int64 {
	var peak int64
	for _, s := range slots {
		if s.Count > peak {
			peak = s.Count
		}
	}
	return peak
}

// CurrentIndex returns the index of the current slot, or -1.
func CurrentIndex(slots []DaySlot) int {
	for i, s := range slots {
		if s.IsCurrent {
			return i
		}
	}
	return -1
}
