// Package bucket maps backend hourly counts onto the 24 local hours of a
// custom day that starts at 06:00.
//
// The pipeline has three stages: BuildWindow lays out the slots and flags the
// current hour, Accumulate folds the events into them, and MarkFuture derives
// the future flags with a forward scan. Every stage is pure; Bucketize runs all
// three from scratch on each call.
package bucket

import (
	"time"

	"github.com/pan93412/Stats/internal/models"
	"github.com/pan93412/Stats/internal/timeutil"
)

const (
	// DayStartHour is the local hour at which a custom day begins.
	DayStartHour = 6
	// SlotsPerDay is the number of hourly slots in a custom day.
	SlotsPerDay = 24
)

// slotKey identifies a local hour by calendar date and hour of day.
type slotKey struct {
	date string
	hour int
}

func keyOf(t time.Time) slotKey {
	return slotKey{date: t.Format(timeutil.DateLayout), hour: t.Hour()}
}

// Window is the ordered slot layout of one custom day.
type Window struct {
	loc   *time.Location
	index map[slotKey]int
	Slots []models.DaySlot
}

// CustomDayStart returns 06:00 local on now's date, or on the previous date
// when now is earlier than 06:00.
func CustomDayStart(now time.Time) time.Time {
	y, m, d := now.Date()
	if now.Hour() < DayStartHour {
		d--
	}
	return time.Date(y, m, d, DayStartHour, 0, 0, 0, now.Location())
}

// BuildWindow lays out the 24 zero-count slots of the custom day containing now.
//
// Slots are spaced by absolute hours, so a DST change shifts the local labels
// but never opens a gap between instants. On a fall-back day the repeated
// local hour appears twice; only its first slot can match events or be current.
func BuildWindow(now time.Time) *Window {
	start := CustomDayStart(now)
	current := keyOf(now)

	w := &Window{
		loc:   now.Location(),
		index: make(map[slotKey]int, SlotsPerDay),
		Slots: make([]models.DaySlot, SlotsPerDay),
	}

	for i := 0; i < SlotsPerDay; i++ {
		at := start.Add(time.Duration(i) * time.Hour)
		key := keyOf(at)

		slot := models.DaySlot{
			Start:         at,
			FormattedHour: timeutil.FormatHour(key.hour),
			CalendarDate:  key.date,
			HourOfDay:     key.hour,
		}

		if _, seen := w.index[key]; !seen {
			w.index[key] = i
			slot.IsCurrent = key == current
		}

		w.Slots[i] = slot
	}

	return w
}

// Location returns the observer location the window was built in.
func (w *Window) Location() *time.Location {
	return w.loc
}

// Match returns the index of the slot covering t's local date and hour.
func (w *Window) Match(t time.Time) (int, bool) {
	idx, ok := w.index[keyOf(t.In(w.loc))]
	return idx, ok
}
