package timeutil

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// DateLayout is the calendar date format used for slot keys.
const DateLayout = "2006-01-02"

// headerLayout renders e.g. "Sunday, March 10, 2024 8:15 AM".
const headerLayout = "Monday, January 2, 2006 3:04 PM"

// FormatHour renders an hour of day on a 12-hour clock: 0 -> "12AM", 13 -> "1PM".
func FormatHour(hour int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d%s", display, suffix)
}

// HeaderTime renders the dashboard clock line.
func HeaderTime(now time.Time) string {
	return now.Format(headerLayout)
}

// FromNow renders a backend timestamp relative to now ("5 minutes ago").
// Unparseable input is returned unchanged.
func FromNow(timestamp string, now time.Time) string {
	t, err := ParseNaiveUTC(timestamp)
	if err != nil {
		return timestamp
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Elapsed returns the absolute difference between two backend timestamps as
// zero-padded hours, minutes and seconds. Any unparseable input yields zeros.
func Elapsed(from, to string) [3]string {
	zero := [3]string{"00", "00", "00"}

	a, err := ParseNaiveUTC(from)
	if err != nil {
		return zero
	}
	b, err := ParseNaiveUTC(to)
	if err != nil {
		return zero
	}

	return SplitDuration(b.Sub(a))
}

// SplitDuration formats the absolute value of d as {"HH","MM","SS"}.
// Hours are not wrapped at 24.
func SplitDuration(d time.Duration) [3]string {
	if d < 0 {
		d = -d
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	return [3]string{
		fmt.Sprintf("%02d", hours),
		fmt.Sprintf("%02d", minutes),
		fmt.Sprintf("%02d", seconds),
	}
}
