package bucket

import (
	"time"

	"github.com/pan93412/Stats/internal/models"
	"github.com/pan93412/Stats/internal/timeutil"
)

// MapEvent returns the local instant an event's naive UTC hour denotes.
func MapEvent(event models.RawHourlyEvent, loc *time.Location) (time.Time, error) {
	return timeutil.InLocation(event.Hour, loc)
}

// Stats describes what happened to the input of one accumulation pass.
type Stats struct {
	Matched   int
	Dropped   int // parsed, but outside the custom day
	Malformed int // unparseable hour or negative count
}

// Accumulate folds events into the window's slots, summing their counts.
// Malformed events and events outside the window are skipped.
func Accumulate(w *Window, events []models.RawHourlyEvent) Stats {
	var stats Stats

	for _, event := range events {
		if event.Count < 0 {
			stats.Malformed++
			continue
		}

		local, err := MapEvent(event, w.loc)
		if err != nil {
			stats.Malformed++
			continue
		}

		idx, ok := w.Match(local)
		if !ok {
			stats.Dropped++
			continue
		}

		w.Slots[idx].Count += event.Count
		stats.Matched++
	}

	return stats
}
