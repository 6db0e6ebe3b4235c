package bucket

import (
	"time"

	"github.com/pan93412/Stats/internal/models"
)

// Bucketize maps hourly events onto the custom day containing now, in now's
// location. The result always has SlotsPerDay slots and does not depend on
// any previous call.
func Bucketize(events []models.RawHourlyEvent, now time.Time) []models.DaySlot {
	slots, _ := BucketizeWithStats(events, now)
	return slots
}

// BucketizeWithStats is Bucketize that also reports how the events were used.
func BucketizeWithStats(events []models.RawHourlyEvent, now time.Time) ([]models.DaySlot, Stats) {
	w := BuildWindow(now)
	stats := Accumulate(w, events)
	MarkFuture(w.Slots)
	return w.Slots, stats
}
