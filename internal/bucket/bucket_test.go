package bucket

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pan93412/Stats/internal/models"
)

var est = time.FixedZone("EST", -5*60*60)

func loadNewYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestCustomDayStart(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"Morning", time.Date(2024, 3, 10, 8, 15, 0, 0, est), time.Date(2024, 3, 10, 6, 0, 0, 0, est)},
		{"ExactlySix", time.Date(2024, 3, 10, 6, 0, 0, 0, est), time.Date(2024, 3, 10, 6, 0, 0, 0, est)},
		{"BeforeSix", time.Date(2024, 3, 10, 5, 59, 0, 0, est), time.Date(2024, 3, 9, 6, 0, 0, 0, est)},
		{"Midnight", time.Date(2024, 3, 1, 0, 0, 0, 0, est), time.Date(2024, 2, 29, 6, 0, 0, 0, est)},
		{"NewYear", time.Date(2024, 1, 1, 2, 0, 0, 0, est), time.Date(2023, 12, 31, 6, 0, 0, 0, est)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CustomDayStart(tt.now)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestBuildWindow_Labels(t *testing.T) {
	w := BuildWindow(time.Date(2024, 3, 10, 8, 15, 0, 0, est))
	require.Len(t, w.Slots, SlotsPerDay)

	assert.Equal(t, "6AM", w.Slots[0].FormattedHour)
	assert.Equal(t, "12PM", w.Slots[6].FormattedHour)
	assert.Equal(t, "12AM", w.Slots[18].FormattedHour)
	assert.Equal(t, "5AM", w.Slots[23].FormattedHour)

	assert.Equal(t, "2024-03-10", w.Slots[17].CalendarDate)
	assert.Equal(t, "2024-03-11", w.Slots[18].CalendarDate)

	for i, slot := range w.Slots {
		assert.Equal(t, (DayStartHour+i)%24, slot.HourOfDay, "slot %d", i)
		assert.Zero(t, slot.Count)
	}
}

func TestBucketize_Example(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 15, 0, 0, est)
	events := []models.RawHourlyEvent{{Hour: "2024-03-10T14:00", Count: 5}}

	slots := Bucketize(events, now)
	require.Len(t, slots, SlotsPerDay)

	assert.Equal(t, 9, slots[3].HourOfDay)
	assert.Equal(t, "2024-03-10", slots[3].CalendarDate)
	assert.Equal(t, int64(5), slots[3].Count)
	assert.Equal(t, int64(5), models.TotalCount(slots))

	assert.True(t, slots[2].IsCurrent)
	assert.Equal(t, 2, models.CurrentIndex(slots))
	assert.False(t, slots[2].IsFuture)
	assert.False(t, slots[1].IsFuture)
	assert.True(t, slots[3].IsFuture)
	assert.True(t, slots[23].IsFuture)
}

func TestBucketize_BeforeSixBelongsToPreviousDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 3, 0, 0, 0, est)
	events := []models.RawHourlyEvent{
		{Hour: "2024-03-09 11:00:00", Count: 1}, // 06:00 local, first slot
		{Hour: "2024-03-10 08:00:00", Count: 2}, // 03:00 local, current slot
		{Hour: "2024-03-10 10:00:00", Count: 4}, // 05:00 local, last slot
	}

	slots := Bucketize(events, now)

	assert.Equal(t, "2024-03-09", slots[0].CalendarDate)
	assert.Equal(t, int64(1), slots[0].Count)
	assert.Equal(t, "2024-03-10", slots[23].CalendarDate)
	assert.Equal(t, int64(4), slots[23].Count)

	assert.Equal(t, 21, models.CurrentIndex(slots))
	assert.Equal(t, int64(2), slots[21].Count)
	assert.True(t, slots[22].IsFuture)
	assert.True(t, slots[23].IsFuture)
	assert.False(t, slots[20].IsFuture)
}

func TestBucketize_DropsOutsideWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 15, 0, 0, est)
	events := []models.RawHourlyEvent{
		{Hour: "2024-03-09T07:00:00", Count: 9}, // 30 hours before now
		{Hour: "2024-03-11T12:00:00", Count: 9}, // next custom day
		{Hour: "2024-03-10T11:00:00", Count: 3}, // 06:00 local
	}

	slots, stats := BucketizeWithStats(events, now)

	assert.Equal(t, int64(3), models.TotalCount(slots))
	assert.Equal(t, Stats{Matched: 1, Dropped: 2}, stats)
}

func TestBucketize_SkipsMalformed(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 15, 0, 0, est)
	events := []models.RawHourlyEvent{
		{Hour: "not a time", Count: 7},
		{Hour: "", Count: 7},
		{Hour: "2024-03-10T14:00:00", Count: -2},
		{Hour: "2024-03-10T14:00:00", Count: 1},
	}

	slots, stats := BucketizeWithStats(events, now)

	assert.Equal(t, int64(1), models.TotalCount(slots))
	assert.Equal(t, Stats{Matched: 1, Malformed: 3}, stats)
}

func TestBucketize_MergesSameHour(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 15, 0, 0, est)
	events := []models.RawHourlyEvent{
		{Hour: "2024-03-10T14:00:00", Count: 2},
		{Hour: "2024-03-10 14:00", Count: 3},
		{Hour: "2024-03-10T14:30:00", Count: 5},
	}

	slots := Bucketize(events, now)
	assert.Equal(t, int64(10), slots[3].Count)
}

func TestBucketize_Empty(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 15, 0, 0, est)

	for _, events := range [][]models.RawHourlyEvent{nil, {}} {
		slots := Bucketize(events, now)
		require.Len(t, slots, SlotsPerDay)
		assert.Zero(t, models.TotalCount(slots))
		assert.Equal(t, 2, models.CurrentIndex(slots))
	}
}

func TestBucketize_Idempotent(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 15, 0, 0, est)
	events := []models.RawHourlyEvent{
		{Hour: "2024-03-10T14:00:00", Count: 2},
		{Hour: "2024-03-10T20:00:00", Count: 8},
	}

	first := Bucketize(events, now)
	second := Bucketize(events, now)
	assert.Equal(t, first, second)

	// A fresh call never carries counts from an earlier one.
	third := Bucketize(nil, now)
	assert.Zero(t, models.TotalCount(third))
}

func TestBucketize_Properties(t *testing.T) {
	ny := loadNewYork(t)
	nows := []time.Time{
		time.Date(2024, 3, 10, 4, 0, 0, 0, ny),   // spring-forward night
		time.Date(2024, 3, 10, 12, 0, 0, 0, ny),  // spring-forward day
		time.Date(2024, 11, 3, 1, 30, 0, 0, ny),  // fall-back night
		time.Date(2024, 11, 3, 23, 59, 0, 0, ny), // fall-back day
		time.Date(2024, 7, 4, 6, 0, 0, 0, ny),
		time.Date(2024, 7, 4, 5, 59, 0, 0, ny),
	}

	for _, now := range nows {
		t.Run(now.Format(time.RFC3339), func(t *testing.T) {
			var events []models.RawHourlyEvent
			var inWindow int64
			start := CustomDayStart(now)
			for h := -30; h < 54; h++ {
				at := start.Add(time.Duration(h) * time.Hour).UTC()
				events = append(events, models.RawHourlyEvent{
					Hour:  at.Format("2006-01-02 15:04:05"),
					Count: int64(h + 31),
				})
				if h >= 0 && h < SlotsPerDay {
					inWindow += int64(h + 31)
				}
			}

			slots := Bucketize(events, now)
			require.Len(t, slots, SlotsPerDay)

			current := 0
			for i, slot := range slots {
				if slot.IsCurrent {
					current++
				}
				if i > 0 {
					assert.Equal(t, time.Hour, slot.Start.Sub(slots[i-1].Start), "slot %d", i)
					if slots[i-1].IsFuture {
						assert.True(t, slot.IsFuture, "future must be monotonic at slot %d", i)
					}
				}
			}
			assert.Equal(t, 1, current)
			assert.Equal(t, inWindow, models.TotalCount(slots))
		})
	}
}

func TestBucketize_SpringForward(t *testing.T) {
	ny := loadNewYork(t)
	now := time.Date(2024, 3, 10, 4, 0, 0, 0, ny)

	slots := Bucketize(nil, now)

	// 01:00 EST is followed by 03:00 EDT.
	assert.Equal(t, 1, slots[19].HourOfDay)
	assert.Equal(t, 3, slots[20].HourOfDay)
	assert.Equal(t, "3AM", slots[20].FormattedHour)
	assert.Equal(t, 6, slots[23].HourOfDay)
	assert.Equal(t, 21, models.CurrentIndex(slots))
}

func TestBucketize_FallBackDuplicateHour(t *testing.T) {
	ny := loadNewYork(t)
	now := time.Date(2024, 11, 3, 1, 30, 0, 0, ny) // first 01:30, EDT

	events := []models.RawHourlyEvent{
		{Hour: "2024-11-03 05:00:00", Count: 2}, // 01:00 EDT
		{Hour: "2024-11-03 06:00:00", Count: 3}, // 01:00 EST
	}

	slots := Bucketize(events, now)

	assert.Equal(t, 1, slots[19].HourOfDay)
	assert.Equal(t, 1, slots[20].HourOfDay)
	assert.Equal(t, slots[19].CalendarDate, slots[20].CalendarDate)

	// Only the first occurrence of the repeated hour is eligible.
	assert.Equal(t, int64(5), slots[19].Count)
	assert.Zero(t, slots[20].Count)
	assert.True(t, slots[19].IsCurrent)
	assert.False(t, slots[20].IsCurrent)
	assert.True(t, slots[20].IsFuture)
	assert.Equal(t, 4, slots[23].HourOfDay)
}

func TestScanState(t *testing.T) {
	s := BeforeCurrent
	s = s.Next(false)
	assert.Equal(t, BeforeCurrent, s)
	s = s.Next(true)
	assert.Equal(t, AtCurrent, s)
	s = s.Next(false)
	assert.Equal(t, AfterCurrent, s)
	s = s.Next(true)
	assert.Equal(t, AfterCurrent, s)

	assert.Equal(t, "before-current", BeforeCurrent.String())
	assert.Equal(t, "at-current", AtCurrent.String())
	assert.Equal(t, "after-current", AfterCurrent.String())
	assert.Equal(t, "unknown", ScanState(9).String())
}

func TestMarkFuture_NoCurrent(t *testing.T) {
	slots := make([]models.DaySlot, 5)
	MarkFuture(slots)
	for _, slot := range slots {
		assert.False(t, slot.IsFuture)
		assert.True(t, slot.IsElapsed())
	}
}

func TestWindow_Match(t *testing.T) {
	w := BuildWindow(time.Date(2024, 3, 10, 8, 15, 0, 0, est))

	idx, ok := w.Match(time.Date(2024, 3, 10, 14, 59, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 3, idx)

	_, ok = w.Match(time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)) // 05:00 local, previous day
	assert.False(t, ok)
	assert.Equal(t, est, w.Location())
}
