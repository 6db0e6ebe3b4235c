// Package demo serves a deterministic analytics backend for local development.
package demo

import (
	"time"

	"github.com/pan93412/Stats/internal/models"
)

// TimestampLayout is the naive UTC layout the backend uses for timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// HistoryHours is how far back the hourly series reaches.
const HistoryHours = 48

// hourlyWeights shapes traffic over a UTC day.
var hourlyWeights = [24]int64{
	4, 3, 2, 2, 3, 5, 9, 14, 21, 27, 31, 33,
	34, 36, 38, 37, 35, 31, 26, 22, 17, 12, 8, 6,
}

var topPaths = []struct {
	url    string
	weight int64
}{
	{"https://example.com/", 40},
	{"https://example.com/blog/understanding-dst", 22},
	{"https://example.com/pricing", 13},
	{"https://example.com/docs/getting-started?ref=nav", 9},
	{"https://example.com/about", 5},
	{"https://docs.example.com/api/v1/events", 4},
	{"https://example.com/blog", 3},
	{"https://example.com/contact", 2},
	{"https://example.com/careers", 1},
	{"https://example.com/legal/privacy", 1},
	{"https://example.com/legal/terms", 1},
	{"https://example.com/changelog", 1},
}

type demoSession struct {
	city, country string
	// offsets in seconds before the reference hour, oldest first
	offsets []int
	paths   []string
}

var liveSessions = []demoSession{
	{"Taipei", "TW", []int{1260, 1100, 905, 600}, []string{"/", "/blog", "/blog/understanding-dst", "/pricing"}},
	{"Berlin", "DE", []int{420}, []string{"/docs/getting-started?ref=nav"}},
	{"Austin", "US", []int{3900, 3000, 120}, []string{"/", "/pricing", "/contact"}},
	{"", "NZ", []int{60, 30}, []string{"/about", "/careers"}},
}

// Dataset is a complete set of backend responses.
type Dataset struct {
	Summary  models.Summary
	Hourly   []models.RawHourlyEvent
	URLs     []models.URLCount
	Sessions []models.Session
}

// Generate builds the dataset as the backend would report it at now.
// The output depends only on now truncated to the hour, so repeated calls
// within an hour agree.
func Generate(now time.Time) *Dataset {
	ref := now.UTC().Truncate(time.Hour)

	ds := &Dataset{}

	var total, today int64
	for i := HistoryHours - 1; i >= 0; i-- {
		at := ref.Add(-time.Duration(i) * time.Hour)
		count := hourlyWeights[at.Hour()] + int64(at.Day()%5)
		ds.Hourly = append(ds.Hourly, models.RawHourlyEvent{
			Hour:  at.Format(TimestampLayout),
			Count: count,
		})
		total += count
		if i < 24 {
			today += count
		}
	}

	for _, p := range topPaths {
		ds.URLs = append(ds.URLs, models.URLCount{URL: p.url, Count: p.weight * today / 100})
	}

	var events int64
	for _, s := range liveSessions {
		session := models.Session{Collector: models.Collector{City: s.city, Country: s.country}}
		for i, off := range s.offsets {
			session.Events = append(session.Events, models.SessionEvent{
				Name:      "pageview",
				URL:       "https://example.com" + s.paths[i],
				Timestamp: ref.Add(-time.Duration(off) * time.Second).Format(TimestampLayout),
			})
			events++
		}
		ds.Sessions = append(ds.Sessions, session)
	}

	ds.Summary = models.Summary{
		"pageviews_today": today,
		"pageviews_48h":   total,
		"live_sessions":   int64(len(ds.Sessions)),
		"live_events":     events,
		"top_country":     "TW",
	}

	return ds
}
