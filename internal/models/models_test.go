package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSplitURL(t *testing.T) {
	tests := []struct {
		raw      string
		wantHost string
		wantPath string
	}{
		{"https://example.com/blog/post?ref=hn", "example.com", "/blog/post?ref=hn"},
		{"https://example.com", "example.com", "/"},
		{"http://localhost:8080/a", "localhost:8080", "/a"},
		{"https://example.com/a%20b", "example.com", "/a%20b"},
		{"/relative/path", "", "/relative/path"},
		{"not a url", "", "not a url"},
		{"", "", ""},
		{"http://[::1", "", "http://[::1"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			host, path := SplitURL(tt.raw)
			if host != tt.wantHost || path != tt.wantPath {
				t.Errorf("SplitURL(%q) = (%q, %q), want (%q, %q)", tt.raw, host, path, tt.wantHost, tt.wantPath)
			}
		})
	}
}

func TestURLCount_HostPath(t *testing.T) {
	u := URLCount{URL: "https://example.com/docs?page=2", Count: 4}
	if u.Host() != "example.com" {
		t.Errorf("Host() = %q", u.Host())
	}
	if u.Path() != "/docs?page=2" {
		t.Errorf("Path() = %q", u.Path())
	}
}

func TestSession_Duration(t *testing.T) {
	s := Session{Events: []SessionEvent{
		{Timestamp: "2024-03-10 14:00:00"},
		{Timestamp: "2024-03-10 14:05:00"},
		{Timestamp: "2024-03-10 15:07:09"},
	}}

	got := s.Duration()
	want := [3]string{"01", "07", "09"}
	if got != want {
		t.Errorf("Duration() = %v, want %v", got, want)
	}

	if got := (Session{}).Duration(); got != [3]string{"00", "00", "00"} {
		t.Errorf("empty Duration() = %v", got)
	}

	bad := Session{Events: []SessionEvent{{Timestamp: "garbage"}, {Timestamp: "2024-03-10 14:00:00"}}}
	if got := bad.Duration(); got != [3]string{"00", "00", "00"} {
		t.Errorf("malformed Duration() = %v", got)
	}
}

func TestSession_EventsLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 events"},
		{1, "1 event"},
		{2, "2 events"},
	}
	for _, tt := range tests {
		s := Session{Events: make([]SessionEvent, tt.n)}
		if got := s.EventsLabel(); got != tt.want {
			t.Errorf("EventsLabel() with %d events = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestSession_Origin(t *testing.T) {
	tests := []struct {
		collector Collector
		want      string
	}{
		{Collector{City: "Taipei", Country: "TW"}, "Taipei, TW"},
		{Collector{Country: "TW"}, "TW"},
		{Collector{City: " Berlin "}, "Berlin"},
		{Collector{}, "unknown location"},
	}
	for _, tt := range tests {
		s := Session{Collector: tt.collector}
		if got := s.Origin(); got != tt.want {
			t.Errorf("Origin() = %q, want %q", got, tt.want)
		}
	}
}

func TestSession_UnmarshalJSON(t *testing.T) {
	data := `[{"events":[{"name":"pageview","url":"https://example.com/","timestamp":"2024-03-10 14:00:00"}],"collector":{"city":"Oslo","country":"NO"}}]`

	var sessions []Session
	if err := json.Unmarshal([]byte(data), &sessions); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(sessions) != 1 || len(sessions[0].Events) != 1 {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}
	ev := sessions[0].Events[0]
	if ev.Name != "pageview" || ev.Host() != "example.com" || ev.Path() != "/" {
		t.Errorf("unexpected event: %+v", ev)
	}
	if sessions[0].Origin() != "Oslo, NO" {
		t.Errorf("Origin() = %q", sessions[0].Origin())
	}
}

func TestSummary(t *testing.T) {
	dec := json.NewDecoder(strings.NewReader(`{"visitors": 12345, "bounce_rate": 0.25, "top-country": "NO", "pageviews": 7, "empty": null}`))
	dec.UseNumber()

	var s Summary
	if err := dec.Decode(&s); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	wantKeys := []string{"bounce_rate", "empty", "pageviews", "top-country", "visitors"}
	keys := s.Keys()
	if len(keys) != len(wantKeys) {
		t.Fatalf("Keys() = %v, want %v", keys, wantKeys)
	}
	for i := range keys {
		if keys[i] != wantKeys[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], wantKeys[i])
		}
	}

	values := map[string]string{
		"visitors":    "12,345",
		"bounce_rate": "0.25",
		"top-country": "NO",
		"pageviews":   "7",
		"empty":       "-",
		"missing":     "-",
	}
	for key, want := range values {
		if got := s.Value(key); got != want {
			t.Errorf("Value(%q) = %q, want %q", key, got, want)
		}
	}

	entries := s.Entries()
	if entries[0].Label != "Bounce rate" || entries[3].Label != "Top country" {
		t.Errorf("unexpected labels: %+v", entries)
	}
}

func TestSummary_PlainNumbers(t *testing.T) {
	s := Summary{"a": float64(1000), "b": 2.5, "c": int64(42), "d": 3, "e": true}

	want := map[string]string{"a": "1,000", "b": "2.5", "c": "42", "d": "3", "e": "true"}
	for key, w := range want {
		if got := s.Value(key); got != w {
			t.Errorf("Value(%q) = %q, want %q", key, got, w)
		}
	}
}

func TestSnapshot_NewerThan(t *testing.T) {
	base := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	older := &Snapshot{FetchedAt: base}
	newer := &Snapshot{FetchedAt: base.Add(time.Second)}

	if !newer.NewerThan(older) {
		t.Error("newer.NewerThan(older) = false")
	}
	if older.NewerThan(newer) {
		t.Error("older.NewerThan(newer) = true")
	}
	if older.NewerThan(older) {
		t.Error("snapshot must not be newer than itself")
	}
	if !older.NewerThan(nil) {
		t.Error("NewerThan(nil) = false")
	}
	var none *Snapshot
	if none.NewerThan(older) {
		t.Error("nil.NewerThan() = true")
	}
}

func TestSnapshot_ActiveSessions(t *testing.T) {
	s := &Snapshot{Sessions: []Session{
		{Events: []SessionEvent{{Name: "a"}}},
		{},
		{Events: []SessionEvent{{Name: "b"}, {Name: "c"}}},
	}}
	if got := s.ActiveSessions(); got != 2 {
		t.Errorf("ActiveSessions() = %d, want 2", got)
	}
}

func TestDaySlotHelpers(t *testing.T) {
	slots := []DaySlot{
		{Count: 3},
		{Count: 9, IsCurrent: true},
		{Count: 1, IsFuture: true},
	}

	if got := TotalCount(slots); got != 13 {
		t.Errorf("TotalCount() = %d, want 13", got)
	}
	if got := MaxCount(slots); got != 9 {
		t.Errorf("MaxCount() = %d, want 9", got)
	}
	if got := CurrentIndex(slots); got != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", got)
	}
	if !slots[0].IsElapsed() || slots[1].IsElapsed() || slots[2].IsElapsed() {
		t.Error("IsElapsed() flags are wrong")
	}
	if CurrentIndex(nil) != -1 || MaxCount(nil) != 0 {
		t.Error("helpers on nil slots")
	}
}
