// Package timeutil normalizes backend timestamps and formats them for display.
//
// The backend reports timestamps without zone information. They always denote
// UTC unless the string carries an explicit offset or a trailing "Z".
package timeutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrEmptyTimestamp is returned for blank input.
	ErrEmptyTimestamp = errors.New("empty timestamp")
	// ErrMalformedTimestamp is returned when no supported layout matches.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// offsetLayouts cover offsets written without a colon, as Postgres emits them.
var offsetLayouts = []string{
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
}

// naiveLayouts are tried in order after the space separator is normalized to "T".
// Fractional seconds are accepted by the seconds layout when parsing.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15",
}

// ParseNaiveUTC parses a backend timestamp. Strings with an explicit offset keep
// it; everything else is read as UTC. The result is always returned in UTC.
func ParseNaiveUTC(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyTimestamp
	}

	normalized := strings.Replace(s, " ", "T", 1)

	if t, err := time.Parse(time.RFC3339Nano, normalized); err == nil {
		return t.UTC(), nil
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t.UTC(), nil
		}
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, normalized, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
}

// InLocation parses a backend timestamp and converts it to loc.
// The offset is derived for the instant itself, so DST transitions are honored.
func InLocation(s string, loc *time.Location) (time.Time, error) {
	t, err := ParseNaiveUTC(s)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc), nil
}
