package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// Summary holds the backend's headline counters keyed by counter id.
// Values are numbers or strings; numbers decode as json.Number.
type Summary map[string]any

// SummaryEntry is one counter prepared for display.
type SummaryEntry struct {
	Key   string
	Label string
	Value string
}

// Keys returns the counter ids in sorted order.
func (s Summary) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value renders a counter for display. Numbers get thousands separators.
func (s Summary) Value(key string) string {
	v, ok := s[key]
	if !ok {
		return "-"
	}
	return formatSummaryValue(v)
}

// Entries returns every counter in key order.
func (s Summary) Entries() []SummaryEntry {
	keys := s.Keys()
	entries := make([]SummaryEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, SummaryEntry{
			Key:   k,
			Label: SummaryLabel(k),
			Value: s.Value(k),
		})
	}
	return entries
}

// SummaryLabel turns a counter id such as "unique_visitors" into "Unique visitors".
func SummaryLabel(key string) string {
	label := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(key))
	if label == "" {
		return key
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func formatSummaryValue(v any) string {
	switch n := v.(type) {
	case nil:
		return "-"
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return humanize.Comma(i)
		}
		if f, err := n.Float64(); err == nil {
			return humanize.CommafWithDigits(f, 2)
		}
		return n.String()
	case float64:
		if n == float64(int64(n)) {
			return humanize.Comma(int64(n))
		}
		return humanize.CommafWithDigits(n, 2)
	case int:
		return humanize.Comma(int64(n))
	case int64:
		return humanize.Comma(n)
	case string:
		return n
	default:
		return fmt.Sprint(n)
	}
}
