package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/pan93412/Stats/internal/models"
	"github.com/pan93412/Stats/internal/ui/styles"
)

// maxPathWidth caps the path column so bars keep a usable width.
const maxPathWidth = 40

// RenderTopPaths lists the most visited paths with bars relative to the
// busiest one. Long paths are truncated with an ellipsis.
func RenderTopPaths(urls []models.URLCount, width int) string {
	if len(urls) == 0 {
		return styles.HelpStyle.Render("No page views yet")
	}

	var peak int64
	labels := make([]string, len(urls))
	labelWidth := 0
	for i, u := range urls {
		if u.Count > peak {
			peak = u.Count
		}
		labels[i] = pathLabel(u)
		labelWidth = max(labelWidth, ansi.StringWidth(labels[i]))
	}
	labelWidth = min(labelWidth, maxPathWidth, max(width/2, 10))

	lines := make([]string, len(urls))
	for i, u := range urls {
		label := ansi.Truncate(labels[i], labelWidth, "…")
		label += strings.Repeat(" ", labelWidth-ansi.StringWidth(label))

		percent := 0.0
		if peak > 0 {
			percent = float64(u.Count) / float64(peak) * 100
		}
		lines[i] = ShareBar(label, u.Count, percent, width)
	}
	return strings.Join(lines, "\n")
}

// pathLabel prefers the path; URLs without one show the raw value.
func pathLabel(u models.URLCount) string {
	if p := u.Path(); p != "" {
		return p
	}
	return u.URL
}
