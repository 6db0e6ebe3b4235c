// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/pan93412/Stats/internal/models"
	"github.com/pan93412/Stats/internal/ui/styles"
)

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Purple),
	)
}

// RunningTotal returns the cumulative count of every slot up to and
// including the current one. Future slots are left out.
func RunningTotal(slots []models.DaySlot) []float64 {
	totals := make([]float64, 0, len(slots))
	var sum int64
	for _, s := range slots {
		if s.IsFuture {
			break
		}
		sum += s.Count
		totals = append(totals, float64(sum))
	}
	return totals
}

// RenderRunningTotal plots how the day's pageviews accumulated hour by hour.
func RenderRunningTotal(slots []models.DaySlot, width, height int) string {
	totals := RunningTotal(slots)
	// asciigraph needs two points to draw a line
	if len(totals) == 1 {
		totals = append([]float64{0}, totals...)
	}
	return RenderLineChart(totals, width, height, "pageviews so far today")
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Sample values to fit width
	var result strings.Builder
	step := float64(len(values)) / float64(width)
	if step < 1 {
		step = 1
	}

	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		normalized := int((val / maxVal) * float64(len(sparkChars)-1))
		normalized = min(max(normalized, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[normalized])
	}

	return result.String()
}

// SlotCounts returns the counts of slots as chart values.
func SlotCounts(slots []models.DaySlot) []float64 {
	values := make([]float64, len(slots))
	for i, s := range slots {
		values[i] = float64(s.Count)
	}
	return values
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}
