package components

import (
	"strings"

	"github.com/pan93412/Stats/internal/models"
	"github.com/pan93412/Stats/internal/ui/styles"
)

const (
	// columnWidth is the width of one hour column, excluding the gap.
	columnWidth = 2
	// labelEvery is how many columns one axis label spans.
	labelEvery = 3
)

var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// HistogramWidth returns the rendered width for n slots.
func HistogramWidth(n int) int {
	if n <= 0 {
		return 0
	}
	return n*(columnWidth+1) - 1
}

// RenderHourlyHistogram draws one vertical bar per slot, scaled to the
// busiest hour, with hour labels underneath. Elapsed hours, the current hour
// and future hours are styled differently; empty slots show a dot baseline.
func RenderHourlyHistogram(slots []models.DaySlot, height int) string {
	if len(slots) == 0 {
		return styles.HelpStyle.Render("No data available")
	}
	height = max(height, 3)

	peak := models.MaxCount(slots)
	levels := make([]int64, len(slots))
	for i, s := range slots {
		if peak > 0 && s.Count > 0 {
			// at least one eighth so small hours stay visible
			levels[i] = max(s.Count*int64(height)*8/peak, 1)
		}
	}

	lines := make([]string, 0, height+1)
	for row := height - 1; row >= 0; row-- {
		cells := make([]string, len(slots))
		for i, s := range slots {
			fill := min(max(levels[i]-int64(row)*8, 0), 8)
			ch := eighths[fill]
			if row == 0 && fill == 0 {
				ch = '·'
			}
			cells[i] = styles.GetSlotStyle(s.IsCurrent, s.IsFuture).
				Render(strings.Repeat(string(ch), columnWidth))
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	lines = append(lines, renderHourAxis(slots))
	return strings.Join(lines, "\n")
}

// renderHourAxis labels every third slot with its hour.
func renderHourAxis(slots []models.DaySlot) string {
	span := labelEvery * (columnWidth + 1)

	var b strings.Builder
	for i := 0; i < len(slots); i += labelEvery {
		label := slots[i].FormattedHour
		if len(label) > span-1 {
			label = label[:span-1]
		}
		style := styles.HelpStyle
		if slots[i].IsCurrent {
			style = styles.BarCurrentStyle
		}
		b.WriteString(style.Render(label))
		if i+labelEvery < len(slots) {
			b.WriteString(strings.Repeat(" ", span-len(label)))
		}
	}
	return b.String()
}

// HistogramLegend explains the three bar styles.
func HistogramLegend() string {
	return RenderLegend([]LegendItem{
		{Label: "elapsed", Color: styles.SlotElapsed},
		{Label: "current hour", Color: styles.SlotCurrent},
		{Label: "ahead", Color: styles.SlotFuture},
	})
}
