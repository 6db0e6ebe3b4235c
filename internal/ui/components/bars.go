package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/pan93412/Stats/internal/logger"
	"github.com/pan93412/Stats/internal/models"
	"github.com/pan93412/Stats/internal/ui/styles"
)

const (
	shareFrom = "#6c5ce7"
	shareTo   = "#ff6b9d"
)

// DayBar shows how far the custom day has progressed.
type DayBar struct {
	progress progress.Model
}

// NewDayBar creates a day progress bar with a yellow to purple gradient.
func NewDayBar() DayBar {
	p := progress.New(
		progress.WithScaledGradient("#ffd93d", "#6c5ce7"),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)
	return DayBar{progress: p}
}

// DayFraction returns the share of the day's slots that have started,
// counting the current one. Without a current slot it is 0 or 1 depending
// on whether every slot already lies in the past.
func DayFraction(slots []models.DaySlot) float64 {
	if len(slots) == 0 {
		return 0
	}
	idx := models.CurrentIndex(slots)
	if idx < 0 {
		if slots[0].IsFuture {
			return 0
		}
		return 1
	}
	return float64(idx+1) / float64(len(slots))
}

// View renders the bar for slots, followed by "Nh of 24h".
func (d DayBar) View(slots []models.DaySlot, width int) string {
	fraction := DayFraction(slots)
	done := int(fraction*float64(len(slots)) + 0.5)
	label := fmt.Sprintf("%dh of %dh", done, len(slots))

	d.progress.Width = max(width-lipgloss.Width(label)-1, 10)
	return d.progress.ViewAs(fraction) + " " + styles.HelpStyle.Render(label)
}

// RenderGradientBar renders just the bar part with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	filled = min(max(filled, 0), width)

	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor(shareFrom, shareTo, t)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}

	return b.String()
}

// ShareBar renders label, a gradient bar scaled to percent, and the count.
func ShareBar(label string, count int64, percent float64, width int) string {
	countStr := humanize.Comma(count)
	countWidth := max(len(countStr), 7)
	barWidth := max(width-lipgloss.Width(label)-countWidth-4, 5)

	bar := RenderGradientBar(percent, barWidth)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(label)

	countRendered := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(countWidth).
		Align(lipgloss.Right).
		Render(countStr)

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, countRendered)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
