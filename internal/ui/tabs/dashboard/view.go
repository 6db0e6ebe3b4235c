package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/pan93412/Stats/internal/models"
	"github.com/pan93412/Stats/internal/timeutil"
	"github.com/pan93412/Stats/internal/ui/components"
	"github.com/pan93412/Stats/internal/ui/styles"
)

const (
	histogramHeight = 8
	chartHeight     = 6
)

// View renders the dashboard component.
func (m *Model) View() string {
	snap := m.state.Snapshot()
	if snap == nil && m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.backendHost(), m.width, m.height)
	}

	sections := []string{m.renderHeader(snap)}

	if snap == nil {
		sections = append(sections, m.renderNoData())
	} else {
		sections = append(sections,
			m.renderCounters(snap),
			m.renderHistogram(snap),
			m.renderRunningTotal(snap),
			m.renderTopPaths(snap),
		)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.Render(m.viewport.View())
}

// cardWidth is the width passed to CardStyle; the border adds two columns.
func (m *Model) cardWidth() int {
	return max(m.viewport.Width-2, 40)
}

// renderHeader renders the clock line with the live indicator.
func (m *Model) renderHeader(snap *models.Snapshot) string {
	title := styles.TitleStyle.Render("Today")

	indicator := styles.LiveOffStyle.Render("● live")
	if m.state.IsLive() {
		indicator = styles.LiveOnStyle.Render("● LIVE")
	}

	clock := timeutil.HeaderTime(m.clock.In(m.state.Location()))
	line := fmt.Sprintf("%s  %s", indicator, styles.HelpStyle.Render(clock))

	rows := []string{title, line}

	if snap != nil {
		rows = append(rows, styles.HelpStyle.Render("updated "+humanize.RelTime(snap.FetchedAt, m.clock, "ago", "from now")))
	}

	if err := m.state.LastError(); err != nil {
		rows = append(rows, styles.ErrorTextStyle.Render("Last refresh failed: "+err.Error()))
	}

	rows = append(rows, "")
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderNoData() string {
	rows := []string{
		styles.CardTitleStyle.Render("No data yet"),
		styles.HelpStyle.Render("The backend has not answered so far. Press r to retry."),
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

type counter struct {
	label string
	value string
}

// renderCounters shows today's totals followed by the backend's summary.
func (m *Model) renderCounters(snap *models.Snapshot) string {
	counters := []counter{
		{"pageviews today", humanize.Comma(models.TotalCount(snap.Hourly))},
		{"live sessions", humanize.Comma(int64(snap.ActiveSessions()))},
	}
	if peak := models.MaxCount(snap.Hourly); peak > 0 {
		counters = append(counters, counter{"busiest hour", humanize.Comma(peak)})
	}
	for _, entry := range snap.Summary.Entries() {
		counters = append(counters, counter{strings.ToLower(entry.Label), entry.Value})
	}

	boxes := make([]string, 0, len(counters))
	for _, c := range counters {
		box := lipgloss.JoinVertical(lipgloss.Left,
			styles.CounterValueStyle.Render(c.value),
			styles.CounterLabelStyle.Render(c.label),
		)
		boxes = append(boxes, lipgloss.NewStyle().MarginRight(4).Render(box))
	}

	// wrap counters onto as many rows as the width needs
	inner := m.cardWidth() - 4
	var rows []string
	var current []string
	for _, box := range boxes {
		if len(current) > 0 && lipgloss.Width(lipgloss.JoinHorizontal(lipgloss.Top, append(current, box)...)) > inner {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
		current = append(current, box)
	}
	if len(current) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderHistogram renders the hourly bars for the custom day.
func (m *Model) renderHistogram(snap *models.Snapshot) string {
	inner := m.cardWidth() - 4

	rows := []string{
		styles.CardTitleStyle.Render("Pageviews by hour"),
		m.dayBar.View(snap.Hourly, min(inner, components.HistogramWidth(len(snap.Hourly)))),
		"",
		components.RenderHourlyHistogram(snap.Hourly, histogramHeight),
		"",
		components.HistogramLegend(),
	}

	if snap.Dropped > 0 || snap.Malformed > 0 {
		note := fmt.Sprintf("%d outside today, %d unreadable", snap.Dropped, snap.Malformed)
		rows = append(rows, styles.HelpStyle.Render(note))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderRunningTotal(snap *models.Snapshot) string {
	chartWidth := max(m.cardWidth()-16, 20)
	rows := []string{
		styles.CardTitleStyle.Render("Running total"),
		components.RenderRunningTotal(snap.Hourly, chartWidth, chartHeight),
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderTopPaths(snap *models.Snapshot) string {
	rows := []string{
		styles.CardTitleStyle.Render("Top paths"),
		components.RenderTopPaths(snap.URLs, m.cardWidth()-4),
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
