package info

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/pan93412/Stats/internal/ui/styles"
	"github.com/pan93412/Stats/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderStatusCard(),
		m.renderConfigCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.Render(m.viewport.View())
}

// cardWidth clamps cards between 50 and 80 columns.
func (m *Model) cardWidth() int {
	return min(max(m.width-8, 50), 80)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Connection, configuration and build details")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderStatusCard shows when data last arrived and whether the backend answers.
func (m *Model) renderStatusCard() string {
	rows := []string{styles.CardTitleStyle.Render("Status"), ""}

	conn := m.state.Connection()
	switch {
	case conn.Since.IsZero():
		rows = append(rows, renderRow("Backend", styles.HelpStyle.Render("not contacted yet")))
	case conn.Healthy:
		rows = append(rows, renderRow("Backend", styles.SuccessTextStyle.Render("reachable")+" "+m.since(conn.Since)))
	default:
		rows = append(rows, renderRow("Backend", styles.ErrorTextStyle.Render("unreachable")+" "+m.since(conn.Since)))
	}

	if updated := m.state.LastUpdated(); updated.IsZero() {
		rows = append(rows, renderRow("Last refresh", "never"))
	} else {
		rows = append(rows, renderRow("Last refresh", humanize.RelTime(updated, m.clock, "ago", "from now")))
	}

	if err := m.state.LastError(); err != nil {
		rows = append(rows,
			renderRow("Last error", styles.ErrorTextStyle.Render(err.Error())),
			renderRow("Failed", humanize.RelTime(m.state.LastErrorAt(), m.clock, "ago", "from now")),
		)
	}

	if snap := m.state.Snapshot(); snap != nil && (snap.Dropped > 0 || snap.Malformed > 0) {
		rows = append(rows, renderRow("Skipped hours", fmt.Sprintf("%d outside today, %d unreadable", snap.Dropped, snap.Malformed)))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) since(t time.Time) string {
	return styles.HelpStyle.Render("since " + humanize.RelTime(t, m.clock, "ago", "from now"))
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration"), ""}

	cfg := m.state.Config()
	if cfg == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
		return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	envPath := cfg.EnvPath
	if envPath == "" {
		envPath = "(environment only)"
	}

	rows = append(rows,
		renderRow("Backend", cfg.BaseURL),
		renderRow("Settings File", envPath),
		renderRow("Poll Interval", cfg.PollInterval.String()),
		renderRow("Request Timeout", cfg.RequestTimeout.String()),
		renderRow("Timezone", cfg.TimezoneName()),
		renderRow("Top Paths", strconv.Itoa(cfg.TopPaths)),
		renderRow("Notifications", onOff(cfg.Notify)),
		renderRow("Log File", cfg.LogFile),
		renderRow("Log Level", cfg.LogLevel),
	)

	if cfg.EnvPath != "" {
		rows = append(rows, "", styles.HelpStyle.Render("Edits to the settings file are applied automatically"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About " + version.Name),
		"",
		renderRow("Version", version.GetVersion()),
		renderRow("Build Date", version.GetDate()),
		renderRow("Git Commit", version.GetCommit()),
		renderRow("Go Version", runtime.Version()),
		renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderRow renders a key-value row.
func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
