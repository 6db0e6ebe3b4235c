package sessions

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pan93412/Stats/internal/models"
	"github.com/pan93412/Stats/internal/timeutil"
	"github.com/pan93412/Stats/internal/ui/styles"
)

// View renders the sessions tab.
func (m *Model) View() string {
	m.syncSnapshot()

	sections := []string{m.renderTitle()}

	if len(m.sessions) == 0 {
		sections = append(sections, m.renderEmptyState())
	} else {
		sections = append(sections, m.renderTable(), m.renderDetail())
	}

	return styles.DocStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) cardWidth() int {
	return max(m.width-styles.DocStyle.GetHorizontalFrameSize()-2, 40)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Live Sessions")

	var subtitle string
	switch {
	case m.snap == nil:
		subtitle = "Waiting for the first refresh..."
	case len(m.sessions) == 1:
		subtitle = "1 visitor on the site right now"
	default:
		subtitle = fmt.Sprintf("%d visitors on the site right now", len(m.sessions))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(subtitle), "")
}

func (m *Model) renderEmptyState() string {
	hint := "Sessions show up here as soon as someone visits."
	if m.snap == nil {
		hint = "Sessions appear after the first successful refresh."
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.SubTitleStyle.Render("No live sessions"),
		"",
		styles.HelpStyle.Render(hint),
		"",
	)

	return styles.CardStyle.Width(m.cardWidth()).Render(content)
}

func (m *Model) renderTable() string {
	return styles.CardStyle.Width(m.cardWidth()).Render(m.table.View())
}

// renderDetail lists every event of the selected session, oldest first.
func (m *Model) renderDetail() string {
	sess, ok := m.Selected()
	if !ok {
		return ""
	}

	m.detail.SetContent(m.renderEvents(sess))

	d := sess.Duration()
	title := fmt.Sprintf("%s · %s · %s", sess.Origin(), sess.EventsLabel(), strings.Join(d[:], ":"))

	border := styles.BlurredBorderStyle
	if m.scrolling {
		border = styles.FocusedBorderStyle
	}

	rows := []string{
		styles.CardTitleStyle.Render(title),
		m.detail.View(),
	}

	return border.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderEvents(sess models.Session) string {
	if len(sess.Events) == 0 {
		return styles.HelpStyle.Render("No events recorded")
	}

	lines := make([]string, 0, len(sess.Events))
	for _, e := range sess.Events {
		name := styles.InfoTextStyle.Render(fmt.Sprintf("%-10s", e.Name))
		path := e.Path()
		if host := e.Host(); host != "" {
			path = styles.HelpStyle.Render(host) + " " + path
		}
		when := styles.HelpStyle.Render(timeutil.FromNow(e.Timestamp, m.clock))
		lines = append(lines, fmt.Sprintf("%s %s  %s", name, path, when))
	}
	return strings.Join(lines, "\n")
}
