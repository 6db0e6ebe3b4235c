package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pan93412/Stats/internal/ui/styles"
)

// RefreshSpinner is shown until the first snapshot arrives.
type RefreshSpinner struct {
	spinner spinner.Model
	style   lipgloss.Style
}

// NewRefreshSpinner creates the first-refresh spinner.
func NewRefreshSpinner() RefreshSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return RefreshSpinner{
		spinner: s,
		style:   lipgloss.NewStyle().Foreground(styles.TextSecondary),
	}
}

// Init starts the animation.
func (r RefreshSpinner) Init() tea.Cmd {
	return r.spinner.Tick
}

// Update handles spinner tick messages.
func (r RefreshSpinner) Update(msg tea.Msg) (RefreshSpinner, tea.Cmd) {
	var cmd tea.Cmd
	r.spinner, cmd = r.spinner.Update(msg)
	return r, cmd
}

// View renders the spinner and names the backend host when known.
func (r RefreshSpinner) View(host string) string {
	label := "Waiting for the first refresh..."
	if host != "" {
		label = fmt.Sprintf("Waiting for the first refresh from %s...", host)
	}
	return r.spinner.View() + " " + r.style.Render(label)
}

// RenderSpinnerCentered renders the spinner centered in width x height.
func RenderSpinnerCentered(r RefreshSpinner, host string, width, height int) string {
	return styles.CenterBoth(r.View(host), width, height)
}
