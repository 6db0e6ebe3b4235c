// Package sessions provides the live sessions tab.
package sessions

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pan93412/Stats/internal/app"
	"github.com/pan93412/Stats/internal/models"
	"github.com/pan93412/Stats/internal/timeutil"
	"github.com/pan93412/Stats/internal/ui/styles"
)

// keyMap defines the key bindings specific to the sessions tab.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Escape key.Binding
}

// defaultKeyMap returns the default key bindings for the sessions tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "next"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "scroll events"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to list"),
		),
	}
}

// Model represents the sessions tab state.
type Model struct {
	state    *app.State
	table    table.Model
	detail   viewport.Model
	keys     keyMap
	clock    time.Time
	snap     *models.Snapshot
	sessions []models.Session
	// scrolling is true while keys move the event list instead of the table.
	scrolling bool
	width     int
	height    int
}

// New creates a new sessions model.
func New(state *app.State) *Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = styles.TableHeaderStyle.Padding(0, 1)
	s.Cell = styles.TableCellStyle
	s.Selected = styles.TableSelectedStyle
	t.SetStyles(s)

	return &Model{
		state:  state,
		table:  t,
		detail: viewport.New(0, 0),
		keys:   defaultKeyMap(),
		clock:  time.Now(),
	}
}

// columns sizes the table for width; the page column takes what is left.
func columns(width int) []table.Column {
	cols := []table.Column{
		{Title: "Origin", Width: 24},
		{Title: "Events", Width: 10},
		{Title: "Duration", Width: 10},
		{Title: "Last seen", Width: 16},
	}
	used := 0
	for _, c := range cols {
		used += c.Width + 2
	}
	return append(cols, table.Column{Title: "Page", Width: max(width-used-2, 12)})
}

// Init initializes the sessions tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the sessions tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.TickMsg:
		m.clock = msg.Time
		m.updateTableData()

	case app.SnapshotUpdatedMsg:
		if msg.Snapshot != nil && msg.Snapshot.FetchedAt.After(m.clock) {
			m.clock = msg.Snapshot.FetchedAt
		}
		m.updateTableData()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Enter):
			if len(m.sessions) > 0 {
				m.scrolling = true
				m.table.Blur()
			}
			return m, nil

		case key.Matches(msg, m.keys.Escape):
			m.scrolling = false
			m.table.Focus()
			return m, nil
		}

		var cmd tea.Cmd
		if m.scrolling {
			m.detail, cmd = m.detail.Update(msg)
		} else {
			prev := m.table.Cursor()
			m.table, cmd = m.table.Update(msg)
			if m.table.Cursor() != prev {
				m.detail.GotoTop()
			}
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// updateTableData rebuilds the rows from the current snapshot. The cursor
// stays on the same row index when the list changes.
func (m *Model) updateTableData() {
	snap := m.state.Snapshot()
	m.snap = snap

	m.sessions = nil
	if snap != nil {
		m.sessions = snap.Sessions
	}

	rows := make([]table.Row, 0, len(m.sessions))
	for _, sess := range m.sessions {
		d := sess.Duration()
		rows = append(rows, table.Row{
			sess.Origin(),
			sess.EventsLabel(),
			strings.Join(d[:], ":"),
			m.lastSeen(sess),
			lastPath(sess),
		})
	}

	cursor := m.table.Cursor()
	m.table.SetRows(rows)
	if len(rows) > 0 {
		m.table.SetCursor(cursor)
	} else {
		m.scrolling = false
		m.table.Focus()
	}
}

// syncSnapshot picks up snapshots that arrived while the tab was hidden.
func (m *Model) syncSnapshot() {
	if m.state.Snapshot() != m.snap {
		m.updateTableData()
	}
}

// Selected returns the session under the cursor.
func (m *Model) Selected() (models.Session, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.sessions) {
		return models.Session{}, false
	}
	return m.sessions[i], true
}

func (m *Model) lastSeen(sess models.Session) string {
	if len(sess.Events) == 0 {
		return "-"
	}
	return timeutil.FromNow(sess.Events[len(sess.Events)-1].Timestamp, m.clock)
}

func lastPath(sess models.Session) string {
	if len(sess.Events) == 0 {
		return ""
	}
	return sess.Events[len(sess.Events)-1].Path()
}

// SetSize sets the available size for the sessions tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	inner := max(width-styles.DocStyle.GetHorizontalFrameSize()-6, 40)
	m.table.SetColumns(columns(inner))
	m.table.SetWidth(inner)

	// the list gets a little under half the height, events the rest
	tableHeight := max((height-12)/2, 4)
	m.table.SetHeight(tableHeight)

	m.detail.Width = inner
	m.detail.Height = max(height-tableHeight-16, 3)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.scrolling {
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Escape}
	}
	return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Enter, m.keys.Escape},
	}
}
