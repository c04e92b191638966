package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

const maxMatches = 100 // Max matches to load per mode

// MatchesKeyMap defines the key bindings for the match journal browser.
type MatchesKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Replay   key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MatchesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.Replay, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MatchesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.Replay, k.Quit},
	}
}

// DefaultMatchesKeyMap returns default key bindings.
func DefaultMatchesKeyMap() MatchesKeyMap {
	return MatchesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Replay: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "verify replay"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MatchesModel is the Bubble Tea model for browsing the match journal.
type MatchesModel struct {
	modes      []registry.GameInfo
	modeCursor int
	store      *storage.Store
	matches    []storage.Match
	loadErr    error
	table      table.Model
	help       help.Model
	keys       MatchesKeyMap
	width      int
	height     int
	selected   *storage.Match
	quitting   bool
}

// NewMatchesModel creates a journal browser over every registered mode.
func NewMatchesModel(store *storage.Store, width, height int) MatchesModel {
	h := help.New()
	h.ShowAll = false

	m := MatchesModel{
		modes:  registry.List(),
		store:  store,
		keys:   DefaultMatchesKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()

	if len(m.modes) > 0 {
		m.loadMatches(m.modes[0].ID)
	}
	return m
}

// createTable creates a new table sized for the current window.
func (m *MatchesModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Score", Width: 8},
		{Title: "Lines", Width: 6},
		{Title: "Lv", Width: 4},
		{Title: "Pieces", Width: 7},
		{Title: "Result", Width: 8},
		{Title: "Date", Width: 14},
	}

	height := m.height - 8 // Leave room for title, tabs, help and borders
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadMatches loads the recent matches of one mode.
func (m *MatchesModel) loadMatches(mode string) {
	m.matches = nil
	m.loadErr = nil
	if m.store != nil {
		m.matches, m.loadErr = m.store.RecentMatches(mode, maxMatches)
	}
	m.updateTableRows()
}

// matchRow formats one journal entry as a table row.
func matchRow(match storage.Match) table.Row {
	result := "quit"
	if match.Finished {
		result = "over"
	}
	return table.Row{
		strconv.FormatInt(match.ID, 10),
		strconv.Itoa(match.Score),
		strconv.Itoa(match.Lines),
		strconv.Itoa(match.Level),
		strconv.Itoa(match.Pieces),
		result,
		match.PlayedAt.Local().Format("Jan 02 15:04"),
	}
}

func (m *MatchesModel) updateTableRows() {
	rows := make([]table.Row, len(m.matches))
	for i, match := range m.matches {
		rows[i] = matchRow(match)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *MatchesModel) switchMode(delta int) {
	if len(m.modes) == 0 {
		return
	}
	m.modeCursor = (m.modeCursor + delta + len(m.modes)) % len(m.modes)
	m.loadMatches(m.modes[m.modeCursor].ID)
}

// Init initializes the journal browser.
func (m MatchesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the journal browser.
func (m MatchesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextMode):
			m.switchMode(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevMode):
			m.switchMode(-1)
			return m, nil

		case key.Matches(msg, m.keys.Replay):
			if i := m.table.Cursor(); i >= 0 && i < len(m.matches) {
				match := m.matches[i]
				m.selected = &match
				return m, tea.Quit
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Scrolling and everything else goes to the table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the journal browser.
func (m MatchesModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	title := "MATCH JOURNAL"
	if len(m.modes) > 0 {
		title = fmt.Sprintf("MATCH JOURNAL - %s", m.modes[m.modeCursor].Title)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTabs renders the mode tabs above the table.
func (m MatchesModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.modes))
	for i, g := range m.modes {
		if i == m.modeCursor {
			tabs[i] = activeTabStyle.Render(g.ID)
		} else {
			tabs[i] = tabStyle.Render(" " + g.ID + " ")
		}
	}
	return strings.Join(tabs, " ")
}

// renderTableContent renders the table or an explanatory message.
func (m MatchesModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("Match journal unavailable.")
	case m.loadErr != nil:
		return emptyStyle.Render("Cannot load matches:\n" + m.loadErr.Error())
	case len(m.matches) == 0:
		return emptyStyle.Render("No matches journaled yet.\nPlay a match to record one!")
	}
	return m.table.View()
}

// Selected returns the match chosen for replay, if any.
func (m MatchesModel) Selected() *storage.Match {
	return m.selected
}

// centerText pads text with spaces to center it within width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunMatches runs the journal browser and returns the match picked for
// replay, or nil when the user quit.
func RunMatches(store *storage.Store, width, height int) (*storage.Match, error) {
	p := tea.NewProgram(
		NewMatchesModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(MatchesModel)
	if !ok {
		return nil, nil
	}
	return m.Selected(), nil
}
