package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Replay browser layout constants
const (
	minWidthForDetail = 100 // Minimum width to show the board next to the table
	maxReplays        = 200 // Max replays to load
)

// ReplaysKeyMap defines the key bindings for the replay browser.
type ReplaysKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Mine    key.Binding
	Inspect key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ReplaysKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Mine, k.Inspect, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ReplaysKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.Mine, k.Inspect, k.Back, k.Quit},
	}
}

// DefaultReplaysKeyMap returns default key bindings.
func DefaultReplaysKeyMap() ReplaysKeyMap {
	return ReplaysKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next board"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev board"),
		),
		Mine: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mine/all"),
		),
		Inspect: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "re-run"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// replayCheck is the result of re-running a journaled replay.
type replayCheck struct {
	record   storage.ReplayRecord
	state    t2048.GameState
	verified bool
	err      error
}

// ReplaysModel is the Bubble Tea model for the replay browser.
type ReplaysModel struct {
	filters    []registry.GameInfo // "All" first, then each variant
	filter     int
	store      *storage.Store
	logger     *log.Logger
	player     string
	onlyMine   bool
	records    []storage.ReplayRecord
	table      table.Model
	help       help.Model
	keys       ReplaysKeyMap
	check      *replayCheck
	width      int
	height     int
	exitOnBack bool // Standalone browser: back quits the program
	quitting   bool
	goingBack  bool
}

// NewReplaysModel creates a new replay browser. player enables the "mine" filter.
func NewReplaysModel(store *storage.Store, logger *log.Logger, player string, width, height int) ReplaysModel {
	filters := append([]registry.GameInfo{{ID: "", Title: "All boards"}}, registry.List()...)

	h := help.New()
	h.Width = width

	m := ReplaysModel{
		filters: filters,
		store:   store,
		logger:  logger,
		player:  player,
		keys:    DefaultReplaysKeyMap(),
		help:    h,
		width:   width,
		height:  height,
	}

	m.table = m.createTable()
	m.loadReplays()

	return m
}

// createTable creates a new table with columns sized to the screen.
func (m *ReplaysModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Board", Width: 9},
		{Title: "Score", Width: 7},
		{Title: "Max", Width: 5},
		{Title: "Result", Width: 9},
		{Title: "Moves", Width: 6},
		{Title: "Player", Width: 10},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
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

// loadReplays reloads the journal for the current filter.
func (m *ReplaysModel) loadReplays() {
	m.records = nil
	m.check = nil
	if m.store == nil {
		m.updateTableRows()
		return
	}

	var (
		records []storage.ReplayRecord
		err     error
	)
	if m.onlyMine && m.player != "" {
		records, err = m.store.PlayerReplays(m.player, maxReplays)
	} else {
		records, err = m.store.RecentReplays(maxReplays)
	}
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("could not load replays", "error", err)
		}
		m.updateTableRows()
		return
	}

	variant := m.filters[m.filter].ID
	for _, r := range records {
		if variant == "" || r.Variant == variant {
			m.records = append(m.records, r)
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current records.
func (m *ReplaysModel) updateTableRows() {
	rows := make([]table.Row, len(m.records))
	for i, r := range m.records {
		rows[i] = table.Row{
			shortID(r.ReplayID),
			r.Variant,
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.MaxTile),
			string(r.Outcome),
			fmt.Sprintf("%d", len(r.Moves)),
			r.Player,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// inspect re-runs the selected replay and compares it with the journal.
func (m *ReplaysModel) inspect() {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return
	}
	m.check = checkReplay(m.records[idx])
}

func checkReplay(r storage.ReplayRecord) *replayCheck {
	c := &replayCheck{record: r}
	replay, err := t2048.ParseReplay(r.BoardSize, r.Seed, r.Moves)
	if err != nil {
		c.err = err
		return c
	}
	c.state = replay.Run().State()
	c.verified = c.state.Score == r.Score && c.state.MaxTile() == r.MaxTile
	return c
}

// Init initializes the replay browser.
func (m ReplaysModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the replay browser.
func (m ReplaysModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			if m.check != nil {
				m.check = nil
				return m, nil
			}
			m.goingBack = true
			if m.exitOnBack {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Next):
			m.filter = (m.filter + 1) % len(m.filters)
			m.loadReplays()
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			m.filter = (m.filter - 1 + len(m.filters)) % len(m.filters)
			m.loadReplays()
			return m, nil

		case key.Matches(msg, m.keys.Mine):
			if m.player != "" {
				m.onlyMine = !m.onlyMine
				m.loadReplays()
			}
			return m, nil

		case key.Matches(msg, m.keys.Inspect):
			m.inspect()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			if m.check != nil {
				m.inspect()
			}
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the replay browser.
func (m ReplaysModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	title := fmt.Sprintf("REPLAYS - %s", m.filters[m.filter].Title)
	if m.onlyMine {
		title += fmt.Sprintf(" (%s)", m.player)
	}
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	content := boxStyle.Render(m.renderTableContent())
	if m.check != nil {
		detail := boxStyle.Render(m.renderCheck())
		if m.width >= minWidthForDetail {
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", detail)
		} else {
			content = detail
		}
	}
	b.WriteString(content)

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ReplaysModel) renderTableContent() string {
	if len(m.records) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No replays recorded yet.\nFinish a board to journal it!")
	}

	return m.table.View()
}

// renderCheck draws the re-derived final board and the verification verdict.
func (m ReplaysModel) renderCheck() string {
	c := m.check
	if c.err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("203")).
			Render("Cannot re-run replay:\n" + c.err.Error())
	}

	w, h := t2048.BoardExtent(c.state.Size)
	screen := core.NewScreen(w, h)
	t2048.DrawBoard(screen, c.state.Board, 0, 0)

	verdict := lipgloss.NewStyle().Foreground(lipgloss.Color("120")).Render("verified")
	if !c.verified {
		verdict = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).
			Render(fmt.Sprintf("MISMATCH (journal %d)", c.record.Score))
	}

	return fmt.Sprintf("%s\n\n%s\nScore %d  Max %d  %s",
		shortID(c.record.ReplayID),
		RenderScreen(screen),
		c.state.Score, c.state.MaxTile(), verdict)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ReplaysModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ReplaysModel) IsQuitting() bool {
	return m.quitting
}

// RunReplays runs the replay browser as a standalone program.
func RunReplays(store *storage.Store, logger *log.Logger, player string, width, height int) error {
	model := NewReplaysModel(store, logger, player, width, height)
	model.exitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
