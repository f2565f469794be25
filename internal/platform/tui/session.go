package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

type sessionView int

const (
	viewMenu sessionView = iota
	viewGame
	viewReplays
)

// SessionModel manages the full session flow: menu -> game or replays -> menu.
// This is the top-level model used by the local menu command and every SSH session.
type SessionModel struct {
	store     *storage.Store
	logger    *log.Logger
	config    core.RuntimeConfig
	player    string
	view      sessionView
	menu      MenuModel
	gameModel *GameModel
	replays   *ReplaysModel
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig, player string) SessionModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return SessionModel{
		store:  store,
		logger: logger,
		config: cfg,
		player: player,
		menu:   NewMenuModel(store, logger, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewReplays:
		return m.updateReplays(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsReplays() {
		replays := NewReplaysModel(m.store, m.logger, m.player, m.config.ScreenW, m.config.ScreenH)
		m.replays = &replays
		m.view = viewReplays
		return m, m.replays.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		game, err := registry.Create(selected.GameID)
		if err != nil {
			// Shouldn't happen since menu only shows registered games
			m.logger.Error("cannot create game", "id", selected.GameID, "error", err)
			m.menu = NewMenuModel(m.store, m.logger, m.config)
			return m, nil
		}

		m.logger.Debug("game started", "variant", selected.GameID)
		gameModel := NewGameModel(game, m.store, m.logger, m.menu.Config(), m.player)
		m.gameModel = &gameModel
		m.view = viewGame

		return m, m.gameModel.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.gameModel.BackToMenu() {
		m.gameModel = nil
		return m.backToMenu()
	}

	return m, cmd
}

// updateReplays handles updates when in the replay browser.
func (m SessionModel) updateReplays(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.replays.Update(msg)
	if replays, ok := newModel.(ReplaysModel); ok {
		m.replays = &replays
	}

	if m.replays.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.replays.IsGoingBack() {
		m.replays = nil
		return m.backToMenu()
	}

	return m, cmd
}

// backToMenu rebuilds the menu so journal stats are fresh.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.view = viewMenu
	m.menu = NewMenuModel(m.store, m.logger, m.config)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewGame:
		return m.gameModel.View()
	case viewReplays:
		return m.replays.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the menu-driven session locally.
func RunSession(store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig, player string) error {
	p := tea.NewProgram(
		NewSessionModel(store, logger, cfg, player),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
