package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Rough pixel size of a terminal cell, used to scale mouse drags into swipes.
const (
	cellPixelsX = 8
	cellPixelsY = 16
)

// helpHeight is the number of rows reserved under the board for the help bar.
const helpHeight = 1

var (
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

// resizer is implemented by games that can follow the terminal size without
// dealing a new board.
type resizer interface {
	Resize(width, height int)
}

// GameModel runs one registry game: it maps keys and mouse drags to
// actions, steps the game once per event and journals the finished board.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	player     string
	keyMapper  *KeyMapper
	help       help.Model
	gameState  core.GameState
	dragging   bool
	dragX      int
	dragY      int
	notice     string
	exitOnBack bool // Standalone play: back quits the program
	quitting   bool
	backToMenu bool
	saved      bool // Whether the current board has been journaled
}

// NewGameModel creates a new game model. store and logger may be nil.
func NewGameModel(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig, player string) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return GameModel{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, boardHeight(cfg.ScreenH)),
		store:     store,
		logger:    logger,
		config:    cfg,
		player:    player,
		keyMapper: NewKeyMapper(),
		help:      h,
	}
}

func boardHeight(screenH int) int {
	return max(screenH-helpHeight, 0)
}

// gameConfig is the runtime config handed to the game: the screen minus the help bar.
func (m GameModel) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = boardHeight(cfg.ScreenH)
	return cfg
}

// Init deals the first board.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.gameConfig())
	return nil
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()

	switch {
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.recordReplay(storage.OutcomeAbandoned)
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		m.recordReplay(storage.OutcomeAbandoned)
		m.backToMenu = true
		if m.exitOnBack {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case core.ActionNew:
		m.recordReplay(storage.OutcomeAbandoned)
		m.newBoard()
		return m, nil

	case core.ActionRestart:
		if m.gameState.GameOver {
			m.newBoard()
		}
		return m, nil
	}

	if action.IsMove() {
		m.step(action)
	}
	return m, nil
}

// handleMouse turns a left-button drag into a swipe.
func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.dragging = true
			m.dragX, m.dragY = msg.X, msg.Y
		}
	case tea.MouseActionRelease:
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		dx := float64((msg.X - m.dragX) * cellPixelsX)
		dy := float64((msg.Y - m.dragY) * cellPixelsY)
		if action := core.SwipeAction(dx, dy); action != core.ActionNone {
			m.step(action)
		}
	}
	return m, nil
}

// step feeds one directional action to the game.
func (m *GameModel) step(action core.Action) {
	result := m.game.Step(core.FrameOf(action))
	m.gameState = result.State
	if result.Moved {
		m.notice = ""
	}

	if m.gameState.GameOver {
		outcome := storage.OutcomeOver
		if m.gameState.Won {
			outcome = storage.OutcomeWon
		}
		m.recordReplay(outcome)
	}
}

// newBoard deals a fresh board with a new seed.
func (m *GameModel) newBoard() {
	m.config.Seed = time.Now().UnixNano()
	m.game.Reset(m.gameConfig())
	m.gameState = m.game.State()
	m.saved = false
}

// recordReplay journals the current board once. Boards without moves are skipped.
func (m *GameModel) recordReplay(outcome storage.Outcome) {
	if m.saved || m.store == nil {
		return
	}
	recorder, ok := m.game.(registry.Recorder)
	if !ok {
		return
	}
	rec := recorder.Recording()
	if rec.Moves == "" {
		return
	}
	m.saved = true

	id, err := m.store.SaveReplay(storage.ReplayRecord{
		Variant:   rec.Variant,
		BoardSize: rec.BoardSize,
		Seed:      rec.Seed,
		Moves:     rec.Moves,
		Score:     rec.Score,
		MaxTile:   rec.MaxTile,
		Outcome:   outcome,
		Player:    m.player,
	})
	if err != nil {
		m.logger.Warn("could not save replay", "variant", rec.Variant, "error", err)
		return
	}

	m.logger.Info("replay saved",
		"id", id,
		"variant", rec.Variant,
		"score", rec.Score,
		"outcome", outcome,
		"player", m.player,
	)
	m.notice = fmt.Sprintf("Replay %s saved", shortID(id))
}

// handleResize processes window resize events.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, boardHeight(msg.Height))
	m.help.Width = msg.Width

	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, boardHeight(msg.Height))
	}
	return m, nil
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}
	dir := filepath.Join(home, ".t2048", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "path", path, "error", err)
		return
	}
	m.notice = "Screenshot saved to " + path
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	footer := helpStyle.Render(m.help.View(m.keyMapper.Keys()))
	if m.notice != "" {
		footer = noticeStyle.Render(m.notice)
	}
	return RenderScreen(m.screen) + "\n" + footer
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// State returns the last observed game state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Run starts a standalone Bubble Tea program for one game.
func Run(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig, player string) error {
	model := NewGameModel(game, store, logger, cfg, player)
	model.exitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Drags become swipes
	)

	_, err := p.Run()
	return err
}
