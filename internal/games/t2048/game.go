package t2048

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// Variant describes one registered board size.
type Variant struct {
	ID   string
	Size int
}

// Variants lists the registered board sizes. The classic 4x4 board keeps the
// bare "2048" id.
var Variants = []Variant{
	{ID: "2048", Size: 4},
	{ID: "2048_3x3", Size: 3},
	{ID: "2048_5x5", Size: 5},
	{ID: "2048_6x6", Size: 6},
}

// VariantForSize returns the registered id for a board size.
func VariantForSize(size int) (string, error) {
	for _, v := range Variants {
		if v.Size == size {
			return v.ID, nil
		}
	}
	return "", fmt.Errorf("t2048: no variant for board size %d", size)
}

func init() {
	for _, v := range Variants {
		registry.Register(v.ID, func() registry.Game {
			return New(v.Size)
		})
	}
}

// Game adapts an Engine to the platform's registry.Game interface.
type Game struct {
	size   int
	engine *Engine
	seed   int64
	moves  []Direction

	// Screen dimensions
	screenW int
	screenH int

	tooSmall bool
	headless bool // No screen: size checks are skipped
}

// New creates a game for the given board size.
func New(size int) *Game {
	if size <= 0 {
		size = BoardSize
	}
	return &Game{size: size}
}

// NewHeadless creates a game driven without a terminal, for the web and
// MCP front ends. Render is still usable but input is never refused.
func NewHeadless(size int) *Game {
	g := New(size)
	g.headless = true
	return g
}

// Size returns the board dimension.
func (g *Game) Size() int {
	return g.size
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if id, err := VariantForSize(g.size); err == nil {
		return id
	}
	return fmt.Sprintf("2048_%dx%d", g.size, g.size)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.size == BoardSize {
		return "2048"
	}
	return fmt.Sprintf("2048 (%dx%d)", g.size, g.size)
}

// Reset deals a new board seeded from cfg.Seed.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.seed = cfg.Seed
	if g.seed == 0 {
		g.seed = time.Now().UnixNano()
	}
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH

	g.engine = NewEngine(g.size, NewSeededSource(g.seed))
	g.engine.NewGame()
	g.moves = nil

	g.checkScreenSize()
}

// Resize updates the screen dimensions without touching the board.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	if g.headless {
		g.tooSmall = false
		return
	}
	minW, minH := minScreenSize(g.size)
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Step applies one input event.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.engine == nil {
		g.Reset(core.DefaultConfig())
	}

	// Input is ignored while the board cannot be shown
	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	dir, ok := directionFor(in)
	if !ok {
		return core.StepResult{State: g.State()}
	}

	moved := g.Move(dir)
	return core.StepResult{State: g.State(), Moved: moved}
}

// Move applies one direction and records it when the board changed.
// Terminal boards ignore moves.
func (g *Game) Move(dir Direction) bool {
	if g.engine == nil {
		g.Reset(core.DefaultConfig())
	}
	moved := g.engine.Move(dir)
	if moved {
		g.moves = append(g.moves, dir)
	}
	return moved
}

// directionFor picks the move requested by an input frame, if any.
func directionFor(in core.InputFrame) (Direction, bool) {
	a, ok := in.Move()
	if !ok {
		return 0, false
	}
	return ActionDirection(a)
}

// ActionDirection maps a directional action to an engine direction.
func ActionDirection(a core.Action) (Direction, bool) {
	switch a {
	case core.ActionUp:
		return DirUp, true
	case core.ActionDown:
		return DirDown, true
	case core.ActionLeft:
		return DirLeft, true
	case core.ActionRight:
		return DirRight, true
	}
	return 0, false
}

// State returns the platform view of the game.
func (g *Game) State() core.GameState {
	if g.engine == nil {
		return core.GameState{}
	}
	status := g.engine.Status()
	return core.GameState{
		Score:    g.engine.Score(),
		GameOver: status.Terminal(),
		Won:      status == StatusWon,
	}
}

// Snapshot returns the engine snapshot.
func (g *Game) Snapshot() GameState {
	if g.engine == nil {
		return NewEngine(g.size, nil).State()
	}
	return g.engine.State()
}

// Replay returns the session as a replay.
func (g *Game) Replay() Replay {
	return Replay{
		Size:  g.size,
		Seed:  g.seed,
		Moves: append([]Direction(nil), g.moves...),
	}
}

// Recording implements registry.Recorder.
func (g *Game) Recording() registry.Recording {
	snap := g.Snapshot()
	return registry.Recording{
		Variant:   g.ID(),
		BoardSize: g.size,
		Seed:      g.seed,
		Moves:     EncodeMoves(g.moves),
		Score:     snap.Score,
		MaxTile:   snap.MaxTile(),
		Won:       snap.Won,
	}
}

var _ registry.Recorder = (*Game)(nil)
