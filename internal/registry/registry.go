// Package registry maps variant ids to game factories. Board variants
// register in init(); the menu, the CLI and replay tooling look them up by id.
package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// Game is the interface every board variant implements.
// Games contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping and rendering.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "2048", "2048_5x5").
	// Used for CLI commands and replay storage.
	ID() string

	// Title returns a human-readable name for display (e.g., "2048 (5x5)").
	Title() string

	// Reset initializes or resets the game state.
	// Called once at start and again when restarting after game over.
	// The RuntimeConfig provides screen dimensions and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step applies one discrete input event.
	// Input is abstracted to platform-level actions (Up, Left, New, etc.).
	// Returns whether the board changed and the current game state.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current game state (score, game over, won).
	State() core.GameState
}

// Recording is a finished or abandoned session reduced to what is needed
// to re-derive it: variant, board size, spawn seed and the move log.
type Recording struct {
	Variant   string
	BoardSize int
	Seed      int64
	Moves     string
	Score     int
	MaxTile   int
	Won       bool
}

// Recorder is implemented by games that can describe their current session
// as a Recording.
type Recorder interface {
	Recording() Recording
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

type entry struct {
	factory Factory
	title   string
}

var (
	mu      sync.RWMutex
	entries = make(map[string]entry)
)

// Register adds a game factory, usually from a game package's init().
// The title is read once from a throwaway instance.
// Panics if the id is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	entries[id] = entry{factory: f, title: f().Title()}
}

// List returns all registered games sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(entries))
	for id, e := range entries {
		result = append(result, GameInfo{ID: id, Title: e.title})
	}
	slices.SortFunc(result, func(a, b GameInfo) int {
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

// Create instantiates a new game by its ID.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return e.factory(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}
