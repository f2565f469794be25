// Package t2048 implements the 2048 puzzle: a grid engine that slides and
// merges tiles, spawns new ones and detects wins and dead boards, plus the
// registry adapter that drives it from platform input.
package t2048

// Spawn parameters: 90% twos, 10% fours.
const (
	spawnTwoProb = 0.9
	initialTiles = 2
)

// Engine owns one 2048 board. It is not safe for concurrent use;
// callers serialize NewGame and Move.
type Engine struct {
	size   int
	rand   RandomSource
	board  Board
	score  int
	won    bool
	over   bool
	nextID int
}

// NewEngine creates an engine with an empty board and zero score.
// A size <= 0 selects BoardSize; a nil source selects a time-seeded one.
func NewEngine(size int, src RandomSource) *Engine {
	if size <= 0 {
		size = BoardSize
	}
	if src == nil {
		src = timeSource()
	}
	return &Engine{
		size:  size,
		rand:  src,
		board: NewBoard(size),
	}
}

// Size returns the board dimension.
func (e *Engine) Size() int {
	return e.size
}

// NewGame clears the board, score, flags and tile ids, then spawns two tiles.
func (e *Engine) NewGame() {
	e.board = NewBoard(e.size)
	e.score = 0
	e.won = false
	e.over = false
	e.nextID = 0

	for range initialTiles {
		e.spawnTile()
	}
}

// State returns a deep copy of the current state.
func (e *Engine) State() GameState {
	return GameState{
		Size:          e.size,
		Board:         e.board.Clone(),
		Score:         e.score,
		Won:           e.won,
		Over:          e.over,
		TileIDCounter: e.nextID,
	}
}

// Status returns the current state machine position.
func (e *Engine) Status() Status {
	switch {
	case e.won:
		return StatusWon
	case e.over:
		return StatusOver
	default:
		return StatusActive
	}
}

// Score returns the current score.
func (e *Engine) Score() int {
	return e.score
}

// Move slides every tile toward dir, merging equal pairs once each.
// Returns whether the board changed. Won and over boards reject moves.
func (e *Engine) Move(dir Direction) bool {
	if e.over || e.won {
		return false
	}
	// Fail on a bad direction before touching any tile.
	dir.Vector()

	e.prepareTiles()

	moved := false
	rows, cols := buildTraversals(e.size, dir)
	for _, row := range rows {
		for _, col := range cols {
			tile := e.board[row][col]
			if tile == nil {
				continue
			}

			farthest, next, blocked := FindFarthest(e.board, tile.Position(), dir)
			if farthest != tile.Position() {
				e.moveTile(tile, farthest)
				moved = true
			}

			if !blocked {
				continue
			}
			other := e.board[next.Row][next.Col]
			if other.Value != tile.Value || other.Merged() {
				continue
			}

			merged := &Tile{
				ID:            e.takeID(),
				Value:         tile.Value * 2,
				Row:           next.Row,
				Col:           next.Col,
				MergedFromIDs: []int{tile.ID, other.ID},
			}
			e.board[tile.Row][tile.Col] = nil
			e.board[next.Row][next.Col] = merged
			e.score += merged.Value

			if merged.Value == WinningValue {
				e.won = true
			}
			moved = true
		}
	}

	if moved {
		e.spawnTile()
		if IsGameOver(e.board) {
			e.over = true
		}
	}

	return moved
}

// CheckOver runs the terminal check against the current board and latches
// the over flag when no move is left. Returns the over flag.
func (e *Engine) CheckOver() bool {
	if !e.over && IsGameOver(e.board) {
		e.over = true
	}
	return e.over
}

// prepareTiles clears the per-move markers.
func (e *Engine) prepareTiles() {
	for row := range e.board {
		for _, tile := range e.board[row] {
			if tile != nil {
				tile.MergedFromIDs = nil
				tile.IsNew = false
			}
		}
	}
}

// moveTile relocates tile, keeping its stored position in sync with the grid.
func (e *Engine) moveTile(tile *Tile, to Position) {
	e.board[tile.Row][tile.Col] = nil
	e.board[to.Row][to.Col] = tile
	tile.Row = to.Row
	tile.Col = to.Col
}

// spawnTile places a 2 or 4 in a random empty cell. Full boards are left alone.
func (e *Engine) spawnTile() {
	cells := EmptyCells(e.board)
	if len(cells) == 0 {
		return
	}

	cell := cells[pick(e.rand(), len(cells))]
	value := 2
	if e.rand() >= spawnTwoProb {
		value = 4
	}

	e.board[cell.Row][cell.Col] = &Tile{
		ID:    e.takeID(),
		Value: value,
		Row:   cell.Row,
		Col:   cell.Col,
		IsNew: true,
	}
}

func (e *Engine) takeID() int {
	id := e.nextID
	e.nextID++
	return id
}
