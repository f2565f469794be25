package t2048

// Status is the engine's position in its state machine.
type Status string

const (
	StatusActive Status = "active"
	StatusWon    Status = "won"
	StatusOver   Status = "over"
)

// Terminal reports whether no further moves are accepted.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusOver
}

// GameState is a read-only snapshot of an engine.
// It shares no tiles or rows with the engine that produced it.
type GameState struct {
	Size          int   `json:"size"`
	Board         Board `json:"board"`
	Score         int   `json:"score"`
	Won           bool  `json:"won"`
	Over          bool  `json:"over"`
	TileIDCounter int   `json:"tileIdCounter"`
}

// Status derives the state machine position. A win outranks a full board.
func (s GameState) Status() Status {
	switch {
	case s.Won:
		return StatusWon
	case s.Over:
		return StatusOver
	default:
		return StatusActive
	}
}

// MaxTile returns the highest tile on the board.
func (s GameState) MaxTile() int {
	return MaxTile(s.Board)
}

// Tiles returns the occupied cells in row-major order.
func (s GameState) Tiles() []Tile {
	var tiles []Tile
	for row := range s.Board {
		for _, tile := range s.Board[row] {
			if tile != nil {
				tiles = append(tiles, *tile)
			}
		}
	}
	return tiles
}
