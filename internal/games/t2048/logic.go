package t2048

// BoardSize is the default board dimension.
const BoardSize = 4

// WinningValue is the tile value that ends the game with a win.
const WinningValue = 2048

// Position is a cell coordinate on the board.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Tile is a single numbered piece on the board.
type Tile struct {
	ID            int   `json:"id"`
	Value         int   `json:"value"`
	Row           int   `json:"row"`
	Col           int   `json:"col"`
	MergedFromIDs []int `json:"mergedFromIds,omitempty"` // Source tile ids, latest move only
	IsNew         bool  `json:"isNew,omitempty"`         // Spawned in the latest cycle
}

// Position returns the tile's cell.
func (t *Tile) Position() Position {
	return Position{Row: t.Row, Col: t.Col}
}

// Merged reports whether the tile was produced by a merge on the latest move.
func (t *Tile) Merged() bool {
	return t.MergedFromIDs != nil
}

// Board is a square grid of optional tiles, indexed [row][col].
type Board [][]*Tile

// NewBoard allocates an empty size x size board.
func NewBoard(size int) Board {
	board := make(Board, size)
	for row := range board {
		board[row] = make([]*Tile, size)
	}
	return board
}

// Size returns the board dimension.
func (b Board) Size() int {
	return len(b)
}

// InBounds reports whether pos lies on the board.
func (b Board) InBounds(pos Position) bool {
	size := len(b)
	return pos.Row >= 0 && pos.Row < size && pos.Col >= 0 && pos.Col < size
}

// At returns the tile at pos, or nil for an empty or off-board cell.
func (b Board) At(pos Position) *Tile {
	if !b.InBounds(pos) {
		return nil
	}
	return b[pos.Row][pos.Col]
}

// Clone returns a deep copy: new rows and new tiles.
func (b Board) Clone() Board {
	clone := NewBoard(len(b))
	for row := range b {
		for col, tile := range b[row] {
			if tile == nil {
				continue
			}
			copied := *tile
			if tile.MergedFromIDs != nil {
				copied.MergedFromIDs = append([]int(nil), tile.MergedFromIDs...)
			}
			clone[row][col] = &copied
		}
	}
	return clone
}

// Values returns the board as a grid of tile values, 0 for empty cells.
func (b Board) Values() [][]int {
	values := make([][]int, len(b))
	for row := range b {
		values[row] = make([]int, len(b))
		for col, tile := range b[row] {
			if tile != nil {
				values[row][col] = tile.Value
			}
		}
	}
	return values
}

// FindFarthest walks from pos one cell at a time along dir while the next
// cell is on the board and empty. It returns the last reachable cell and,
// when the walk stopped at an occupied cell, that cell with ok set.
func FindFarthest(b Board, pos Position, dir Direction) (farthest, next Position, ok bool) {
	vec := dir.Vector()

	farthest = pos
	next = Position{Row: pos.Row + vec.Row, Col: pos.Col + vec.Col}
	for b.InBounds(next) && b[next.Row][next.Col] == nil {
		farthest = next
		next = Position{Row: next.Row + vec.Row, Col: next.Col + vec.Col}
	}

	if b.InBounds(next) {
		return farthest, next, true
	}
	return farthest, Position{}, false
}

// buildTraversals returns the row and column visiting order for dir so that
// the tiles farthest along the move are processed first.
func buildTraversals(size int, dir Direction) (rows, cols []int) {
	rows = make([]int, size)
	cols = make([]int, size)
	for i := range size {
		rows[i] = i
		cols[i] = i
	}

	if dir == DirDown {
		reverse(rows)
	}
	if dir == DirRight {
		reverse(cols)
	}
	return rows, cols
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// EmptyCells returns coordinates of all empty cells in row-major order.
func EmptyCells(b Board) []Position {
	var cells []Position
	for row := range b {
		for col, tile := range b[row] {
			if tile == nil {
				cells = append(cells, Position{Row: row, Col: col})
			}
		}
	}
	return cells
}

// HasEmptyCell returns true if there's at least one empty cell.
func HasEmptyCell(b Board) bool {
	for row := range b {
		for _, tile := range b[row] {
			if tile == nil {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge returns true if any horizontally or vertically adjacent
// tiles hold equal values.
func HasPossibleMerge(b Board) bool {
	size := len(b)
	for row := range size {
		for col := range size {
			tile := b[row][col]
			if tile == nil {
				continue
			}
			// Check right neighbor
			if col < size-1 && b[row][col+1] != nil && b[row][col+1].Value == tile.Value {
				return true
			}
			// Check bottom neighbor
			if row < size-1 && b[row+1][col] != nil && b[row+1][col].Value == tile.Value {
				return true
			}
		}
	}
	return false
}

// CanMove returns true if any move is possible.
func CanMove(b Board) bool {
	return HasEmptyCell(b) || HasPossibleMerge(b)
}

// IsGameOver returns true if no moves are possible.
func IsGameOver(b Board) bool {
	return !CanMove(b)
}

// MaxTile returns the maximum tile value on the board.
func MaxTile(b Board) int {
	maxVal := 0
	for row := range b {
		for _, tile := range b[row] {
			if tile != nil && tile.Value > maxVal {
				maxVal = tile.Value
			}
		}
	}
	return maxVal
}

// TileCount returns the number of occupied cells.
func TileCount(b Board) int {
	count := 0
	for row := range b {
		for _, tile := range b[row] {
			if tile != nil {
				count++
			}
		}
	}
	return count
}
