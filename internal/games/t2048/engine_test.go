package t2048

import (
	"reflect"
	"testing"
)

// scripted returns a source that cycles through vals.
func scripted(vals ...float64) RandomSource {
	i := 0
	return func() float64 {
		if len(vals) == 0 {
			return 0
		}
		v := vals[i%len(vals)]
		i++
		return v
	}
}

// loadBoard replaces the engine board with the given values, 0 for empty.
// Tile ids are assigned in row-major order starting at 0.
func loadBoard(e *Engine, values [][]int) {
	e.board = NewBoard(len(values))
	e.size = len(values)
	e.nextID = 0
	for row := range values {
		for col, v := range values[row] {
			if v == 0 {
				continue
			}
			e.board[row][col] = &Tile{ID: e.takeID(), Value: v, Row: row, Col: col}
		}
	}
}

func emptyValues(size int) [][]int {
	values := make([][]int, size)
	for i := range values {
		values[i] = make([]int, size)
	}
	return values
}

func TestNewGameSpawnsTwoTiles(t *testing.T) {
	e := NewEngine(4, NewSeededSource(1))
	e.NewGame()

	s := e.State()
	if got := len(s.Tiles()); got != 2 {
		t.Fatalf("tiles after NewGame = %d, want 2", got)
	}
	if s.Score != 0 || s.Won || s.Over {
		t.Errorf("fresh state = %+v, want zero score and no flags", s)
	}
	if s.TileIDCounter != 2 {
		t.Errorf("TileIDCounter = %d, want 2", s.TileIDCounter)
	}
	for _, tile := range s.Tiles() {
		if tile.Value != 2 && tile.Value != 4 {
			t.Errorf("spawned value = %d, want 2 or 4", tile.Value)
		}
		if !tile.IsNew {
			t.Errorf("spawned tile %d not marked new", tile.ID)
		}
	}
}

func TestNewGameResetsEverything(t *testing.T) {
	e := NewEngine(4, scripted(0))
	loadBoard(e, [][]int{
		{1024, 1024, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	e.Move(DirLeft)
	if !e.State().Won {
		t.Fatal("setup: expected win")
	}

	e.NewGame()
	s := e.State()
	if s.Won || s.Over || s.Score != 0 || s.TileIDCounter != 2 {
		t.Errorf("state after NewGame = %+v", s)
	}
}

func TestMoveMerge(t *testing.T) {
	tests := []struct {
		name  string
		row   []int
		dir   Direction
		want  []int
		score int
	}{
		{"simple merge", []int{2, 2, 0, 0}, DirLeft, []int{4, 0, 0, 0}, 4},
		{"merge with trailing tile", []int{2, 2, 2, 0}, DirLeft, []int{4, 2, 0, 0}, 4},
		{"double merge", []int{4, 4, 4, 4}, DirLeft, []int{8, 8, 0, 0}, 16},
		{"no chain merge", []int{2, 2, 4, 0}, DirLeft, []int{4, 4, 0, 0}, 4},
		{"slide with gap", []int{0, 0, 2, 2}, DirLeft, []int{4, 0, 0, 0}, 4},
		{"slide with multiple gaps", []int{2, 0, 0, 2}, DirLeft, []int{4, 0, 0, 0}, 4},
		{"right merges far pair first", []int{2, 2, 2, 0}, DirRight, []int{0, 0, 2, 4}, 4},
		{"right double merge", []int{2, 2, 4, 4}, DirRight, []int{0, 0, 4, 8}, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Spawn lands in the last empty cell of the bottom row.
			e := NewEngine(4, scripted(0.999, 0))
			values := emptyValues(4)
			values[0] = tt.row
			loadBoard(e, values)

			if !e.Move(tt.dir) {
				t.Fatal("Move returned false, want true")
			}

			s := e.State()
			if got := s.Board.Values()[0]; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("row = %v, want %v", got, tt.want)
			}
			if s.Score != tt.score {
				t.Errorf("score = %d, want %d", s.Score, tt.score)
			}
			if got := s.Board[3][3]; got == nil || !got.IsNew || got.Value != 2 {
				t.Errorf("spawned tile = %+v, want new 2 at (3,3)", got)
			}
		})
	}
}

func TestMoveMergeVertical(t *testing.T) {
	tests := []struct {
		name   string
		column []int
		dir    Direction
		want   []int
		score  int
	}{
		{"down merges bottom pair first", []int{2, 2, 2, 0}, DirDown, []int{0, 0, 2, 4}, 4},
		{"up merges top pair first", []int{0, 2, 2, 2}, DirUp, []int{4, 2, 0, 0}, 4},
		{"down double merge", []int{4, 4, 4, 4}, DirDown, []int{0, 0, 8, 8}, 16},
		{"up slide with gap", []int{0, 0, 2, 2}, DirUp, []int{4, 0, 0, 0}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Column 0 holds the tiles; the spawn lands at (3,3).
			e := NewEngine(4, scripted(0.999, 0))
			values := emptyValues(4)
			for row, v := range tt.column {
				values[row][0] = v
			}
			loadBoard(e, values)

			if !e.Move(tt.dir) {
				t.Fatal("Move returned false, want true")
			}

			s := e.State()
			got := make([]int, 4)
			for row := range got {
				got[row] = s.Board.Values()[row][0]
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("column = %v, want %v", got, tt.want)
			}
			if s.Score != tt.score {
				t.Errorf("score = %d, want %d", s.Score, tt.score)
			}
			if spawned := s.Board[3][3]; spawned == nil || !spawned.IsNew {
				t.Errorf("spawned tile = %+v, want new tile at (3,3)", spawned)
			}
		})
	}
}

func TestMoveRecordsMergeSources(t *testing.T) {
	e := NewEngine(4, scripted(0))
	loadBoard(e, [][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	e.Move(DirLeft)
	s := e.State()

	merged := s.Board[0][0]
	if merged == nil || merged.Value != 4 {
		t.Fatalf("merged tile = %+v, want 4 at (0,0)", merged)
	}
	if !reflect.DeepEqual(merged.MergedFromIDs, []int{1, 0}) {
		t.Errorf("MergedFromIDs = %v, want [1 0]", merged.MergedFromIDs)
	}
	if merged.ID != 2 {
		t.Errorf("merged id = %d, want 2", merged.ID)
	}

	// Spawn takes the first empty cell with a 2.
	spawned := s.Board[0][1]
	if spawned == nil || spawned.Value != 2 || !spawned.IsNew || spawned.ID != 3 {
		t.Errorf("spawned tile = %+v, want new 2 with id 3 at (0,1)", spawned)
	}

	// Markers are cleared by the next move; only its own spawn is new.
	if !e.Move(DirDown) {
		t.Fatal("Move(down) = false, want true")
	}
	for _, tile := range e.State().Tiles() {
		if tile.Merged() {
			t.Errorf("stale merge marker on tile %d", tile.ID)
		}
		if tile.IsNew != (tile.ID == 4) {
			t.Errorf("tile %d IsNew = %v, want %v", tile.ID, tile.IsNew, tile.ID == 4)
		}
	}
}

func TestMoveSpawnsFour(t *testing.T) {
	e := NewEngine(4, scripted(0, 0.95))
	loadBoard(e, [][]int{
		{0, 0, 0, 2},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	e.Move(DirLeft)
	if got := e.State().Board[0][1]; got == nil || got.Value != 4 {
		t.Errorf("spawned tile = %+v, want 4 at (0,1)", got)
	}
}

func TestSingleTileSlide(t *testing.T) {
	e := NewEngine(4, NewSeededSource(7))
	loadBoard(e, [][]int{
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	firstID := e.board[0][0].ID

	if !e.Move(DirRight) {
		t.Fatal("Move(right) = false, want true")
	}

	s := e.State()
	moved := s.Board[0][3]
	if moved == nil || moved.ID != firstID || moved.Value != 2 {
		t.Errorf("tile at (0,3) = %+v, want original tile", moved)
	}
	if got := len(s.Tiles()); got != 2 {
		t.Errorf("tiles = %d, want 2", got)
	}
	if s.Score != 0 {
		t.Errorf("score = %d, want 0", s.Score)
	}
}

func TestNoOpMove(t *testing.T) {
	e := NewEngine(4, scripted(0))
	loadBoard(e, [][]int{
		{2, 4, 0, 0},
		{8, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	e.board[1][0].IsNew = true
	before := e.State()

	if e.Move(DirLeft) {
		t.Fatal("Move(left) = true on a left-packed board")
	}
	after := e.State()
	if !reflect.DeepEqual(before.Board.Values(), after.Board.Values()) {
		t.Errorf("board changed on a no-op move")
	}
	if after.TileIDCounter != before.TileIDCounter {
		t.Errorf("no-op move spawned a tile")
	}
	if after.Board[1][0].IsNew {
		t.Error("no-op move kept the IsNew marker")
	}

	for range 3 {
		if e.Move(DirLeft) {
			t.Fatal("repeated no-op move returned true")
		}
		if again := e.State(); !reflect.DeepEqual(again, after) {
			t.Errorf("state after repeated no-op move = %+v, want %+v", again, after)
		}
	}
}

func TestWinIsSticky(t *testing.T) {
	e := NewEngine(4, scripted(0))
	loadBoard(e, [][]int{
		{1024, 1024, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	if !e.Move(DirLeft) {
		t.Fatal("winning move returned false")
	}
	s := e.State()
	if !s.Won || s.Status() != StatusWon {
		t.Fatalf("state = %+v, want won", s)
	}
	if s.Score != 2048 {
		t.Errorf("score = %d, want 2048", s.Score)
	}

	for _, dir := range Directions() {
		if e.Move(dir) {
			t.Errorf("Move(%s) after win = true", dir)
		}
	}
	if !reflect.DeepEqual(e.State().Board.Values(), s.Board.Values()) {
		t.Error("board changed after win")
	}
}

func TestGameOverDetection(t *testing.T) {
	e := NewEngine(4, scripted(0))
	loadBoard(e, [][]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})

	for _, dir := range Directions() {
		if e.Move(dir) {
			t.Errorf("Move(%s) on a dead board = true", dir)
		}
	}
	if e.State().Over {
		t.Fatal("over latched without a check")
	}
	if !e.CheckOver() {
		t.Fatal("CheckOver() = false on a dead board")
	}
	if got := e.Status(); got != StatusOver {
		t.Errorf("Status() = %s, want over", got)
	}
}

func TestMoveLatchesOver(t *testing.T) {
	// One merge left; the spawn fills the last cell with no pairs.
	e := NewEngine(4, scripted(0, 0))
	loadBoard(e, [][]int{
		{4, 8, 16, 32},
		{8, 16, 32, 64},
		{16, 32, 64, 128},
		{2, 2, 128, 256},
	})

	if !e.Move(DirRight) {
		t.Fatal("Move(right) = false, want true")
	}
	s := e.State()
	if !s.Over {
		t.Fatalf("Over = false, board %v", s.Board.Values())
	}
	if e.Move(DirLeft) {
		t.Error("Move after game over = true")
	}
}

func TestCheckOverOnLiveBoard(t *testing.T) {
	e := NewEngine(4, scripted(0))
	loadBoard(e, [][]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 4},
	})
	if e.CheckOver() {
		t.Error("CheckOver() = true with a merge available")
	}
}

func TestSpawnOnFullBoard(t *testing.T) {
	e := NewEngine(2, scripted(0))
	loadBoard(e, [][]int{
		{2, 4},
		{4, 2},
	})
	e.spawnTile()
	if e.nextID != 4 {
		t.Errorf("nextID = %d after spawn on a full board, want 4", e.nextID)
	}
}

func TestStateIsDeepCopy(t *testing.T) {
	e := NewEngine(4, NewSeededSource(3))
	e.NewGame()

	s := e.State()
	for _, tile := range s.Tiles() {
		s.Board[tile.Row][tile.Col].Value = 999
	}
	s.Board[0] = nil

	for _, tile := range e.State().Tiles() {
		if tile.Value == 999 {
			t.Fatal("mutating a snapshot changed the engine")
		}
	}
}

func TestDeterminism(t *testing.T) {
	moves := []Direction{DirLeft, DirUp, DirRight, DirDown, DirLeft, DirLeft, DirUp, DirRight}

	play := func() GameState {
		e := NewEngine(4, NewSeededSource(42))
		e.NewGame()
		for _, dir := range moves {
			e.Move(dir)
		}
		return e.State()
	}

	a, b := play(), play()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed and moves gave different states:\n%v\n%v", a.Board.Values(), b.Board.Values())
	}
}

func TestInvariantsHoldOverLongGame(t *testing.T) {
	e := NewEngine(4, NewSeededSource(99))
	e.NewGame()
	rng := NewSeededSource(100)

	prevScore := 0
	for step := range 500 {
		dir := Directions()[pick(rng(), 4)]
		e.Move(dir)
		s := e.State()

		if s.Score < prevScore {
			t.Fatalf("step %d: score fell from %d to %d", step, prevScore, s.Score)
		}
		prevScore = s.Score

		seen := make(map[int]bool)
		for row := range s.Board {
			for col, tile := range s.Board[row] {
				if tile == nil {
					continue
				}
				if tile.Row != row || tile.Col != col {
					t.Fatalf("step %d: tile %d stored at (%d,%d) but claims (%d,%d)",
						step, tile.ID, row, col, tile.Row, tile.Col)
				}
				if tile.Value < 2 || tile.Value&(tile.Value-1) != 0 {
					t.Fatalf("step %d: tile value %d is not a power of two", step, tile.Value)
				}
				if seen[tile.ID] || tile.ID >= s.TileIDCounter {
					t.Fatalf("step %d: bad tile id %d (counter %d)", step, tile.ID, s.TileIDCounter)
				}
				seen[tile.ID] = true
			}
		}

		if s.Status().Terminal() {
			break
		}
	}
}

func TestInvalidDirectionPanics(t *testing.T) {
	e := NewEngine(4, scripted(0))
	e.NewGame()

	defer func() {
		if recover() == nil {
			t.Error("Move(Direction(9)) did not panic")
		}
	}()
	e.Move(Direction(9))
}

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(0, nil)
	if e.Size() != BoardSize {
		t.Errorf("Size() = %d, want %d", e.Size(), BoardSize)
	}
	if e.Status() != StatusActive {
		t.Errorf("Status() = %s, want active", e.Status())
	}
	if got := len(e.State().Tiles()); got != 0 {
		t.Errorf("tiles before NewGame = %d, want 0", got)
	}
}
