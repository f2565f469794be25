package t2048

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

func testConfig(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: seed}
}

func frame(a core.Action) core.InputFrame {
	return core.FrameOf(a)
}

func TestVariantsRegistered(t *testing.T) {
	for _, v := range Variants {
		g, err := registry.Create(v.ID)
		if err != nil {
			t.Fatalf("Create(%q): %v", v.ID, err)
		}
		if g.ID() != v.ID {
			t.Errorf("ID() = %q, want %q", g.ID(), v.ID)
		}
		g.Reset(testConfig(1))
		if got := g.(*Game).Snapshot().Size; got != v.Size {
			t.Errorf("%s: board size = %d, want %d", v.ID, got, v.Size)
		}
	}
}

func TestVariantForSize(t *testing.T) {
	if id, err := VariantForSize(5); err != nil || id != "2048_5x5" {
		t.Errorf("VariantForSize(5) = %q, %v", id, err)
	}
	if _, err := VariantForSize(9); err == nil {
		t.Error("VariantForSize(9) succeeded, want error")
	}
}

func TestGameInitialState(t *testing.T) {
	g := New(4)
	g.Reset(testConfig(12345))

	state := g.State()
	if state.Score != 0 {
		t.Errorf("initial score = %d, want 0", state.Score)
	}
	if state.GameOver || state.Won {
		t.Errorf("initial state = %+v, want active", state)
	}
	if got := TileCount(g.Snapshot().Board); got != 2 {
		t.Errorf("initial tile count = %d, want 2", got)
	}
}

func TestGameStepRecordsMoves(t *testing.T) {
	g := New(4)
	g.Reset(testConfig(2024))

	var moved int
	for _, a := range []core.Action{core.ActionLeft, core.ActionUp, core.ActionRight, core.ActionDown} {
		if res := g.Step(frame(a)); res.Moved {
			moved++
		}
	}

	rec := g.Recording()
	if len(rec.Moves) != moved {
		t.Errorf("recorded %d moves, want %d", len(rec.Moves), moved)
	}
	if rec.Variant != "2048" || rec.BoardSize != 4 || rec.Seed != 2024 {
		t.Errorf("recording header = %+v", rec)
	}
	if rec.Score != g.State().Score {
		t.Errorf("recording score = %d, want %d", rec.Score, g.State().Score)
	}
}

func TestGameStepIgnoresNonMoves(t *testing.T) {
	g := New(4)
	g.Reset(testConfig(5))
	before := g.Snapshot()

	res := g.Step(frame(core.ActionConfirm))
	if res.Moved {
		t.Error("confirm moved the board")
	}
	if !reflect.DeepEqual(before.Board.Values(), g.Snapshot().Board.Values()) {
		t.Error("board changed on a non-move action")
	}
}

func TestReplayMatchesGame(t *testing.T) {
	g := New(5)
	g.Reset(testConfig(77))
	for range 20 {
		for _, a := range []core.Action{core.ActionLeft, core.ActionDown, core.ActionRight, core.ActionDown} {
			g.Step(frame(a))
		}
	}

	rec := g.Recording()
	moves, err := DecodeMoves(rec.Moves)
	if err != nil {
		t.Fatalf("DecodeMoves: %v", err)
	}

	replayed := Replay{Size: rec.BoardSize, Seed: rec.Seed, Moves: moves}.Run().State()
	want := g.Snapshot()
	if !reflect.DeepEqual(replayed.Board.Values(), want.Board.Values()) {
		t.Errorf("replayed board differs:\n got %v\nwant %v", replayed.Board.Values(), want.Board.Values())
	}
	if replayed.Score != want.Score {
		t.Errorf("replayed score = %d, want %d", replayed.Score, want.Score)
	}
}

func TestGameTooSmallIgnoresInput(t *testing.T) {
	g := New(6)
	g.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 10, Seed: 1})

	if res := g.Step(frame(core.ActionLeft)); res.Moved {
		t.Error("move accepted on a too-small screen")
	}

	screen := core.NewScreen(20, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("too-small message not rendered")
	}
}

func TestGameRender(t *testing.T) {
	g := New(4)
	g.Reset(testConfig(9))

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"2048", "Score: 0", "┌", "┘"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestRenderHighlightsNewTiles(t *testing.T) {
	board := NewBoard(2)
	board[0][0] = &Tile{ID: 0, Value: 2, IsNew: true}
	board[1][1] = &Tile{ID: 3, Value: 8, Row: 1, Col: 1, MergedFromIDs: []int{1, 2}}

	screen := core.NewScreen(40, 10)
	DrawBoard(screen, board, 0, 0)

	// Cell (0,0) label sits one row down, centered in a 6-wide cell.
	if got := screen.GetCell(3, 1); got.Rune != '2' || got.Color != core.ColorSpawn {
		t.Errorf("new tile cell = %+v, want bright green 2", got)
	}
	if got := screen.GetCell(cellWidth+3, cellHeight+1); got.Rune != '8' || got.Color != core.ColorMerge {
		t.Errorf("merged tile cell = %+v, want bright cyan 8", got)
	}
}

func TestDirectionParsing(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"up", DirUp, false},
		{"R", DirRight, false},
		{" Down ", DirDown, false},
		{"l", DirLeft, false},
		{"north", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirection(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseDirection(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMoveEncoding(t *testing.T) {
	moves := []Direction{DirUp, DirRight, DirDown, DirLeft, DirLeft}
	enc := EncodeMoves(moves)
	if enc != "URDLL" {
		t.Fatalf("EncodeMoves = %q, want URDLL", enc)
	}

	dec, err := DecodeMoves(enc)
	if err != nil {
		t.Fatalf("DecodeMoves: %v", err)
	}
	if !reflect.DeepEqual(dec, moves) {
		t.Errorf("DecodeMoves = %v, want %v", dec, moves)
	}

	if _, err := DecodeMoves("UXD"); err == nil {
		t.Error("DecodeMoves accepted an unknown letter")
	}
}

func TestFindFarthest(t *testing.T) {
	board := NewBoard(4)
	board[0][3] = &Tile{Value: 2, Row: 0, Col: 3}
	board[0][0] = &Tile{Value: 4, Row: 0, Col: 0}

	far, next, ok := FindFarthest(board, Position{Row: 0, Col: 3}, DirLeft)
	if far != (Position{Row: 0, Col: 1}) || !ok || next != (Position{Row: 0, Col: 0}) {
		t.Errorf("FindFarthest left = %v %v %v", far, next, ok)
	}

	far, _, ok = FindFarthest(board, Position{Row: 0, Col: 3}, DirDown)
	if far != (Position{Row: 3, Col: 3}) || ok {
		t.Errorf("FindFarthest down = %v %v", far, ok)
	}
}

func TestHeadlessGameAcceptsMoves(t *testing.T) {
	g := NewHeadless(6)
	g.Reset(core.RuntimeConfig{Seed: 3})

	moved := 0
	for _, dir := range Directions() {
		if g.Move(dir) {
			moved++
		}
	}
	if moved == 0 {
		t.Fatal("no move was accepted on a headless board")
	}
	if got := len(g.Recording().Moves); got != moved {
		t.Errorf("recorded %d moves, want %d", got, moved)
	}
	if g.Size() != 6 || g.ID() != "2048_6x6" {
		t.Errorf("size/id = %d/%q", g.Size(), g.ID())
	}
}

func TestActionDirection(t *testing.T) {
	tests := []struct {
		action core.Action
		want   Direction
		ok     bool
	}{
		{core.ActionUp, DirUp, true},
		{core.ActionRight, DirRight, true},
		{core.ActionDown, DirDown, true},
		{core.ActionLeft, DirLeft, true},
		{core.ActionNew, 0, false},
	}

	for _, tt := range tests {
		got, ok := ActionDirection(tt.action)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ActionDirection(%s) = %s, %v", tt.action, got, ok)
		}
	}
}
