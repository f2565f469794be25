package t2048

import (
	"fmt"
	"strings"
)

// Replay is everything needed to re-derive a finished game: the board size,
// the spawn seed and the moves that changed the board.
type Replay struct {
	Size  int
	Seed  int64
	Moves []Direction
}

// Run plays the replay on a fresh engine and returns it.
func (r Replay) Run() *Engine {
	e := NewEngine(r.Size, NewSeededSource(r.Seed))
	e.NewGame()
	for _, dir := range r.Moves {
		e.Move(dir)
	}
	return e
}

// EncodeMoves renders moves as one letter each (U, R, D, L).
func EncodeMoves(moves []Direction) string {
	var sb strings.Builder
	sb.Grow(len(moves))
	for _, dir := range moves {
		sb.WriteByte(dir.Letter())
	}
	return sb.String()
}

// DecodeMoves parses the output of EncodeMoves.
func DecodeMoves(s string) ([]Direction, error) {
	moves := make([]Direction, 0, len(s))
	for i, r := range s {
		dir, err := ParseDirection(string(r))
		if err != nil {
			return nil, fmt.Errorf("t2048: bad move at offset %d: %w", i, err)
		}
		moves = append(moves, dir)
	}
	return moves, nil
}

// ParseReplay builds a replay from its stored form.
func ParseReplay(size int, seed int64, moves string) (Replay, error) {
	if size <= 0 {
		return Replay{}, fmt.Errorf("t2048: bad board size %d", size)
	}
	dirs, err := DecodeMoves(moves)
	if err != nil {
		return Replay{}, err
	}
	return Replay{Size: size, Seed: seed, Moves: dirs}, nil
}
