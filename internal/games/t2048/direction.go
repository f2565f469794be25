package t2048

import (
	"fmt"
	"strings"
)

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirRight
	DirDown
	DirLeft
)

// Vector is a unit step on the board.
type Vector struct {
	Row int
	Col int
}

// Directions lists every move direction.
func Directions() []Direction {
	return []Direction{DirUp, DirRight, DirDown, DirLeft}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirLeft
}

// Vector returns the unit step for d. Panics on an invalid direction.
func (d Direction) Vector() Vector {
	switch d {
	case DirUp:
		return Vector{Row: -1, Col: 0}
	case DirRight:
		return Vector{Row: 0, Col: 1}
	case DirDown:
		return Vector{Row: 1, Col: 0}
	case DirLeft:
		return Vector{Row: 0, Col: -1}
	default:
		panic(fmt.Sprintf("t2048: invalid direction %d", int(d)))
	}
}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Letter returns the single-letter move code used in replays.
func (d Direction) Letter() byte {
	switch d {
	case DirUp:
		return 'U'
	case DirRight:
		return 'R'
	case DirDown:
		return 'D'
	case DirLeft:
		return 'L'
	default:
		return '?'
	}
}

// ParseDirection parses a direction name or its first letter, ignoring case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return DirUp, nil
	case "right", "r":
		return DirRight, nil
	case "down", "d":
		return DirDown, nil
	case "left", "l":
		return DirLeft, nil
	default:
		return 0, fmt.Errorf("t2048: unknown direction %q", s)
	}
}
