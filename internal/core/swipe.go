package core

import "math"

// MinSwipeDistance is the shortest drag, in pointer units, treated as a move.
const MinSwipeDistance = 30.0

// SwipeAction turns a drag vector into a move action. The dominant axis
// wins; drags shorter than MinSwipeDistance on both axes return ActionNone.
// Screen coordinates: positive dy points down.
func SwipeAction(dx, dy float64) Action {
	adx, ady := math.Abs(dx), math.Abs(dy)
	if adx < MinSwipeDistance && ady < MinSwipeDistance {
		return ActionNone
	}

	if adx > ady {
		if dx > 0 {
			return ActionRight
		}
		return ActionLeft
	}
	if dy > 0 {
		return ActionDown
	}
	return ActionUp
}
