package core

import "testing"

func TestInputFrame(t *testing.T) {
	var frame InputFrame
	if !frame.Empty() || frame.Has(ActionUp) {
		t.Fatal("zero frame should be empty")
	}

	frame.Set(ActionUp)
	if !frame.Has(ActionUp) || frame.Has(ActionDown) || frame.Empty() {
		t.Errorf("after Set(Up): %+v", frame)
	}

	// Frames are values: copies do not share state
	copied := frame
	copied.Set(ActionQuit)
	if frame.Has(ActionQuit) {
		t.Error("setting a copy changed the original")
	}

	frame.Set(ActionNone)
	if frame.Has(ActionNone) {
		t.Error("ActionNone should never be set")
	}
}

func TestFrameMove(t *testing.T) {
	tests := []struct {
		name  string
		frame InputFrame
		want  Action
		ok    bool
	}{
		{"empty", NewInputFrame(), ActionNone, false},
		{"left", FrameOf(ActionLeft), ActionLeft, true},
		{"non-move only", FrameOf(ActionNew, ActionConfirm), ActionNone, false},
		{"move with extras", FrameOf(ActionBack, ActionRight), ActionRight, true},
		{"up wins over down", FrameOf(ActionDown, ActionUp), ActionUp, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.frame.Move()
			if got != tt.want || ok != tt.ok {
				t.Errorf("Move() = %s, %v; want %s, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestActionIsMove(t *testing.T) {
	moves := []Action{ActionUp, ActionDown, ActionLeft, ActionRight}
	for _, a := range moves {
		if !a.IsMove() {
			t.Errorf("%s should be a move", a)
		}
	}

	for _, a := range []Action{ActionNone, ActionConfirm, ActionBack, ActionNew, ActionRestart, ActionQuit} {
		if a.IsMove() {
			t.Errorf("%s should not be a move", a)
		}
	}
}

func TestSwipeAction(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   Action
	}{
		{"too short", 10, -20, ActionNone},
		{"just long enough", MinSwipeDistance, 0, ActionRight},
		{"left", -80, 10, ActionLeft},
		{"up", 5, -40, ActionUp},
		{"down beats right", 40, 41, ActionDown},
		{"tie goes vertical", -50, 50, ActionDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SwipeAction(tt.dx, tt.dy); got != tt.want {
				t.Errorf("SwipeAction(%v, %v) = %s, want %s", tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}
