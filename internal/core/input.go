package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, K, Up arrow, swipe up
	ActionDown           // S, J, Down arrow, swipe down
	ActionLeft           // A, H, Left arrow, swipe left
	ActionRight          // D, L, Right arrow, swipe right
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // Escape - go back to menu
	ActionNew            // N key - abandon the board and deal a new one
	ActionRestart        // R key - restart game after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionNew:
		return "New"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsMove reports whether the action is one of the four directional moves.
func (a Action) IsMove() bool {
	return a == ActionUp || a == ActionDown || a == ActionLeft || a == ActionRight
}

// InputFrame is the set of actions raised by one input event.
// The zero value is an empty frame; frames are plain values.
type InputFrame struct {
	actions uint16
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// FrameOf returns a frame with the given actions set.
func FrameOf(actions ...Action) InputFrame {
	var f InputFrame
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// Set marks an action as triggered. ActionNone is ignored.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	f.actions |= 1 << a
}

// Has reports whether the action was triggered.
func (f InputFrame) Has(a Action) bool {
	return a != ActionNone && f.actions&(1<<a) != 0
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return f.actions == 0
}

// Move returns the directional action in the frame, checked in the order
// up, down, left, right.
func (f InputFrame) Move() (Action, bool) {
	for _, a := range []Action{ActionUp, ActionDown, ActionLeft, ActionRight} {
		if f.Has(a) {
			return a, true
		}
	}
	return ActionNone, false
}
