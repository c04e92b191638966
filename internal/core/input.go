package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone          Action = iota
	ActionLeft                 // Left arrow, A - shift piece left
	ActionRight                // Right arrow, D - shift piece right
	ActionRotateCW             // Up arrow, X - rotate clockwise
	ActionRotateCCW            // Z - rotate counter-clockwise
	ActionRotate               // W - rotate in the preferred direction
	ActionToggleRotation       // T - flip the preferred rotation direction
	ActionSoftDrop             // Down arrow, S - drop one row
	ActionHardDrop             // Space - snap to the ghost and lock
	ActionHold                 // C, Shift - hold/exchange
	ActionRestart              // R key - restart game after game over
	ActionQuit                 // Q, Ctrl+C - exit game/session
	ActionPause                // P, Escape - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionRotateCW:
		return "RotateCW"
	case ActionRotateCCW:
		return "RotateCCW"
	case ActionRotate:
		return "Rotate"
	case ActionToggleRotation:
		return "ToggleRotation"
	case ActionSoftDrop:
		return "SoftDrop"
	case ActionHardDrop:
		return "HardDrop"
	case ActionHold:
		return "Hold"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state during one simulation tick.
// Pressed actions were triggered this frame; held actions are still down
// from an earlier frame (only platforms with key-up events report these).
type InputFrame struct {
	Actions map[Action]bool
	Holding map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
		Holding: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Hold marks an action as held down.
func (f *InputFrame) Hold(a Action) {
	if f.Holding == nil {
		f.Holding = make(map[Action]bool)
	}
	f.Holding[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Held returns true if the given action is held down.
func (f InputFrame) Held(a Action) bool {
	if f.Holding == nil {
		return false
	}
	return f.Holding[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	for k := range f.Holding {
		delete(f.Holding, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	for k, v := range f.Holding {
		clone.Holding[k] = v
	}
	return clone
}

// List returns the triggered actions in ascending order.
func (f InputFrame) List() []Action {
	var out []Action
	for a := ActionLeft; a <= ActionPause; a++ {
		if f.Has(a) {
			out = append(out, a)
		}
	}
	return out
}
