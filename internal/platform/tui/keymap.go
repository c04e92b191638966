package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
)

// GameKeyMap defines the key bindings while a match is running.
type GameKeyMap struct {
	Left           key.Binding
	Right          key.Binding
	RotateCW       key.Binding
	RotateCCW      key.Binding
	Rotate         key.Binding
	ToggleRotation key.Binding
	SoftDrop       key.Binding
	HardDrop       key.Binding
	Hold           key.Binding
	Pause          key.Binding
	Restart        key.Binding
	Screenshot     key.Binding
	Quit           key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Rotate, k.HardDrop, k.Hold, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.SoftDrop, k.HardDrop},
		{k.RotateCW, k.RotateCCW, k.Rotate, k.ToggleRotation},
		{k.Hold, k.Pause, k.Restart},
		{k.Screenshot, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "right"),
		),
		RotateCW: key.NewBinding(
			key.WithKeys("up", "x"),
			key.WithHelp("↑/x", "rotate cw"),
		),
		RotateCCW: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "rotate ccw"),
		),
		Rotate: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "rotate"),
		),
		ToggleRotation: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "flip rotation"),
		),
		SoftDrop: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "soft drop"),
		),
		HardDrop: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "hard drop"),
		),
		Hold: key.NewBinding(
			key.WithKeys("c", "C"),
			key.WithHelp("c", "hold"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p/esc", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("^s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MapKey translates a key message to a game action.
// Returns ActionNone for keys that are not game actions (screenshot).
func (k GameKeyMap) MapKey(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.RotateCW):
		return core.ActionRotateCW
	case key.Matches(msg, k.RotateCCW):
		return core.ActionRotateCCW
	case key.Matches(msg, k.Rotate):
		return core.ActionRotate
	case key.Matches(msg, k.ToggleRotation):
		return core.ActionToggleRotation
	case key.Matches(msg, k.SoftDrop):
		return core.ActionSoftDrop
	case key.Matches(msg, k.HardDrop):
		return core.ActionHardDrop
	case key.Matches(msg, k.Hold):
		return core.ActionHold
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	}
	return core.ActionNone
}

// repeatable reports whether the engine auto-repeats an action while held.
func repeatable(a core.Action) bool {
	return a == core.ActionLeft || a == core.ActionRight || a == core.ActionSoftDrop
}

// heldKeys emulates key-up events, which terminals do not deliver.
// A repeatable key counts as held for a short window after each
// keystroke; terminal autorepeat keeps refreshing the window while the
// key is physically down.
type heldKeys struct {
	window int // ticks a keystroke keeps the key held
	left   map[core.Action]int
}

func newHeldKeys(window int) *heldKeys {
	if window < 1 {
		window = 1
	}
	return &heldKeys{window: window, left: make(map[core.Action]int)}
}

// press registers a keystroke and reports whether it starts a new press.
func (h *heldKeys) press(a core.Action) bool {
	_, down := h.left[a]
	h.left[a] = h.window
	return !down
}

// apply marks held keys on the frame and ages them by one tick.
func (h *heldKeys) apply(frame *core.InputFrame) {
	for a, n := range h.left {
		frame.Hold(a)
		if n <= 1 {
			delete(h.left, a)
			continue
		}
		h.left[a] = n - 1
	}
}

func (h *heldKeys) reset() {
	for a := range h.left {
		delete(h.left, a)
	}
}
