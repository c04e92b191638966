package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
)

func TestMapKey(t *testing.T) {
	keys := DefaultGameKeyMap()

	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{runes("a"), core.ActionLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{runes("d"), core.ActionRight},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionRotateCW},
		{runes("x"), core.ActionRotateCW},
		{runes("z"), core.ActionRotateCCW},
		{runes("w"), core.ActionRotate},
		{runes("t"), core.ActionToggleRotation},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionSoftDrop},
		{runes("s"), core.ActionSoftDrop},
		{tea.KeyMsg{Type: tea.KeySpace}, core.ActionHardDrop},
		{runes("c"), core.ActionHold},
		{runes("p"), core.ActionPause},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause},
		{runes("r"), core.ActionRestart},
		{runes("q"), core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{runes("k"), core.ActionNone},
		{tea.KeyMsg{Type: tea.KeyCtrlS}, core.ActionNone},
	}

	for _, tt := range tests {
		if got := keys.MapKey(tt.msg); got != tt.want {
			t.Errorf("MapKey(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestRepeatable(t *testing.T) {
	for _, a := range []core.Action{core.ActionLeft, core.ActionRight, core.ActionSoftDrop} {
		if !repeatable(a) {
			t.Errorf("repeatable(%v) = false, expected true", a)
		}
	}
	for _, a := range []core.Action{core.ActionRotateCW, core.ActionHardDrop, core.ActionHold, core.ActionPause} {
		if repeatable(a) {
			t.Errorf("repeatable(%v) = true, expected false", a)
		}
	}
}

func TestHeldKeysWindow(t *testing.T) {
	h := newHeldKeys(3)

	if !h.press(core.ActionLeft) {
		t.Error("first keystroke should start a press")
	}
	if h.press(core.ActionLeft) {
		t.Error("keystroke inside the window should not start a press")
	}

	for i := 0; i < 3; i++ {
		frame := core.NewInputFrame()
		h.apply(&frame)
		if !frame.Held(core.ActionLeft) {
			t.Fatalf("tick %d: expected left held", i)
		}
	}

	frame := core.NewInputFrame()
	h.apply(&frame)
	if frame.Held(core.ActionLeft) {
		t.Error("hold should expire after the window")
	}
	if !h.press(core.ActionLeft) {
		t.Error("keystroke after expiry should start a new press")
	}
}

func TestHeldKeysRefresh(t *testing.T) {
	h := newHeldKeys(2)
	h.press(core.ActionSoftDrop)

	for i := 0; i < 10; i++ {
		frame := core.NewInputFrame()
		h.apply(&frame)
		if !frame.Held(core.ActionSoftDrop) {
			t.Fatalf("tick %d: autorepeat should keep the key held", i)
		}
		h.press(core.ActionSoftDrop)
	}

	h.reset()
	frame := core.NewInputFrame()
	h.apply(&frame)
	if frame.Held(core.ActionSoftDrop) {
		t.Error("reset should release every key")
	}
}

func TestNewHeldKeysMinimumWindow(t *testing.T) {
	h := newHeldKeys(0)
	h.press(core.ActionRight)
	frame := core.NewInputFrame()
	h.apply(&frame)
	if !frame.Held(core.ActionRight) {
		t.Error("expected at least one held tick")
	}
}
