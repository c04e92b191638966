package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blocks"
	"github.com/vovakirdan/blockfall/internal/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "matches.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// overflowConfig is a 3-wide well that overflows after three O pieces.
func overflowConfig() config.BlocksConfig {
	cfg := config.DefaultBlocksConfig()
	cfg.Board = config.BlocksBoard{Width: 3, Height: 8, Header: 2}
	cfg.Spawn = config.BlocksSpawn{X: 0, Y: 6}
	cfg.Pieces.Kinds = []string{"O"}
	return cfg
}

func newTestModel(t *testing.T, store *storage.Store, cfg config.BlocksConfig) Model {
	t.Helper()
	game := blocks.NewWithConfig(blocks.ModeUniform, cfg)
	m := NewModel(game, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 32, TickRate: 60, Seed: 7}, nil)
	m.Init()
	if err := game.Err(); err != nil {
		t.Fatalf("game error = %v", err)
	}
	return m
}

func sendKey(m Model, msg tea.KeyMsg) Model {
	next, _ := m.handleKey(msg)
	return next.(Model)
}

func tick(m Model) Model {
	next, _ := m.handleTick()
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelJournalsGameOver(t *testing.T) {
	store := openTestStore(t)
	m := newTestModel(t, store, overflowConfig())

	for i := 0; i < 20 && !m.gameState.GameOver; i++ {
		m = sendKey(m, tea.KeyMsg{Type: tea.KeySpace})
		m = tick(m)
	}
	if !m.gameState.GameOver {
		t.Fatal("expected game over after repeated hard drops")
	}

	// Further ticks must not journal the same game over twice
	for i := 0; i < 5; i++ {
		m = tick(m)
	}

	matches, err := store.RecentMatches(string(blocks.ModeUniform), 10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("journaled %d matches, expected 1", len(matches))
	}
	got := matches[0]
	if !got.Finished {
		t.Error("expected a finished match")
	}
	if got.Pieces != 3 {
		t.Errorf("Pieces = %d, expected 3", got.Pieces)
	}
	if got.Seed != 7 || got.TickRate != 60 {
		t.Errorf("Seed, TickRate = %d, %d, expected 7, 60", got.Seed, got.TickRate)
	}

	if _, err := ReplayMatch(got); err != nil {
		t.Errorf("ReplayMatch() error = %v", err)
	}
}

func TestModelJournalsOnQuit(t *testing.T) {
	store := openTestStore(t)
	m := newTestModel(t, store, config.DefaultBlocksConfig())

	m = sendKey(m, tea.KeyMsg{Type: tea.KeyLeft})
	for i := 0; i < 30; i++ {
		m = tick(m)
	}

	next, cmd := m.handleKey(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !next.(Model).quitting {
		t.Error("expected quitting model")
	}
	if next.View() != "" {
		t.Error("quitting model should render nothing")
	}

	matches, err := store.RecentMatches(string(blocks.ModeUniform), 10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("journaled %d matches, expected 1", len(matches))
	}
	if matches[0].Finished {
		t.Error("quit match should not be finished")
	}
	if matches[0].Ticks != 30 {
		t.Errorf("Ticks = %d, expected 30", matches[0].Ticks)
	}
	if _, err := ReplayMatch(matches[0]); err != nil {
		t.Errorf("ReplayMatch() error = %v", err)
	}
}

func TestModelWithoutStore(t *testing.T) {
	m := newTestModel(t, nil, overflowConfig())
	for i := 0; i < 20 && !m.gameState.GameOver; i++ {
		m = sendKey(m, tea.KeyMsg{Type: tea.KeySpace})
		m = tick(m)
	}
	if !m.gameState.GameOver {
		t.Fatal("expected game over")
	}
}

func TestModelAutorepeatDoesNotRepress(t *testing.T) {
	m := newTestModel(t, nil, config.DefaultBlocksConfig())

	m = sendKey(m, tea.KeyMsg{Type: tea.KeyLeft})
	if !m.inputFrame.Has(core.ActionLeft) {
		t.Fatal("first keystroke should press left")
	}
	m = tick(m)

	m = sendKey(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.inputFrame.Has(core.ActionLeft) {
		t.Error("autorepeat keystroke should only extend the hold")
	}

	// Non-repeatable keys press every time
	m = sendKey(m, runes("z"))
	m = tick(m)
	m = sendKey(m, runes("z"))
	if !m.inputFrame.Has(core.ActionRotateCCW) {
		t.Error("rotate should press on every keystroke")
	}
}

func TestModelResizeKeepsMatch(t *testing.T) {
	m := newTestModel(t, nil, config.DefaultBlocksConfig())
	for i := 0; i < 10; i++ {
		m = tick(m)
	}
	game := m.game.(*blocks.Game)
	before := game.Snapshot()

	next, _ := m.handleResize(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)

	if game.Snapshot() != before {
		t.Error("resize must not reset the match")
	}
	if m.screen.Width() != 100 || m.screen.Height() != 40-helpRows {
		t.Errorf("screen = %dx%d, expected 100x%d", m.screen.Width(), m.screen.Height(), 40-helpRows)
	}
}

func TestModelViewShowsHelp(t *testing.T) {
	m := newTestModel(t, nil, config.DefaultBlocksConfig())
	m = tick(m)

	view := m.View()
	if !strings.Contains(view, "quit") {
		t.Error("expected help line in view")
	}
	if lines := strings.Count(view, "\n") + 1; lines != 32 {
		t.Errorf("view has %d lines, expected 32", lines)
	}
}

func TestReplayMatchDetectsTampering(t *testing.T) {
	store := openTestStore(t)
	m := newTestModel(t, store, overflowConfig())
	for i := 0; i < 20 && !m.gameState.GameOver; i++ {
		m = sendKey(m, tea.KeyMsg{Type: tea.KeySpace})
		m = tick(m)
	}

	matches, err := store.RecentMatches(string(blocks.ModeUniform), 1)
	if err != nil || len(matches) != 1 {
		t.Fatalf("RecentMatches() = %v, %v", matches, err)
	}
	tampered := matches[0]
	tampered.Pieces += 5

	if _, err := ReplayMatch(tampered); !errors.Is(err, ErrReplayMismatch) {
		t.Errorf("ReplayMatch() error = %v, expected ErrReplayMismatch", err)
	}
}
