package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := ParseBlocks(defaultBlocksYAML)
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}

	want := DefaultBlocksConfig()
	if cfg.Board != want.Board {
		t.Errorf("Board = %+v, expected %+v", cfg.Board, want.Board)
	}
	if cfg.Spawn != want.Spawn {
		t.Errorf("Spawn = %+v, expected %+v", cfg.Spawn, want.Spawn)
	}
	if cfg.Timing != want.Timing {
		t.Errorf("Timing = %+v, expected %+v", cfg.Timing, want.Timing)
	}
	if cfg.Input != want.Input {
		t.Errorf("Input = %+v, expected %+v", cfg.Input, want.Input)
	}
	if cfg.Queue != want.Queue {
		t.Errorf("Queue = %+v, expected %+v", cfg.Queue, want.Queue)
	}
	if len(cfg.Pieces.Kinds) != 7 {
		t.Errorf("len(Kinds) = %d, expected 7", len(cfg.Pieces.Kinds))
	}
	if cfg.Difficulty != want.Difficulty {
		t.Errorf("Difficulty = %+v, expected %+v", cfg.Difficulty, want.Difficulty)
	}
}

func TestLoadBlocksCustomPathOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.yaml")
	data := []byte("board:\n  width: 12\ntiming:\n  lock_delay: 350ms\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBlocks(path)
	if err != nil {
		t.Fatalf("LoadBlocks() error = %v", err)
	}

	if cfg.Board.Width != 12 {
		t.Errorf("Board.Width = %d, expected 12", cfg.Board.Width)
	}
	if cfg.Board.Height != 30 {
		t.Errorf("Board.Height = %d, expected default 30", cfg.Board.Height)
	}
	if cfg.Timing.LockDelay != 350*time.Millisecond {
		t.Errorf("LockDelay = %v, expected 350ms", cfg.Timing.LockDelay)
	}
	if cfg.Timing.MaxLockDelay != 800*time.Millisecond {
		t.Errorf("MaxLockDelay = %v, expected default 800ms", cfg.Timing.MaxLockDelay)
	}
}

func TestLoadBlocksMissingCustomPath(t *testing.T) {
	_, err := LoadBlocks(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing custom config")
	}
}

func TestLoadBlocksBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("timing:\n  lock_delay: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadBlocks(path); err == nil {
		t.Error("expected parse error for invalid duration")
	}
}

func TestWriteBlocksRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "blocks.yaml")
	cfg := DefaultBlocksConfig()
	cfg.Timing.ClearDelay = 0
	cfg.Queue.Randomize = "bag"

	if err := WriteBlocks(path, cfg); err != nil {
		t.Fatalf("WriteBlocks() error = %v", err)
	}

	got, err := LoadBlocks(path)
	if err != nil {
		t.Fatalf("LoadBlocks() error = %v", err)
	}
	if got.Timing != cfg.Timing {
		t.Errorf("Timing = %+v, expected %+v", got.Timing, cfg.Timing)
	}
	if got.Queue.Randomize != "bag" {
		t.Errorf("Randomize = %q, expected bag", got.Queue.Randomize)
	}
}

func TestApplyBlocksPreset(t *testing.T) {
	tests := []struct {
		preset     DifficultyPreset
		startLevel int
		enabled    bool
	}{
		{DifficultyEasy, 1, true},
		{DifficultyNormal, 5, true},
		{DifficultyHard, 10, true},
		{DifficultyFixed, 1, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultBlocksConfig()
			ApplyBlocksPreset(&cfg, tt.preset)

			if cfg.Difficulty.StartLevel != tt.startLevel {
				t.Errorf("StartLevel = %d, expected %d", cfg.Difficulty.StartLevel, tt.startLevel)
			}
			if cfg.Difficulty.Enabled != tt.enabled {
				t.Errorf("Enabled = %v, expected %v", cfg.Difficulty.Enabled, tt.enabled)
			}
		})
	}

	cfg := DefaultBlocksConfig()
	ApplyBlocksPreset(&cfg, DifficultyHard)
	if cfg.Timing.LockDelay != 150*time.Millisecond {
		t.Errorf("hard LockDelay = %v, expected 150ms", cfg.Timing.LockDelay)
	}
}

func TestParseDifficultyPreset(t *testing.T) {
	if got := ParseDifficultyPreset("hard"); got != DifficultyHard {
		t.Errorf("ParseDifficultyPreset(hard) = %q", got)
	}
	if got := ParseDifficultyPreset("brutal"); got != "" {
		t.Errorf("ParseDifficultyPreset(brutal) = %q, expected empty", got)
	}
}

func TestDifficultyManagerLevel(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{Enabled: true, StartLevel: 1, MaxLevel: 15}, 10)

	tests := []struct {
		lines int
		want  int
	}{
		{0, 1},
		{9, 1},
		{10, 2},
		{35, 4},
		{500, 15},
	}
	for _, tt := range tests {
		if got := d.Level(tt.lines); got != tt.want {
			t.Errorf("Level(%d) = %d, expected %d", tt.lines, got, tt.want)
		}
	}

	fixed := NewDifficultyManager(DifficultyConfig{Enabled: false, StartLevel: 5}, 10)
	if fixed.IsEnabled() {
		t.Error("IsEnabled() = true, expected false")
	}
	if got := fixed.Level(100); got != 5 {
		t.Errorf("fixed Level(100) = %d, expected 5", got)
	}
}

func TestLineScore(t *testing.T) {
	points := []int{40, 100, 300, 1200}

	tests := []struct {
		rows, level, want int
	}{
		{0, 1, 0},
		{1, 1, 40},
		{2, 1, 100},
		{3, 2, 600},
		{4, 3, 3600},
		{5, 1, 1200},
	}
	for _, tt := range tests {
		if got := LineScore(points, tt.rows, tt.level); got != tt.want {
			t.Errorf("LineScore(%d, %d) = %d, expected %d", tt.rows, tt.level, got, tt.want)
		}
	}
}
