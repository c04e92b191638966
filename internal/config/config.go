// Package config provides YAML-based game configuration loading and
// difficulty management for blockfall.
package config

import "time"

// BlocksConfig contains all configuration for the falling-block game.
// It is fixed for the duration of a match.
type BlocksConfig struct {
	Board      BlocksBoard      `yaml:"board"`
	Spawn      BlocksSpawn      `yaml:"spawn"`
	Timing     BlocksTiming     `yaml:"timing"`
	Input      BlocksInput      `yaml:"input"`
	Queue      BlocksQueue      `yaml:"queue"`
	Pieces     BlocksPieces     `yaml:"pieces"`
	Scoring    BlocksScoring    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BlocksBoard defines the playfield size. Header rows are hidden above the
// visible area.
type BlocksBoard struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Header int `yaml:"header"`
}

// BlocksSpawn is the grid position new pieces appear at (y grows upwards).
type BlocksSpawn struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// BlocksTiming defines gravity and lock timing.
type BlocksTiming struct {
	DropInterval     time.Duration `yaml:"drop_interval"`     // Gravity interval at level 1
	DropAcceleration time.Duration `yaml:"drop_acceleration"` // Interval reduction per level
	MinDropInterval  time.Duration `yaml:"min_drop_interval"`
	MaxDropInterval  time.Duration `yaml:"max_drop_interval"`
	LockDelay        time.Duration `yaml:"lock_delay"`     // Grace period after touching down
	MaxLockDelay     time.Duration `yaml:"max_lock_delay"` // Hard cap on the grace period
	LockExtension    time.Duration `yaml:"lock_extension"` // Added per move/rotate while landing
	ClearDelay       time.Duration `yaml:"clear_delay"`    // Between row detection and collapse
}

// BlocksInput defines key repeat rates.
type BlocksInput struct {
	FirstKeyRepeat time.Duration `yaml:"first_key_repeat"`
	KeyRepeat      time.Duration `yaml:"key_repeat"`
	SoftDropRepeat time.Duration `yaml:"soft_drop_repeat"`
}

// BlocksQueue defines the upcoming-piece preview.
type BlocksQueue struct {
	Lookahead int    `yaml:"lookahead"`
	Randomize string `yaml:"randomizer"` // "uniform" or "bag"
}

// BlocksPieces lists the piece kinds in play by letter (I, O, T, S, Z, J, L).
type BlocksPieces struct {
	Kinds      []string `yaml:"kinds"`
	NoRotation []string `yaml:"no_rotation"`
}

// BlocksScoring defines points per cleared-row count and the level curve.
type BlocksScoring struct {
	LinePoints    []int `yaml:"line_points"` // Index 0 = one row; multiplied by level
	LinesPerLevel int   `yaml:"lines_per_level"`
}

// DifficultyConfig defines the level progression.
type DifficultyConfig struct {
	Enabled    bool `yaml:"enabled"`     // Level rises with cleared rows
	StartLevel int  `yaml:"start_level"` // 1 = slowest gravity
	MaxLevel   int  `yaml:"max_level"`   // 0 = unbounded
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficultyPreset maps a CLI value to a preset. Unknown values yield "".
func ParseDifficultyPreset(s string) DifficultyPreset {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p
	default:
		return ""
	}
}

// StartLevelForPreset returns the starting level for a difficulty preset.
func StartLevelForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyNormal:
		return 5
	case DifficultyHard:
		return 10
	default:
		return 1
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
