package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/blocks.yaml
var defaultBlocksYAML []byte

// DefaultBlocksConfig returns the default falling-block configuration.
func DefaultBlocksConfig() BlocksConfig {
	return BlocksConfig{
		Board: BlocksBoard{
			Width:  10,
			Height: 30,
			Header: 8,
		},
		Spawn: BlocksSpawn{
			X: 4,
			Y: 21,
		},
		Timing: BlocksTiming{
			DropInterval:     600 * time.Millisecond,
			DropAcceleration: 50 * time.Millisecond,
			MinDropInterval:  50 * time.Millisecond,
			MaxDropInterval:  time.Second,
			LockDelay:        200 * time.Millisecond,
			MaxLockDelay:     800 * time.Millisecond,
			LockExtension:    400 * time.Millisecond,
			ClearDelay:       200 * time.Millisecond,
		},
		Input: BlocksInput{
			FirstKeyRepeat: 300 * time.Millisecond,
			KeyRepeat:      100 * time.Millisecond,
			SoftDropRepeat: 50 * time.Millisecond,
		},
		Queue: BlocksQueue{
			Lookahead: 3,
			Randomize: "uniform",
		},
		Pieces: BlocksPieces{
			Kinds:      []string{"I", "O", "T", "S", "Z", "J", "L"},
			NoRotation: []string{"O"},
		},
		Scoring: BlocksScoring{
			LinePoints:    []int{40, 100, 300, 1200},
			LinesPerLevel: 10,
		},
		Difficulty: DifficultyConfig{
			Enabled:    true,
			StartLevel: 1,
		},
	}
}
