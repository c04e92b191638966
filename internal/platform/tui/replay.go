package tui

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/games/blocks"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// ErrReplayMismatch is returned when a re-simulated match ends differently
// from what the journal recorded.
var ErrReplayMismatch = errors.New("replay does not match journal")

// ReplayMatch re-simulates a journaled match headlessly and checks the
// final score, lines, level and piece count against the journal entry.
func ReplayMatch(m storage.Match) (blocks.Snapshot, error) {
	cfg, err := config.ParseBlocks(m.Config)
	if err != nil {
		return blocks.Snapshot{}, fmt.Errorf("match %d: bad config: %w", m.ID, err)
	}
	records, err := blocks.DecodeInputs(m.Inputs)
	if err != nil {
		return blocks.Snapshot{}, fmt.Errorf("match %d: %w", m.ID, err)
	}

	snap, err := blocks.Replay(blocks.Mode(m.Mode), cfg, m.Seed, m.TickRate, records, m.Ticks)
	if err != nil {
		return snap, fmt.Errorf("match %d: %w", m.ID, err)
	}

	if snap.Score != m.Score || snap.Lines != m.Lines || snap.Level != m.Level || snap.Pieces != m.Pieces {
		return snap, fmt.Errorf("match %d: %w: score %d/%d lines %d/%d level %d/%d pieces %d/%d",
			m.ID, ErrReplayMismatch,
			snap.Score, m.Score, snap.Lines, m.Lines, snap.Level, m.Level, snap.Pieces, m.Pieces)
	}
	return snap, nil
}
