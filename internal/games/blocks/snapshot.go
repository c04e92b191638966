package blocks

import (
	"strings"

	"github.com/vovakirdan/blockfall/internal/games/blocks/engine"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	Mode      Mode
	State     string // engine state name
	Score     int
	Lines     int
	Level     int
	Pieces    int
	Active    string // kind letter, empty when no piece is falling
	ActiveX   int
	ActiveY   int
	Held      string
	Next      string // queued kind letters, front first
	Occupied  int
	Board     string // rows bottom to top, '.' for empty cells, joined by '/'
	Clockwise bool
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:      g.tick,
		Mode:      g.mode,
		Score:     g.score,
		Lines:     g.lines,
		Level:     g.level,
		Pieces:    g.pieces,
		Clockwise: g.clockwise,
	}
	if g.ctrl == nil {
		snap.State = "error"
		return snap
	}

	snap.State = g.ctrl.State().String()
	if p, ok := g.ctrl.Active(); ok {
		snap.Active = p.Kind.String()
		snap.ActiveX = p.Pivot.X
		snap.ActiveY = p.Pivot.Y
	}
	if k, ok := g.ctrl.Holder().Held(); ok {
		snap.Held = k.String()
	}

	var next strings.Builder
	for _, k := range g.ctrl.Queue().PeekNext(g.ctrl.Queue().Lookahead()) {
		next.WriteString(k.String())
	}
	snap.Next = next.String()

	b := g.ctrl.Board()
	snap.Occupied = b.OccupiedCount()
	snap.Board = boardString(b)
	return snap
}

func boardString(b *engine.Board) string {
	rows := make([]string, 0, b.Height())
	for y := 0; y < b.Height(); y++ {
		var row strings.Builder
		empty := true
		for x := 0; x < b.Width(); x++ {
			c := b.Cell(x, y)
			if c.Occupied {
				row.WriteString(c.Kind.String())
				empty = false
			} else {
				row.WriteByte('.')
			}
		}
		if empty {
			break
		}
		rows = append(rows, row.String())
	}
	return strings.Join(rows, "/")
}
