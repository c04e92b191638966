package blocks

import (
	"fmt"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blocks/engine"
)

// Visual characters for rendering. Each board cell is two columns wide.
const (
	BlockGlyph    = "██"
	GhostGlyph    = "░░"
	ClearingGlyph = "▓▓"
	EmptyGlyph    = " ·"
)

const panelWidth = 14

// KindColor returns the display color of a piece kind.
func KindColor(k engine.Kind) core.Color {
	switch k {
	case engine.KindI:
		return core.ColorCyan
	case engine.KindO:
		return core.ColorYellow
	case engine.KindT:
		return core.ColorMagenta
	case engine.KindS:
		return core.ColorGreen
	case engine.KindZ:
		return core.ColorRed
	case engine.KindJ:
		return core.ColorBlue
	case engine.KindL:
		return core.ColorOrange
	default:
		return core.ColorWhite
	}
}

// calculateLayout positions the well and the side panel.
func (g *Game) calculateLayout() {
	w, vis := g.cfg.Board.Width, g.cfg.Board.Height-g.cfg.Board.Header
	g.minScreenW = 2*w + 2 + 1 + panelWidth
	g.minScreenH = vis + 3
}

// wellRect returns the bordered board area on screen.
func (g *Game) wellRect(dst *core.Screen) core.Rect {
	w, vis := g.cfg.Board.Width, g.cfg.Board.Height-g.cfg.Board.Header
	boxW := 2*w + 2
	x := (dst.Width() - (boxW + 1 + panelWidth)) / 2
	return core.NewRect(max(0, x), 1, boxW, vis+2)
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.err != nil {
		dst.DrawTextCentered(dst.Height()/2-1, "Configuration error")
		dst.DrawTextCentered(dst.Height()/2+1, g.err.Error())
		return
	}

	// Check for screen too small
	if dst.Width() < g.minScreenW || dst.Height() < g.minScreenH {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", g.minScreenW, g.minScreenH)
		dst.DrawTextCentered(dst.Height()/2-1, msg)
		dst.DrawTextCentered(dst.Height()/2+1, hint)
		return
	}

	well := g.wellRect(dst)

	g.renderHUD(dst, well)
	g.renderBoard(dst, well)
	g.renderPanel(dst, well)
	g.renderOverlay(dst)
}

// renderHUD draws score, lines and level above the well.
func (g *Game) renderHUD(dst *core.Screen, well core.Rect) {
	dst.DrawText(well.X, 0, fmt.Sprintf("Score: %d", g.score))

	level := fmt.Sprintf("Lv %d", g.level)
	if !g.difficulty.IsEnabled() {
		level += " fixed"
	}
	dst.DrawText(well.Right()-len(level), 0, level)
}

// cellPos maps a board cell to the screen; ok is false for hidden rows.
func (g *Game) cellPos(well core.Rect, x, y int) (sx, sy int, ok bool) {
	vis := well.H - 2
	if y < 0 || y >= vis {
		return 0, 0, false
	}
	return well.X + 1 + 2*x, well.Y + 1 + (vis - 1 - y), true
}

// renderBoard draws the locked cells, ghost and active piece.
func (g *Game) renderBoard(dst *core.Screen, well core.Rect) {
	dst.DrawBox(well, core.ColorGray)

	board := g.ctrl.Board()
	flashing := make(map[int]bool, len(g.clearing))
	for _, y := range g.clearing {
		flashing[y] = true
	}

	for y := 0; y < board.VisibleHeight(); y++ {
		for x := 0; x < board.Width(); x++ {
			sx, sy, ok := g.cellPos(well, x, y)
			if !ok {
				continue
			}
			cell := board.Cell(x, y)
			switch {
			case flashing[y]:
				dst.DrawTextColor(sx, sy, ClearingGlyph, core.ColorBrightWhite)
			case cell.Occupied:
				dst.DrawTextColor(sx, sy, BlockGlyph, KindColor(cell.Kind))
			default:
				dst.DrawTextColor(sx, sy, EmptyGlyph, core.ColorDarkGray)
			}
		}
	}

	if ghost, ok := g.ctrl.Ghost(); ok {
		g.drawPiece(dst, well, ghost, GhostGlyph, core.ColorGray)
	}
	if active, ok := g.ctrl.Active(); ok {
		g.drawPiece(dst, well, active, BlockGlyph, KindColor(active.Kind))
	}
}

func (g *Game) drawPiece(dst *core.Screen, well core.Rect, p engine.Piece, glyph string, c core.Color) {
	for _, cell := range p.Cells() {
		if sx, sy, ok := g.cellPos(well, cell.X, cell.Y); ok {
			dst.DrawTextColor(sx, sy, glyph, c)
		}
	}
}

// drawShape draws a kind in spawn orientation with its top-left at (x, y).
func drawShape(dst *core.Screen, x, y int, k engine.Kind, c core.Color) {
	for _, o := range engine.SpawnShape(k) {
		dst.DrawTextColor(x+2*(o.X+1), y+(1-o.Y), BlockGlyph, c)
	}
}

// renderPanel draws the next queue, the held piece and rotation direction.
func (g *Game) renderPanel(dst *core.Screen, well core.Rect) {
	x := well.Right() + 1
	y := well.Y

	dst.DrawText(x, y, "NEXT")
	y += 2
	for _, k := range g.ctrl.Queue().PeekNext(g.ctrl.Queue().Lookahead()) {
		drawShape(dst, x, y, k, KindColor(k))
		y += 3
	}

	y++
	dst.DrawText(x, y, "HOLD")
	y += 2
	holder := g.ctrl.Holder()
	if k, ok := holder.Held(); ok {
		c := KindColor(k)
		if !holder.CanRelease() {
			c = core.ColorDarkGray
		}
		drawShape(dst, x, y, k, c)
	} else {
		dst.DrawTextColor(x, y, "-", core.ColorDarkGray)
	}
	y += 3

	dst.DrawText(x, y, fmt.Sprintf("Lines %d", g.lines))
	y++
	dst.DrawText(x, y, fmt.Sprintf("Pieces %d", g.pieces))
	y++
	dir := "CW"
	if !g.clockwise {
		dir = "CCW"
	}
	dst.DrawTextColor(x, y, "Rotate "+dir, core.ColorGray)
}

// renderOverlay draws game state messages.
func (g *Game) renderOverlay(dst *core.Screen) {
	switch g.ctrl.State() {
	case engine.StatePaused:
		drawCenteredBox(dst, "PAUSED", "Press P to resume")

	case engine.StateGameOver:
		subtitle := fmt.Sprintf("Score: %d  |  Press R to restart", g.score)
		drawCenteredBox(dst, "GAME OVER", subtitle)
	}
}

// drawCenteredBox draws a centered message box.
func drawCenteredBox(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := core.Clamp((w-boxW)/2, 0, w)
	boxY := core.Clamp((h-boxH)/2, 0, h)

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.FillRect(box)
	dst.DrawBox(box, core.ColorBrightWhite)

	titleX := boxX + (boxW-len([]rune(title)))/2
	dst.DrawTextColor(titleX, boxY+1, title, core.ColorBrightWhite)

	subtitleX := boxX + (boxW-len([]rune(subtitle)))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}
