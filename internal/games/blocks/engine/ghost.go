package engine

// Project returns the pivot of the lowest valid resting position of p,
// moving straight down from its current position. Neither p nor the board
// is modified.
func Project(p Piece, b *Board) Point {
	for {
		next := p.Translate(0, -1)
		if !b.IsValidPosition(next) {
			return p.Pivot
		}
		p = next
	}
}

// Ghost returns a copy of p placed at its projected resting position.
func Ghost(p Piece, b *Board) Piece {
	return p.MoveTo(Project(p, b))
}
