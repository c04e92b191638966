package engine

// Cell is one grid position. PieceID and Kind are only meaningful when
// Occupied is set; they let a renderer correlate cells with the piece that
// produced them.
type Cell struct {
	Occupied bool
	PieceID  uint64
	Kind     Kind
}

// Board is the fixed-size occupancy grid of locked cells.
// Rows are indexed from the floor (y=0) upwards. The top Header rows are a
// hidden buffer used for spawning and overflow detection.
type Board struct {
	width  int
	height int
	header int
	grid   [][]Cell // grid[y][x]

	pending []int // rows detected by BeginClear, awaiting FinishClear
}

// NewBoard creates an empty board. Dimensions must be positive and the
// header must leave at least one visible row.
func NewBoard(width, height, header int) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, ConfigError{Field: "board", Message: "width and height must be positive"}
	}
	if header < 0 || header >= height {
		return nil, ConfigError{Field: "board.header", Message: "header must be in [0, height)"}
	}

	b := &Board{
		width:  width,
		height: height,
		header: header,
	}
	b.grid = make([][]Cell, height)
	for y := range b.grid {
		b.grid[y] = make([]Cell, width)
	}
	return b, nil
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the total number of rows, header included.
func (b *Board) Height() int { return b.height }

// Header returns the number of hidden rows at the top.
func (b *Board) Header() int { return b.header }

// VisibleHeight returns the number of rows below the header.
func (b *Board) VisibleHeight() int { return b.height - b.header }

// IsWithinBounds reports whether x is inside the columns and y is not below
// the floor. There is deliberately no upper bound here.
func (b *Board) IsWithinBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0
}

// Cell returns the cell at (x, y); out-of-grid positions read as empty.
func (b *Board) Cell(x, y int) Cell {
	if !b.inGrid(x, y) {
		return Cell{}
	}
	return b.grid[y][x]
}

func (b *Board) inGrid(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// isOccupied reports whether (x, y) holds a locked cell of a piece other
// than pieceID.
func (b *Board) isOccupied(x, y int, pieceID uint64) bool {
	if !b.inGrid(x, y) {
		return false
	}
	c := b.grid[y][x]
	return c.Occupied && c.PieceID != pieceID
}

// IsValidPosition reports whether every cell of p is within bounds and not
// occupied by another piece's locked cells.
func (b *Board) IsValidPosition(p Piece) bool {
	for _, c := range p.Cells() {
		if !b.IsWithinBounds(c.X, c.Y) {
			return false
		}
		if b.isOccupied(c.X, c.Y, p.ID) {
			return false
		}
	}
	return true
}

// Store commits every cell of p into the grid. It is a no-op for a nil
// piece or one that is already stored, and reports whether anything was
// written.
func (b *Board) Store(p *Piece) bool {
	if p == nil {
		return false
	}
	cells := p.Cells()
	if b.isStored(p, cells) {
		return false
	}

	for _, c := range cells {
		if !b.inGrid(c.X, c.Y) {
			continue
		}
		b.grid[c.Y][c.X] = Cell{Occupied: true, PieceID: p.ID, Kind: p.Kind}
	}
	return true
}

func (b *Board) isStored(p *Piece, cells [4]Point) bool {
	for _, c := range cells {
		if !b.inGrid(c.X, c.Y) {
			continue
		}
		cell := b.grid[c.Y][c.X]
		if !cell.Occupied || cell.PieceID != p.ID {
			return false
		}
	}
	return true
}

// IsRowComplete reports whether every cell of row y is occupied.
func (b *Board) IsRowComplete(y int) bool {
	if y < 0 || y >= b.height {
		return false
	}
	for x := 0; x < b.width; x++ {
		if !b.grid[y][x].Occupied {
			return false
		}
	}
	return true
}

// BeginClear detects complete rows without mutating the grid and returns
// them bottom to top. The list stays pending until FinishClear.
func (b *Board) BeginClear() []int {
	b.pending = b.pending[:0]
	for y := 0; y < b.height; y++ {
		if b.IsRowComplete(y) {
			b.pending = append(b.pending, y)
		}
	}
	return append([]int(nil), b.pending...)
}

// PendingRows returns the rows detected by the last BeginClear that have not
// been collapsed yet.
func (b *Board) PendingRows() []int {
	return append([]int(nil), b.pending...)
}

// FinishClear removes every complete row, shifting the rows above it down.
// Rows are re-scanned from the same height after each removal, so stacked
// complete rows are never skipped. Returns the number of rows removed.
func (b *Board) FinishClear() int {
	b.pending = b.pending[:0]

	cleared := 0
	for y := 0; y < b.height; y++ {
		if !b.IsRowComplete(y) {
			continue
		}
		b.clearRow(y)
		b.shiftRowsDown(y + 1)
		cleared++
		y--
	}
	return cleared
}

// ClearAndCollapse runs both clear phases back to back.
func (b *Board) ClearAndCollapse() int {
	b.BeginClear()
	return b.FinishClear()
}

func (b *Board) clearRow(y int) {
	for x := 0; x < b.width; x++ {
		b.grid[y][x] = Cell{}
	}
}

// shiftRowsDown moves every row from startY upwards down by one and leaves
// the top row empty.
func (b *Board) shiftRowsDown(startY int) {
	for y := startY; y < b.height; y++ {
		copy(b.grid[y-1], b.grid[y])
	}
	b.clearRow(b.height - 1)
}

// IsOverLimit reports whether any cell of p lies at or above the overflow
// line, i.e. inside the hidden header.
func (b *Board) IsOverLimit(p Piece) bool {
	limit := b.height - b.header - 1
	for _, c := range p.Cells() {
		if c.Y >= limit {
			return true
		}
	}
	return false
}

// OccupiedCount returns the number of occupied cells.
func (b *Board) OccupiedCount() int {
	n := 0
	for y := range b.grid {
		for x := range b.grid[y] {
			if b.grid[y][x].Occupied {
				n++
			}
		}
	}
	return n
}

// Reset empties the grid.
func (b *Board) Reset() {
	for y := range b.grid {
		b.clearRow(y)
	}
	b.pending = b.pending[:0]
}
