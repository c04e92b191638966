// Package engine is the simulation core of the falling-block game: board
// occupancy, piece geometry, ghost projection, the upcoming-piece queue, the
// hold slot and the drop/lock state machine that ties them together.
//
// The engine works purely in integer grid space with y growing upwards
// (row 0 is the floor). It never renders, plays sounds or reads devices;
// callers feed it a monotonic clock plus input intents and consume the
// events it emits.
package engine

import (
	"fmt"
	"strings"
)

// Kind identifies one of the seven canonical piece shapes.
type Kind uint8

const (
	KindI Kind = iota
	KindO
	KindT
	KindS
	KindZ
	KindJ
	KindL
)

// AllKinds lists every piece kind in canonical order.
var AllKinds = []Kind{KindI, KindO, KindT, KindS, KindZ, KindJ, KindL}

// String returns the conventional single-letter name of the kind.
func (k Kind) String() string {
	switch k {
	case KindI:
		return "I"
	case KindO:
		return "O"
	case KindT:
		return "T"
	case KindS:
		return "S"
	case KindZ:
		return "Z"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind converts a single-letter name into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown piece kind %q", s)
}

// Point is an integer grid coordinate.
type Point struct {
	X, Y int
}

// Add returns the component-wise sum of two points.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Shape holds the four cell offsets of a piece relative to its pivot.
type Shape [4]Point

// spawnShapes are the spawn orientations, pivot at (0,0).
var spawnShapes = [...]Shape{
	KindI: {{-1, 0}, {0, 0}, {1, 0}, {2, 0}},
	KindO: {{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	KindT: {{-1, 0}, {0, 0}, {1, 0}, {0, 1}},
	KindS: {{-1, 0}, {0, 0}, {0, 1}, {1, 1}},
	KindZ: {{-1, 1}, {0, 1}, {0, 0}, {1, 0}},
	KindJ: {{-1, 1}, {-1, 0}, {0, 0}, {1, 0}},
	KindL: {{-1, 0}, {0, 0}, {1, 0}, {1, 1}},
}

// SpawnShape returns the spawn orientation for a kind.
// It is also the position-independent form used for queue and hold previews.
func SpawnShape(k Kind) Shape {
	if int(k) >= len(spawnShapes) {
		return Shape{}
	}
	return spawnShapes[k]
}

// Piece is a movable shape: offsets around a pivot at a grid position.
// Pieces are values; every transform returns a new Piece, so a rejected
// move is undone simply by keeping the previous value.
type Piece struct {
	ID        uint64 // unique per spawn; tags the board cells when locked
	Kind      Kind
	Pivot     Point
	Offsets   Shape
	CanRotate bool
}

// NewPiece creates a piece of the given kind in spawn orientation at pos.
func NewPiece(id uint64, k Kind, pos Point, canRotate bool) Piece {
	return Piece{
		ID:        id,
		Kind:      k,
		Pivot:     pos,
		Offsets:   SpawnShape(k),
		CanRotate: canRotate,
	}
}

// Translate returns the piece shifted by (dx, dy).
func (p Piece) Translate(dx, dy int) Piece {
	p.Pivot.X += dx
	p.Pivot.Y += dy
	return p
}

// MoveTo returns the piece with its pivot placed at pos.
func (p Piece) MoveTo(pos Point) Piece {
	p.Pivot = pos
	return p
}

// Rotate returns the piece turned 90 degrees about its pivot.
// Pieces with rotation disabled are returned unchanged.
func (p Piece) Rotate(clockwise bool) Piece {
	if !p.CanRotate {
		return p
	}
	for i, o := range p.Offsets {
		if clockwise {
			p.Offsets[i] = Point{X: o.Y, Y: -o.X}
		} else {
			p.Offsets[i] = Point{X: -o.Y, Y: o.X}
		}
	}
	return p
}

// Cells returns the absolute grid cells covered by the piece.
func (p Piece) Cells() [4]Point {
	var cells [4]Point
	for i, o := range p.Offsets {
		cells[i] = p.Pivot.Add(o)
	}
	return cells
}
