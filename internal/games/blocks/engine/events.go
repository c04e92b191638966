package engine

// Event is emitted by the controller for renderers, audio and scoring.
type Event interface {
	blockEvent()
}

// PieceSpawned is emitted when a new active piece enters the board.
type PieceSpawned struct {
	Piece Piece
}

// PieceMoved is emitted for an accepted horizontal move or soft drop step.
type PieceMoved struct {
	Piece Piece
}

// PieceRotated is emitted for an accepted rotation.
type PieceRotated struct {
	Piece Piece
}

// MoveRejected is emitted when a horizontal move collides and is undone.
type MoveRejected struct{}

// RotateRejected is emitted when a rotation collides and is undone.
type RotateRejected struct{}

// LandingStarted is emitted when the piece first touches down and the lock
// timers start.
type LandingStarted struct {
	Piece Piece
}

// PieceSnapped is emitted on hard drop, before the lock.
type PieceSnapped struct {
	Piece Piece
	From  Point
}

// PieceLocked is emitted when a piece is committed into the board.
type PieceLocked struct {
	Piece Piece
	Cells [4]Point
}

// RowsClearing lists the complete rows before they are removed.
type RowsClearing struct {
	Rows []int
}

// RowsCleared reports how many rows the collapse removed.
type RowsCleared struct {
	Count int
}

// HoldExchanged is emitted when the active kind goes into the holder.
// Released is set when a previously held kind came back into play.
type HoldExchanged struct {
	Held     Kind
	Released Kind
	Swapped  bool
}

// HoldRejected is emitted when a hold is not allowed.
type HoldRejected struct {
	Reason error
}

// GameOver is emitted once when the match ends.
type GameOver struct{}

// Paused is emitted when the controller is paused.
type Paused struct{}

// Resumed is emitted when the controller is unpaused.
type Resumed struct{}

// Restarted is emitted after all components are reinitialized.
type Restarted struct{}

func (PieceSpawned) blockEvent()   {}
func (PieceMoved) blockEvent()     {}
func (PieceRotated) blockEvent()   {}
func (MoveRejected) blockEvent()   {}
func (RotateRejected) blockEvent() {}
func (LandingStarted) blockEvent() {}
func (PieceSnapped) blockEvent()   {}
func (PieceLocked) blockEvent()    {}
func (RowsClearing) blockEvent()   {}
func (RowsCleared) blockEvent()    {}
func (HoldExchanged) blockEvent()  {}
func (HoldRejected) blockEvent()   {}
func (GameOver) blockEvent()       {}
func (Paused) blockEvent()         {}
func (Resumed) blockEvent()        {}
func (Restarted) blockEvent()      {}
