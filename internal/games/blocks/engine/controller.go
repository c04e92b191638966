package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// State is the controller's externally visible state.
type State int

const (
	StatePlaying  State = iota
	StateLanding        // touched down, lock countdown running
	StateClearing       // rows detected, waiting for the collapse
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateLanding:
		return "landing"
	case StateClearing:
		return "clearing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for warnings and lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLevelFunc sets the function that maps the rows removed by a collapse to
// the new level. It runs before the next piece spawns, so that piece already
// falls at the new speed.
func WithLevelFunc(fn func(rows int) int) Option {
	return func(c *Controller) {
		c.levelFor = fn
	}
}

// Controller owns the board, queue and holder of one match and drives the
// active piece through drop, landing and lock.
//
// All deadlines are measured on the controller's own game clock, which
// advances with the monotonic time passed to Update except while paused
// or after game over.
type Controller struct {
	cfg    Config
	board  *Board
	queue  *Queue
	holder *Holder
	logger *log.Logger

	active    Piece
	hasActive bool
	nextID    uint64

	level        int
	dropInterval time.Duration
	levelFor     func(rows int) int

	started bool
	lastNow time.Duration
	clock   time.Duration

	timeToDrop    time.Duration
	timeToLock    time.Duration
	maxTimeToLock time.Duration
	landing       bool

	nextKeyLR   time.Duration
	nextKeyDown time.Duration

	clearing bool
	clearAt  time.Duration

	paused   bool
	gameOver bool

	events []Event
}

// NewController validates cfg, builds the components and spawns the first
// piece. Configuration errors are returned as is.
func NewController(cfg Config, rnd Randomizer, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	board, err := NewBoard(cfg.Width, cfg.Height, cfg.Header)
	if err != nil {
		return nil, err
	}
	queue, err := NewQueue(cfg.Kinds, cfg.Lookahead, rnd)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:    cfg,
		board:  board,
		queue:  queue,
		holder: NewHolder(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.SetLevel(cfg.StartLevel)
	c.spawnNext()
	return c, nil
}

// Update advances the game clock to now and applies one snapshot of input.
// It returns the events produced since the previous call.
func (c *Controller) Update(now time.Duration, in Input) []Event {
	c.advance(now)

	if c.gameOver {
		if in.Pressed.Has(IntentRestart) {
			c.Restart()
		}
		return c.Drain()
	}

	if in.Pressed.Has(IntentPause) {
		c.TogglePause()
	}
	if c.paused {
		return c.Drain()
	}

	if c.clearing {
		if c.clock < c.clearAt {
			return c.Drain()
		}
		c.finishClear()
	}

	c.handleHorizontal(in)

	switch {
	case in.Pressed.Has(IntentRotateCW):
		c.Rotate(true)
	case in.Pressed.Has(IntentRotateCCW):
		c.Rotate(false)
	}

	if in.Pressed.Has(IntentHold) {
		c.Hold()
	}

	if in.Pressed.Has(IntentHardDrop) {
		c.HardDrop()
		return c.Drain()
	}

	soft := in.Pressed.Has(IntentSoftDrop) ||
		(in.Held.Has(IntentSoftDrop) && c.clock >= c.nextKeyDown)
	if c.canAct() && (soft || c.clock >= c.timeToDrop) {
		c.drop(soft)
	}

	if c.canAct() && c.landing && c.lockDue() && !c.board.IsValidPosition(c.active.Translate(0, -1)) {
		c.lock()
	}

	return c.Drain()
}

// advance moves the game clock forward by the monotonic time elapsed since
// the previous update, skipping time spent paused.
func (c *Controller) advance(now time.Duration) {
	if !c.started {
		c.started = true
		c.lastNow = now
		return
	}
	dt := now - c.lastNow
	c.lastNow = now
	if dt <= 0 || c.paused || c.gameOver {
		return
	}
	c.clock += dt
}

func (c *Controller) handleHorizontal(in Input) {
	switch {
	case in.Pressed.Has(IntentMoveRight):
		c.shift(1, c.cfg.FirstKeyRepeat)
	case in.Held.Has(IntentMoveRight) && c.clock >= c.nextKeyLR:
		c.shift(1, c.cfg.KeyRepeat)
	case in.Pressed.Has(IntentMoveLeft):
		c.shift(-1, c.cfg.FirstKeyRepeat)
	case in.Held.Has(IntentMoveLeft) && c.clock >= c.nextKeyLR:
		c.shift(-1, c.cfg.KeyRepeat)
	}
}

// MoveLeft shifts the active piece one column left.
func (c *Controller) MoveLeft() {
	c.shift(-1, c.cfg.FirstKeyRepeat)
}

// MoveRight shifts the active piece one column right.
func (c *Controller) MoveRight() {
	c.shift(1, c.cfg.FirstKeyRepeat)
}

func (c *Controller) shift(dx int, repeat time.Duration) {
	if !c.canAct() {
		return
	}
	c.extendLanding()
	c.nextKeyLR = c.clock + repeat

	moved := c.active.Translate(dx, 0)
	if !c.board.IsValidPosition(moved) {
		c.emit(MoveRejected{})
		return
	}
	c.active = moved
	c.emit(PieceMoved{Piece: moved})
}

// Rotate turns the active piece 90 degrees. A colliding rotation is
// rejected; there is no kick search.
func (c *Controller) Rotate(clockwise bool) {
	if !c.canAct() {
		return
	}
	c.extendLanding()
	if !c.active.CanRotate {
		return
	}

	rotated := c.active.Rotate(clockwise)
	if !c.board.IsValidPosition(rotated) {
		c.emit(RotateRejected{})
		return
	}
	c.active = rotated
	c.emit(PieceRotated{Piece: rotated})
}

// SoftDrop moves the active piece down one row, starting the landing
// countdown when it cannot.
func (c *Controller) SoftDrop() {
	if !c.canAct() {
		return
	}
	c.drop(true)
}

func (c *Controller) drop(soft bool) {
	c.timeToDrop = c.clock + c.dropInterval
	c.nextKeyDown = c.clock + c.cfg.SoftDropRepeat

	moved := c.active.Translate(0, -1)
	if c.board.IsValidPosition(moved) {
		c.active = moved
		if soft {
			c.emit(PieceMoved{Piece: moved})
		}
		return
	}

	if c.board.IsOverLimit(moved) {
		c.endGame()
		return
	}

	if !c.landing {
		c.landing = true
		c.timeToLock = c.clock + c.cfg.LockDelay
		c.maxTimeToLock = c.clock + c.cfg.MaxLockDelay
		c.emit(LandingStarted{Piece: c.active})
	}
	if c.lockDue() {
		c.lock()
	}
}

func (c *Controller) lockDue() bool {
	return c.clock >= c.timeToLock || c.clock >= c.maxTimeToLock
}

// extendLanding pushes the soft lock back, never past the hard cap.
func (c *Controller) extendLanding() {
	if !c.landing {
		return
	}
	c.timeToLock = min(c.timeToLock+c.cfg.LockExtension, c.maxTimeToLock)
}

// HardDrop snaps the active piece to its ghost position and locks it.
func (c *Controller) HardDrop() {
	if !c.canAct() {
		return
	}
	from := c.active.Pivot
	c.active = Ghost(c.active, c.board)
	c.emit(PieceSnapped{Piece: c.active, From: from})

	if c.board.IsOverLimit(c.active.Translate(0, -1)) {
		c.endGame()
		return
	}
	c.lock()
}

// Hold moves the active kind into the holder. With an empty holder the next
// queued piece is spawned; otherwise the held kind is exchanged, which is
// allowed once per lock.
func (c *Controller) Hold() {
	if !c.canAct() {
		return
	}
	current := c.active.Kind

	if _, held := c.holder.Held(); !held {
		if err := c.holder.Catch(current); err != nil {
			c.rejectHold(err)
			return
		}
		c.emit(HoldExchanged{Held: current})
		c.hasActive = false
		c.landing = false
		c.spawnNext()
		return
	}

	released, err := c.holder.Release()
	if err != nil {
		c.rejectHold(err)
		return
	}
	if err := c.holder.Catch(current); err != nil {
		c.rejectHold(err)
		return
	}
	c.emit(HoldExchanged{Held: current, Released: released, Swapped: true})
	c.hasActive = false
	c.landing = false
	c.spawn(released)
}

func (c *Controller) rejectHold(err error) {
	c.logger.Warn("hold rejected", "kind", c.active.Kind, "reason", err)
	c.emit(HoldRejected{Reason: err})
}

// lock commits the active piece, opens the hold gate and starts the row
// clear. The next piece spawns once the clear has collapsed.
func (c *Controller) lock() {
	piece := c.active
	c.hasActive = false
	c.landing = false

	c.board.Store(&piece)
	c.emit(PieceLocked{Piece: piece, Cells: piece.Cells()})
	c.logger.Debug("piece locked", "id", piece.ID, "kind", piece.Kind, "x", piece.Pivot.X, "y", piece.Pivot.Y)

	c.holder.OpenGate()
	c.nextKeyLR = c.clock
	c.nextKeyDown = c.clock

	rows := c.board.BeginClear()
	if len(rows) == 0 {
		c.spawnNext()
		return
	}

	c.emit(RowsClearing{Rows: rows})
	c.clearing = true
	c.clearAt = c.clock + c.cfg.ClearDelay
	if c.cfg.ClearDelay <= 0 {
		c.finishClear()
	}
}

func (c *Controller) finishClear() {
	n := c.board.FinishClear()
	c.clearing = false
	c.emit(RowsCleared{Count: n})
	c.logger.Debug("rows cleared", "count", n)
	if c.levelFor != nil && n > 0 {
		c.SetLevel(c.levelFor(n))
	}
	c.spawnNext()
}

func (c *Controller) spawnNext() {
	kind, err := c.queue.Consume()
	if err != nil {
		c.logger.Error("cannot spawn piece", "error", err)
		c.endGame()
		return
	}
	c.spawn(kind)
}

func (c *Controller) spawn(kind Kind) {
	c.nextID++
	piece := NewPiece(c.nextID, kind, c.cfg.Spawn, c.cfg.canRotate(kind))
	c.active = piece
	c.hasActive = true
	c.landing = false
	c.timeToDrop = c.clock + c.dropInterval

	if !c.board.IsValidPosition(piece) {
		c.endGame()
		return
	}
	c.emit(PieceSpawned{Piece: piece})
}

func (c *Controller) endGame() {
	if c.gameOver {
		return
	}
	c.gameOver = true
	c.landing = false
	c.emit(GameOver{})
	c.logger.Info("game over", "pieces", c.nextID, "level", c.level)
}

// TogglePause suspends or resumes the game clock. Ignored after game over.
func (c *Controller) TogglePause() {
	if c.gameOver {
		return
	}
	c.paused = !c.paused
	if c.paused {
		c.emit(Paused{})
	} else {
		c.emit(Resumed{})
	}
}

// Restart reinitializes the board, queue, holder and timers and spawns a
// fresh piece. The randomizer continues its sequence.
func (c *Controller) Restart() {
	c.board.Reset()
	c.queue.Reset()
	c.holder.Reset()

	c.hasActive = false
	c.landing = false
	c.clearing = false
	c.paused = false
	c.gameOver = false
	c.nextKeyLR = c.clock
	c.nextKeyDown = c.clock

	c.SetLevel(c.cfg.StartLevel)
	c.emit(Restarted{})
	c.spawnNext()
}

// SetLevel updates the level used for the gravity interval. The new interval
// applies from the next drop.
func (c *Controller) SetLevel(level int) {
	c.level = max(1, level)
	c.dropInterval = c.cfg.DropIntervalForLevel(c.level)
}

func (c *Controller) canAct() bool {
	return c.hasActive && !c.paused && !c.gameOver && !c.clearing
}

func (c *Controller) emit(e Event) {
	c.events = append(c.events, e)
}

// Drain returns and clears the pending events.
func (c *Controller) Drain() []Event {
	if len(c.events) == 0 {
		return nil
	}
	out := c.events
	c.events = nil
	return out
}

// State returns the current controller state.
func (c *Controller) State() State {
	switch {
	case c.gameOver:
		return StateGameOver
	case c.paused:
		return StatePaused
	case c.clearing:
		return StateClearing
	case c.landing:
		return StateLanding
	default:
		return StatePlaying
	}
}

// Active returns the falling piece, if there is one.
func (c *Controller) Active() (Piece, bool) {
	return c.active, c.hasActive
}

// Ghost returns the projected resting position of the active piece.
func (c *Controller) Ghost() (Piece, bool) {
	if !c.hasActive || c.gameOver {
		return Piece{}, false
	}
	return Ghost(c.active, c.board), true
}

// Board returns the locked-cell grid. Callers must treat it as read-only.
func (c *Controller) Board() *Board { return c.board }

// Queue returns the upcoming-piece queue. Callers must treat it as read-only.
func (c *Controller) Queue() *Queue { return c.queue }

// Holder returns the hold slot. Callers must treat it as read-only.
func (c *Controller) Holder() *Holder { return c.holder }

// Level returns the current level.
func (c *Controller) Level() int { return c.level }

// DropInterval returns the current gravity interval.
func (c *Controller) DropInterval() time.Duration { return c.dropInterval }

// Clock returns the game time, which excludes paused periods.
func (c *Controller) Clock() time.Duration { return c.clock }

// Config returns the configuration the controller was built with.
func (c *Controller) Config() Config { return c.cfg }

// String summarizes the controller for debugging.
func (c *Controller) String() string {
	return fmt.Sprintf("state=%s level=%d clock=%s active=%s@(%d,%d) occupied=%d",
		c.State(), c.level, c.clock, c.active.Kind, c.active.Pivot.X, c.active.Pivot.Y, c.board.OccupiedCount())
}
