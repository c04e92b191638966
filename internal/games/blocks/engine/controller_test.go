package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioConfig is a 10x20 board without a header, spawning at (4,18).
func scenarioConfig(kinds ...Kind) Config {
	cfg := DefaultConfig()
	cfg.Width = 10
	cfg.Height = 20
	cfg.Header = 0
	cfg.Spawn = Point{X: 4, Y: 18}
	if len(kinds) > 0 {
		cfg.Kinds = kinds
	}
	return cfg
}

type harness struct {
	t   *testing.T
	c   *Controller
	now time.Duration
}

func newHarness(t *testing.T, cfg Config, rnd Randomizer) *harness {
	t.Helper()
	if rnd == nil {
		rnd = NewUniformRandomizer(1)
	}
	c, err := NewController(cfg, rnd)
	require.NoError(t, err)

	h := &harness{t: t, c: c}
	events := c.Update(0, Input{})
	_, spawned := findEvent[PieceSpawned](events)
	require.True(t, spawned, "first update must report the initial spawn")
	return h
}

func (h *harness) step(dt time.Duration, in Input) []Event {
	h.now += dt
	return h.c.Update(h.now, in)
}

func (h *harness) active() Piece {
	h.t.Helper()
	p, ok := h.c.Active()
	require.True(h.t, ok, "expected an active piece")
	return p
}

func findEvent[T Event](events []Event) (T, bool) {
	for _, e := range events {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func indexOfEvent[T Event](events []Event) int {
	for i, e := range events {
		if _, ok := e.(T); ok {
			return i
		}
	}
	return -1
}

func TestNewControllerConfigErrors(t *testing.T) {
	cfg := scenarioConfig()
	cfg.Kinds = nil
	_, err := NewController(cfg, NewUniformRandomizer(1))
	assert.ErrorIs(t, err, ErrEmptyPieceTable)

	cfg = scenarioConfig()
	cfg.Width = 0
	_, err = NewController(cfg, NewUniformRandomizer(1))
	var cfgErr ConfigError
	assert.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)

	_, err = NewController(scenarioConfig(), nil)
	assert.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
}

func TestScenarioOLandsAndLocks(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindO), nil)
	require.Equal(t, Point{X: 4, Y: 18}, h.active().Pivot)

	for i := 0; i < 18; i++ {
		events := h.step(time.Millisecond, Press(IntentSoftDrop))
		_, moved := findEvent[PieceMoved](events)
		require.True(t, moved, "drop %d", i)
	}
	require.Equal(t, Point{X: 4, Y: 0}, h.active().Pivot)

	events := h.step(time.Millisecond, Press(IntentSoftDrop))
	_, landing := findEvent[LandingStarted](events)
	assert.True(t, landing)
	_, locked := findEvent[PieceLocked](events)
	assert.False(t, locked)
	assert.Equal(t, StateLanding, h.c.State())
	assert.Equal(t, Point{X: 4, Y: 0}, h.active().Pivot)

	events = h.step(801*time.Millisecond, Input{})
	lock, ok := findEvent[PieceLocked](events)
	require.True(t, ok, "piece must lock after the max lock delay")
	assert.Equal(t, [4]Point{{X: 4, Y: 0}, {X: 5, Y: 0}, {X: 4, Y: 1}, {X: 5, Y: 1}}, lock.Cells)
	assert.Equal(t, KindO, lock.Piece.Kind)

	spawned, ok := findEvent[PieceSpawned](events)
	require.True(t, ok)
	assert.NotEqual(t, lock.Piece.ID, spawned.Piece.ID)
	assert.Equal(t, StatePlaying, h.c.State())
	assert.Equal(t, 4, h.c.Board().OccupiedCount())
}

func TestRepeatedDropsDoNotResetHardCap(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindO), nil)
	for i := 0; i < 19; i++ {
		h.step(time.Millisecond, Press(IntentSoftDrop))
	}
	require.Equal(t, StateLanding, h.c.State())

	var locked bool
	for i := 0; i < 20 && !locked; i++ {
		events := h.step(50*time.Millisecond, Press(IntentSoftDrop))
		_, locked = findEvent[LandingStarted](events)
		require.False(t, locked, "landing must only start once")
		_, locked = findEvent[PieceLocked](events)
	}
	assert.True(t, locked)
}

func TestGravityMovesPieceDown(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindO), nil)

	events := h.step(599*time.Millisecond, Input{})
	assert.Empty(t, events)
	assert.Equal(t, 18, h.active().Pivot.Y)

	h.step(time.Millisecond, Input{})
	assert.Equal(t, 17, h.active().Pivot.Y)

	h.c.SetLevel(5)
	assert.Equal(t, 400*time.Millisecond, h.c.DropInterval())
	assert.Equal(t, 5, h.c.Level())
}

func TestMoveRejectedAtWall(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindO), nil)

	for i := 0; i < 4; i++ {
		h.c.MoveLeft()
	}
	events := h.c.Drain()
	assert.Len(t, events, 4)
	assert.Equal(t, 0, h.active().Pivot.X)

	h.c.MoveLeft()
	events = h.c.Drain()
	require.Len(t, events, 1)
	assert.IsType(t, MoveRejected{}, events[0])
	assert.Equal(t, 0, h.active().Pivot.X)
}

func TestRotateRejectedOnFloor(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindI), nil)
	for i := 0; i < 18; i++ {
		h.c.SoftDrop()
	}
	h.c.Drain()
	before := h.active()
	require.Equal(t, 0, before.Pivot.Y)

	h.c.Rotate(true)
	events := h.c.Drain()
	require.Len(t, events, 1)
	assert.IsType(t, RotateRejected{}, events[0])
	assert.Equal(t, before, h.active())
}

func TestRotateAccepted(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindT), nil)

	events := h.step(time.Millisecond, Press(IntentRotateCW))
	rotated, ok := findEvent[PieceRotated](events)
	require.True(t, ok)
	assert.Equal(t, h.active(), rotated.Piece)

	events = h.step(time.Millisecond, Press(IntentRotateCCW))
	_, ok = findEvent[PieceRotated](events)
	require.True(t, ok)
	assert.Equal(t, SpawnShape(KindT), h.active().Offsets)
}

func TestRotateDisabledForO(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindO), nil)
	before := h.active()

	h.c.Rotate(true)
	assert.Empty(t, h.c.Drain())
	assert.Equal(t, before, h.active())
}

func TestLandingExtension(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindO), nil)
	for i := 0; i < 19; i++ {
		h.step(time.Millisecond, Press(IntentSoftDrop))
	}
	require.Equal(t, StateLanding, h.c.State())

	events := h.step(150*time.Millisecond, Press(IntentMoveLeft))
	_, moved := findEvent[PieceMoved](events)
	require.True(t, moved)

	// Past the plain lock delay, still inside the extension.
	events = h.step(100*time.Millisecond, Input{})
	_, locked := findEvent[PieceLocked](events)
	assert.False(t, locked)
	assert.Equal(t, StateLanding, h.c.State())

	events = h.step(400*time.Millisecond, Input{})
	_, locked = findEvent[PieceLocked](events)
	assert.True(t, locked)
}

func TestLandingExtensionIsCapped(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindO), nil)
	for i := 0; i < 19; i++ {
		h.step(time.Millisecond, Press(IntentSoftDrop))
	}
	landedAt := h.c.Clock()

	var locked bool
	for i := 0; i < 40 && !locked; i++ {
		in := Press(IntentMoveLeft)
		if i%2 == 1 {
			in = Press(IntentMoveRight)
		}
		_, locked = findEvent[PieceLocked](h.step(50*time.Millisecond, in))
	}
	require.True(t, locked, "moving must not stall the lock forever")
	assert.LessOrEqual(t, h.c.Clock()-landedAt, 850*time.Millisecond)
}

func TestKeyRepeat(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindO), nil)

	h.step(time.Millisecond, Press(IntentMoveRight))
	assert.Equal(t, 5, h.active().Pivot.X)

	held := Input{Held: IntentMoveRight}
	h.step(50*time.Millisecond, held)
	assert.Equal(t, 5, h.active().Pivot.X, "first repeat waits for the longer delay")

	h.step(250*time.Millisecond, held)
	assert.Equal(t, 6, h.active().Pivot.X)

	h.step(50*time.Millisecond, held)
	assert.Equal(t, 6, h.active().Pivot.X)

	h.step(50*time.Millisecond, held)
	assert.Equal(t, 7, h.active().Pivot.X)
}

func TestHardDropLocksImmediately(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindO), nil)

	events := h.step(time.Millisecond, Press(IntentHardDrop))
	snap, ok := findEvent[PieceSnapped](events)
	require.True(t, ok)
	assert.Equal(t, Point{X: 4, Y: 18}, snap.From)
	assert.Equal(t, Point{X: 4, Y: 0}, snap.Piece.Pivot)

	assert.Less(t, indexOfEvent[PieceSnapped](events), indexOfEvent[PieceLocked](events))
	assert.Less(t, indexOfEvent[PieceLocked](events), indexOfEvent[PieceSpawned](events))
	assert.Equal(t, 4, h.c.Board().OccupiedCount())
}

func TestRowClearScenario(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindO), nil)
	fillRow(h.c.Board(), 0, 8, 9)

	for i := 0; i < 4; i++ {
		h.step(time.Millisecond, Press(IntentMoveRight))
	}
	require.Equal(t, 8, h.active().Pivot.X)

	events := h.step(time.Millisecond, Press(IntentHardDrop))
	clearing, ok := findEvent[RowsClearing](events)
	require.True(t, ok)
	assert.Equal(t, []int{0}, clearing.Rows)
	_, cleared := findEvent[RowsCleared](events)
	assert.False(t, cleared, "collapse waits for the clear delay")
	assert.Equal(t, StateClearing, h.c.State())
	_, hasActive := h.c.Active()
	assert.False(t, hasActive)

	// Input and gravity are suspended while clearing.
	events = h.step(100*time.Millisecond, Press(IntentMoveLeft))
	assert.Empty(t, events)
	assert.True(t, h.c.Board().IsRowComplete(0))

	events = h.step(100*time.Millisecond, Input{})
	done, ok := findEvent[RowsCleared](events)
	require.True(t, ok)
	assert.Equal(t, 1, done.Count)
	_, spawned := findEvent[PieceSpawned](events)
	assert.True(t, spawned)

	b := h.c.Board()
	assert.False(t, b.IsRowComplete(0))
	assert.True(t, b.Cell(8, 0).Occupied)
	assert.True(t, b.Cell(9, 0).Occupied)
	assert.False(t, b.Cell(8, 1).Occupied)
	assert.Equal(t, 2, b.OccupiedCount())
}

func TestPauseDuringRowClear(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindO), nil)
	fillRow(h.c.Board(), 0, 8, 9)
	for i := 0; i < 4; i++ {
		h.step(time.Millisecond, Press(IntentMoveRight))
	}

	events := h.step(time.Millisecond, Press(IntentHardDrop))
	_, ok := findEvent[RowsClearing](events)
	require.True(t, ok)
	require.Equal(t, StateClearing, h.c.State())

	events = h.step(50*time.Millisecond, Press(IntentPause))
	_, paused := findEvent[Paused](events)
	require.True(t, paused)

	events = h.step(10*time.Second, Input{})
	assert.Empty(t, events)
	assert.True(t, h.c.Board().IsRowComplete(0))

	events = h.step(time.Millisecond, Press(IntentPause))
	_, resumed := findEvent[Resumed](events)
	require.True(t, resumed)
	assert.Equal(t, StateClearing, h.c.State())

	// 150ms of the clear delay remain after the pause.
	events = h.step(100*time.Millisecond, Input{})
	_, cleared := findEvent[RowsCleared](events)
	assert.False(t, cleared)
	assert.True(t, h.c.Board().IsRowComplete(0))

	events = h.step(60*time.Millisecond, Input{})
	done, ok := findEvent[RowsCleared](events)
	require.True(t, ok)
	assert.Equal(t, 1, done.Count)
	assert.Equal(t, 2, h.c.Board().OccupiedCount())
	assert.Empty(t, h.c.Board().BeginClear(), "cleared rows must not be detected again")
}

func TestRowClearWithoutDelay(t *testing.T) {
	cfg := scenarioConfig(KindO)
	cfg.ClearDelay = 0
	h := newHarness(t, cfg, nil)
	fillRow(h.c.Board(), 0, 4, 5)
	fillRow(h.c.Board(), 1, 4, 5)

	events := h.step(time.Millisecond, Press(IntentHardDrop))
	clearing := indexOfEvent[RowsClearing](events)
	cleared := indexOfEvent[RowsCleared](events)
	require.GreaterOrEqual(t, clearing, 0)
	require.Greater(t, cleared, clearing)

	done, _ := findEvent[RowsCleared](events)
	assert.Equal(t, 2, done.Count)
	assert.Equal(t, 0, h.c.Board().OccupiedCount())
}

func TestLevelFuncAppliesBeforeNextSpawn(t *testing.T) {
	cfg := scenarioConfig(KindO)
	cfg.ClearDelay = 0
	c, err := NewController(cfg, NewUniformRandomizer(1), WithLevelFunc(func(rows int) int {
		return 1 + 2*rows
	}))
	require.NoError(t, err)
	c.Update(0, Input{})
	fillRow(c.Board(), 0, 4, 5)
	fillRow(c.Board(), 1, 4, 5)

	events := c.Update(time.Millisecond, Press(IntentHardDrop))
	_, cleared := findEvent[RowsCleared](events)
	require.True(t, cleared)
	assert.Equal(t, 5, c.Level())

	// Level 5 drops every 400ms.
	c.Update(400*time.Millisecond, Input{})
	p, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, 18, p.Pivot.Y)

	c.Update(401*time.Millisecond, Input{})
	p, _ = c.Active()
	assert.Equal(t, 17, p.Pivot.Y, "the spawned piece must fall at the new level's speed")
}

func TestHoldGate(t *testing.T) {
	rnd := &fixedRandomizer{seq: []Kind{KindI, KindT, KindS, KindZ}}
	h := newHarness(t, scenarioConfig(), rnd)
	require.Equal(t, KindI, h.active().Kind)

	h.c.Hold()
	events := h.c.Drain()
	ex, ok := findEvent[HoldExchanged](events)
	require.True(t, ok)
	assert.Equal(t, KindI, ex.Held)
	assert.False(t, ex.Swapped)
	assert.Equal(t, KindT, h.active().Kind, "holding into an empty slot spawns the next piece")

	h.c.Hold()
	events = h.c.Drain()
	rej, ok := findEvent[HoldRejected](events)
	require.True(t, ok)
	assert.ErrorIs(t, rej.Reason, ErrReleaseLocked)
	assert.Equal(t, KindT, h.active().Kind)

	h.c.HardDrop()
	h.c.Drain()
	require.Equal(t, KindS, h.active().Kind)

	h.c.Hold()
	events = h.c.Drain()
	ex, ok = findEvent[HoldExchanged](events)
	require.True(t, ok)
	assert.True(t, ex.Swapped)
	assert.Equal(t, KindS, ex.Held)
	assert.Equal(t, KindI, ex.Released)
	assert.Equal(t, KindI, h.active().Kind)
	assert.Equal(t, Point{X: 4, Y: 18}, h.active().Pivot)

	h.c.Hold()
	_, ok = findEvent[HoldRejected](h.c.Drain())
	assert.True(t, ok, "only one exchange per lock")
}

func TestPauseSuspendsTime(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindO), nil)

	events := h.step(10*time.Millisecond, Press(IntentPause))
	_, paused := findEvent[Paused](events)
	require.True(t, paused)
	assert.Equal(t, StatePaused, h.c.State())

	events = h.step(10*time.Second, Press(IntentMoveLeft, IntentSoftDrop))
	assert.Empty(t, events)

	events = h.step(time.Millisecond, Press(IntentPause))
	_, resumed := findEvent[Resumed](events)
	require.True(t, resumed)

	assert.Equal(t, 10*time.Millisecond, h.c.Clock())
	assert.Equal(t, Point{X: 4, Y: 18}, h.active().Pivot)
	assert.Equal(t, StatePlaying, h.c.State())
}

// overflowConfig stacks O pieces in a 3-wide well until the stack reaches
// the header.
func overflowConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 3
	cfg.Height = 8
	cfg.Header = 2
	cfg.Spawn = Point{X: 0, Y: 6}
	cfg.Kinds = []Kind{KindO}
	return cfg
}

func TestGameOverWhenStackReachesHeader(t *testing.T) {
	h := newHarness(t, overflowConfig(), nil)

	for i := 0; i < 3; i++ {
		events := h.step(time.Millisecond, Press(IntentHardDrop))
		_, locked := findEvent[PieceLocked](events)
		require.True(t, locked, "drop %d", i)
	}

	events := h.step(time.Millisecond, Press(IntentHardDrop))
	_, over := findEvent[GameOver](events)
	require.True(t, over)
	_, locked := findEvent[PieceLocked](events)
	assert.False(t, locked)
	assert.Equal(t, StateGameOver, h.c.State())

	// Terminal: everything but restart is ignored.
	assert.Empty(t, h.step(time.Millisecond, Press(IntentMoveRight, IntentHold, IntentPause)))
	h.c.MoveLeft()
	h.c.HardDrop()
	h.c.TogglePause()
	assert.Empty(t, h.c.Drain())
	_, hasGhost := h.c.Ghost()
	assert.False(t, hasGhost)

	events = h.step(time.Millisecond, Press(IntentRestart))
	_, restarted := findEvent[Restarted](events)
	require.True(t, restarted)
	_, spawned := findEvent[PieceSpawned](events)
	assert.True(t, spawned)
	assert.Equal(t, StatePlaying, h.c.State())
	assert.Equal(t, 0, h.c.Board().OccupiedCount())
}

func TestGameOverWhenSpawnBlocked(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindO), nil)
	setCell(h.c.Board(), 4, 18, KindI)

	events := h.step(time.Millisecond, Press(IntentHardDrop))
	_, locked := findEvent[PieceLocked](events)
	assert.True(t, locked)
	_, over := findEvent[GameOver](events)
	assert.True(t, over)
	_, spawned := findEvent[PieceSpawned](events)
	assert.False(t, spawned)
}

func TestRestartIgnoredWhilePlaying(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindO), nil)
	h.step(time.Millisecond, Press(IntentHardDrop))

	events := h.step(time.Millisecond, Press(IntentRestart))
	_, restarted := findEvent[Restarted](events)
	assert.False(t, restarted)
	assert.Equal(t, 4, h.c.Board().OccupiedCount())
}

func TestGhostFollowsActivePiece(t *testing.T) {
	h := newHarness(t, scenarioConfig(KindO), nil)

	g, ok := h.c.Ghost()
	require.True(t, ok)
	assert.Equal(t, Point{X: 4, Y: 0}, g.Pivot)
	assert.Equal(t, Point{X: 4, Y: 18}, h.active().Pivot)
}
