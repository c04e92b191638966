// Package blocks adapts the falling-block engine to the registry Game
// interface: it maps platform actions to engine intents, derives the game
// clock from ticks, keeps score and level, and renders to a Screen.
package blocks

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blocks/engine"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// Mode selects the piece randomizer.
type Mode string

const (
	ModeUniform Mode = "blocks"     // Independent uniform draws
	ModeBag     Mode = "blocks_bag" // Every kind once per shuffled bag
)

// Feedback cues reported in StepResult.Feedback.
const (
	FeedbackMove         = "move"
	FeedbackRotate       = "rotate"
	FeedbackRejected     = "rejected"
	FeedbackLand         = "land"
	FeedbackDrop         = "drop"
	FeedbackLock         = "lock"
	FeedbackClearing     = "clearing"
	FeedbackClear        = "clear"
	FeedbackTetris       = "tetris"
	FeedbackLevelUp      = "level_up"
	FeedbackHold         = "hold"
	FeedbackHoldRejected = "hold_rejected"
	FeedbackToggle       = "toggle"
	FeedbackPause        = "pause"
	FeedbackResume       = "resume"
	FeedbackGameOver     = "game_over"
	FeedbackRestart      = "restart"
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// logger receives engine and adapter messages; discarded unless set.
var logger = log.New(io.Discard)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParseDifficultyPreset(preset)
}

// SetLogger sets the logger handed to every new engine.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// LoadConfig resolves the configuration the next Reset will use, with the
// difficulty preset applied, and validates it against the engine.
func LoadConfig() (config.BlocksConfig, error) {
	cfg, err := config.LoadBlocks(configPath)
	if err != nil {
		return cfg, err
	}
	if difficultyPreset != "" {
		config.ApplyBlocksPreset(&cfg, difficultyPreset)
	}
	if _, err := EngineConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// EngineConfig converts a YAML configuration into a validated engine config.
func EngineConfig(cfg config.BlocksConfig) (engine.Config, error) {
	ec := engine.Config{
		Width:  cfg.Board.Width,
		Height: cfg.Board.Height,
		Header: cfg.Board.Header,
		Spawn:  engine.Point{X: cfg.Spawn.X, Y: cfg.Spawn.Y},

		DropInterval:     cfg.Timing.DropInterval,
		DropAcceleration: cfg.Timing.DropAcceleration,
		MinDropInterval:  cfg.Timing.MinDropInterval,
		MaxDropInterval:  cfg.Timing.MaxDropInterval,
		LockDelay:        cfg.Timing.LockDelay,
		MaxLockDelay:     cfg.Timing.MaxLockDelay,
		LockExtension:    cfg.Timing.LockExtension,
		ClearDelay:       cfg.Timing.ClearDelay,

		FirstKeyRepeat: cfg.Input.FirstKeyRepeat,
		KeyRepeat:      cfg.Input.KeyRepeat,
		SoftDropRepeat: cfg.Input.SoftDropRepeat,

		Lookahead:  cfg.Queue.Lookahead,
		NoRotation: make(map[engine.Kind]bool),
		StartLevel: max(1, cfg.Difficulty.StartLevel),
	}

	for _, s := range cfg.Pieces.Kinds {
		k, err := engine.ParseKind(s)
		if err != nil {
			return ec, engine.ConfigError{Field: "pieces.kinds", Message: err.Error()}
		}
		ec.Kinds = append(ec.Kinds, k)
	}
	for _, s := range cfg.Pieces.NoRotation {
		k, err := engine.ParseKind(s)
		if err != nil {
			return ec, engine.ConfigError{Field: "pieces.no_rotation", Message: err.Error()}
		}
		ec.NoRotation[k] = true
	}

	if err := ec.Validate(); err != nil {
		return ec, err
	}
	return ec, nil
}

// Game implements the falling-block game on top of engine.Controller.
type Game struct {
	mode     Mode
	override *config.BlocksConfig

	// Configuration
	runtime    core.RuntimeConfig
	cfg        config.BlocksConfig
	difficulty *config.DifficultyManager

	ctrl *engine.Controller
	err  error

	// Scoring lives outside the engine
	tick     uint64
	score    int
	lines    int
	level    int
	pieces   int
	lastRows int

	clockwise bool     // direction of the plain Rotate action
	clearing  []int    // rows flashing until the collapse
	feedback  []string // reused per step

	// Minimum screen size for the current board
	minScreenW int
	minScreenH int
}

// New creates a game with the uniform randomizer.
func New() *Game {
	return &Game{mode: ModeUniform}
}

// NewBag creates a game with the bag randomizer.
func NewBag() *Game {
	return &Game{mode: ModeBag}
}

// NewWithConfig creates a game that ignores the config search path and
// uses cfg as is. Used for replays.
func NewWithConfig(mode Mode, cfg config.BlocksConfig) *Game {
	return &Game{mode: mode, override: &cfg}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return string(g.mode)
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeBag {
		return "Blockfall (7-bag)"
	}
	return "Blockfall"
}

// Mode returns the randomizer mode.
func (g *Game) Mode() Mode {
	return g.mode
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	if runtime.TickRate <= 0 {
		runtime.TickRate = 60
	}
	g.runtime = runtime

	// Load game config
	var cfg config.BlocksConfig
	if g.override != nil {
		cfg = *g.override
	} else {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			logger.Warn("using default config", "error", err)
			cfg = config.DefaultBlocksConfig()
			if difficultyPreset != "" {
				config.ApplyBlocksPreset(&cfg, difficultyPreset)
			}
		}
	}
	g.cfg = cfg

	g.difficulty = config.NewDifficultyManager(cfg.Difficulty, cfg.Scoring.LinesPerLevel)

	g.tick = 0
	g.score = 0
	g.lines = 0
	g.pieces = 0
	g.lastRows = 0
	g.clockwise = true
	g.clearing = nil
	g.level = g.difficulty.StartLevel()

	g.ctrl, g.err = g.newController()
	if g.err != nil {
		logger.Error("cannot start match", "mode", g.mode, "error", g.err)
	}

	g.calculateLayout()
}

func (g *Game) newController() (*engine.Controller, error) {
	ec, err := EngineConfig(g.cfg)
	if err != nil {
		return nil, err
	}

	var rnd engine.Randomizer
	if g.mode == ModeBag || g.cfg.Queue.Randomize == "bag" {
		rnd = engine.NewBagRandomizer(g.runtime.Seed)
	} else {
		rnd = engine.NewUniformRandomizer(g.runtime.Seed)
	}

	return engine.NewController(ec, rnd,
		engine.WithLogger(logger.With("mode", g.mode)),
		engine.WithLevelFunc(func(rows int) int {
			return g.difficulty.Level(g.lines + rows)
		}),
	)
}

// Config returns the configuration in effect for the current match.
func (g *Game) Config() config.BlocksConfig {
	return g.cfg
}

// Err returns the configuration error that prevented the match from
// starting, if any.
func (g *Game) Err() error {
	return g.err
}

// Controller exposes the engine for inspection.
func (g *Game) Controller() *engine.Controller {
	return g.ctrl
}

// now converts the tick counter into monotonic game time.
func (g *Game) now() time.Duration {
	return time.Duration(g.tick) * time.Second / time.Duration(g.runtime.TickRate)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.ctrl == nil {
		return core.StepResult{State: g.State()}
	}

	g.feedback = g.feedback[:0]

	if in.Has(core.ActionToggleRotation) {
		g.clockwise = !g.clockwise
		g.feedback = append(g.feedback, FeedbackToggle)
	}

	g.tick++
	events := g.ctrl.Update(g.now(), g.intents(in))
	for _, ev := range events {
		g.apply(ev)
	}

	return core.StepResult{
		State:    g.State(),
		Feedback: append([]string(nil), g.feedback...),
	}
}

// intents maps platform actions to engine intents.
func (g *Game) intents(in core.InputFrame) engine.Input {
	var out engine.Input

	pressed := map[core.Action]engine.Intent{
		core.ActionLeft:      engine.IntentMoveLeft,
		core.ActionRight:     engine.IntentMoveRight,
		core.ActionRotateCW:  engine.IntentRotateCW,
		core.ActionRotateCCW: engine.IntentRotateCCW,
		core.ActionSoftDrop:  engine.IntentSoftDrop,
		core.ActionHardDrop:  engine.IntentHardDrop,
		core.ActionHold:      engine.IntentHold,
		core.ActionPause:     engine.IntentPause,
		core.ActionRestart:   engine.IntentRestart,
	}
	for a, intent := range pressed {
		if in.Has(a) {
			out.Pressed |= intent
		}
	}
	if in.Has(core.ActionRotate) {
		if g.clockwise {
			out.Pressed |= engine.IntentRotateCW
		} else {
			out.Pressed |= engine.IntentRotateCCW
		}
	}

	// Only movement keys repeat
	if in.Held(core.ActionLeft) {
		out.Held |= engine.IntentMoveLeft
	}
	if in.Held(core.ActionRight) {
		out.Held |= engine.IntentMoveRight
	}
	if in.Held(core.ActionSoftDrop) {
		out.Held |= engine.IntentSoftDrop
	}
	return out
}

// apply updates score and feedback for one engine event.
func (g *Game) apply(ev engine.Event) {
	switch e := ev.(type) {
	case engine.PieceMoved:
		g.feedback = append(g.feedback, FeedbackMove)
	case engine.PieceRotated:
		g.feedback = append(g.feedback, FeedbackRotate)
	case engine.MoveRejected, engine.RotateRejected:
		g.feedback = append(g.feedback, FeedbackRejected)
	case engine.LandingStarted:
		g.feedback = append(g.feedback, FeedbackLand)
	case engine.PieceSnapped:
		g.feedback = append(g.feedback, FeedbackDrop)
	case engine.PieceLocked:
		g.pieces++
		g.feedback = append(g.feedback, FeedbackLock)
	case engine.RowsClearing:
		g.clearing = e.Rows
		g.feedback = append(g.feedback, FeedbackClearing)
	case engine.RowsCleared:
		g.onRowsCleared(e.Count)
	case engine.HoldExchanged:
		g.feedback = append(g.feedback, FeedbackHold)
	case engine.HoldRejected:
		g.feedback = append(g.feedback, FeedbackHoldRejected)
	case engine.Paused:
		g.feedback = append(g.feedback, FeedbackPause)
	case engine.Resumed:
		g.feedback = append(g.feedback, FeedbackResume)
	case engine.GameOver:
		g.feedback = append(g.feedback, FeedbackGameOver)
	case engine.Restarted:
		g.score = 0
		g.lines = 0
		g.pieces = 0
		g.lastRows = 0
		g.clearing = nil
		g.level = g.difficulty.StartLevel()
		g.feedback = append(g.feedback, FeedbackRestart)
	}
}

func (g *Game) onRowsCleared(n int) {
	g.clearing = nil
	if n == 0 {
		return
	}

	g.score += config.LineScore(g.cfg.Scoring.LinePoints, n, g.level)
	g.lines += n
	g.lastRows = n

	if n >= 4 {
		g.feedback = append(g.feedback, FeedbackTetris)
	} else {
		g.feedback = append(g.feedback, FeedbackClear)
	}

	// The controller already switched speed before spawning the next piece.
	if level := g.difficulty.Level(g.lines); level != g.level {
		g.level = level
		g.feedback = append(g.feedback, FeedbackLevelUp)
		logger.Debug("level up", "level", level, "lines", g.lines)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		Score: g.score,
		Lines: g.lines,
		Level: g.level,
	}
	if g.ctrl == nil {
		st.GameOver = true
		return st
	}
	switch g.ctrl.State() {
	case engine.StateGameOver:
		st.GameOver = true
	case engine.StatePaused:
		st.Paused = true
	}
	return st
}

// String summarizes the match for logs.
func (g *Game) String() string {
	return fmt.Sprintf("%s tick=%d score=%d lines=%d level=%d pieces=%d",
		g.mode, g.tick, g.score, g.lines, g.level, g.pieces)
}

// Register the games with the registry
func init() {
	registry.Register(string(ModeUniform), func() registry.Game {
		return New()
	})
	registry.Register(string(ModeBag), func() registry.Game {
		return NewBag()
	})
}
