package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blocks"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// holdWindow is how long a keystroke keeps a movement key held.
// Shorter than the default first key repeat so a single tap moves once.
const holdWindow = 150 * time.Millisecond

// Rows reserved below the game for the help line.
const helpRows = 1

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model for running a match.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keys       GameKeyMap
	help       help.Model
	held       *heldKeys
	inputFrame core.InputFrame
	gameState  core.GameState
	recorder   *blocks.Recorder
	logger     *log.Logger
	quitting   bool
	journaled  bool // whether the current game over has been journaled
}

// NewModel creates a new Bubble Tea model for the given game.
// A nil store disables the match journal; a nil logger discards logs.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := help.New()
	h.ShowAll = false

	window := int(holdWindow * time.Duration(cfg.TickRate) / time.Second)

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		store:      store,
		config:     cfg,
		keys:       DefaultGameKeyMap(),
		help:       h,
		held:       newHeldKeys(window),
		inputFrame: core.NewInputFrame(),
		recorder:   blocks.NewRecorder(),
		logger:     logger.With("game", game.ID()),
	}
}

func gameHeight(h int) int {
	if h <= helpRows {
		return h
	}
	return h - helpRows
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.gameConfig())
	m.logger.Info("match started", "seed", m.config.Seed, "tick_rate", m.config.TickRate)

	// Start the tick loop
	return tickCmd(m.config.TickRate)
}

// gameConfig is the runtime config the game sees: the screen minus the help line.
func (m Model) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = gameHeight(cfg.ScreenH)
	return cfg
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	action := m.keys.MapKey(msg)
	switch {
	case action == core.ActionQuit:
		if !m.gameState.GameOver {
			m.journal(false)
		}
		m.logger.Info("match quit", "state", m.game)
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionNone:
		return m, nil
	case repeatable(action):
		// Autorepeat keystrokes extend the hold without pressing again
		if m.held.press(action) {
			m.inputFrame.Set(action)
		}
	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleResize processes window resize events.
// The match keeps running; only the screen buffer changes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.held.apply(&m.inputFrame)

	m.recorder.Record(m.inputFrame)
	result := m.game.Step(m.inputFrame)
	wasOver := m.gameState.GameOver
	m.gameState = result.State

	switch {
	case m.gameState.GameOver && !m.journaled:
		m.journal(true)
		m.journaled = true
		m.held.reset()
	case wasOver && !m.gameState.GameOver:
		m.logger.Info("match restarted")
		m.journaled = false
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// journal saves the match with everything needed to replay it.
// The input log covers the whole session, restarts included.
func (m *Model) journal(finished bool) {
	if m.store == nil || m.recorder.Ticks() == 0 {
		return
	}
	g, ok := m.game.(*blocks.Game)
	if !ok {
		return
	}

	cfgData, err := yaml.Marshal(g.Config())
	if err != nil {
		m.logger.Error("cannot encode match config", "error", err)
		return
	}
	inputs, err := blocks.EncodeInputs(m.recorder.Records())
	if err != nil {
		m.logger.Error("cannot encode match inputs", "error", err)
		return
	}

	snap := g.Snapshot()
	id, err := m.store.SaveMatch(storage.Match{
		Mode:     g.ID(),
		Seed:     m.config.Seed,
		TickRate: m.config.TickRate,
		Ticks:    m.recorder.Ticks(),
		Score:    snap.Score,
		Lines:    snap.Lines,
		Level:    snap.Level,
		Pieces:   snap.Pieces,
		Finished: finished,
		Config:   cfgData,
		Inputs:   inputs,
	})
	if err != nil {
		m.logger.Error("cannot journal match", "error", err)
		return
	}
	m.logger.Info("match journaled", "id", id, "score", snap.Score, "lines", snap.Lines, "finished", finished)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	// Render current state
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("cannot save screenshot", "error", err)
		return
	}
	dir := filepath.Join(home, ".blockfall", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot save screenshot", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)

	view := RenderScreen(m.screen)
	if m.config.ScreenH > helpRows {
		view += "\n" + helpStyle.Render(m.help.View(m.keys))
	}
	return view
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewModel(game, store, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
