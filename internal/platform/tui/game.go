package tui

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/power2048/internal/core"
	"github.com/vovakirdan/power2048/internal/games/power2048"
	"github.com/vovakirdan/power2048/internal/storage"
)

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// GameModel is the Bubble Tea model for one Power 2048 game.
type GameModel struct {
	state      *power2048.State
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	keys       GameKeyMap
	help       help.Model
	player     string
	quitting   bool
	backToMenu bool
	recorded   bool // Whether the finished game was added to score history
}

// NewGameModel creates a game for cfg.Base and cfg.Mode.
// A nil store keeps high scores in memory only.
func NewGameModel(store *storage.Store, cfg core.RuntimeConfig, player string, logger *log.Logger) (GameModel, error) {
	mode, err := power2048.ParseMode(cfg.Mode)
	if err != nil {
		return GameModel{}, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := power2048.Options{
		Base:   cfg.Base,
		Mode:   mode,
		Rand:   rand.New(rand.NewSource(seed)),
		Logger: logger,
	}
	if store != nil {
		opts.Store = store
	}

	state, err := power2048.New(opts)
	if err != nil {
		return GameModel{}, err
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return GameModel{
		state:  state,
		screen: core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 0)),
		store:  store,
		logger: logger,
		keys:   DefaultGameKeyMap(),
		help:   h,
		player: player,
	}, nil
}

// Init starts the countdown for timed games.
func (m GameModel) Init() tea.Cmd {
	return m.countdown()
}

// countdown schedules the first second of the current generation.
func (m GameModel) countdown() tea.Cmd {
	if !m.state.Mode().Timed() || m.state.Status().Terminal() {
		return nil
	}
	return secondTick(m.state, m.state.Generation())
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-1, 0))
		m.help.Width = msg.Width
		return m, nil

	case SecondMsg:
		return m.handleSecond(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.MapKey(msg)

	switch action {
	case core.ActionQuit:
		m.recordFinished()
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		m.recordFinished()
		m.backToMenu = true
		return m, tea.Quit
	case core.ActionNone:
		return m, nil
	}

	generation := m.state.Generation()
	if _, ok := m.state.Apply(action); !ok {
		return m, nil
	}

	if m.state.Generation() != generation {
		// Restart or variant change: the old countdown chain goes stale.
		m.recorded = false
		return m, m.countdown()
	}

	m.recordFinished()
	return m, nil
}

// handleSecond advances the countdown. Stale ticks end their chain.
func (m GameModel) handleSecond(msg SecondMsg) (tea.Model, tea.Cmd) {
	if msg.Game != m.state || !m.state.Tick(msg.Generation) {
		return m, nil
	}
	if m.state.Status().Terminal() {
		m.recordFinished()
		return m, nil
	}
	return m, secondTick(m.state, msg.Generation)
}

// recordFinished adds a finished game to the score history once.
func (m *GameModel) recordFinished() {
	if m.recorded || !m.state.Status().Terminal() {
		return
	}
	m.recorded = true

	snap := m.state.Snapshot()
	if m.store == nil || snap.Score == 0 {
		return
	}

	_, err := m.store.SaveScore(storage.ScoreEntry{
		Base:    snap.Base,
		Mode:    string(snap.Mode),
		Score:   snap.Score,
		MaxTile: snap.MaxTile,
		Moves:   snap.Moves,
		Status:  snap.Status.String(),
		Player:  m.player,
	})
	if err != nil && m.logger != nil {
		m.logger.Warn("could not record score", "error", err)
	}
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.state.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// State returns the underlying game.
func (m GameModel) State() *power2048.State {
	return m.state
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// RunGame starts a standalone game program.
func RunGame(store *storage.Store, cfg core.RuntimeConfig, player string, logger *log.Logger) error {
	model, err := NewGameModel(store, cfg, player, logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
