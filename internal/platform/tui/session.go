package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/power2048/internal/core"
	"github.com/vovakirdan/power2048/internal/games/power2048"
	"github.com/vovakirdan/power2048/internal/storage"
)

type sessionPhase int

const (
	phaseSetup sessionPhase = iota
	phaseGame
	phaseScoreboard
)

// SessionModel manages the full flow: setup -> game -> setup, with the
// scoreboard reachable from setup. Child models quit with tea.Quit when
// they finish; the session swallows those commands and switches screens.
// It is used for SSH sessions and the local menu command.
type SessionModel struct {
	store      *storage.Store
	config     core.RuntimeConfig
	player     string
	logger     *log.Logger
	phase      sessionPhase
	setup      SetupModel
	game       GameModel
	scoreboard ScoreboardModel
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, player string, logger *log.Logger) SessionModel {
	return SessionModel{
		store:  store,
		config: cfg,
		player: player,
		logger: logger,
		setup:  NewSetupModel(store, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.setup.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.phase {
	case phaseGame:
		return m.updateGame(msg)
	case phaseScoreboard:
		return m.updateScoreboard(msg)
	default:
		return m.updateSetup(msg)
	}
}

func (m SessionModel) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	newSetup, cmd := m.setup.Update(msg)
	if setupModel, ok := newSetup.(SetupModel); ok {
		m.setup = setupModel
	}

	switch {
	case m.setup.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.setup.WantsScoreboard():
		cfg := m.setup.Config()
		m.config.Base, m.config.Mode = cfg.Base, cfg.Mode
		start := Variant{Base: cfg.Base, Mode: power2048.Mode(cfg.Mode)}
		m.scoreboard = NewScoreboardModel(m.store, start, m.config.ScreenW, m.config.ScreenH)
		m.phase = phaseScoreboard
		return m, m.scoreboard.Init()

	case m.setup.Selected() != nil:
		cfg := m.setup.Config()
		m.config.Base, m.config.Mode = cfg.Base, cfg.Mode
		game, err := NewGameModel(m.store, m.config, m.player, m.logger)
		if err != nil {
			if m.logger != nil {
				m.logger.Error("could not start game", "error", err)
			}
			m.setup = NewSetupModel(m.store, m.config)
			return m, nil
		}
		m.game = game
		m.phase = phaseGame
		return m, m.game.Init()
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newGame, cmd := m.game.Update(msg)
	if gameModel, ok := newGame.(GameModel); ok {
		m.game = gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		// Remember the variant the player ended on
		m.config.Base = m.game.State().Base()
		m.config.Mode = string(m.game.State().Mode())
		m.setup = NewSetupModel(m.store, m.config)
		m.phase = phaseSetup
		return m, m.setup.Init()
	}

	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.scoreboard.Update(msg)
	if boardModel, ok := newBoard.(ScoreboardModel); ok {
		m.scoreboard = boardModel
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.scoreboard.IsGoingBack() {
		m.setup = NewSetupModel(m.store, m.config)
		m.phase = phaseSetup
		return m, m.setup.Init()
	}

	return m, cmd
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.phase {
	case phaseGame:
		return m.game.View()
	case phaseScoreboard:
		return m.scoreboard.View()
	default:
		return m.setup.View()
	}
}

// RunSession runs the setup/game/scoreboard loop locally.
func RunSession(store *storage.Store, cfg core.RuntimeConfig, player string, logger *log.Logger) error {
	p := tea.NewProgram(
		NewSessionModel(store, cfg, player, logger),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
