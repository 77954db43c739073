package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/power2048/internal/core"
	"github.com/vovakirdan/power2048/internal/engine"
	"github.com/vovakirdan/power2048/internal/games/power2048"
	"github.com/vovakirdan/power2048/internal/storage"
)

// Setup menu rows
const (
	setupRowBase = iota
	setupRowMode
	setupRowStart
	setupRowScores
	setupRowCount
)

var (
	setupTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	setupActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	setupDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	setupPanelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(1, 3)
)

// Selection is the variant chosen in the setup menu.
type Selection struct {
	Base int
	Mode power2048.Mode
}

// SetupModel lets users choose the merge base and timer mode.
type SetupModel struct {
	store          *storage.Store
	config         core.RuntimeConfig
	base           int
	mode           power2048.Mode
	cursor         int
	width          int
	height         int
	selected       *Selection
	openScoreboard bool
	quitting       bool
}

// NewSetupModel creates a setup menu preselecting cfg.Base and cfg.Mode.
func NewSetupModel(store *storage.Store, cfg core.RuntimeConfig) SetupModel {
	base := cfg.Base
	if !engine.ValidBase(base) {
		base = engine.Bases[0]
	}
	mode, err := power2048.ParseMode(cfg.Mode)
	if err != nil {
		mode = power2048.ModeClassic
	}

	return SetupModel{
		store:  store,
		config: cfg,
		base:   base,
		mode:   mode,
		cursor: setupRowStart,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
	}
}

// Init initializes the model.
func (m SetupModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}
	return m, nil
}

func (m SetupModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		m.cursor = (m.cursor + setupRowCount - 1) % setupRowCount
	case MenuActionDown:
		m.cursor = (m.cursor + 1) % setupRowCount
	case MenuActionLeft:
		m.cycle(-1)
	case MenuActionRight:
		m.cycle(1)
	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	case MenuActionSelect:
		if m.cursor == setupRowScores {
			m.openScoreboard = true
			return m, tea.Quit
		}
		m.selected = &Selection{Base: m.base, Mode: m.mode}
		return m, tea.Quit
	}
	return m, nil
}

// cycle moves the value on the current row by delta, wrapping around.
func (m *SetupModel) cycle(delta int) {
	switch m.cursor {
	case setupRowBase:
		i := slices.Index(engine.Bases, m.base)
		m.base = engine.Bases[(i+delta+len(engine.Bases))%len(engine.Bases)]
	case setupRowMode:
		i := slices.Index(power2048.Modes, m.mode)
		m.mode = power2048.Modes[(i+delta+len(power2048.Modes))%len(power2048.Modes)]
	}
}

// best returns the stored record for the highlighted variant.
func (m SetupModel) best() int {
	if m.store == nil {
		return 0
	}
	raw, err := m.store.Get(power2048.HighScoreKey(m.base, m.mode))
	if err != nil {
		return 0
	}
	score, _ := power2048.ParseHighScore(raw)
	return score
}

// View renders the setup menu.
func (m SetupModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(setupTitleStyle.Render("P O W E R   2 0 4 8"))
	b.WriteString("\n\n")

	rows := []string{
		fmt.Sprintf("Base    < %d >", m.base),
		fmt.Sprintf("Mode    < %s >", m.mode.Label()),
		"Start game",
		"High scores",
	}
	for i, row := range rows {
		if i == m.cursor {
			b.WriteString(setupActiveStyle.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Target: %d\n", engine.TargetTile(m.base)))
	b.WriteString(fmt.Sprintf("Best:   %d\n", m.best()))

	panel := setupPanelStyle.Render(b.String())
	controls := setupDimStyle.Render("Up/Down: Row  |  Left/Right: Change  |  Enter: Select  |  Tab: Scores  |  Q: Quit")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, panel, "", controls))
}

// Selected returns the selection, or nil if still choosing.
func (m SetupModel) Selected() *Selection {
	return m.selected
}

// WantsScoreboard returns true if user requested the scoreboard.
func (m SetupModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// IsQuitting returns true if user wants to quit.
func (m SetupModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the runtime config with the highlighted variant applied.
func (m SetupModel) Config() core.RuntimeConfig {
	cfg := m.config
	cfg.Base = m.base
	cfg.Mode = string(m.mode)
	return cfg
}

// RunSetup runs the setup menu on its own and returns the selection, or
// nil if the user quit or asked for the scoreboard.
func RunSetup(store *storage.Store, cfg core.RuntimeConfig) (*Selection, core.RuntimeConfig, error) {
	p := tea.NewProgram(
		NewSetupModel(store, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, cfg, err
	}

	m, ok := finalModel.(SetupModel)
	if !ok {
		return nil, cfg, nil
	}
	return m.Selected(), m.Config(), nil
}
