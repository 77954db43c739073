package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/power2048/internal/engine"
	"github.com/vovakirdan/power2048/internal/games/power2048"
	"github.com/vovakirdan/power2048/internal/storage"
)

const (
	minWidthForSidebar = 80 // narrower terminals get the one-line switcher
	sidebarWidth       = 22
	maxScores          = 100
)

// Variant is one (base, mode) high score table.
type Variant struct {
	Base int
	Mode power2048.Mode
}

// Label returns a short display name such as "Base 3 1:00".
func (v Variant) Label() string {
	return fmt.Sprintf("Base %d %s", v.Base, v.Mode.Label())
}

// AllVariants lists every (base, mode) pair in menu order.
func AllVariants() []Variant {
	variants := make([]Variant, 0, len(engine.Bases)*len(power2048.Modes))
	for _, base := range engine.Bases {
		for _, mode := range power2048.Modes {
			variants = append(variants, Variant{Base: base, Mode: mode})
		}
	}
	return variants
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PrevMode    key.Binding
	NextMode    key.Binding
	NextVariant key.Binding
	PrevVariant key.Binding
	Toggle      key.Binding
	Back        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextVariant, k.NextMode, k.Toggle, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevMode, k.NextMode},
		{k.NextVariant, k.PrevVariant, k.Toggle},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev mode"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next mode"),
		),
		NextVariant: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next table"),
		),
		PrevVariant: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev table"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "top/recent"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel shows the finished games of one (base, mode) variant,
// either best first or newest first.
type ScoreboardModel struct {
	variants    []Variant
	cursor      int
	store       *storage.Store
	recent      bool // newest first instead of best first
	record      int  // kv high score, which also counts unfinished games
	stats       *storage.VariantStats
	scores      []storage.ScoreEntry
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewScoreboardModel creates a scoreboard opened on the given variant.
func NewScoreboardModel(store *storage.Store, start Variant, width, height int) ScoreboardModel {
	variants := AllVariants()
	cursor := 0
	for i, v := range variants {
		if v == start {
			cursor = i
		}
	}

	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		variants:    variants,
		cursor:      cursor,
		store:       store,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.loadScores()
	return m
}

// Selected returns the variant on display.
func (m ScoreboardModel) Selected() Variant {
	return m.variants[m.cursor]
}

func (m *ScoreboardModel) createTable() table.Model {
	first := "Rank"
	if m.recent {
		first = "#"
	}
	columns := []table.Column{
		{Title: first, Width: 6},
		{Title: "Score", Width: 10},
		{Title: "Tile", Width: 7},
		{Title: "Moves", Width: 6},
		{Title: "Player", Width: 10},
		{Title: "Date", Width: 12},
	}

	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	if tableWidth > 60 {
		columns[4].Width = min(tableWidth-50, 20)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadScores reloads the table, stats and stored best for the selection.
func (m *ScoreboardModel) loadScores() {
	m.scores = nil
	m.record = 0
	m.stats = nil
	if m.store == nil {
		m.updateTableRows()
		return
	}

	v := m.Selected()
	mode := string(v.Mode)
	var scores []storage.ScoreEntry
	var err error
	if m.recent {
		scores, err = m.store.RecentScores(v.Base, mode, maxScores)
	} else {
		scores, err = m.store.TopScores(v.Base, mode, maxScores)
	}
	if err == nil {
		m.scores = scores
	}
	if stats, err := m.store.Stats(v.Base, mode); err == nil {
		m.stats = stats
	}
	if raw, err := m.store.Get(power2048.HighScoreKey(v.Base, v.Mode)); err == nil {
		m.record, _ = power2048.ParseHighScore(raw)
	}
	m.updateTableRows()
}

func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			strconv.Itoa(s.Score),
			strconv.Itoa(s.MaxTile),
			strconv.Itoa(s.Moves),
			s.Player,
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// selectMode moves to the next or previous mode of the current base.
func (m *ScoreboardModel) selectMode(step int) {
	v := m.Selected()
	idx := slices.Index(power2048.Modes, v.Mode)
	n := len(power2048.Modes)
	v.Mode = power2048.Modes[(idx+step+n)%n]
	m.cursor = slices.Index(m.variants, v)
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextVariant):
			m.cursor = (m.cursor + 1) % len(m.variants)
			m.loadScores()
			return m, nil

		case key.Matches(msg, m.keys.PrevVariant):
			m.cursor = (m.cursor + len(m.variants) - 1) % len(m.variants)
			m.loadScores()
			return m, nil

		case key.Matches(msg, m.keys.NextMode):
			m.selectMode(1)
			m.loadScores()
			return m, nil

		case key.Matches(msg, m.keys.PrevMode):
			m.selectMode(-1)
			m.loadScores()
			return m, nil

		case key.Matches(msg, m.keys.Toggle):
			m.recent = !m.recent
			m.table = m.createTable()
			m.loadScores()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	heading := "HIGH SCORES"
	if m.recent {
		heading = "RECENT GAMES"
	}
	v := m.Selected()
	title := fmt.Sprintf("%s - %s  (target %d, best %d)",
		heading, v.Label(), engine.TargetTile(v.Base), m.record)
	b.WriteString(boardTitleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(centerText(m.statsLine(), m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// statsLine summarizes the selected variant's history.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return "no finished games"
	}
	return fmt.Sprintf("%d games  avg %.0f  best tile %d  last played %s",
		m.stats.GamesCount, m.stats.AvgScore, m.stats.BestTile,
		m.stats.LastPlayed.Format("Jan 02"))
}

// renderWideLayout lists every base with its modes beside the table.
func (m ScoreboardModel) renderWideLayout() string {
	sel := m.Selected()

	var sidebar strings.Builder
	for i, base := range engine.Bases {
		if i > 0 {
			sidebar.WriteString("\n")
		}
		header := fmt.Sprintf("Base %d", base)
		if base == sel.Base {
			header = boardTitleStyle.Render(header)
		}
		sidebar.WriteString(header + "\n")
		for _, mode := range power2048.Modes {
			line := "    " + mode.Label()
			if base == sel.Base && mode == sel.Mode {
				line = boardTitleStyle.Render("  > " + mode.Label())
			}
			sidebar.WriteString(line + "\n")
		}
	}

	list := panelStyle.Width(sidebarWidth).Render(strings.TrimRight(sidebar.String(), "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", panelStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout shows the base and a mode strip above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	sel := m.Selected()

	modes := make([]string, len(power2048.Modes))
	for i, mode := range power2048.Modes {
		modes[i] = mode.Label()
		if mode == sel.Mode {
			modes[i] = "[" + modes[i] + "]"
		}
	}
	switcher := fmt.Sprintf("< Base %d >  %s", sel.Base, strings.Join(modes, " "))

	var b strings.Builder
	b.WriteString(centerText(switcher, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(panelStyle.Render(m.renderTableContent()), m.width))
	return b.String()
}

func (m ScoreboardModel) renderTableContent() string {
	if len(m.scores) == 0 {
		return dimStyle.Italic(true).Padding(2, 4).
			Render("No games recorded yet.\nFinish a game to set a high score!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard on its own, as `scores --browse` does.
func RunScoreboard(store *storage.Store, start Variant, width, height int) error {
	_, err := tea.NewProgram(
		NewScoreboardModel(store, start, width, height),
		tea.WithAltScreen(),
	).Run()
	return err
}
