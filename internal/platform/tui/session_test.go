package tui

import (
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/power2048/internal/games/power2048"
)

func updateSetup(m SetupModel, msg tea.Msg) SetupModel {
	next, _ := m.Update(msg)
	return next.(SetupModel)
}

func updateSession(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update() returned %T, want SessionModel", next)
	}
	return sm, cmd
}

func TestSetupCyclesVariant(t *testing.T) {
	m := NewSetupModel(nil, testConfig(2, "classic"))
	up := tea.KeyMsg{Type: tea.KeyUp}
	left := tea.KeyMsg{Type: tea.KeyLeft}
	right := tea.KeyMsg{Type: tea.KeyRight}

	// Cursor starts on "Start game"; two rows up is the base row.
	m = updateSetup(m, up)
	m = updateSetup(m, up)
	m = updateSetup(m, left)
	if got := m.Config().Base; got != 5 {
		t.Errorf("Base after left from 2 = %d, want 5", got)
	}
	m = updateSetup(m, right)
	m = updateSetup(m, right)
	if got := m.Config().Base; got != 3 {
		t.Errorf("Base = %d, want 3", got)
	}

	m = updateSetup(m, tea.KeyMsg{Type: tea.KeyDown})
	m = updateSetup(m, left)
	if got := m.Config().Mode; got != string(power2048.Mode300) {
		t.Errorf("Mode after left from classic = %q, want %q", got, power2048.Mode300)
	}

	m = updateSetup(m, tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(SetupModel)
	sel := m.Selected()
	if sel == nil {
		t.Fatal("Selected() = nil after enter on start row")
	}
	if sel.Base != 3 || sel.Mode != power2048.Mode300 {
		t.Errorf("Selected() = %+v, want base 3 mode 300", *sel)
	}
	if cmd == nil {
		t.Error("selecting should return tea.Quit")
	}
}

func TestSetupFallsBackOnBadConfig(t *testing.T) {
	m := NewSetupModel(nil, testConfig(9, "forever"))
	cfg := m.Config()
	if cfg.Base != 2 || cfg.Mode != string(power2048.ModeClassic) {
		t.Errorf("Config() = base %d mode %q, want base 2 classic", cfg.Base, cfg.Mode)
	}
}

func TestSetupShowsStoredBest(t *testing.T) {
	store := openTestStore(t)
	if err := store.Set(power2048.HighScoreKey(4, power2048.Mode60), "1234"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	m := NewSetupModel(store, testConfig(4, "60"))
	m = updateSetup(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	if !strings.Contains(view, "1234") {
		t.Error("View() should show the stored best score")
	}
	if !strings.Contains(view, strconv.Itoa(65536)) {
		t.Error("View() should show the target for base 4")
	}
}

func TestScoreboardCyclesVariants(t *testing.T) {
	start := Variant{Base: 5, Mode: power2048.Mode300}
	m := NewScoreboardModel(nil, start, 100, 30)
	if got := m.variants[m.cursor]; got != start {
		t.Fatalf("start variant = %v, want %v", got, start)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if got := m.variants[m.cursor]; got != AllVariants()[0] {
		t.Errorf("tab from last variant = %v, want %v", got, AllVariants()[0])
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(ScoreboardModel)
	if !m.IsGoingBack() {
		t.Error("esc should go back")
	}
}

func TestAllVariants(t *testing.T) {
	variants := AllVariants()
	if len(variants) != 16 {
		t.Fatalf("len(AllVariants()) = %d, want 16", len(variants))
	}
	seen := make(map[Variant]bool)
	for _, v := range variants {
		if seen[v] {
			t.Errorf("duplicate variant %v", v)
		}
		seen[v] = true
	}
}

func TestSessionPhases(t *testing.T) {
	m := NewSessionModel(nil, testConfig(3, "30"), "tester", nil)
	m, _ = updateSession(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})

	m, cmd := updateSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.phase != phaseGame {
		t.Fatalf("phase after enter = %d, want game", m.phase)
	}
	if cmd == nil {
		t.Error("timed game should start its countdown")
	}
	if got := m.game.State().Base(); got != 3 {
		t.Errorf("game base = %d, want 3", got)
	}

	// Switch base in game, then leave: setup remembers the variant.
	m, _ = updateSession(t, m, runeKey("b"))
	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.phase != phaseSetup {
		t.Fatalf("phase after esc = %d, want setup", m.phase)
	}
	if got := m.setup.Config().Base; got != 4 {
		t.Errorf("setup base = %d, want 4", got)
	}

	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.phase != phaseScoreboard {
		t.Fatalf("phase after tab = %d, want scoreboard", m.phase)
	}

	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.phase != phaseSetup {
		t.Fatalf("phase after scoreboard esc = %d, want setup", m.phase)
	}

	m, cmd = updateSession(t, m, runeKey("q"))
	if !m.quitting || cmd == nil {
		t.Error("q in setup should quit the session")
	}
	if m.View() != "" {
		t.Error("quitting session should render nothing")
	}
}
