// Package tui provides the Bubble Tea front end for Power 2048: the game
// screen, the setup menu, the scoreboard and the SSH host.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/power2048/internal/games/power2048"
)

// SecondMsg is one elapsed countdown second for a game generation.
// Ticks for another game or an earlier generation are dropped.
type SecondMsg struct {
	Game       *power2048.State
	Generation uint64
}

// secondTick schedules the next countdown second for a generation.
func secondTick(game *power2048.State, generation uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return SecondMsg{Game: game, Generation: generation}
	})
}
