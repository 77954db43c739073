package power2048

import (
	"slices"

	"github.com/vovakirdan/power2048/internal/engine"
)

// Snapshot is a read-only copy of a game for renderers and API clients.
type Snapshot struct {
	Board         engine.Board  `json:"board"`
	Base          int           `json:"base"`
	Mode          Mode          `json:"mode"`
	Target        int           `json:"target"`
	Score         int           `json:"score"`
	HighScore     int           `json:"high_score"`
	Moves         int           `json:"moves"`
	MaxTile       int           `json:"max_tile"`
	Status        Status        `json:"status"`
	TimeRemaining int           `json:"time_remaining"`
	Spawned       []engine.Cell `json:"spawned"`
	Merged        []engine.Cell `json:"merged"`
	Generation    uint64        `json:"generation"`
}

// Snapshot captures the current game state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Board:         s.board,
		Base:          s.base,
		Mode:          s.mode,
		Target:        engine.TargetTile(s.base),
		Score:         s.score,
		HighScore:     s.highScore,
		Moves:         s.moves,
		MaxTile:       s.board.MaxTile(),
		Status:        s.status,
		TimeRemaining: s.timeRemaining,
		Spawned:       cellsOrEmpty(s.spawned),
		Merged:        cellsOrEmpty(s.merged),
		Generation:    s.generation,
	}
}

// TimeLabel returns the countdown display, "∞" for classic games.
func (snap Snapshot) TimeLabel() string {
	if !snap.Mode.Timed() {
		return "∞"
	}
	return FormatTime(snap.TimeRemaining)
}

// IsSpawned reports whether the cell received a tile in the last transition.
func (snap Snapshot) IsSpawned(row, col int) bool {
	return slices.Contains(snap.Spawned, engine.Cell{Row: row, Col: col})
}

// IsMerged reports whether the cell was produced by a merge in the last move.
func (snap Snapshot) IsMerged(row, col int) bool {
	return slices.Contains(snap.Merged, engine.Cell{Row: row, Col: col})
}

func cellsOrEmpty(cells []engine.Cell) []engine.Cell {
	if len(cells) == 0 {
		return []engine.Cell{}
	}
	return slices.Clone(cells)
}
