package power2048

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/vovakirdan/power2048/internal/core"
	"github.com/vovakirdan/power2048/internal/engine"
)

const (
	cellWidth  = 8 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)
	hudHeight  = 4

	boardW = engine.Size*cellWidth + 1
	boardH = engine.Size*cellHeight + 1

	// MinScreenW and MinScreenH are the smallest screen the board fits on.
	MinScreenW = boardW + 2
	MinScreenH = hudHeight + boardH + 3
)

// TileColor returns the display color for a tile value under base.
func TileColor(value, base int) core.Color {
	return core.TileRamp(engine.ColorLevel(value, base))
}

// Render draws the current game to the screen.
func (s *State) Render(dst *core.Screen) {
	RenderSnapshot(dst, s.Snapshot())
}

// RenderSnapshot draws a game snapshot centered on the screen.
func RenderSnapshot(dst *core.Screen, snap Snapshot) {
	dst.Clear()

	if dst.Width() < MinScreenW || dst.Height() < MinScreenH {
		renderTooSmall(dst)
		return
	}

	boardX := (dst.Width() - boardW) / 2
	boardY := hudHeight

	renderHUD(dst, snap, boardX)
	renderBoard(dst, snap, boardX, boardY)
	renderOverlay(dst, snap, core.NewRect(boardX, boardY, boardW, boardH))

	dst.DrawTextCenteredColor(boardY+boardH+1, Controls(), core.ColorGray)
}

func renderTooSmall(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", MinScreenW, MinScreenH))
}

// renderHUD draws the title, score line and variant info.
func renderHUD(dst *core.Screen, snap Snapshot, boardX int) {
	dst.DrawTextCenteredColor(0, fmt.Sprintf("POWER %d", snap.Target), core.ColorBrightYellow)

	score := fmt.Sprintf("Score: %d", snap.Score)
	best := fmt.Sprintf("Best: %d", snap.HighScore)
	dst.DrawText(boardX, 1, score)
	dst.DrawText(boardX+boardW-utf8.RuneCountInString(best), 1, best)

	timeColor := core.ColorDefault
	if snap.Mode.Timed() && snap.TimeRemaining <= 10 {
		timeColor = core.ColorBrightRed
	}
	dst.DrawText(boardX, 2, fmt.Sprintf("Base %d  Target %d", snap.Base, snap.Target))
	timeStr := "Time: " + snap.TimeLabel()
	dst.DrawTextColor(boardX+boardW-utf8.RuneCountInString(timeStr), 2, timeStr, timeColor)
}

// renderBoard draws the 4x4 grid with tiles.
func renderBoard(dst *core.Screen, snap Snapshot, boardX, boardY int) {
	const n = engine.Size
	for y := range n + 1 {
		for x := range n + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight
			dst.SetColor(px, py, gridCorner(x, y), core.ColorGray)

			if x < n {
				for i := 1; i < cellWidth; i++ {
					dst.SetColor(px+i, py, '─', core.ColorGray)
				}
			}
			if y < n {
				for i := 1; i < cellHeight; i++ {
					dst.SetColor(px, py+i, '│', core.ColorGray)
				}
			}
		}
	}

	for row := range n {
		for col := range n {
			val := snap.Board[row][col]
			if val == 0 {
				continue
			}

			text := strconv.Itoa(val)
			switch {
			case snap.IsMerged(row, col):
				text = "*" + text
			case snap.IsSpawned(row, col):
				text = "+" + text
			}

			cellX := boardX + col*cellWidth + 1
			cellY := boardY + row*cellHeight + 1
			padLeft := max((cellWidth-1-len(text))/2, 0)
			dst.DrawTextColor(cellX+padLeft, cellY, text, TileColor(val, snap.Base))
		}
	}
}

func gridCorner(x, y int) rune {
	const n = engine.Size
	switch {
	case y == 0 && x == 0:
		return '┌'
	case y == 0 && x == n:
		return '┐'
	case y == n && x == 0:
		return '└'
	case y == n && x == n:
		return '┘'
	case y == 0:
		return '┬'
	case y == n:
		return '┴'
	case x == 0:
		return '├'
	case x == n:
		return '┤'
	default:
		return '┼'
	}
}

// renderOverlay draws the end-of-game message over the board.
func renderOverlay(dst *core.Screen, snap Snapshot, board core.Rect) {
	cx, cy := board.Center()
	maxStr := fmt.Sprintf("Max tile: %d", snap.MaxTile)
	scoreStr := fmt.Sprintf("Score: %d", snap.Score)

	switch snap.Status {
	case StatusWon:
		drawOverlay(dst, cx, cy, core.ColorBrightGreen, "YOU WIN!", scoreStr, "Press R to play again")
	case StatusLostTimeUp:
		drawOverlay(dst, cx, cy, core.ColorBrightRed, "TIME'S UP", scoreStr, "Press R to restart")
	case StatusLostNoMoves:
		drawOverlay(dst, cx, cy, core.ColorBrightRed, "GAME OVER", maxStr, "Press R to restart")
	}
}

func drawOverlay(dst *core.Screen, cx, cy int, c core.Color, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(line))
	}

	box := core.CenteredRect(cx, cy, maxLen+4, len(lines)+2)
	dst.Fill(box, ' ', core.ColorDefault)
	dst.DrawBox(box, c)

	for i, line := range lines {
		x := cx - utf8.RuneCountInString(line)/2
		color := core.ColorDefault
		if i == 0 {
			color = c
		}
		dst.DrawTextColor(x, box.Y+1+i, line, color)
	}
}

// Controls returns the control hints for the game.
func Controls() string {
	return "Arrows/WASD: Move  R: Restart  B: Base  M: Mode  Esc: Menu  Q: Quit"
}
