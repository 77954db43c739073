package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Size is the board dimension.
const Size = 4

// Board is a Size x Size grid of tile values; 0 is an empty cell.
type Board [Size][Size]int

// Cell addresses a board position.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists all move directions.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// ErrUnknownDirection is returned by ParseDirection for unrecognized input.
var ErrUnknownDirection = errors.New("engine: unknown direction")

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection converts a name like "left" or "Up" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// orientation maps a direction onto the single leftward reducer:
// columns selects column vectors instead of rows, reversed flips each
// vector before and after reduction.
func (d Direction) orientation() (columns, reversed bool) {
	switch d {
	case DirUp:
		return true, false
	case DirDown:
		return true, true
	case DirRight:
		return false, true
	default:
		return false, false
	}
}

// MoveResult describes the outcome of applying a move to a board.
type MoveResult struct {
	Board  Board  // Board after the move (no spawn)
	Moved  bool   // Whether any row or column changed
	Gained int    // Total merge score
	Merged []Cell // Board positions of tiles created by merges
}

// ApplyMove slides and merges every row or column in the given direction.
// The input board is not modified.
func ApplyMove(board Board, dir Direction, base int) MoveResult {
	columns, reversed := dir.orientation()
	result := MoveResult{Board: board}

	for i := range Size {
		line := board.line(i, columns)
		work := line
		if reversed {
			work = reverseLine(work)
		}

		reduced := Reduce(work[:], base)
		var out [Size]int
		copy(out[:], reduced.Values)
		if reversed {
			out = reverseLine(out)
		}

		if out != line {
			result.Moved = true
		}
		result.Gained += reduced.Gained
		result.Board.setLine(i, columns, out)

		for _, idx := range reduced.Merged {
			if reversed {
				idx = Size - 1 - idx
			}
			if columns {
				result.Merged = append(result.Merged, Cell{Row: idx, Col: i})
			} else {
				result.Merged = append(result.Merged, Cell{Row: i, Col: idx})
			}
		}
	}

	return result
}

// line extracts row i, or column i when columns is set.
func (b Board) line(i int, columns bool) [Size]int {
	if !columns {
		return b[i]
	}
	var col [Size]int
	for r := range Size {
		col[r] = b[r][i]
	}
	return col
}

// setLine scatters values back into row i, or column i when columns is set.
func (b *Board) setLine(i int, columns bool, values [Size]int) {
	if !columns {
		b[i] = values
		return
	}
	for r := range Size {
		b[r][i] = values[r]
	}
}

// reverseLine reverses a line.
func reverseLine(line [Size]int) [Size]int {
	var result [Size]int
	for i := range Size {
		result[i] = line[Size-1-i]
	}
	return result
}

// EmptyCells returns the coordinates of all empty cells in row-major order.
func (b Board) EmptyCells() []Cell {
	var cells []Cell
	for r := range Size {
		for c := range Size {
			if b[r][c] == 0 {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return cells
}

// MaxTile returns the maximum tile value on the board.
func (b Board) MaxTile() int {
	maxVal := 0
	for r := range Size {
		for c := range Size {
			if b[r][c] > maxVal {
				maxVal = b[r][c]
			}
		}
	}
	return maxVal
}

// String renders the board as rows of right-aligned numbers.
func (b Board) String() string {
	var sb strings.Builder
	for r := range Size {
		for c := range Size {
			fmt.Fprintf(&sb, "%6d", b[r][c])
		}
		if r < Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
