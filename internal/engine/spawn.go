package engine

// Intn is the subset of *rand.Rand needed to pick a spawn cell.
type Intn interface {
	Intn(n int) int
}

// Spawn places a tile of value base into a uniformly random empty cell.
// Returns the chosen cell, or false if the board is full and unchanged.
func Spawn(board *Board, base int, rng Intn) (Cell, bool) {
	empty := board.EmptyCells()
	if len(empty) == 0 {
		return Cell{}, false
	}

	cell := empty[rng.Intn(len(empty))]
	board[cell.Row][cell.Col] = base
	return cell, true
}
