package engine

// HasAnyMove reports whether any move can change the board: an empty cell
// exists, or two orthogonally adjacent cells hold the same value.
// Diagonal and wraparound neighbours never count.
func HasAnyMove(board Board) bool {
	for r := range Size {
		for c := range Size {
			val := board[r][c]
			if val == 0 {
				return true
			}
			if c < Size-1 && board[r][c+1] == val {
				return true
			}
			if r < Size-1 && board[r+1][c] == val {
				return true
			}
		}
	}
	return false
}

// CheckWin reports whether any cell has reached target.
func CheckWin(board Board, target int) bool {
	return board.MaxTile() >= target
}
