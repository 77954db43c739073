// Package engine implements the board transition rules of Power 2048: line
// reduction, directional moves, tile spawning and terminal detection.
// It is pure and has no knowledge of timers, persistence or rendering.
package engine

// Bases lists the supported merge bases in display order.
var Bases = []int{2, 3, 4, 5}

// targetTiles maps a base to the tile value that wins the game.
var targetTiles = map[int]int{
	2: 2048,
	3: 6561,  // 3^8
	4: 65536, // 4^8
	5: 78125, // 5^7
}

// ColorLevels is the number of distinct tile color levels.
const ColorLevels = 11

// ValidBase reports whether base is one of the supported bases.
func ValidBase(base int) bool {
	_, ok := targetTiles[base]
	return ok
}

// TargetTile returns the winning tile value for base, or 0 for an unknown base.
func TargetTile(base int) int {
	return targetTiles[base]
}

// Exponent returns k such that value == base^k, k >= 1.
// The second result is false if value is not an exact power of base.
func Exponent(value, base int) (int, bool) {
	if value < base || base < 2 {
		return 0, false
	}
	k := 0
	for value > 1 {
		if value%base != 0 {
			return 0, false
		}
		value /= base
		k++
	}
	return k, true
}

// ColorLevel maps a tile value to a color level in [1, ColorLevels].
// Returns 0 for empty cells and values that are not powers of base.
func ColorLevel(value, base int) int {
	exp, ok := Exponent(value, base)
	if !ok {
		return 0
	}
	if exp > ColorLevels {
		return ColorLevels
	}
	return exp
}
