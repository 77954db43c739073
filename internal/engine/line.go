package engine

// LineResult is the outcome of reducing a single line.
type LineResult struct {
	Values []int // Reduced line, same length as the input
	Gained int   // Sum of all tiles created by merges
	Merged []int // Destination indices of merged tiles
}

// Reduce slides and merges a line toward index 0.
// Each tile merges at most once per call, so [2,2,2,2] becomes [4,4,0,0]
// with base 2, never [8,0,0,0].
func Reduce(line []int, base int) LineResult {
	result := LineResult{Values: make([]int, len(line))}
	writePos := 0
	canMerge := false // Whether Values[writePos-1] may still absorb a tile

	for _, v := range line {
		if v == 0 {
			continue
		}

		if canMerge && result.Values[writePos-1] == v {
			merged := v * base
			result.Values[writePos-1] = merged
			result.Gained += merged
			result.Merged = append(result.Merged, writePos-1)
			canMerge = false
			continue
		}

		result.Values[writePos] = v
		writePos++
		canMerge = true
	}

	return result
}
