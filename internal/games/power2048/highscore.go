package power2048

import (
	"strconv"
	"strings"
)

const highScorePrefix = "power2048_highscore_base_"

// HighScoreKey returns the persistence key for a (base, mode) pair.
// Classic games and each timed length keep separate records.
func HighScoreKey(base int, mode Mode) string {
	key := highScorePrefix + strconv.Itoa(base)
	if mode.Timed() {
		key += "_time_" + strconv.Itoa(mode.Seconds())
	}
	return key
}

// ParseHighScore converts a stored value to a score.
// Missing, malformed and negative values read as 0.
func ParseHighScore(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
