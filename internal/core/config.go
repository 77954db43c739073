package core

// RuntimeConfig contains configuration passed to a game session at start.
// Hosts use it to size the screen and to seed deterministic play.
type RuntimeConfig struct {
	ScreenW int    // Screen width in characters
	ScreenH int    // Screen height in characters
	Seed    int64  // RNG seed for deterministic gameplay
	Base    int    // Merge base (2-5)
	Mode    string // "classic", "30", "60" or "300"
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Seed:    0, // 0 means use current time in platform layer
		Base:    2,
		Mode:    "classic",
	}
}

// KeyValueStore is a string key-value store used for high scores.
// Get returns an empty string and no error for a missing key.
type KeyValueStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
}
