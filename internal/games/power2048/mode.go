package power2048

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/power2048/internal/engine"
)

// Mode selects between untimed play and a countdown length.
type Mode string

const (
	ModeClassic Mode = "classic"
	Mode30      Mode = "30"
	Mode60      Mode = "60"
	Mode300     Mode = "300"
)

// Modes lists all modes in menu order.
var Modes = []Mode{ModeClassic, Mode30, Mode60, Mode300}

var modeSeconds = map[Mode]int{
	ModeClassic: 0,
	Mode30:      30,
	Mode60:      60,
	Mode300:     300,
}

var (
	// ErrInvalidMode is returned for a mode outside Modes.
	ErrInvalidMode = errors.New("power2048: invalid mode")
	// ErrInvalidBase is returned for a base outside engine.Bases.
	ErrInvalidBase = errors.New("power2048: invalid base")
)

// ParseMode converts user input to a Mode. "time_60" and "60s" are
// accepted as aliases for "60".
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "time_")
	s = strings.TrimSuffix(s, "s")
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	return m, nil
}

// Valid reports whether m is one of Modes.
func (m Mode) Valid() bool {
	_, ok := modeSeconds[m]
	return ok
}

// Timed reports whether the mode runs a countdown.
func (m Mode) Timed() bool {
	return modeSeconds[m] > 0
}

// Seconds returns the countdown length; 0 for classic.
func (m Mode) Seconds() int {
	return modeSeconds[m]
}

// Label returns a short display name, e.g. "Classic" or "1:00".
func (m Mode) Label() string {
	if !m.Timed() {
		return "Classic"
	}
	return FormatTime(m.Seconds())
}

// Next returns the mode after m in menu order, wrapping around.
func (m Mode) Next() Mode {
	for i, candidate := range Modes {
		if candidate == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeClassic
}

// NextBase returns the base after b in menu order, wrapping around.
func NextBase(b int) int {
	for i, candidate := range engine.Bases {
		if candidate == b {
			return engine.Bases[(i+1)%len(engine.Bases)]
		}
	}
	return engine.Bases[0]
}

// ValidateBase returns a wrapped ErrInvalidBase for unsupported bases.
func ValidateBase(b int) error {
	if !engine.ValidBase(b) {
		return fmt.Errorf("%w: %d", ErrInvalidBase, b)
	}
	return nil
}

// FormatTime renders seconds as "Ns" under a minute and "M:SS" otherwise.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
