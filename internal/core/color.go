package core

// Color is a foreground color for a screen cell. Hosts translate it to an
// ANSI 256-color code with ANSI.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightWhite
	ColorOrange
	ColorGray
)

var ansiCodes = [...]string{
	ColorDefault:       "",
	ColorRed:           "1",
	ColorGreen:         "2",
	ColorYellow:        "3",
	ColorBlue:          "4",
	ColorMagenta:       "5",
	ColorCyan:          "6",
	ColorWhite:         "7",
	ColorBrightRed:     "9",
	ColorBrightGreen:   "10",
	ColorBrightYellow:  "11",
	ColorBrightBlue:    "12",
	ColorBrightMagenta: "13",
	ColorBrightWhite:   "15",
	ColorOrange:        "208",
	ColorGray:          "245",
}

// ANSI returns the 256-color code for c, or "" for the terminal default.
func (c Color) ANSI() string {
	if int(c) >= len(ansiCodes) {
		return ""
	}
	return ansiCodes[c]
}

// Bold reports whether c is drawn bold. The warm high-tile colors are.
func (c Color) Bold() bool {
	switch c {
	case ColorBrightRed, ColorBrightYellow, ColorBrightBlue, ColorBrightMagenta, ColorOrange:
		return true
	}
	return false
}

// tileRamp runs from the smallest tile to the target: pale, then warm, then
// cool, ending on gold.
var tileRamp = [...]Color{
	ColorWhite,
	ColorBrightWhite,
	ColorYellow,
	ColorOrange,
	ColorBrightRed,
	ColorRed,
	ColorMagenta,
	ColorBrightMagenta,
	ColorBrightBlue,
	ColorCyan,
	ColorBrightYellow,
}

// RampLevels is the number of distinct tile colors.
const RampLevels = len(tileRamp)

// TileRamp returns the color for a 1-based tile level. Level 0 (an empty
// cell) is the default color; levels past the ramp reuse its last color.
func TileRamp(level int) Color {
	if level <= 0 {
		return ColorDefault
	}
	if level > RampLevels {
		level = RampLevels
	}
	return tileRamp[level-1]
}
