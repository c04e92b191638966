package core

// Color represents a foreground color for a screen cell.
// The platform maps these to ANSI 256-color codes.
type Color uint8

// Predefined colors. Piece kinds map onto the first seven bright colors.
const (
	ColorDefault Color = iota
	ColorCyan
	ColorYellow
	ColorMagenta
	ColorGreen
	ColorRed
	ColorBlue
	ColorOrange
	ColorGray
	ColorDarkGray
	ColorWhite
	ColorBrightWhite
)
