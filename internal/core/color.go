package core

// Color is the foreground of a screen cell. The terminal front end maps each
// value to an ANSI 256 color; everything else only compares them.
type Color uint8

// Base palette. Tiles climb through it as their value doubles.
const (
	ColorDefault Color = iota
	ColorWhite
	ColorBrightWhite
	ColorYellow
	ColorOrange
	ColorRed
	ColorBrightRed
	ColorBrightYellow
	ColorGreen
	ColorBrightGreen
	ColorCyan
	ColorBrightCyan
	ColorMagenta
	ColorBrightMagenta
	ColorGray
)

// Roles used by board renderers.
const (
	ColorGrid   = ColorGray
	ColorTitle  = ColorBrightYellow
	ColorSpawn  = ColorBrightGreen // Tile spawned by the latest move
	ColorMerge  = ColorBrightCyan  // Tile produced by a merge on the latest move
	ColorWin    = ColorBrightGreen
	ColorLoss   = ColorBrightRed
)
