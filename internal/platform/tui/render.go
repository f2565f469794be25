package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// palette maps core.Color to ANSI 256 colors. Bright entries are drawn bold
// so high tiles stand out on dark terminals.
var palette = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           fg("167"),
	core.ColorGreen:         fg("71"),
	core.ColorYellow:        fg("179"),
	core.ColorMagenta:       fg("170"),
	core.ColorCyan:          fg("73"),
	core.ColorWhite:         fg("252"),
	core.ColorBrightRed:     fg("203").Bold(true),
	core.ColorBrightGreen:   fg("120").Bold(true),
	core.ColorBrightYellow:  fg("227").Bold(true),
	core.ColorBrightMagenta: fg("213").Bold(true),
	core.ColorBrightCyan:    fg("123").Bold(true),
	core.ColorBrightWhite:   fg("231").Bold(true),
	core.ColorOrange:        fg("208"),
	core.ColorGray:          fg("240"),
}

func fg(code string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(code))
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color

			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}

			style, ok := palette[color]
			if !ok || color == core.ColorDefault {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
