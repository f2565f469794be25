package t2048

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/share"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)
	hudHeight  = 3
)

// minScreenSize returns the smallest screen that fits a board plus HUD and hints.
func minScreenSize(size int) (int, int) {
	boardW, boardH := BoardExtent(size)
	return max(boardW, 40), hudHeight + 1 + boardH + 2
}

// TileColor picks the foreground color for a tile value.
func TileColor(value int) core.Color {
	switch value {
	case 2:
		return core.ColorWhite
	case 4:
		return core.ColorBrightWhite
	case 8:
		return core.ColorYellow
	case 16:
		return core.ColorOrange
	case 32:
		return core.ColorRed
	case 64:
		return core.ColorBrightRed
	case 128:
		return core.ColorBrightYellow
	case 256:
		return core.ColorGreen
	case 512:
		return core.ColorBrightGreen
	case 1024:
		return core.ColorCyan
	case 2048:
		return core.ColorBrightMagenta
	default:
		return core.ColorMagenta
	}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	snap := g.Snapshot()

	boardW, boardH := BoardExtent(g.size)

	boardX := max((g.screenW-boardW)/2, 0)
	boardY := hudHeight + 1

	g.renderHUD(dst, snap, boardX, boardW)
	DrawBoard(dst, snap.Board, boardX, boardY)
	g.renderOverlays(dst, snap, boardX, boardY, boardW, boardH)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	minW, minH := minScreenSize(g.size)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minW, minH))
}

// renderHUD draws the title, score and best tile.
func (g *Game) renderHUD(dst *core.Screen, snap GameState, boardX, boardW int) {
	title := g.Title()
	dst.DrawTextColor(boardX+(boardW-len(title))/2, 0, title, core.ColorTitle)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", snap.Score))

	info := fmt.Sprintf("Max: %d", snap.MaxTile())
	dst.DrawText(max(boardX+boardW-len(info), boardX), 1, info)

	moves := fmt.Sprintf("Moves: %d", len(g.moves))
	dst.DrawText(boardX+(boardW-len(moves))/2, 2, moves)
}

// DrawBoard draws the grid and its tiles at (boardX, boardY). Spawned tiles
// are drawn green, freshly merged ones bright cyan, everything else by value.
func DrawBoard(dst *core.Screen, board Board, boardX, boardY int) {
	size := board.Size()

	for y := range size + 1 {
		for x := range size + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == size:
				corner = '┐'
			case y == size && x == 0:
				corner = '└'
			case y == size && x == size:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == size:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == size:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.SetCell(px, py, corner, core.ColorGrid)

			if x < size {
				dst.DrawHLine(px+1, py, cellWidth-1, '─', core.ColorGrid)
			}
			if y < size {
				dst.DrawVLine(px, py+1, cellHeight-1, '│', core.ColorGrid)
			}
		}
	}

	for row := range size {
		for col := range size {
			tile := board[row][col]
			if tile == nil {
				continue
			}

			cellX := boardX + col*cellWidth + 1
			cellY := boardY + row*cellHeight + 1

			label := strconv.Itoa(tile.Value)
			pad := max((cellWidth-1-len(label))/2, 0)

			color := TileColor(tile.Value)
			switch {
			case tile.IsNew:
				color = core.ColorSpawn
			case tile.Merged():
				color = core.ColorMerge
			}
			dst.DrawTextColor(cellX+pad, cellY, label, color)
		}
	}
}

// renderOverlays draws the win and game over boxes.
func (g *Game) renderOverlays(dst *core.Screen, snap GameState, boardX, boardY, boardW, boardH int) {
	centerX := boardX + boardW/2
	centerY := boardY + boardH/2

	switch snap.Status() {
	case StatusWon:
		drawOverlay(dst, centerX, centerY, core.ColorWin,
			"YOU WIN!",
			fmt.Sprintf("Score: %d", snap.Score),
			"N: new game")
	case StatusOver:
		drawOverlay(dst, centerX, centerY, core.ColorLoss,
			"GAME OVER",
			fmt.Sprintf("Max tile: %d", snap.MaxTile()),
			"N: new game")
	default:
		return
	}

	// Share line under the board
	dst.DrawTextCentered(boardY+boardH+1, share.Text(snap.Score))
}

// drawOverlay draws a centered text box.
func drawOverlay(dst *core.Screen, centerX, centerY int, color core.Color, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	box := core.CenteredRect(centerX, centerY, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	for i, line := range lines {
		c := core.ColorDefault
		if i == 0 {
			c = color
		}
		dst.DrawTextColor(centerX-len(line)/2, box.Y+1+i, line, c)
	}
}

// BoardExtent returns the width and height DrawBoard uses for a board size.
func BoardExtent(size int) (int, int) {
	return size*cellWidth + 1, size*cellHeight + 1
}
