package frontend

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// tabWidth is the column stop used when drawing tabs.
const tabWidth = 4

// runeWidth returns the display width of r at column col.
func runeWidth(r rune, col int) int {
	if r == '\t' {
		return tabWidth - col%tabWidth
	}
	w := runewidth.RuneWidth(r)
	if w < 1 {
		w = 1
	}
	return w
}

// drawString draws s from (x, y), clipped at maxX, and returns the next
// free column.
func drawString(screen tcell.Screen, x, y, maxX int, s string, style tcell.Style) int {
	for _, r := range s {
		w := runeWidth(r, x)
		if x+w > maxX {
			break
		}
		if r == '\t' {
			for i := 0; i < w; i++ {
				screen.SetContent(x+i, y, ' ', nil, style)
			}
		} else {
			screen.SetContent(x, y, r, nil, style)
		}
		x += w
	}
	return x
}

// fill paints [x, maxX) on row y with style.
func fill(screen tcell.Screen, x, y, maxX int, style tcell.Style) {
	for ; x < maxX; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
}

// truncate shortens s to at most width display columns, marking the cut
// with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// stringWidth returns the display width of s.
func stringWidth(s string) int {
	return runewidth.StringWidth(s)
}
