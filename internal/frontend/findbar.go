package frontend

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/adxstudio/internal/find"
)

// FindBarHeight is the number of rows the find bar takes. Sessions shown
// by the terminal host shrink the viewport by this much.
const FindBarHeight = 2

const (
	labelFind    = " Find:    "
	labelReplace = " Replace: "
	hintFind     = "Enter next  Shift+Enter previous  Alt+C case  Alt+W word  Alt+R regex  Esc close"
	hintReplace  = "Enter replace  Tab switch field"
)

// FindBar holds the pattern and replacement inputs.
type FindBar struct {
	Pattern     Field
	Replacement Field
}

type toggle struct {
	label string
	on    bool
}

// Draw paints the bar on rows y and y+1 and returns where the cursor
// belongs when focus is one of the inputs.
func (b *FindBar) Draw(screen tcell.Screen, y, width int, s *find.Session, focus find.FocusTarget, theme Theme) (cx, cy int, ok bool) {
	fill(screen, 0, y, width, theme.Bar)
	fill(screen, 0, y+1, width, theme.Bar)

	opts := s.Options()
	toggles := []toggle{
		{" Aa ", opts.CaseSensitive},
		{" W ", opts.WholeWord},
		{" .* ", opts.Regex},
	}
	summary := " " + s.Summary() + " "

	right := stringWidth(summary)
	for _, t := range toggles {
		right += stringWidth(t.label) + 1
	}

	fieldX := stringWidth(labelFind)
	fieldW := max(width-fieldX-right-1, 1)

	drawString(screen, 0, y, width, labelFind, theme.Bar)
	if x, found := drawField(screen, fieldX, y, fieldW, &b.Pattern, focus == find.FocusPattern, theme); found {
		cx, cy, ok = x, y, true
	}

	x := fieldX + fieldW + 1
	for _, t := range toggles {
		style := theme.ToggleOff
		if t.on {
			style = theme.ToggleOn
		}
		x = drawString(screen, x, y, width, t.label, style) + 1
	}
	drawString(screen, x, y, width, truncate(summary, width-x), theme.Label)

	if s.Mode() == find.ModeReplace {
		drawString(screen, 0, y+1, width, labelReplace, theme.Bar)
		if rx, found := drawField(screen, fieldX, y+1, fieldW, &b.Replacement, focus == find.FocusReplacement, theme); found {
			cx, cy, ok = rx, y+1, true
		}
		hx := fieldX + fieldW + 1
		drawString(screen, hx, y+1, width, truncate(hintReplace, width-hx), theme.Label)
	} else {
		drawString(screen, fieldX, y+1, width, truncate(hintFind, width-fieldX), theme.Label)
	}
	return cx, cy, ok
}

// drawField draws f in a box of w columns, scrolled so the cursor is
// visible, and returns the cursor column when focused.
func drawField(screen tcell.Screen, x, y, w int, f *Field, focused bool, theme Theme) (int, bool) {
	style := theme.Input
	if focused {
		style = theme.InputFocused
	}
	fill(screen, x, y, x+w, style)

	runes := f.text
	start := 0
	for start < f.cursor && stringWidth(string(runes[start:f.cursor])) >= w {
		start++
	}
	drawString(screen, x, y, x+w, string(runes[start:]), style)

	if !focused {
		return 0, false
	}
	return x + stringWidth(string(runes[start:f.cursor])), true
}
