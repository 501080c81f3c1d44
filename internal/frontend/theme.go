package frontend

import "github.com/gdamore/tcell/v2"

// Theme holds the styles used to draw the screen.
type Theme struct {
	Text         tcell.Style
	Match        tcell.Style
	Current      tcell.Style
	Bar          tcell.Style
	Input        tcell.Style
	InputFocused tcell.Style
	ToggleOn     tcell.Style
	ToggleOff    tcell.Style
	Label        tcell.Style
	Status       tcell.Style
}

// DefaultTheme returns the default styles.
func DefaultTheme() Theme {
	base := tcell.StyleDefault
	return Theme{
		Text:         base,
		Match:        base.Background(tcell.Color58).Foreground(tcell.ColorWhite),
		Current:      base.Background(tcell.Color214).Foreground(tcell.ColorBlack),
		Bar:          base.Background(tcell.Color236).Foreground(tcell.Color252),
		Input:        base.Background(tcell.Color238).Foreground(tcell.ColorWhite),
		InputFocused: base.Background(tcell.Color24).Foreground(tcell.ColorWhite),
		ToggleOn:     base.Background(tcell.Color33).Foreground(tcell.ColorWhite),
		ToggleOff:    base.Background(tcell.Color236).Foreground(tcell.Color244),
		Label:        base.Background(tcell.Color236).Foreground(tcell.Color250),
		Status:       base.Reverse(true),
	}
}
