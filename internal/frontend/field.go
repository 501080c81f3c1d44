package frontend

import (
	"github.com/dshills/adxstudio/internal/input/key"
)

// Field is a single-line text input.
type Field struct {
	text   []rune
	cursor int
}

// String returns the field contents.
func (f *Field) String() string { return string(f.text) }

// Cursor returns the cursor position in runes.
func (f *Field) Cursor() int { return f.cursor }

// Set replaces the contents and moves the cursor to the end.
func (f *Field) Set(s string) {
	f.text = []rune(s)
	f.cursor = len(f.text)
}

// HandleKey applies an editing key. It reports whether the key was
// consumed and whether the contents changed.
func (f *Field) HandleKey(ev key.Event) (consumed, changed bool) {
	if ev.IsChar() {
		f.text = append(f.text[:f.cursor], append([]rune{ev.Rune}, f.text[f.cursor:]...)...)
		f.cursor++
		return true, true
	}
	if !ev.Modifiers.IsEmpty() {
		return false, false
	}

	switch ev.Key {
	case key.KeyBackspace:
		if f.cursor == 0 {
			return true, false
		}
		f.text = append(f.text[:f.cursor-1], f.text[f.cursor:]...)
		f.cursor--
		return true, true
	case key.KeyDelete:
		if f.cursor == len(f.text) {
			return true, false
		}
		f.text = append(f.text[:f.cursor], f.text[f.cursor+1:]...)
		return true, true
	case key.KeyLeft:
		f.cursor = max(f.cursor-1, 0)
	case key.KeyRight:
		f.cursor = min(f.cursor+1, len(f.text))
	case key.KeyHome:
		f.cursor = 0
	case key.KeyEnd:
		f.cursor = len(f.text)
	default:
		return false, false
	}
	return true, false
}
