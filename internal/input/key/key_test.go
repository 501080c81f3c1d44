package key

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want Event
	}{
		{"a", NewRuneEvent('a', ModNone)},
		{"A", NewRuneEvent('A', ModNone)},
		{"Enter", NewEvent(KeyEnter, ModNone)},
		{"esc", NewEvent(KeyEscape, ModNone)},
		{"F3", NewEvent(KeyF3, ModNone)},
		{"Shift+F3", NewEvent(KeyF3, ModShift)},
		{"Ctrl+F", NewRuneEvent('f', ModCtrl)},
		{"ctrl+shift+p", NewRuneEvent('p', ModCtrl|ModShift)},
		{"<C-h>", NewRuneEvent('h', ModCtrl)},
		{"<S-F3>", NewEvent(KeyF3, ModShift)},
		{"<CR>", NewEvent(KeyEnter, ModNone)},
		{"<S-CR>", NewEvent(KeyEnter, ModShift)},
		{"Ctrl+Space", NewRuneEvent(' ', ModCtrl)},
		{"Ctrl++", NewRuneEvent('+', ModCtrl)},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec)
			require.NoError(t, err)
			assert.True(t, got.Equals(tt.want), "Parse(%q) = %s, want %s", tt.spec, got, tt.want)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("  ")
	assert.ErrorIs(t, err, ErrEmptySpec)

	for _, spec := range []string{"Hyper+F", "Ctrl+nope", "<X-a>"} {
		_, err := Parse(spec)
		assert.ErrorIs(t, err, ErrInvalidSpec, "Parse(%q)", spec)
	}
}

func TestEventStringRoundTrip(t *testing.T) {
	for _, ev := range []Event{
		NewRuneEvent('f', ModCtrl),
		NewEvent(KeyF3, ModShift),
		NewEvent(KeyEscape, ModNone),
		NewRuneEvent(' ', ModAlt),
		NewEvent(KeyPageDown, ModCtrl|ModAlt),
	} {
		got, err := Parse(ev.String())
		require.NoError(t, err, "Parse(%q)", ev.String())
		assert.True(t, got.Equals(ev), "round trip of %q gave %s", ev.String(), got)
	}
}

func TestFromTcell(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
	}{
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlF, 0, tcell.ModCtrl), "Ctrl+F"},
		{"function key", tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModNone), "F3"},
		{"shift function key", tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModShift), "Shift+F3"},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "Enter"},
		{"shift enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModShift), "Shift+Enter"},
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), "q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromTcell(tt.ev)
			assert.True(t, got.Equals(MustParse(tt.want)), "FromTcell = %s, want %s", got, tt.want)
		})
	}
}

func TestEventIsChar(t *testing.T) {
	assert.True(t, NewRuneEvent('x', ModNone).IsChar(), "plain rune should be a char")
	assert.False(t, NewRuneEvent('x', ModCtrl).IsChar(), "ctrl rune should not be a char")
	assert.False(t, NewEvent(KeyEnter, ModNone).IsChar(), "enter should not be a char")
}
