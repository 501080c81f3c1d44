package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/adxstudio/internal/find"
	"github.com/dshills/adxstudio/internal/input/key"
)

func TestDefaultBindings(t *testing.T) {
	km := Default()

	tests := []struct {
		spec string
		want find.Command
	}{
		{"Ctrl+F", find.CommandFind},
		{"<C-h>", find.CommandReplace},
		{"F3", find.CommandFindNext},
		{"Shift+F3", find.CommandFindPrev},
	}

	for _, tt := range tests {
		got, ok := km.Lookup(key.MustParse(tt.spec))
		if assert.True(t, ok, "%s: not bound", tt.spec) {
			assert.Equal(t, tt.want, got, tt.spec)
		}
	}

	_, ok := km.Lookup(key.MustParse("Ctrl+G"))
	assert.False(t, ok, "Ctrl+G should not be bound")
}

func TestBindReplacesKey(t *testing.T) {
	km := Default()

	require.NoError(t, km.Bind(find.CommandFindNext, "Ctrl+N"))

	_, ok := km.Lookup(key.MustParse("F3"))
	assert.False(t, ok, "F3 should be unbound after rebinding")

	cmd, ok := km.Lookup(key.MustParse("Ctrl+N"))
	assert.True(t, ok)
	assert.Equal(t, find.CommandFindNext, cmd)

	spec, _ := km.KeyFor(find.CommandFindNext)
	assert.Equal(t, "Ctrl+N", spec)
}

func TestBindErrors(t *testing.T) {
	km := Default()

	assert.ErrorIs(t, km.Bind("save", "Ctrl+S"), ErrUnknownCommand)
	assert.ErrorIs(t, km.Bind(find.CommandFindNext, "Ctrl+F"), ErrConflict)
	assert.ErrorIs(t, km.Bind(find.CommandFindNext, "Hyper+X"), key.ErrInvalidSpec)
}

func TestUnbindAndList(t *testing.T) {
	km := Default()

	require.NoError(t, km.Bind(find.CommandReplace, ""))

	bindings := km.Bindings()
	require.Len(t, bindings, 3)
	want := []find.Command{find.CommandFind, find.CommandFindNext, find.CommandFindPrev}
	for i, b := range bindings {
		assert.Equal(t, want[i], b.Command, "binding %d", i)
	}
}
