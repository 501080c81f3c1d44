package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/adxstudio/internal/engine/buffer"
)

func TestSelectionRange(t *testing.T) {
	fwd := NewSelection(2, 5)
	back := NewSelection(5, 2)

	assert.Equal(t, fwd.Range(), back.Range())
	assert.Equal(t, Range{Start: 2, End: 5}, fwd.Range())
	assert.Equal(t, ByteOffset(2), back.Cursor())
	assert.True(t, NewCursorSelection(3).IsEmpty())
	assert.Equal(t, NewSelection(0, 10), NewSelection(-1, 20).Clamp(10))
}

func TestTransformOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset ByteOffset
		edit   Edit
		want   ByteOffset
	}{
		{"insert before", 5, buffer.NewInsert(0, "ab"), 7},
		{"insert at offset", 5, buffer.NewInsert(5, "ab"), 7},
		{"insert after", 5, buffer.NewInsert(6, "ab"), 5},
		{"delete before", 5, buffer.NewDelete(0, 2), 3},
		{"delete spanning", 5, buffer.NewDelete(3, 8), 3},
		{"replace spanning", 5, buffer.NewEdit(buffer.Range{Start: 3, End: 8}, "xyz"), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TransformOffset(tt.offset, tt.edit))
		})
	}
}

func TestTransformSelection(t *testing.T) {
	got := TransformSelection(NewSelection(4, 9), buffer.NewInsert(0, "--"))
	assert.Equal(t, Range{Start: 6, End: 11}, got.Range())
}
