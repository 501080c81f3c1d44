package buffer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	assert.True(t, b.IsEmpty(), "new buffer should be empty")
	assert.Equal(t, uint32(1), b.LineCount())
}

func TestNewBufferFromStringMultiline(t *testing.T) {
	b := NewBufferFromString("line1\nline2\nline3")

	require.Equal(t, uint32(3), b.LineCount())
	for i, want := range []string{"line1", "line2", "line3"} {
		assert.Equal(t, want, b.LineText(uint32(i)), "line %d", i)
	}
}

func TestNewBufferNormalizesLineEndings(t *testing.T) {
	b := NewBufferFromString("a\r\nb\rc")
	assert.Equal(t, "a\nb\nc", b.Text())

	crlf := NewBufferFromString("a\nb", WithLineEnding(LineEndingCRLF))
	assert.Equal(t, "a\r\nb", crlf.Text())
	assert.Equal(t, "a", crlf.LineText(0), "line ending should be stripped")
	assert.Equal(t, ByteOffset(1), crlf.LineEndOffset(0))
}

func TestNewBufferFromReader(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("hello\nworld"))
	require.NoError(t, err)
	assert.Equal(t, "world", b.LineText(1))
	assert.Equal(t, LineEndingLF, b.LineEnding())
}

func TestNewBufferFromReaderDetectsLineEnding(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("a\r\nb\r\n"), WithoutNormalization())
	require.NoError(t, err)
	assert.Equal(t, LineEndingCRLF, b.LineEnding())
	assert.Equal(t, "\r\n", b.LineEnding().Sequence())
	assert.Equal(t, "a\r\nb\r\n", b.Text())

	lf, err := NewBufferFromReader(strings.NewReader("a\r\nb"), WithLineEnding(LineEndingLF))
	require.NoError(t, err)
	assert.Equal(t, "a\nb", lf.Text(), "an explicit option wins over detection")
}

func TestBufferInsert(t *testing.T) {
	b := NewBufferFromString("Hello World")

	end, err := b.Insert(5, ",")
	require.NoError(t, err)
	assert.Equal(t, ByteOffset(6), end)
	assert.Equal(t, "Hello, World", b.Text())
}

func TestBufferInsertOutOfRange(t *testing.T) {
	b := NewBufferFromString("Hello")

	_, err := b.Insert(100, "X")
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
	_, err = b.Insert(-1, "X")
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
}

func TestBufferDeleteInvalidRange(t *testing.T) {
	b := NewBufferFromString("Hello")

	assert.ErrorIs(t, b.Delete(3, 2), ErrRangeInvalid)
	assert.ErrorIs(t, b.Delete(0, 100), ErrRangeInvalid)
}

func TestBufferReplace(t *testing.T) {
	b := NewBufferFromString("Hello World")

	end, err := b.Replace(6, 11, "Go")
	require.NoError(t, err)
	assert.Equal(t, ByteOffset(8), end)
	assert.Equal(t, "Hello Go", b.Text())
}

func TestBufferApplyEdit(t *testing.T) {
	b := NewBufferFromString("Hello World")

	result, err := b.ApplyEdit(NewEdit(Range{Start: 0, End: 5}, "Hi"))
	require.NoError(t, err)
	assert.Equal(t, "Hi World", b.Text())
	assert.Equal(t, "Hello", result.OldText)
	assert.Equal(t, ByteOffset(-3), result.Delta)
	assert.Equal(t, Range{Start: 0, End: 2}, result.NewRange)
}

func TestBufferRevisionChanges(t *testing.T) {
	b := NewBufferFromString("abc")
	rev := b.RevisionID()

	_, err := b.Insert(0, "x")
	require.NoError(t, err)
	assert.NotEqual(t, rev, b.RevisionID(), "expected revision to change after edit")
}

func TestBufferOffsetPointRoundTrip(t *testing.T) {
	b := NewBufferFromString("ab\ncde\n\nf")

	tests := []struct {
		offset ByteOffset
		point  Point
	}{
		{0, Point{0, 0}},
		{2, Point{0, 2}},
		{3, Point{1, 0}},
		{6, Point{1, 3}},
		{7, Point{2, 0}},
		{8, Point{3, 0}},
		{9, Point{3, 1}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.point, b.OffsetToPoint(tt.offset), "OffsetToPoint(%d)", tt.offset)
		assert.Equal(t, tt.offset, b.PointToOffset(tt.point), "PointToOffset(%s)", tt.point)
	}
}

func TestBufferPointToOffsetClamps(t *testing.T) {
	b := NewBufferFromString("ab\ncd")

	assert.Equal(t, ByteOffset(2), b.PointToOffset(Point{Line: 0, Column: 10}))
	assert.Equal(t, ByteOffset(5), b.PointToOffset(Point{Line: 9}))
	assert.Equal(t, Point{Line: 1, Column: 2}, b.OffsetToPoint(99))
}

func TestBufferObserve(t *testing.T) {
	b := NewBufferFromString("abc")

	var edits []Edit
	cancel := b.Observe(func(edit Edit, _ EditResult) {
		edits = append(edits, edit)
	})

	_, err := b.Insert(1, "X")
	require.NoError(t, err)
	require.NoError(t, b.Delete(0, 1))

	cancel()
	cancel()

	_, err = b.Insert(0, "Y")
	require.NoError(t, err)

	require.Len(t, edits, 2)
	assert.True(t, edits[0].IsInsert())
	assert.Equal(t, ByteOffset(1), edits[0].Range.Start)
	assert.True(t, edits[1].IsDelete())
}

func TestBufferObserverSeesNormalizedText(t *testing.T) {
	b := NewBufferFromString("")

	var got string
	b.Observe(func(edit Edit, _ EditResult) {
		got = edit.NewText
	})

	_, err := b.Insert(0, "a\r\nb")
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"", LineEndingLF},
		{"a\nb", LineEndingLF},
		{"a\r\nb\r\n", LineEndingCRLF},
		{"a\rb\r", LineEndingCR},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLineEnding(tt.text), "DetectLineEnding(%q)", tt.text)
	}
}
