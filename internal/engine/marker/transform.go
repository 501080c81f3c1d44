package marker

import "github.com/dshills/adxstudio/internal/engine/buffer"

// TransformRange maps r through edit. It returns false when the edit
// changed text inside r, in which case r no longer identifies the same text.
//
// Both ends are exclusive with respect to insertions: text inserted exactly
// at r.Start lands before the range and text inserted exactly at r.End lands
// after it.
func TransformRange(r buffer.Range, edit buffer.Edit) (buffer.Range, bool) {
	if edit.Range.End <= r.Start {
		return r.Shift(edit.Delta()), true
	}
	if r.Overlaps(edit.Range) {
		return buffer.Range{}, false
	}
	return r, true
}
