package find

import (
	"github.com/dshills/adxstudio/internal/engine/buffer"
	"github.com/dshills/adxstudio/internal/engine/marker"
)

// FocusTarget names where keyboard focus goes.
type FocusTarget int

const (
	// FocusDocument returns focus to the editing surface.
	FocusDocument FocusTarget = iota
	// FocusPattern focuses the pattern input.
	FocusPattern
	// FocusReplacement focuses the replacement input.
	FocusReplacement
)

// String returns the focus target name.
func (f FocusTarget) String() string {
	switch f {
	case FocusDocument:
		return "document"
	case FocusPattern:
		return "pattern"
	case FocusReplacement:
		return "replacement"
	default:
		return "unknown"
	}
}

// Marker is a position-tracking highlight created by the host.
// Range reports false once the marked text has been edited or the marker
// was cleared.
type Marker interface {
	Range() (buffer.Range, bool)
	Clear()
}

// ChangeSubscription is the disposer returned by Host.OnChange.
// While paused no change callbacks are delivered.
type ChangeSubscription interface {
	Pause()
	Resume()
	Cancel()
}

// Host is the editing surface a Session operates on.
type Host interface {
	Text() string
	Len() buffer.ByteOffset

	OffsetToPoint(offset buffer.ByteOffset) buffer.Point
	PointToOffset(p buffer.Point) buffer.ByteOffset

	// Cursor returns the selection head.
	Cursor() buffer.Point
	SetCursor(p buffer.Point)
	SetSelection(anchor, head buffer.Point)
	HasSelection() bool
	SelectedText() string

	Replace(r buffer.Range, text string) error
	MarkText(r buffer.Range, class marker.Class) Marker

	ViewportHeight() int
	SetViewportHeight(height int)

	// OnChange registers fn to run after every document change.
	OnChange(fn func()) ChangeSubscription

	Focus(target FocusTarget)
}
