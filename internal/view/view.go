package view

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dshills/adxstudio/internal/engine/buffer"
	"github.com/dshills/adxstudio/internal/engine/cursor"
	"github.com/dshills/adxstudio/internal/engine/marker"
	"github.com/dshills/adxstudio/internal/event"
	"github.com/dshills/adxstudio/internal/find"
)

// TopicChanged is published after every buffer edit.
const TopicChanged event.Topic = "buffer.changed"

// DefaultViewportHeight is the visible line count of a new view.
const DefaultViewportHeight = 24

// ErrClosed is returned by edits on a closed view.
var ErrClosed = errors.New("view closed")

// Change is the payload of TopicChanged.
type Change struct {
	ViewID   string
	Edit     buffer.Edit
	Result   buffer.EditResult
	Revision buffer.RevisionID
}

// Option configures a View.
type Option func(*View)

// WithBus sets the event bus. Views sharing a bus only see their own
// changes through OnChange.
func WithBus(bus *event.Bus) Option {
	return func(v *View) {
		if bus != nil {
			v.bus = bus
		}
	}
}

// WithLogger sets the view logger. It is also handed to the find session.
func WithLogger(logger *slog.Logger) Option {
	return func(v *View) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithViewportHeight sets the initial visible line count.
func WithViewportHeight(height int) Option {
	return func(v *View) {
		v.height = max(height, 0)
	}
}

// WithFindOptions sets options for the session created by Finder.
func WithFindOptions(opts ...find.Option) Option {
	return func(v *View) {
		v.findOpts = append(v.findOpts, opts...)
	}
}

// View is an editing surface bound to one buffer.
//
// A View is driven from a single goroutine. The buffer and event bus it
// wraps are themselves safe for concurrent use.
type View struct {
	id     string
	buf    *buffer.Buffer
	marks  *marker.Set
	bus    *event.Bus
	logger *slog.Logger

	sel    cursor.Selection
	height int
	focus  find.FocusTarget

	findOpts []find.Option
	finder   *find.Session

	unobserve func()
	closed    bool
}

// New creates a view over buf with the cursor at the start of the
// document.
func New(buf *buffer.Buffer, opts ...Option) *View {
	v := &View{
		id:     uuid.NewString(),
		buf:    buf,
		logger: slog.New(slog.DiscardHandler),
		height: DefaultViewportHeight,
		focus:  find.FocusDocument,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.bus == nil {
		v.bus = event.NewBus()
	}

	// The marker set observes first so markers are current when the
	// change is published.
	v.marks = marker.NewSet(buf)
	v.unobserve = buf.Observe(v.edited)
	return v
}

// ID returns the view identifier carried by Change payloads.
func (v *View) ID() string { return v.id }

// Buffer returns the underlying buffer.
func (v *View) Buffer() *buffer.Buffer { return v.buf }

// Bus returns the view's event bus.
func (v *View) Bus() *event.Bus { return v.bus }

// Text returns the full document text.
func (v *View) Text() string { return v.buf.Text() }

// Len returns the document length in bytes.
func (v *View) Len() buffer.ByteOffset { return v.buf.Len() }

// SetText replaces the whole document.
func (v *View) SetText(text string) error {
	if v.closed {
		return ErrClosed
	}
	v.buf.SetText(text)
	return nil
}

// OffsetToPoint converts a byte offset to a line/column position.
func (v *View) OffsetToPoint(offset buffer.ByteOffset) buffer.Point {
	return v.buf.OffsetToPoint(offset)
}

// PointToOffset converts a line/column position to a byte offset.
func (v *View) PointToOffset(p buffer.Point) buffer.ByteOffset {
	return v.buf.PointToOffset(p)
}

// Selection returns the selection as byte offsets.
func (v *View) Selection() cursor.Selection {
	return v.sel.Clamp(v.buf.Len())
}

// Cursor returns the selection head.
func (v *View) Cursor() buffer.Point {
	return v.buf.OffsetToPoint(v.Selection().Head)
}

// SetCursor collapses the selection to p.
func (v *View) SetCursor(p buffer.Point) {
	v.sel = cursor.NewCursorSelection(v.buf.PointToOffset(p))
}

// SetSelection selects from anchor to head.
func (v *View) SetSelection(anchor, head buffer.Point) {
	v.sel = cursor.NewSelection(v.buf.PointToOffset(anchor), v.buf.PointToOffset(head))
}

// HasSelection reports whether any text is selected.
func (v *View) HasSelection() bool {
	return !v.Selection().IsEmpty()
}

// SelectedText returns the selected text.
func (v *View) SelectedText() string {
	r := v.Selection().Range()
	return v.buf.TextRange(r.Start, r.End)
}

// Insert inserts text at the cursor, replacing any selection.
func (v *View) Insert(text string) error {
	return v.Replace(v.Selection().Range(), text)
}

// Replace replaces the text in r.
func (v *View) Replace(r buffer.Range, text string) error {
	if v.closed {
		return ErrClosed
	}
	_, err := v.buf.ApplyEdit(buffer.NewEdit(r, text))
	return err
}

// MarkText creates a tracking marker over r.
func (v *View) MarkText(r buffer.Range, class marker.Class) find.Marker {
	return v.marks.Mark(r, class)
}

// Marks returns the live markers of class in document order.
func (v *View) Marks(class marker.Class) []*marker.Marker {
	return v.marks.Marks(class)
}

// ViewportHeight returns the visible line count.
func (v *View) ViewportHeight() int { return v.height }

// SetViewportHeight sets the visible line count.
func (v *View) SetViewportHeight(height int) {
	v.height = max(height, 0)
}

// Focus moves keyboard focus.
func (v *View) Focus(target find.FocusTarget) {
	v.focus = target
}

// Focused returns the focus target.
func (v *View) Focused() find.FocusTarget { return v.focus }

// OnChange runs fn after every edit of this view's buffer.
func (v *View) OnChange(fn func()) find.ChangeSubscription {
	sub, err := v.bus.Subscribe(TopicChanged, func(_ context.Context, ev event.Event) error {
		if c, ok := ev.Payload.(Change); ok && c.ViewID == v.id {
			fn()
		}
		return nil
	})
	if err != nil {
		v.logger.Error("view change subscription failed", "error", err)
		return nopSubscription{}
	}
	return sub
}

// Finder returns the view's find session, creating it on first use. It
// returns nil once the view is closed.
func (v *View) Finder() *find.Session {
	if v.closed {
		return nil
	}
	if v.finder == nil {
		opts := append([]find.Option{find.WithBus(v.bus), find.WithLogger(v.logger)}, v.findOpts...)
		v.finder = find.New(v, opts...)
		v.logger.Debug("find session created", "view", v.id, "session", v.finder.ID())
	}
	return v.finder
}

// Close tears down the find session and detaches from the buffer.
func (v *View) Close() {
	if v.closed {
		return
	}
	if v.finder != nil {
		v.finder.Close()
		v.finder = nil
	}
	v.unobserve()
	v.marks.Close()
	v.closed = true
}

func (v *View) edited(edit buffer.Edit, result buffer.EditResult) {
	v.sel = cursor.TransformSelection(v.sel, edit)

	change := Change{ViewID: v.id, Edit: edit, Result: result, Revision: v.buf.RevisionID()}
	if err := v.bus.Publish(context.Background(), TopicChanged, change); err != nil {
		v.logger.Warn("view change publish failed", "error", err)
	}
}

type nopSubscription struct{}

func (nopSubscription) Pause()  {}
func (nopSubscription) Resume() {}
func (nopSubscription) Cancel() {}
