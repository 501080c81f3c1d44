package find

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/adxstudio/internal/engine/buffer"
	"github.com/dshills/adxstudio/internal/engine/marker"
	"github.com/dshills/adxstudio/internal/event"
)

// Event topics published by a Session.
const (
	TopicStatus event.Topic = "find.status"
	TopicOpened event.Topic = "find.opened"
	TopicClosed event.Topic = "find.closed"
)

// DefaultViewportShrink is how many rows the find bar takes from the
// editing surface while a session is open.
const DefaultViewportShrink = 2

// Mode is the visual mode of an open session.
type Mode int

const (
	// ModeFind shows only the pattern input.
	ModeFind Mode = iota
	// ModeReplace shows the pattern and replacement inputs.
	ModeReplace
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeReplace {
		return "replace"
	}
	return "find"
}

// Direction selects which marker navigation moves to.
type Direction int

const (
	Previous Direction = -1
	Current  Direction = 0
	Next     Direction = 1
)

// Publisher receives session status events.
type Publisher interface {
	Publish(ctx context.Context, topic event.Topic, payload any) error
}

// Status is the payload of every event a Session publishes.
type Status struct {
	SessionID string
	Open      bool
	Mode      Mode
	Pattern   string
	Count     int
	// Current is the index of the selected match, or -1.
	Current int
	Summary string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBus publishes status events to p.
func WithBus(p Publisher) Option {
	return func(s *Session) {
		s.bus = p
	}
}

// WithDebounce sets the live search delay for pattern input.
// Zero searches on every keystroke.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		s.debounceDelay = d
	}
}

// WithScheduler sets where debounced searches run.
func WithScheduler(fn Scheduler) Option {
	return func(s *Session) {
		s.scheduler = fn
	}
}

// WithMatchTimeout bounds each regular expression evaluation.
func WithMatchTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.matchTimeout = d
	}
}

// WithViewportShrink sets how many rows the viewport loses while open.
func WithViewportShrink(rows int) Option {
	return func(s *Session) {
		if rows >= 0 {
			s.shrink = rows
		}
	}
}

// WithOptions sets the initial search toggles.
func WithOptions(o Options) Option {
	return func(s *Session) {
		s.opts = o.Normalize()
	}
}

// Session is the find/replace state bound to one editing surface.
//
// A Session is owned by the goroutine that drives its host and is not safe
// for concurrent use. Debounced searches are posted through the scheduler
// so they run on that goroutine.
type Session struct {
	host Host
	id   string

	logger *slog.Logger
	bus    Publisher

	debounceDelay time.Duration
	scheduler     Scheduler
	debouncer     *Debouncer
	matchTimeout  time.Duration
	shrink        int

	open        bool
	mode        Mode
	pattern     string
	replacement string
	opts        Options

	matches      []Match
	markers      []Marker
	current      Marker
	currentIndex int
	summary      string

	savedHeight int
	changes     ChangeSubscription
}

// New creates a closed session over host.
func New(host Host, opts ...Option) *Session {
	s := &Session{
		host:          host,
		id:            uuid.NewString(),
		logger:        slog.New(slog.DiscardHandler),
		debounceDelay: DefaultDebounce,
		matchTimeout:  DefaultMatchTimeout,
		shrink:        DefaultViewportShrink,
		currentIndex:  -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.debouncer = NewDebouncer(s.debounceDelay, s.scheduler)
	s.logger = s.logger.With("session", s.id)
	return s
}

// ID returns the session identifier carried by its events.
func (s *Session) ID() string { return s.id }

// IsOpen reports whether the find bar is shown.
func (s *Session) IsOpen() bool { return s.open }

// Mode returns the current visual mode.
func (s *Session) Mode() Mode { return s.mode }

// Pattern returns the pattern input.
func (s *Session) Pattern() string { return s.pattern }

// Replacement returns the replacement input.
func (s *Session) Replacement() string { return s.replacement }

// Options returns the search toggles.
func (s *Session) Options() Options { return s.opts }

// Summary returns the match-count label.
func (s *Session) Summary() string { return s.summary }

// Count returns the number of matches found by the last search.
func (s *Session) Count() int { return len(s.matches) }

// Matches returns a copy of the matches found by the last search.
func (s *Session) Matches() []Match {
	out := make([]Match, len(s.matches))
	copy(out, s.matches)
	return out
}

// CurrentIndex returns the index of the selected match, or -1.
func (s *Session) CurrentIndex() int { return s.currentIndex }

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	return Status{
		SessionID: s.id,
		Open:      s.open,
		Mode:      s.mode,
		Pattern:   s.pattern,
		Count:     len(s.matches),
		Current:   s.currentIndex,
		Summary:   s.summary,
	}
}

// Open shows the find bar in mode. Opening a closed session seeds the
// pattern from the first line of the selection, shrinks the viewport,
// subscribes to document changes and runs the initial search. Opening an
// open session only switches the mode.
func (s *Session) Open(mode Mode) {
	if s.open {
		if s.mode != mode {
			s.mode = mode
			s.logger.Debug("find mode changed", "mode", mode)
			s.publish(TopicStatus)
		}
		return
	}

	s.open = true
	s.mode = mode
	s.pattern = ""
	if s.host.HasSelection() {
		s.pattern = firstLine(s.host.SelectedText())
	}

	s.savedHeight = s.host.ViewportHeight()
	s.host.SetViewportHeight(max(s.savedHeight-s.shrink, 0))
	s.host.Focus(FocusPattern)
	s.changes = s.host.OnChange(s.documentChanged)

	s.logger.Debug("find opened", "mode", mode, "pattern", s.pattern)
	s.publish(TopicOpened)

	s.Search()
	s.Select(Current)
}

// Close hides the find bar, clears the pattern and every marker, restores
// the viewport and returns focus to the document.
func (s *Session) Close() {
	if !s.open {
		return
	}

	s.debouncer.Cancel()
	if s.changes != nil {
		s.changes.Cancel()
		s.changes = nil
	}

	s.pattern = ""
	s.clearMarkers()
	s.matches = nil
	s.summary = ""

	s.host.SetViewportHeight(s.savedHeight)
	s.host.Focus(FocusDocument)
	s.open = false

	s.logger.Debug("find closed")
	s.publish(TopicClosed)
}

// SetPattern updates the pattern input and schedules a debounced search.
func (s *Session) SetPattern(pattern string) {
	s.pattern = pattern
	if !s.open {
		return
	}
	s.debouncer.Trigger(s.refresh)
}

// SearchFor sets the pattern and searches immediately, dropping any
// pending debounced search. It returns the number of matches.
func (s *Session) SearchFor(pattern string) int {
	s.debouncer.Cancel()
	s.pattern = pattern
	if !s.open {
		return 0
	}
	s.refresh()
	return len(s.matches)
}

// SetReplacement updates the replacement input.
func (s *Session) SetReplacement(replacement string) {
	s.replacement = replacement
}

// SetOptions replaces all toggles and searches again.
func (s *Session) SetOptions(o Options) {
	s.opts = o.Normalize()
	if s.open {
		s.refresh()
	}
}

// SetCaseSensitive toggles case sensitivity.
func (s *Session) SetCaseSensitive(on bool) {
	o := s.opts
	o.CaseSensitive = on
	s.SetOptions(o)
}

// SetWholeWord toggles whole-word matching. It has no effect while regex
// mode is on.
func (s *Session) SetWholeWord(on bool) {
	o := s.opts
	o.WholeWord = on
	s.SetOptions(o)
}

// SetRegex toggles regular expression mode. Turning it on clears
// whole-word matching.
func (s *Session) SetRegex(on bool) {
	o := s.opts
	o.Regex = on
	s.SetOptions(o)
}

// Search recompiles the pattern against the current document and rebuilds
// every marker. It returns the number of matches. Invalid and empty
// patterns produce no matches.
func (s *Session) Search() int {
	s.matches = nil
	if s.pattern != "" {
		p, err := CompileWithTimeout(s.pattern, s.opts, s.matchTimeout)
		if err != nil {
			s.logger.Debug("find pattern rejected", "pattern", s.pattern, "error", err)
		} else {
			s.matches = Scan(p, s.host.Text())
			Locate(s.matches, s.host)
		}
	}

	s.display()
	s.logger.Debug("find search", "pattern", s.pattern, "matches", len(s.matches))
	s.publish(TopicStatus)
	return len(s.matches)
}

// display replaces all markers with one per match and updates the summary.
func (s *Session) display() {
	s.clearMarkers()
	s.markers = make([]Marker, 0, len(s.matches))
	for _, m := range s.matches {
		s.markers = append(s.markers, s.host.MarkText(m.Range(), marker.ClassMatch))
	}
	s.summary = summarize(len(s.matches))
}

// Select moves the document selection to a match chosen relative to the
// cursor, wrapping at either end. It reports whether a match was selected.
func (s *Session) Select(dir Direction) bool {
	live := s.liveRanges()
	if len(live) == 0 {
		return false
	}

	cursor := s.host.Cursor()
	if dir == Current {
		cursor.Column = 0
	}
	at := s.host.PointToOffset(cursor)

	pick := -1
	if dir >= 0 {
		for i, lr := range live {
			if lr.r.End > at || (dir == Current && lr.r.End == at) {
				pick = i
				break
			}
		}
		if pick < 0 {
			pick = 0
		}
	} else {
		boundary := len(live)
		for i, lr := range live {
			if lr.r.End >= at {
				boundary = i
				break
			}
		}
		pick = boundary - 1
		if pick < 0 {
			pick = len(live) - 1
		}
	}

	s.selectRange(live[pick])
	s.publish(TopicStatus)
	return true
}

// FindNext selects the next match.
func (s *Session) FindNext() bool { return s.Select(Next) }

// FindPrevious selects the previous match.
func (s *Session) FindPrevious() bool { return s.Select(Previous) }

// ReplaceOne replaces the selected match with the replacement input and
// moves on to the next match. Without a selected match it first selects
// one. If the selected match was edited away it only re-selects. It
// reports whether text was replaced.
func (s *Session) ReplaceOne() bool {
	if len(s.liveRanges()) == 0 {
		return false
	}
	if s.current == nil && !s.Select(Current) {
		return false
	}

	r, ok := s.current.Range()
	if !ok {
		s.logger.Debug("find current match is stale")
		s.Select(Current)
		return false
	}

	s.suspend()
	err := s.host.Replace(r, s.replacement)
	s.resume()
	if err != nil {
		s.logger.Warn("find replace failed", "range", r.String(), "error", err)
		return false
	}

	s.Search()
	s.host.SetCursor(s.host.OffsetToPoint(r.Start + buffer.ByteOffset(len(s.replacement))))
	s.Select(Next)
	return true
}

// ReplaceAll replaces every match with the replacement input and searches
// again. Each marker's live range is used so earlier replacements shift
// later ones. It returns the number of replacements made.
func (s *Session) ReplaceAll() int {
	if len(s.markers) == 0 {
		return 0
	}

	n := 0
	s.suspend()
	for _, m := range s.markers {
		r, ok := m.Range()
		if !ok {
			continue
		}
		if err := s.host.Replace(r, s.replacement); err != nil {
			s.logger.Warn("find replace failed", "range", r.String(), "error", err)
			continue
		}
		n++
	}
	s.resume()

	s.clearMarkers()
	s.Search()
	s.logger.Debug("find replaced all", "replaced", n)
	return n
}

func (s *Session) refresh() {
	if !s.open {
		return
	}
	s.Search()
	s.Select(Current)
}

func (s *Session) documentChanged() {
	if s.open {
		s.Search()
	}
}

func (s *Session) suspend() {
	if s.changes != nil {
		s.changes.Pause()
	}
}

func (s *Session) resume() {
	if s.changes != nil {
		s.changes.Resume()
	}
}

type liveRange struct {
	index int
	r     buffer.Range
}

// liveRanges returns the resolvable match markers in document order.
func (s *Session) liveRanges() []liveRange {
	var out []liveRange
	for i, m := range s.markers {
		if r, ok := m.Range(); ok {
			out = append(out, liveRange{index: i, r: r})
		}
	}
	return out
}

func (s *Session) selectRange(lr liveRange) {
	s.host.SetSelection(s.host.OffsetToPoint(lr.r.Start), s.host.OffsetToPoint(lr.r.End))
	if s.current != nil {
		s.current.Clear()
	}
	s.current = s.host.MarkText(lr.r, marker.ClassCurrent)
	s.currentIndex = lr.index
}

func (s *Session) clearMarkers() {
	for _, m := range s.markers {
		m.Clear()
	}
	s.markers = nil
	if s.current != nil {
		s.current.Clear()
		s.current = nil
	}
	s.currentIndex = -1
}

func (s *Session) publish(topic event.Topic) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.Background(), topic, s.Status()); err != nil {
		s.logger.Warn("find publish failed", "topic", string(topic), "error", err)
	}
}

func summarize(n int) string {
	if n == 0 {
		return "no result."
	}
	return strconv.Itoa(n) + " matches."
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
