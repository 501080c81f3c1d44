package frontend

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/adxstudio/internal/engine/buffer"
	"github.com/dshills/adxstudio/internal/engine/marker"
	"github.com/dshills/adxstudio/internal/find"
	"github.com/dshills/adxstudio/internal/input/key"
	"github.com/dshills/adxstudio/internal/input/keymap"
	"github.com/dshills/adxstudio/internal/view"
)

var (
	keyQuit        = key.NewRuneEvent('q', key.ModCtrl)
	keySave        = key.NewRuneEvent('s', key.ModCtrl)
	keyToggleCase  = key.NewRuneEvent('c', key.ModAlt)
	keyToggleWord  = key.NewRuneEvent('w', key.ModAlt)
	keyToggleRegex = key.NewRuneEvent('r', key.ModAlt)
)

// Poster accepts events for an event loop. tcell.Screen satisfies it.
type Poster interface {
	PostEvent(ev tcell.Event) error
}

// Scheduler returns a find scheduler that runs callbacks on the event
// loop behind p. A callback the loop cannot accept is dropped and logged.
func Scheduler(p Poster, logger *slog.Logger) find.Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(fn func()) {
		if err := p.PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
			logger.Warn("event queue full, debounced search dropped", "error", err)
		}
	}
}

// SessionOptions returns the find options a session needs to run inside
// the terminal host.
func SessionOptions(screen tcell.Screen, logger *slog.Logger) []find.Option {
	return []find.Option{
		find.WithScheduler(Scheduler(screen, logger)),
		find.WithViewportShrink(FindBarHeight),
	}
}

// SaveFunc persists the document text.
type SaveFunc func(text string) error

// Option configures an App.
type Option func(*App)

// WithTheme sets the styles.
func WithTheme(t Theme) Option {
	return func(a *App) {
		a.theme = t
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithKeymap sets the global key bindings.
func WithKeymap(km *keymap.Keymap) Option {
	return func(a *App) {
		if km != nil {
			a.keymap = km
		}
	}
}

// WithTitle sets the name shown in the status line.
func WithTitle(title string) Option {
	return func(a *App) {
		a.title = title
	}
}

// WithSave enables Ctrl+S.
func WithSave(fn SaveFunc) Option {
	return func(a *App) {
		a.save = fn
	}
}

// App is the terminal host. It is driven from a single goroutine: Run,
// or HandleEvent and Draw in tests.
type App struct {
	screen tcell.Screen
	view   *view.View
	keymap *keymap.Keymap
	theme  Theme
	logger *slog.Logger
	title  string
	save   SaveFunc

	bar     FindBar
	top     int
	message string
	quit    bool
}

// New creates a host drawing v on screen. The screen must already be
// initialized. Give v the options from SessionOptions so debounced
// searches run on this host's loop.
func New(screen tcell.Screen, v *view.View, opts ...Option) *App {
	a := &App{
		screen: screen,
		view:   v,
		keymap: keymap.Default(),
		theme:  DefaultTheme(),
		logger: slog.New(slog.DiscardHandler),
		title:  "[scratch]",
	}
	for _, opt := range opts {
		opt(a)
	}
	a.fit()
	return a
}

// SetKeymap swaps the global key bindings. Call it from the loop
// goroutine, for example through Post.
func (a *App) SetKeymap(km *keymap.Keymap) {
	if km != nil {
		a.keymap = km
		a.message = "keys reloaded"
	}
}

// SetMessage shows msg in the status line until the next key press.
func (a *App) SetMessage(msg string) {
	a.message = msg
}

// Post runs fn on the event loop.
func (a *App) Post(fn func()) {
	if err := a.screen.PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
		a.logger.Warn("event queue full", "error", err)
	}
}

// Quit stops Run after the current event.
func (a *App) Quit() { a.quit = true }

// Run draws the screen and processes events until the user quits or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	a.Draw()
	for !a.quit {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			a.HandleEvent(ev)
			a.Draw()
		}
	}
	return nil
}

// HandleEvent processes one terminal event and reports whether the host
// is still running.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.handleKey(key.FromTcell(ev))
	case *tcell.EventResize:
		a.screen.Sync()
		a.fit()
	case *tcell.EventInterrupt:
		if fn, ok := ev.Data().(func()); ok {
			fn()
		}
	}
	a.syncBar()
	return !a.quit
}

func (a *App) session() *find.Session {
	return a.view.Finder()
}

func (a *App) handleKey(ev key.Event) {
	a.message = ""
	s := a.session()

	switch {
	case ev.Equals(keyQuit):
		a.quit = true
		return
	case ev.Equals(keySave):
		a.saveDocument()
		return
	}

	if cmd, ok := a.keymap.Lookup(ev); ok {
		a.logger.Debug("command", "command", cmd)
		s.Execute(cmd)
		if !s.IsOpen() {
			a.fit()
		}
		return
	}

	focus := a.view.Focused()
	if s.IsOpen() && focus != find.FocusDocument {
		a.handleBarKey(s, focus, ev)
		return
	}
	a.handleDocumentKey(s, ev)
}

func (a *App) handleBarKey(s *find.Session, focus find.FocusTarget, ev key.Event) {
	if s.HandleKey(focus, ev) {
		if !s.IsOpen() {
			a.fit()
		}
		return
	}

	switch {
	case ev.Equals(keyToggleCase):
		s.SetCaseSensitive(!s.Options().CaseSensitive)
		return
	case ev.Equals(keyToggleWord):
		s.SetWholeWord(!s.Options().WholeWord)
		return
	case ev.Equals(keyToggleRegex):
		s.SetRegex(!s.Options().Regex)
		return
	case ev.Key == key.KeyTab && ev.Modifiers.IsEmpty():
		if s.Mode() == find.ModeReplace {
			if focus == find.FocusPattern {
				a.view.Focus(find.FocusReplacement)
			} else {
				a.view.Focus(find.FocusPattern)
			}
		}
		return
	}

	switch focus {
	case find.FocusPattern:
		if _, changed := a.bar.Pattern.HandleKey(ev); changed {
			s.SetPattern(a.bar.Pattern.String())
		}
	case find.FocusReplacement:
		if _, changed := a.bar.Replacement.HandleKey(ev); changed {
			s.SetReplacement(a.bar.Replacement.String())
		}
	}
}

func (a *App) handleDocumentKey(s *find.Session, ev key.Event) {
	v := a.view
	if ev.IsChar() {
		a.edit(v.Insert(string(ev.Rune)))
		return
	}
	if !ev.Modifiers.IsEmpty() {
		return
	}

	switch ev.Key {
	case key.KeyEscape:
		if s.IsOpen() {
			s.Close()
			a.fit()
		}
	case key.KeyEnter:
		a.edit(v.Insert(v.Buffer().LineEnding().Sequence()))
	case key.KeyTab:
		a.edit(v.Insert("\t"))
	case key.KeyBackspace:
		if v.HasSelection() {
			a.edit(v.Insert(""))
			return
		}
		off := v.PointToOffset(v.Cursor())
		if off == 0 {
			return
		}
		_, size := utf8.DecodeLastRuneInString(v.Text()[:off])
		a.edit(v.Replace(buffer.Range{Start: off - buffer.ByteOffset(size), End: off}, ""))
	case key.KeyDelete:
		if v.HasSelection() {
			a.edit(v.Insert(""))
			return
		}
		off := v.PointToOffset(v.Cursor())
		if off >= v.Len() {
			return
		}
		_, size := utf8.DecodeRuneInString(v.Text()[off:])
		a.edit(v.Replace(buffer.Range{Start: off, End: off + buffer.ByteOffset(size)}, ""))
	case key.KeyLeft, key.KeyRight, key.KeyUp, key.KeyDown, key.KeyHome, key.KeyEnd, key.KeyPageUp, key.KeyPageDown:
		a.moveCursor(ev.Key)
	}
}

func (a *App) edit(err error) {
	if err != nil {
		a.message = err.Error()
		a.logger.Error("edit failed", "error", err)
	}
}

func (a *App) moveCursor(k key.Key) {
	v := a.view
	buf := v.Buffer()
	p := v.Cursor()
	off := v.PointToOffset(p)
	text := v.Text()

	switch k {
	case key.KeyLeft:
		if off > 0 {
			_, size := utf8.DecodeLastRuneInString(text[:off])
			off -= buffer.ByteOffset(size)
		}
		v.SetCursor(v.OffsetToPoint(off))
		return
	case key.KeyRight:
		if off < v.Len() {
			_, size := utf8.DecodeRuneInString(text[off:])
			off += buffer.ByteOffset(size)
		}
		v.SetCursor(v.OffsetToPoint(off))
		return
	case key.KeyHome:
		p.Column = 0
	case key.KeyEnd:
		p.Column = uint32(buf.LineLen(p.Line))
	case key.KeyUp:
		if p.Line > 0 {
			p.Line--
		}
	case key.KeyDown:
		if p.Line+1 < buf.LineCount() {
			p.Line++
		}
	case key.KeyPageUp:
		p.Line -= min(p.Line, uint32(a.docRows()))
	case key.KeyPageDown:
		p.Line = min(p.Line+uint32(a.docRows()), buf.LineCount()-1)
	}
	p.Column = min(p.Column, uint32(buf.LineLen(p.Line)))
	v.SetCursor(p)
}

func (a *App) saveDocument() {
	if a.save == nil {
		a.message = "no file to save"
		return
	}
	if err := a.save(a.view.Text()); err != nil {
		a.message = fmt.Sprintf("save failed: %v", err)
		a.logger.Error("save failed", "error", err)
		return
	}
	a.message = "saved"
}

// fit sizes the view's viewport to the screen.
func (a *App) fit() {
	_, h := a.screen.Size()
	rows := max(h-1, 0)
	if s := a.view.Finder(); s != nil && s.IsOpen() {
		rows = max(rows-FindBarHeight, 0)
	}
	a.view.SetViewportHeight(rows)
}

// syncBar copies the session inputs into the bar fields when they differ,
// as after opening with a seeded pattern or closing.
func (a *App) syncBar() {
	s := a.session()
	if s == nil {
		return
	}
	if a.bar.Pattern.String() != s.Pattern() {
		a.bar.Pattern.Set(s.Pattern())
	}
	if a.bar.Replacement.String() != s.Replacement() {
		a.bar.Replacement.Set(s.Replacement())
	}
}

func (a *App) docRows() int {
	_, h := a.screen.Size()
	avail := max(h-1, 0)
	if s := a.session(); s != nil && s.IsOpen() {
		avail = max(avail-FindBarHeight, 0)
	}
	return min(a.view.ViewportHeight(), avail)
}

// Draw repaints the whole screen.
func (a *App) Draw() {
	a.screen.Clear()
	width, height := a.screen.Size()
	rows := a.docRows()
	cursor := a.view.Cursor()

	if int(cursor.Line) < a.top {
		a.top = int(cursor.Line)
	}
	if rows > 0 && int(cursor.Line) >= a.top+rows {
		a.top = int(cursor.Line) - rows + 1
	}

	a.drawDocument(width, rows)

	cx, cy, showCursor := a.documentCursor(cursor, rows)
	if s := a.session(); s != nil && s.IsOpen() {
		if x, y, ok := a.bar.Draw(a.screen, rows, width, s, a.view.Focused(), a.theme); ok {
			cx, cy, showCursor = x, y, true
		}
	}

	a.drawStatus(width, height-1, cursor)

	if showCursor {
		a.screen.ShowCursor(cx, cy)
	} else {
		a.screen.HideCursor()
	}
	a.screen.Show()
}

type span struct {
	r     buffer.Range
	style tcell.Style
}

func (a *App) spans() []span {
	var out []span
	for _, m := range a.view.Marks(marker.ClassMatch) {
		if r, ok := m.Range(); ok {
			out = append(out, span{r, a.theme.Match})
		}
	}
	// Current is appended last so it wins over the match it overlaps.
	for _, m := range a.view.Marks(marker.ClassCurrent) {
		if r, ok := m.Range(); ok {
			out = append(out, span{r, a.theme.Current})
		}
	}
	return out
}

func (a *App) drawDocument(width, rows int) {
	buf := a.view.Buffer()
	spans := a.spans()

	for row := 0; row < rows; row++ {
		line := uint32(a.top + row)
		if line >= buf.LineCount() {
			break
		}
		start := buf.LineStartOffset(line)
		text := buf.LineText(line)

		x := 0
		for i, r := range text {
			if x >= width {
				break
			}
			off := start + buffer.ByteOffset(i)
			style := a.theme.Text
			for _, sp := range spans {
				if off >= sp.r.Start && off < sp.r.End {
					style = sp.style
				}
			}
			x = drawString(a.screen, x, row, width, string(r), style)
		}
	}
}

func (a *App) documentCursor(p buffer.Point, rows int) (int, int, bool) {
	if a.view.Focused() != find.FocusDocument {
		return 0, 0, false
	}
	row := int(p.Line) - a.top
	if row < 0 || row >= rows {
		return 0, 0, false
	}
	text := a.view.Buffer().LineText(p.Line)
	col := min(int(p.Column), len(text))
	x := 0
	for _, r := range text[:col] {
		x += runeWidth(r, x)
	}
	return x, row, true
}

func (a *App) drawStatus(width, y int, p buffer.Point) {
	if y < 0 {
		return
	}
	fill(a.screen, 0, y, width, a.theme.Status)
	left := fmt.Sprintf(" %s  Ln %d, Col %d", a.title, p.Line+1, p.Column+1)
	x := drawString(a.screen, 0, y, width, truncate(left, width), a.theme.Status)
	if a.message != "" {
		msg := a.message + " "
		mx := max(width-stringWidth(msg), x+1)
		drawString(a.screen, mx, y, width, msg, a.theme.Status)
	}
}
