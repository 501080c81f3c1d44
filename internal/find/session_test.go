package find_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/adxstudio/internal/engine/buffer"
	"github.com/dshills/adxstudio/internal/engine/marker"
	"github.com/dshills/adxstudio/internal/event"
	"github.com/dshills/adxstudio/internal/find"
	"github.com/dshills/adxstudio/internal/input/key"
	"github.com/dshills/adxstudio/internal/view"
)

func newSession(t *testing.T, text string, opts ...find.Option) (*view.View, *find.Session) {
	t.Helper()
	opts = append([]find.Option{find.WithDebounce(0)}, opts...)
	v := view.New(buffer.NewBufferFromString(text), view.WithFindOptions(opts...))
	t.Cleanup(v.Close)
	return v, v.Finder()
}

func openWith(s *find.Session, pattern string) {
	s.Open(find.ModeFind)
	s.SetPattern(pattern)
}

func selected(v *view.View) string {
	return v.SelectedText()
}

func TestSearchDisplaysMarkers(t *testing.T) {
	v, s := newSession(t, "one two one three one")
	openWith(s, "one")

	assert.Equal(t, 3, s.Count())
	assert.Equal(t, "3 matches.", s.Summary())
	assert.Len(t, v.Marks(marker.ClassMatch), 3)
	assert.Len(t, v.Marks(marker.ClassCurrent), 1)

	s.SetPattern("zzz")
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, "no result.", s.Summary())
	assert.Empty(t, v.Marks(""))
}

func TestWholeWordSearch(t *testing.T) {
	_, s := newSession(t, "concatenate cat scatter")
	s.SetOptions(find.Options{WholeWord: true})
	openWith(s, "cat")

	require.Equal(t, 1, s.Count())
	m := s.Matches()[0]
	assert.Equal(t, buffer.ByteOffset(12), m.Start)
	assert.Equal(t, buffer.Point{Line: 0, Column: 12}, m.From)
}

func TestMalformedRegexYieldsNoMatches(t *testing.T) {
	_, s := newSession(t, "a(b)c", find.WithOptions(find.Options{Regex: true}))

	assert.NotPanics(t, func() { openWith(s, "(b") })
	assert.Equal(t, 0, s.Count())
	assert.False(t, s.FindNext())
	assert.False(t, s.ReplaceOne())
	assert.Equal(t, 0, s.ReplaceAll())
}

func TestRegexToggleClearsWholeWord(t *testing.T) {
	_, s := newSession(t, "x")
	s.SetWholeWord(true)
	assert.True(t, s.Options().WholeWord)

	s.SetRegex(true)
	assert.False(t, s.Options().WholeWord)

	s.SetWholeWord(true)
	assert.False(t, s.Options().WholeWord, "whole word stays off in regex mode")
}

func TestNavigationIsCyclic(t *testing.T) {
	v, s := newSession(t, "ab ab ab")
	openWith(s, "ab")
	require.Equal(t, 3, s.Count())
	assert.Equal(t, 0, s.CurrentIndex())

	var order []int
	for range 4 {
		require.True(t, s.FindNext())
		order = append(order, s.CurrentIndex())
	}
	assert.Equal(t, []int{1, 2, 0, 1}, order)

	order = nil
	for range 4 {
		require.True(t, s.FindPrevious())
		order = append(order, s.CurrentIndex())
	}
	assert.Equal(t, []int{0, 2, 1, 0}, order)

	assert.Equal(t, "ab", selected(v))
	assert.Len(t, v.Marks(marker.ClassCurrent), 1, "only one current marker")
}

func TestSelectCurrentUsesLineStart(t *testing.T) {
	v, s := newSession(t, "foo\nxx foo foo\nfoo")
	v.SetCursor(buffer.Point{Line: 1, Column: 9})
	openWith(s, "foo")

	require.Equal(t, 4, s.Count())
	assert.Equal(t, 1, s.CurrentIndex(), "current picks the first match on the cursor line")
}

func TestSelectPreviousBeforeFirstWraps(t *testing.T) {
	v, s := newSession(t, "  ab ab")
	openWith(s, "ab")

	v.SetCursor(buffer.Point{})
	require.True(t, s.FindPrevious())
	assert.Equal(t, 1, s.CurrentIndex())

	v.SetCursor(buffer.Point{Column: 7})
	require.True(t, s.FindNext())
	assert.Equal(t, 0, s.CurrentIndex())
}

func TestReplaceOneAdvances(t *testing.T) {
	v, s := newSession(t, "aXbXcX")
	openWith(s, "x")
	s.SetReplacement("YYY")
	require.Equal(t, 0, s.CurrentIndex())

	before := v.Len()
	require.True(t, s.ReplaceOne())

	assert.Equal(t, "aYYYbXcX", v.Text())
	assert.Equal(t, before+buffer.ByteOffset(len("YYY")-len("X")), v.Len())
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, buffer.Range{Start: 5, End: 6}, v.Selection().Range())
}

func TestReplaceOneWithoutCurrentSelectsFirst(t *testing.T) {
	v, s := newSession(t, "aXb")
	openWith(s, "x")
	s.SetReplacement("-")

	// A document change searches again without selecting a match.
	v.SetCursor(buffer.Point{Column: 3})
	require.NoError(t, v.Insert("z"))
	require.Equal(t, -1, s.CurrentIndex())
	require.Empty(t, v.Marks(marker.ClassCurrent))

	require.True(t, s.ReplaceOne())
	assert.Equal(t, "a-bz", v.Text())
}

func TestReplaceOneStaleCurrentReselects(t *testing.T) {
	v, s := newSession(t, "aXbX")
	openWith(s, "x")
	s.SetReplacement("-")

	v.Marks(marker.ClassCurrent)[0].Clear()

	assert.False(t, s.ReplaceOne())
	assert.Equal(t, "aXbX", v.Text())
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Len(t, v.Marks(marker.ClassCurrent), 1)

	assert.True(t, s.ReplaceOne())
	assert.Equal(t, "a-bX", v.Text())
}

func TestReplaceAll(t *testing.T) {
	v, s := newSession(t, "aXaXa")
	openWith(s, "X")
	s.SetReplacement("YY")

	assert.Equal(t, 2, s.ReplaceAll())
	assert.Equal(t, "aYYaYYa", v.Text())
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, v.Marks(""))
}

func TestReplaceAllThenSearchFindsNothing(t *testing.T) {
	texts := []string{
		"The cat sat on the CAT mat",
		"a.b a.b A.B",
		"(x)(X)",
		strings.Repeat("ab", 50),
	}
	patterns := []string{"cat", "a.b", "(x)", "ab"}

	for i, text := range texts {
		v, s := newSession(t, text)
		openWith(s, patterns[i])
		s.SetReplacement("_")
		s.ReplaceAll()

		assert.Equal(t, 0, s.Count(), "text %q", v.Text())
		assert.Empty(t, find.Find(patterns[i], find.Options{}, v.Text()))
	}
}

func TestReplaceAllSuppressesLiveSearch(t *testing.T) {
	bus := event.NewBus()
	v := view.New(buffer.NewBufferFromString("x x x"), view.WithBus(bus),
		view.WithFindOptions(find.WithDebounce(0)))
	defer v.Close()
	s := v.Finder()

	searches := 0
	_, err := bus.Subscribe(find.TopicStatus, func(context.Context, event.Event) error {
		searches++
		return nil
	})
	require.NoError(t, err)

	openWith(s, "x")
	s.SetReplacement("y")
	searches = 0

	s.ReplaceAll()
	assert.Equal(t, "y y y", v.Text())
	assert.Equal(t, 1, searches, "one search after the bulk edit")
}

func TestLiveSearchOnDocumentChange(t *testing.T) {
	v, s := newSession(t, "foo bar")
	openWith(s, "foo")
	require.Equal(t, 1, s.Count())

	require.NoError(t, v.SetText("foo foo foo"))
	assert.Equal(t, 3, s.Count())
	assert.Len(t, v.Marks(marker.ClassMatch), 3)
}

func TestOpenSeedsPatternFromSelection(t *testing.T) {
	v, s := newSession(t, "hello world\nhello")
	v.SetSelection(buffer.Point{Line: 0, Column: 6}, buffer.Point{Line: 1, Column: 2})

	s.Open(find.ModeFind)
	assert.Equal(t, "world", s.Pattern())
	assert.Equal(t, 1, s.Count())
}

func TestCloseReopenClearsPattern(t *testing.T) {
	v, s := newSession(t, "abc abc")
	v.SetViewportHeight(20)
	openWith(s, "abc")
	require.Equal(t, 2, s.Count())
	assert.Equal(t, 20-find.DefaultViewportShrink, v.ViewportHeight())
	assert.Equal(t, find.FocusPattern, v.Focused())

	s.Close()
	assert.False(t, s.IsOpen())
	assert.Equal(t, "", s.Pattern())
	assert.Empty(t, v.Marks(""))
	assert.Equal(t, 20, v.ViewportHeight())
	assert.Equal(t, find.FocusDocument, v.Focused())

	v.SetCursor(buffer.Point{})
	s.Open(find.ModeFind)
	assert.Equal(t, "", s.Pattern())
	assert.Equal(t, 0, s.Count())
}

func TestReopenSeedsFromLastSelectedMatch(t *testing.T) {
	v, s := newSession(t, "ab cd ab")
	openWith(s, "ab")
	require.True(t, s.FindNext())

	s.Close()
	assert.Equal(t, "", s.Pattern())
	assert.Equal(t, "ab", v.SelectedText(), "the selected match outlives the find bar")

	s.Open(find.ModeFind)
	assert.Equal(t, "ab", s.Pattern())
	assert.Equal(t, 2, s.Count())
}

func TestReopenWithNewModeKeepsState(t *testing.T) {
	v, s := newSession(t, "abc abc")
	openWith(s, "abc")
	require.True(t, s.FindNext())
	idx := s.CurrentIndex()

	s.Open(find.ModeReplace)
	assert.Equal(t, find.ModeReplace, s.Mode())
	assert.Equal(t, "abc", s.Pattern())
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, idx, s.CurrentIndex())
	assert.Len(t, v.Marks(marker.ClassMatch), 2)
}

func TestClosedSessionIgnoresChanges(t *testing.T) {
	v, s := newSession(t, "abc")
	openWith(s, "abc")
	s.Close()

	require.NoError(t, v.SetText("abc abc"))
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, v.Marks(""))
}

func TestHandleKey(t *testing.T) {
	v, s := newSession(t, "q q q")
	openWith(s, "q")
	s.SetReplacement("r")

	assert.True(t, s.HandleKey(find.FocusPattern, key.MustParse("Enter")))
	assert.Equal(t, 1, s.CurrentIndex())

	assert.True(t, s.HandleKey(find.FocusPattern, key.MustParse("Shift+Enter")))
	assert.Equal(t, 0, s.CurrentIndex())

	assert.True(t, s.HandleKey(find.FocusReplacement, key.MustParse("Enter")))
	assert.Equal(t, "r q q", v.Text())

	assert.False(t, s.HandleKey(find.FocusPattern, key.MustParse("a")))

	assert.True(t, s.HandleKey(find.FocusReplacement, key.MustParse("Esc")))
	assert.False(t, s.IsOpen())
	assert.False(t, s.HandleKey(find.FocusPattern, key.MustParse("Enter")))
}

func TestExecuteCommands(t *testing.T) {
	_, s := newSession(t, "z z")

	assert.True(t, s.Execute(find.CommandFindNext))
	assert.True(t, s.IsOpen())
	assert.Equal(t, find.ModeFind, s.Mode())

	s.SetPattern("z")
	assert.True(t, s.Execute(find.CommandFindNext))
	assert.Equal(t, 1, s.CurrentIndex())
	assert.True(t, s.Execute(find.CommandFindPrev))
	assert.Equal(t, 0, s.CurrentIndex())

	assert.True(t, s.Execute(find.CommandReplace))
	assert.Equal(t, find.ModeReplace, s.Mode())
	assert.Equal(t, "z", s.Pattern())

	assert.False(t, s.Execute("save"))
}

func TestStatusEvents(t *testing.T) {
	bus := event.NewBus()
	v := view.New(buffer.NewBufferFromString("a a"), view.WithBus(bus),
		view.WithFindOptions(find.WithDebounce(0)))
	defer v.Close()
	s := v.Finder()

	var topics []event.Topic
	var last find.Status
	_, err := bus.Subscribe("find.*", func(_ context.Context, ev event.Event) error {
		topics = append(topics, ev.Topic)
		last = ev.Payload.(find.Status)
		return nil
	})
	require.NoError(t, err)

	openWith(s, "a")
	assert.Equal(t, find.TopicOpened, topics[0])
	assert.Equal(t, s.ID(), last.SessionID)
	assert.Equal(t, 2, last.Count)
	assert.Equal(t, "2 matches.", last.Summary)

	s.Close()
	assert.Equal(t, find.TopicClosed, topics[len(topics)-1])
	assert.False(t, last.Open)
}

func TestSearchForSkipsDebounce(t *testing.T) {
	_, s := newSession(t, "ab ab ab", find.WithDebounce(time.Hour))
	s.Open(find.ModeFind)

	s.SetPattern("zz")
	assert.Equal(t, 3, s.SearchFor("ab"))
	assert.Equal(t, "ab", s.Pattern())
	assert.Equal(t, 0, s.CurrentIndex())

	s.Close()
	assert.Equal(t, 0, s.SearchFor("ab"))
}
