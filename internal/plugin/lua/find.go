package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/adxstudio/internal/find"
	"github.com/dshills/adxstudio/internal/view"
)

// FindModule exposes a view's find session to scripts as the global find
// table. Searches run immediately rather than through the debounce.
type FindModule struct {
	view *view.View
}

// NewFindModule creates a find module bound to v.
func NewFindModule(v *view.View) *FindModule {
	return &FindModule{view: v}
}

// Name returns the global the module is installed as.
func (m *FindModule) Name() string { return "find" }

// Register installs the find table into L.
func (m *FindModule) Register(L *lua.LState) error {
	if m.view == nil {
		return ErrNoView
	}

	mod := L.NewTable()
	L.SetField(mod, "search", L.NewFunction(m.search))
	L.SetField(mod, "next", L.NewFunction(m.next))
	L.SetField(mod, "prev", L.NewFunction(m.prev))
	L.SetField(mod, "replace", L.NewFunction(m.replace))
	L.SetField(mod, "replace_all", L.NewFunction(m.replaceAll))
	L.SetField(mod, "count", L.NewFunction(m.count))
	L.SetField(mod, "current", L.NewFunction(m.current))
	L.SetField(mod, "matches", L.NewFunction(m.matches))
	L.SetField(mod, "summary", L.NewFunction(m.summary))
	L.SetField(mod, "text", L.NewFunction(m.text))
	L.SetField(mod, "set_text", L.NewFunction(m.setText))
	L.SetField(mod, "close", L.NewFunction(m.close))
	L.SetGlobal(m.Name(), mod)
	return nil
}

// session returns the view's session, opening it when closed.
func (m *FindModule) session(L *lua.LState) *find.Session {
	s := m.view.Finder()
	if s == nil {
		L.RaiseError("view is closed")
		return nil
	}
	if !s.IsOpen() {
		s.Open(find.ModeFind)
	}
	return s
}

// search(pattern [, opts]) -> count
//
// opts may hold the boolean fields case, word and regex.
func (m *FindModule) search(L *lua.LState) int {
	pattern := L.CheckString(1)
	s := m.session(L)

	opts := s.Options()
	if tbl := L.OptTable(2, nil); tbl != nil {
		opts.CaseSensitive = boolField(L, tbl, "case", opts.CaseSensitive)
		opts.WholeWord = boolField(L, tbl, "word", opts.WholeWord)
		opts.Regex = boolField(L, tbl, "regex", opts.Regex)
	}
	s.SetOptions(opts)

	L.Push(lua.LNumber(s.SearchFor(pattern)))
	return 1
}

// next() -> bool
func (m *FindModule) next(L *lua.LState) int {
	L.Push(lua.LBool(m.session(L).Select(find.Next)))
	return 1
}

// prev() -> bool
func (m *FindModule) prev(L *lua.LState) int {
	L.Push(lua.LBool(m.session(L).Select(find.Previous)))
	return 1
}

// replace(replacement) -> bool
func (m *FindModule) replace(L *lua.LState) int {
	repl := L.CheckString(1)
	s := m.session(L)
	s.SetReplacement(repl)
	L.Push(lua.LBool(s.ReplaceOne()))
	return 1
}

// replace_all(replacement) -> count
func (m *FindModule) replaceAll(L *lua.LState) int {
	repl := L.CheckString(1)
	s := m.session(L)
	s.SetReplacement(repl)
	L.Push(lua.LNumber(s.ReplaceAll()))
	return 1
}

// count() -> number of matches
func (m *FindModule) count(L *lua.LState) int {
	L.Push(lua.LNumber(m.session(L).Count()))
	return 1
}

// current() -> 1-based index of the selected match, or nil
func (m *FindModule) current(L *lua.LState) int {
	idx := m.session(L).CurrentIndex()
	if idx < 0 {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(idx + 1))
	return 1
}

// matches() -> array of {start, stop, line, col, text}
//
// start and stop are byte offsets of the half-open range; line and col are
// 1-based.
func (m *FindModule) matches(L *lua.LState) int {
	text := m.view.Text()
	list := L.NewTable()
	for _, match := range m.session(L).Matches() {
		t := L.NewTable()
		L.SetField(t, "start", lua.LNumber(match.Start))
		L.SetField(t, "stop", lua.LNumber(match.End))
		L.SetField(t, "line", lua.LNumber(match.From.Line+1))
		L.SetField(t, "col", lua.LNumber(match.From.Column+1))
		L.SetField(t, "text", lua.LString(text[match.Start:match.End]))
		list.Append(t)
	}
	L.Push(list)
	return 1
}

// summary() -> the find bar summary line
func (m *FindModule) summary(L *lua.LState) int {
	L.Push(lua.LString(m.session(L).Summary()))
	return 1
}

// text() -> document text
func (m *FindModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.view.Text()))
	return 1
}

// set_text(text)
func (m *FindModule) setText(L *lua.LState) int {
	if err := m.view.SetText(L.CheckString(1)); err != nil {
		L.RaiseError("set_text: %v", err)
	}
	return 0
}

// close()
func (m *FindModule) close(L *lua.LState) int {
	if s := m.view.Finder(); s != nil {
		s.Close()
	}
	return 0
}

func boolField(L *lua.LState, tbl *lua.LTable, name string, def bool) bool {
	v := L.GetField(tbl, name)
	if v == lua.LNil {
		return def
	}
	return lua.LVAsBool(v)
}
