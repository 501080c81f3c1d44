package find

import (
	"github.com/dshills/adxstudio/internal/input/key"
)

// Command is a logical find command bound to a global key.
type Command string

const (
	CommandFind     Command = "find"
	CommandReplace  Command = "replace"
	CommandFindNext Command = "find-next"
	CommandFindPrev Command = "find-previous"
)

// Commands lists every command in binding order.
func Commands() []Command {
	return []Command{CommandFind, CommandReplace, CommandFindNext, CommandFindPrev}
}

// Execute runs cmd. On a closed session find-next and find-previous open
// it in find mode, which selects the match at or after the cursor line.
// It reports whether cmd was recognized.
func (s *Session) Execute(cmd Command) bool {
	switch cmd {
	case CommandFind:
		s.Open(ModeFind)
	case CommandReplace:
		s.Open(ModeReplace)
	case CommandFindNext:
		if !s.open {
			s.Open(ModeFind)
			return true
		}
		s.Select(Next)
	case CommandFindPrev:
		if !s.open {
			s.Open(ModeFind)
			return true
		}
		s.Select(Previous)
	default:
		return false
	}
	return true
}

// HandleKey handles a key typed into one of the find bar inputs and
// reports whether it was consumed.
//
// In the pattern input Enter selects the next match and Shift+Enter the
// previous one. In the replacement input Enter replaces the selected
// match. Escape closes the session from either input.
func (s *Session) HandleKey(field FocusTarget, ev key.Event) bool {
	if !s.open {
		return false
	}

	switch {
	case ev.Key == key.KeyEscape && ev.Modifiers.IsEmpty():
		s.Close()
		return true
	case ev.Key != key.KeyEnter:
		return false
	}

	switch field {
	case FocusPattern:
		if s.debouncer.Pending() {
			s.debouncer.Cancel()
			s.Search()
		}
		if ev.Modifiers.HasShift() {
			s.Select(Previous)
		} else {
			s.Select(Next)
		}
		return true
	case FocusReplacement:
		if ev.Modifiers.IsEmpty() {
			s.ReplaceOne()
			return true
		}
	}
	return false
}
