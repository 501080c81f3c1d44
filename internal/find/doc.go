// Package find implements the editor's find/replace engine.
//
// A Session is bound to one editor view (its Host). While open it keeps a
// live set of match markers over the host document, navigates between them
// cyclically, and replaces one or all of them while the markers follow the
// edits.
//
// # Patterns
//
// Patterns use the ECMAScript regular expression dialect. A literal pattern
// has its metacharacters escaped; whole-word wraps it in \b anchors. Matching
// is always multiline (^ and $ match at line boundaries) and the document is
// searched as one flat string. An invalid pattern never produces an error at
// the session level: it simply yields no matches.
//
// # Lifecycle
//
//	s := find.New(host, find.WithBus(bus))
//	s.Open(find.ModeReplace) // picks up the selected text as pattern
//	s.SetPattern("foo")      // debounced live search
//	s.Select(find.Next)
//	s.SetReplacement("bar")
//	s.ReplaceAll()
//	s.Close()
//
// Sessions are not safe for concurrent use; drive them from the goroutine
// that owns the host view.
package find
