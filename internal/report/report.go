package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/adxstudio/internal/find"
)

// ErrNoSession is returned when rendering without a session.
var ErrNoSession = errors.New("report: no find session")

// Option configures rendering.
type Option func(*settings)

type settings struct {
	source   string
	replaced int
	indent   bool
}

// WithSource records the file the matches came from.
func WithSource(path string) Option {
	return func(s *settings) {
		s.source = path
	}
}

// WithReplaced records how many matches a replace-all rewrote.
func WithReplaced(n int) Option {
	return func(s *settings) {
		s.replaced = n
	}
}

// WithIndent pretty-prints the JSON output.
func WithIndent() Option {
	return func(s *settings) {
		s.indent = true
	}
}

// Snapshot is the part of a session a report reads.
type Snapshot interface {
	Pattern() string
	Options() find.Options
	Summary() string
	CurrentIndex() int
	Matches() []find.Match
}

// JSON renders the session's matches over text as a JSON document.
func JSON(s Snapshot, text string, opts ...Option) ([]byte, error) {
	if s == nil {
		return nil, ErrNoSession
	}
	cfg := settings{}
	for _, opt := range opts {
		opt(&cfg)
	}

	matches := s.Matches()
	o := s.Options()

	doc := []byte(`{}`)
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.SetBytes(doc, path, value)
	}

	if cfg.source != "" {
		set("source", cfg.source)
	}
	set("pattern", s.Pattern())
	set("options.case_sensitive", o.CaseSensitive)
	set("options.whole_word", o.WholeWord)
	set("options.regex", o.Regex)
	set("count", len(matches))
	if idx := s.CurrentIndex(); idx >= 0 {
		set("current", idx)
	}
	set("summary", s.Summary())
	if cfg.replaced > 0 {
		set("replaced", cfg.replaced)
	}
	if len(matches) == 0 {
		doc, err = setRaw(doc, err, "matches", `[]`)
	}
	for i, m := range matches {
		prefix := fmt.Sprintf("matches.%d.", i)
		set(prefix+"start", int(m.Start))
		set(prefix+"end", int(m.End))
		set(prefix+"line", int(m.From.Line)+1)
		set(prefix+"column", int(m.From.Column)+1)
		set(prefix+"text", slice(text, m))
	}
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	if cfg.indent {
		return pretty.Pretty(doc), nil
	}
	return doc, nil
}

// Text writes one "source:line:column: text" line per match. The source
// prefix is omitted when no source was given.
func Text(w io.Writer, s Snapshot, text string, opts ...Option) error {
	if s == nil {
		return ErrNoSession
	}
	cfg := settings{}
	for _, opt := range opts {
		opt(&cfg)
	}

	for _, m := range s.Matches() {
		var err error
		if cfg.source != "" {
			_, err = fmt.Fprintf(w, "%s:%d:%d: %s\n", cfg.source, m.From.Line+1, m.From.Column+1, slice(text, m))
		} else {
			_, err = fmt.Fprintf(w, "%d:%d: %s\n", m.From.Line+1, m.From.Column+1, slice(text, m))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func setRaw(doc []byte, err error, path, raw string) ([]byte, error) {
	if err != nil {
		return doc, err
	}
	return sjson.SetRawBytes(doc, path, []byte(raw))
}

// slice returns the matched text, or "" if text no longer covers m.
func slice(text string, m find.Match) string {
	if int(m.End) > len(text) || m.Start > m.End {
		return ""
	}
	return text[m.Start:m.End]
}
