package find

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultMatchTimeout bounds a single regular expression evaluation.
const DefaultMatchTimeout = 250 * time.Millisecond

// Options are the search toggles shown next to the pattern input.
type Options struct {
	CaseSensitive bool
	WholeWord     bool
	Regex         bool
}

// Normalize returns the options with WholeWord cleared when Regex is set;
// word boundaries are not applied to arbitrary expressions.
func (o Options) Normalize() Options {
	if o.Regex {
		o.WholeWord = false
	}
	return o
}

// Pattern is a compiled search pattern.
type Pattern struct {
	source string
	expr   string
	opts   Options
	re     *regexp2.Regexp
}

// Source returns the pattern as the user typed it.
func (p *Pattern) Source() string {
	return p.source
}

// Expr returns the regular expression the pattern compiled to.
func (p *Pattern) Expr() string {
	return p.expr
}

// Options returns the normalized options the pattern was compiled with.
func (p *Pattern) Options() Options {
	return p.opts
}

// Compile builds a Pattern using DefaultMatchTimeout.
func Compile(pattern string, opts Options) (*Pattern, error) {
	return CompileWithTimeout(pattern, opts, DefaultMatchTimeout)
}

// CompileWithTimeout builds a Pattern whose evaluations abort after timeout.
// A non-positive timeout disables the limit.
func CompileWithTimeout(pattern string, opts Options, timeout time.Duration) (*Pattern, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	opts = opts.Normalize()
	expr := pattern
	if !opts.Regex {
		expr = regexp2.Escape(pattern)
		if opts.WholeWord {
			expr = `\b` + expr + `\b`
		}
	}

	flags := regexp2.RegexOptions(regexp2.ECMAScript | regexp2.Multiline)
	if !opts.CaseSensitive {
		flags |= regexp2.IgnoreCase
	}

	re, err := regexp2.Compile(expr, flags)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}

	return &Pattern{source: pattern, expr: expr, opts: opts, re: re}, nil
}
