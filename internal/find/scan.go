package find

import (
	"github.com/dshills/adxstudio/internal/engine/buffer"
)

// Match is one occurrence of a pattern in a document: the half-open byte
// range [Start, End) plus its line/column positions.
type Match struct {
	Start buffer.ByteOffset
	End   buffer.ByteOffset
	From  buffer.Point
	To    buffer.Point
}

// Len returns the length of the match in bytes.
func (m Match) Len() int {
	return int(m.End - m.Start)
}

// Range returns the match as a buffer range.
func (m Match) Range() buffer.Range {
	return buffer.Range{Start: m.Start, End: m.End}
}

// Scan returns every match of p in text in document order. Matches do not
// overlap; each search resumes at the end of the previous match.
//
// The scan stops at the first zero-length match, so patterns such as `a*`
// report only the non-empty matches that precede it. A nil pattern or a
// match timeout yields no matches. From and To are left zero; use Locate to
// fill them in.
func Scan(p *Pattern, text string) []Match {
	if p == nil || text == "" {
		return nil
	}

	offsets := runeByteOffsets(text)

	var matches []Match
	m, err := p.re.FindStringMatch(text)
	for m != nil && err == nil {
		if m.Length == 0 {
			break
		}
		matches = append(matches, Match{
			Start: buffer.ByteOffset(offsets[m.Index]),
			End:   buffer.ByteOffset(offsets[m.Index+m.Length]),
		})
		m, err = p.re.FindNextMatch(m)
	}
	if err != nil {
		return nil
	}
	return matches
}

// PointConverter converts byte offsets to line/column positions.
type PointConverter interface {
	OffsetToPoint(offset buffer.ByteOffset) buffer.Point
}

// Locate fills in From and To for every match.
func Locate(matches []Match, conv PointConverter) {
	for i := range matches {
		matches[i].From = conv.OffsetToPoint(matches[i].Start)
		matches[i].To = conv.OffsetToPoint(matches[i].End)
	}
}

// Find compiles pattern and scans text, treating compile errors as no matches.
func Find(pattern string, opts Options, text string) []Match {
	p, err := Compile(pattern, opts)
	if err != nil {
		return nil
	}
	return Scan(p, text)
}

// runeByteOffsets maps rune indexes, as reported by the regexp engine, to
// byte offsets. The final entry is len(text). Invalid UTF-8 bytes count as
// one rune each, matching the engine's own decoding.
func runeByteOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
