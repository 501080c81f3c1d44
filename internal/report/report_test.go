package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/adxstudio/internal/engine/buffer"
	"github.com/dshills/adxstudio/internal/find"
	"github.com/dshills/adxstudio/internal/report"
	"github.com/dshills/adxstudio/internal/view"
)

func session(t *testing.T, text, pattern string, opts find.Options) (*view.View, *find.Session) {
	t.Helper()
	v := view.New(buffer.NewBufferFromString(text))
	t.Cleanup(v.Close)

	s := v.Finder()
	s.SetOptions(opts)
	s.Open(find.ModeFind)
	s.SearchFor(pattern)
	return v, s
}

func TestJSON(t *testing.T) {
	v, s := session(t, "cat\nthe cat sat", "cat", find.Options{WholeWord: true})

	out, err := report.JSON(s, v.Text(), report.WithSource("notes.txt"))
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(out))

	doc := gjson.ParseBytes(out)
	assert.Equal(t, "notes.txt", doc.Get("source").String())
	assert.Equal(t, "cat", doc.Get("pattern").String())
	assert.True(t, doc.Get("options.whole_word").Bool())
	assert.False(t, doc.Get("options.regex").Bool())
	assert.Equal(t, int64(2), doc.Get("count").Int())
	assert.Equal(t, int64(0), doc.Get("current").Int())
	assert.Equal(t, "2 matches.", doc.Get("summary").String())
	assert.False(t, doc.Get("replaced").Exists())

	assert.Equal(t, []int64{0, 8}, toInts(doc.Get("matches.#.start").Array()))
	second := doc.Get("matches.1")
	assert.Equal(t, int64(11), second.Get("end").Int())
	assert.Equal(t, int64(2), second.Get("line").Int())
	assert.Equal(t, int64(5), second.Get("column").Int())
	assert.Equal(t, "cat", second.Get("text").String())
}

func TestJSONNoMatches(t *testing.T) {
	v, s := session(t, "abc", "zzz", find.Options{})

	out, err := report.JSON(s, v.Text(), report.WithIndent(), report.WithReplaced(0))
	require.NoError(t, err)

	doc := gjson.ParseBytes(out)
	assert.True(t, doc.Get("matches").IsArray())
	assert.Empty(t, doc.Get("matches").Array())
	assert.Equal(t, "no result.", doc.Get("summary").String())
	assert.False(t, doc.Get("current").Exists())
	assert.False(t, doc.Get("source").Exists())
	assert.Contains(t, string(out), "\n")
}

func TestJSONReplaced(t *testing.T) {
	v, s := session(t, "a-b-c", "-", find.Options{})
	s.SetReplacement("+")
	n := s.ReplaceAll()

	out, err := report.JSON(s, v.Text(), report.WithReplaced(n))
	require.NoError(t, err)
	assert.Equal(t, int64(2), gjson.GetBytes(out, "replaced").Int())
	assert.Equal(t, int64(0), gjson.GetBytes(out, "count").Int())
}

func TestJSONNilSession(t *testing.T) {
	_, err := report.JSON(nil, "")
	assert.ErrorIs(t, err, report.ErrNoSession)
}

func TestText(t *testing.T) {
	v, s := session(t, "x1\ny x2", `x\d`, find.Options{Regex: true})

	var out bytes.Buffer
	require.NoError(t, report.Text(&out, s, v.Text(), report.WithSource("f.txt")))
	assert.Equal(t, "f.txt:1:1: x1\nf.txt:2:3: x2\n", out.String())

	out.Reset()
	require.NoError(t, report.Text(&out, s, v.Text()))
	assert.Equal(t, "1:1: x1\n2:3: x2\n", out.String())
}

func toInts(results []gjson.Result) []int64 {
	out := make([]int64, len(results))
	for i, r := range results {
		out[i] = r.Int()
	}
	return out
}
