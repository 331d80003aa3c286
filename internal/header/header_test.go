package header

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcomment/internal/span"
)

const sample = `% 功能：
%   Weighted sum of two inputs.
%   Second line.
% 参数：
%   a: first input | row vector
%   b: second input
% 返回值：
%   y: result
% 核心变量：
%   w: weights | sums to one
%   p.value: 10 | ok
% 备注：
%{
free text
  % 参数：
  indented
%}

function y = f(a, b)
`

func TestParseSample(t *testing.T) {
	r := Parse(sample)
	assert.Equal(t, "Weighted sum of two inputs.\nSecond line.", r.Description)
	assert.Equal(t, Table{
		{Name: "a", Value: "first input", Comment: "row vector"},
		{Name: "b", Value: "second input", Comment: NoComment},
	}, r.Params)
	assert.Equal(t, Table{{Name: "y", Value: "result", Comment: NoComment}}, r.Returns)
	assert.Equal(t, Table{
		{Name: "w", Value: "weights", Comment: "sums to one"},
		{Name: "p.value", Value: "10", Comment: "ok"},
	}, r.Variables)
	assert.Equal(t, "%{\nfree text\n  % 参数：\n  indented\n%}", r.Remarks)
}

func TestParseEmptyText(t *testing.T) {
	r := Parse("")
	assert.Equal(t, None, r.Description)
	assert.Equal(t, None, r.Remarks)
	assert.Empty(t, r.Params)
	assert.Empty(t, r.Returns)
	assert.Empty(t, r.Variables)
	assert.Equal(t, span.Range{}, LocateRange(""))
}

func TestParseDeclarationFirst(t *testing.T) {
	text := "function y = f(a, b)\n% 参数：\n%   a: 输入 | 说明A\n%   \n y = a + b"
	r := Parse(text)
	assert.Equal(t, Table{{Name: "a", Value: "输入", Comment: "说明A"}}, r.Params)
	assert.Equal(t, None, r.Description)
}

func TestSectionStopsAtBlankLineAndCode(t *testing.T) {
	text := "% 功能：\n%   one\n\n%   two\n"
	assert.Equal(t, "one", Parse(text).Description)

	text = "% 功能：\n%   one\nx = 1\n%   two\n"
	assert.Equal(t, "one", Parse(text).Description)
}

func TestSectionTitleIsPrefixExact(t *testing.T) {
	text := "%  功能：\n%   x\n%功能：\n%   y\n"
	assert.Equal(t, None, Parse(text).Description)
}

func TestMalformedRowsAreDropped(t *testing.T) {
	text := "% 参数：\n%   no colon here\n%   ok: fine\n%   : missing name\n"
	r := Parse(text)
	require.Len(t, r.Params, 1)
	assert.Equal(t, "ok", r.Params[0].Name)
}

func TestRowEmptyValue(t *testing.T) {
	row, ok := ParseRow("b: ")
	require.True(t, ok)
	assert.Equal(t, Row{Name: "b", Value: "", Comment: NoComment}, row)
}

func TestSplitValueComment(t *testing.T) {
	v, c := SplitValueComment("  speed | m/s | rounded ")
	assert.Equal(t, "speed", v)
	assert.Equal(t, "m/s | rounded", c)

	v, c = SplitValueComment("plain")
	assert.Equal(t, "plain", v)
	assert.Equal(t, NoComment, c)

	v, c = SplitValueComment("x |")
	assert.Equal(t, "x", v)
	assert.Equal(t, NoComment, c)
}

func TestUnterminatedVerbatimBlockIsKept(t *testing.T) {
	text := "% 备注：\n%{\nline one\n"
	assert.Equal(t, "%{\nline one\n\n%}", Parse(text).Remarks)
}

func TestRenderFunctionForm(t *testing.T) {
	r := Record{
		Description: "Adds numbers.",
		Params:      Table{{Name: "a", Value: "first", Comment: "-"}, {Name: "b", Value: "", Comment: ""}},
		Variables:   Table{{Name: "x", Value: "tmp", Comment: "scratch"}},
		Remarks:     None,
	}
	want := "% 功能：\n%   Adds numbers.\n" +
		"% 参数：\n%   a: first\n%   b: \n" +
		"% 返回值：\n%   无\n" +
		"% 核心变量：\n%   x: tmp | scratch\n" +
		"% 备注：\n%   无\n"
	assert.Equal(t, want, Render(r, FormFunction))
}

func TestRenderScriptFormOmitsSignatureTables(t *testing.T) {
	r := Record{Description: "d", Params: Table{{Name: "a", Value: "x"}}, Remarks: "r"}
	out := Render(r, FormScript)
	assert.NotContains(t, out, TitleParams)
	assert.NotContains(t, out, TitleReturns)
	assert.Contains(t, out, "% 核心变量：\n%   无\n")
}

func TestRenderVerbatimUnindented(t *testing.T) {
	r := Record{Description: "d", Remarks: "%{\n  keep   spacing\n%}"}
	out := Render(r, FormScript)
	assert.Contains(t, out, "% 备注：\n%{\n  keep   spacing\n%}\n")
}

func TestRoundTrip(t *testing.T) {
	records := []Record{
		Parse(sample),
		{Description: "", Remarks: ""},
		{
			Description: "first\n\nthird",
			Params:      Table{{Name: "s", Value: "struct"}, {Name: "s.a", Value: "member", Comment: "c"}},
			Returns:     Table{{Name: "out", Value: ""}},
			Variables:   Table{{Name: "k", Value: "--> Point", Comment: "-"}},
			Remarks:     "%{\n%}\ntrailing",
		},
		{Description: None, Remarks: None},
	}
	for i, r := range records {
		for _, f := range []Form{FormFunction, FormScript} {
			want := r.Normalize()
			if f == FormScript {
				want.Params, want.Returns = nil, nil
			}
			got := Parse(Render(r, f))
			assert.Equal(t, want, got, "record %d form %s", i, f)
		}
	}
}

func TestLocateRange(t *testing.T) {
	text := "% a\n% b\nx = 1\n% c\n"
	assert.Equal(t, span.Range{Start: 0, End: 8}, LocateRange(text))
}

func TestLocateRangeSkipsVerbatimBlock(t *testing.T) {
	text := "% 备注：\n%{\nnot a comment\n\n% 功能：\n%}\nx = 1\n"
	r := LocateRange(text)
	assert.Equal(t, "% 备注：\n%{\nnot a comment\n\n% 功能：\n%}\n", r.Of(text))
}

func TestLocateRangeWholeFileWithoutTrailingNewline(t *testing.T) {
	text := "% only\n% comments"
	assert.Equal(t, span.Range{Start: 0, End: len(text)}, LocateRange(text))
}

func TestLocateRangeCodeFirst(t *testing.T) {
	assert.Equal(t, span.Range{}, LocateRange("function f()\n% doc\n"))
}

func TestSectionIgnoresTitlesInsideVerbatim(t *testing.T) {
	text := "% 备注：\n%{\n% 参数：\n%   z: hidden\n%}\n"
	r := Parse(text)
	assert.Empty(t, r.Params)
	assert.Equal(t, "%{\n% 参数：\n%   z: hidden\n%}", r.Remarks)
}
