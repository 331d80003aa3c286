package span

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllOffsetsAndGroups(t *testing.T) {
	text := "a = 1\nbb = 2\n"
	re := regexp.MustCompile(`(?m)^(\w+) =`)
	ms := Collect(text, re)
	require.Len(t, ms, 2)
	assert.Equal(t, 0, ms[0].Offset)
	assert.Equal(t, "a", ms[0].Group(1))
	assert.Equal(t, 6, ms[1].Offset)
	assert.Equal(t, "bb", ms[1].Group(1))
	assert.Equal(t, 6, ms[1].GroupOffset(1))
	assert.Equal(t, "", ms[1].Group(7))
	assert.Equal(t, -1, ms[1].GroupOffset(7))
}

func TestAllZeroWidthTerminates(t *testing.T) {
	text := "x=1\ny=2\n中文"
	re := regexp.MustCompile(`(?m)^|\b`)
	ms := Collect(text, re)
	require.NotEmpty(t, ms)
	for i := 1; i < len(ms); i++ {
		assert.Greater(t, ms[i].Offset, ms[i-1].Offset, "offsets must strictly increase")
	}
}

func TestAllEmptyPatternOverEmptyText(t *testing.T) {
	ms := Collect("", regexp.MustCompile(`x*`))
	require.Len(t, ms, 1)
	assert.Equal(t, 0, ms[0].Offset)
}

func TestAllIsRestartable(t *testing.T) {
	seq := All("a b c", regexp.MustCompile(`\w`))
	var first, second []string
	for m := range seq {
		first = append(first, m.Group(0))
		if len(first) == 2 {
			break
		}
	}
	for m := range seq {
		second = append(second, m.Group(0))
	}
	assert.Equal(t, []string{"a", "b"}, first)
	assert.Equal(t, []string{"a", "b", "c"}, second)
}

func TestAllNilPattern(t *testing.T) {
	assert.Empty(t, Collect("abc", nil))
}

func TestLineOf(t *testing.T) {
	text := "ab\ncd\n"
	assert.Equal(t, 1, LineOf(text, 0))
	assert.Equal(t, 1, LineOf(text, 2))
	assert.Equal(t, 2, LineOf(text, 3))
	assert.Equal(t, 3, LineOf(text, 6))
	assert.Equal(t, NoLine, LineOf(text, 7))
	assert.Equal(t, NoLine, LineOf(text, -1))
}

func TestLineStart(t *testing.T) {
	text := "ab\ncd"
	assert.Equal(t, 0, LineStart(text, 1))
	assert.Equal(t, 3, LineStart(text, 3))
	assert.Equal(t, 3, LineStart(text, 5))
	assert.Equal(t, 3, LineStart(text, 99))
	assert.Equal(t, 0, LineStart(text, -4))
}

func TestRangeOf(t *testing.T) {
	assert.Equal(t, "bc", Range{Start: 1, End: 3}.Of("abcd"))
	assert.Equal(t, "cd", Range{Start: 2, End: 10}.Of("abcd"))
	assert.Equal(t, "", Range{}.Of("abcd"))
	assert.True(t, Range{Start: 3, End: 3}.Empty())
}
