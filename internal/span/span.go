// Package span finds regular-expression matches together with their absolute
// byte offsets and line numbers.
//
// Every sequence returned by All owns its cursor: ranging over it twice
// starts from the beginning both times, and no state is shared between
// callers using the same compiled pattern.
package span

import (
	"iter"
	"regexp"
	"strings"
	"unicode/utf8"
)

// NoLine is returned by LineOf for offsets that do not fall inside the text.
const NoLine = 0

// Range is a half-open byte range [Start, End) into a text.
type Range struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Empty reports whether the range covers no bytes.
func (r Range) Empty() bool { return r.End <= r.Start }

// Of returns the text covered by r, clamped to text.
func (r Range) Of(text string) string {
	start, end := max(r.Start, 0), min(r.End, len(text))
	if end <= start {
		return ""
	}
	return text[start:end]
}

// Match is a single regular-expression match.
type Match struct {
	Offset int      // absolute byte offset of the whole match
	End    int      // offset just past the match
	Groups []string // Groups[0] is the whole match; unmatched groups are ""
	index  []int
}

// Group returns submatch i, or "" when i is out of range.
func (m Match) Group(i int) string {
	if i < 0 || i >= len(m.Groups) {
		return ""
	}
	return m.Groups[i]
}

// GroupOffset returns the absolute offset of submatch i, or -1 when the
// group did not participate in the match.
func (m Match) GroupOffset(i int) int {
	if i < 0 || 2*i >= len(m.index) {
		return -1
	}
	return m.index[2*i]
}

// All yields every match of re in text in order of offset.
//
// Matching runs over the whole text so that anchors and word boundaries see
// the real context. The cursor only moves forward: a match starting before
// it, or a repeated empty match at the same offset, is skipped, so patterns
// that can match the empty string still terminate.
func All(text string, re *regexp.Regexp) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		if re == nil {
			return
		}
		cursor, lastEmpty := 0, -1
		for _, idx := range re.FindAllStringSubmatchIndex(text, -1) {
			start, end := idx[0], idx[1]
			if start < cursor || (start == end && start == lastEmpty) {
				continue
			}
			if !yield(newMatch(text, idx)) {
				return
			}
			if start == end {
				lastEmpty = start
				_, size := utf8.DecodeRuneInString(text[end:])
				cursor = end + max(size, 1)
				continue
			}
			cursor = end
		}
	}
}

// Collect gathers All(text, re) into a slice.
func Collect(text string, re *regexp.Regexp) []Match {
	var out []Match
	for m := range All(text, re) {
		out = append(out, m)
	}
	return out
}

// LineOf returns the 1-based line number containing offset: one plus the
// number of '\n' characters strictly before it. Offsets outside the text
// yield NoLine.
func LineOf(text string, offset int) int {
	if offset < 0 || offset > len(text) {
		return NoLine
	}
	return 1 + strings.Count(text[:offset], "\n")
}

// LineStart returns the offset of the first byte of the line containing
// offset. Offsets are clamped to the text.
func LineStart(text string, offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	return strings.LastIndexByte(text[:offset], '\n') + 1
}

func newMatch(text string, idx []int) Match {
	groups := make([]string, len(idx)/2)
	for g := range groups {
		if a, b := idx[2*g], idx[2*g+1]; a >= 0 && b >= 0 {
			groups[g] = text[a:b]
		}
	}
	return Match{Offset: idx[0], End: idx[1], Groups: groups, index: idx}
}
