// Package textutil holds the small text helpers shared by the header parser
// and the body scanner: newline normalization and an offset-preserving line
// model.
package textutil

import (
	"bytes"
	"strings"
)

// NormalizeUTF8LF converts CRLF to LF and ensures the output is valid UTF-8
// by replacing invalid byte sequences with the Unicode replacement character.
func NormalizeUTF8LF(b []byte) []byte {
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	b = bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
	return bytes.ToValidUTF8(b, []byte("�"))
}

// Line is one source line. Start is the absolute byte offset of the first
// character; Text excludes the terminating '\n' (a trailing '\r' is kept so
// that Start+len(Text) stays a valid offset).
type Line struct {
	Start int
	Text  string
}

// End returns the offset just past the line content (before '\n').
func (l Line) End() int { return l.Start + len(l.Text) }

// Trimmed returns the line with surrounding whitespace removed.
func (l Line) Trimmed() string { return strings.TrimSpace(l.Text) }

// SplitLines splits s on '\n'. Like strings.Split, a trailing newline yields
// a final empty line and the empty string yields a single empty line.
func SplitLines(s string) []Line {
	out := make([]Line, 0, strings.Count(s, "\n")+1)
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, Line{Start: start, Text: s[start:i]})
			start = i + 1
		}
	}
	return append(out, Line{Start: start, Text: s[start:]})
}

// LineIndexAt returns the index into lines of the line containing offset,
// or -1 when offset is outside every line.
func LineIndexAt(lines []Line, offset int) int {
	lo, hi := 0, len(lines)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		l := lines[mid]
		switch {
		case offset < l.Start:
			hi = mid - 1
		case offset > l.End():
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}
