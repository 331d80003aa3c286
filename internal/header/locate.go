package header

import (
	"strings"

	"mcomment/internal/span"
	"mcomment/internal/textutil"
)

// LocateRange returns the span of the leading comment block: every line from
// the top that is a comment, a verbatim marker or inside a verbatim block.
// A file that does not start with a comment yields the empty range {0, 0},
// meaning a fresh header is inserted rather than replaced.
func LocateRange(text string) span.Range {
	end := 0
	inBlock := false
	for _, l := range textutil.SplitLines(text) {
		t := l.Trimmed()
		switch {
		case t == VerbatimOpen:
			inBlock = true
		case t == VerbatimClose:
			inBlock = false
		case inBlock, strings.HasPrefix(t, CommentMarker):
		default:
			return span.Range{Start: 0, End: min(end, len(text))}
		}
		end += len(l.Text) + 1
	}
	return span.Range{Start: 0, End: min(end, len(text))}
}
