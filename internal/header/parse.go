package header

import (
	"regexp"
	"strings"

	"mcomment/internal/textutil"
)

var (
	reTitle = regexp.MustCompile(`^% \S+：$`)
	reRow   = regexp.MustCompile(`^(\S+?): ?(.*)$`)
)

// Parse extracts the structured record from text. It never fails: missing
// sections read as None and rows that do not look like "name: value" are
// dropped.
func Parse(text string) Record {
	lines := textutil.SplitLines(text)
	remarks := Section(lines, TitleRemarks)
	if remarks == "" {
		remarks = None
	}
	return Record{
		Description: Section(lines, TitleDescription),
		Params:      parseTable(Section(lines, TitleParams)),
		Returns:     parseTable(Section(lines, TitleReturns)),
		Variables:   parseTable(Section(lines, TitleVariables)),
		Remarks:     remarks,
	}
}

// Section returns the body of the first section titled title, one entry per
// line with the comment marker and indentation removed. Verbatim blocks are
// returned wrapped in their markers with their content untouched. The
// section ends at a blank line, the next title line or the first line that
// is not a comment. A title that never appears yields None.
func Section(lines []textutil.Line, title string) string {
	want := titlePrefix + title + titleColon
	start := -1
	inBlock := false
	for i, l := range lines {
		t := l.Trimmed()
		switch {
		case !inBlock && t == VerbatimOpen:
			inBlock = true
		case inBlock && t == VerbatimClose:
			inBlock = false
		case !inBlock && t == want:
			start = i + 1
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return None
	}

	var (
		out   []string
		block strings.Builder
	)
	inBlock = false
	flush := func() {
		out = append(out, VerbatimOpen+"\n"+block.String()+VerbatimClose)
		block.Reset()
	}
scan:
	for _, l := range lines[start:] {
		t := l.Trimmed()
		switch {
		case !inBlock && t == VerbatimOpen:
			inBlock = true
		case inBlock && t == VerbatimClose:
			inBlock = false
			flush()
		case inBlock:
			block.WriteString(strings.TrimRight(l.Text, "\r"))
			block.WriteByte('\n')
		case t == "", IsTitle(t), !strings.HasPrefix(t, CommentMarker):
			break scan
		default:
			out = append(out, strings.TrimSpace(t[len(CommentMarker):]))
		}
	}
	if inBlock {
		// unterminated block: keep what was captured
		flush()
	}
	return strings.Join(out, "\n")
}

// IsTitle reports whether a trimmed line is a section title line.
func IsTitle(trimmed string) bool {
	return reTitle.MatchString(trimmed)
}

func parseTable(body string) Table {
	if body == None || body == "" {
		return nil
	}
	var t Table
	for _, line := range strings.Split(body, "\n") {
		if row, ok := ParseRow(line); ok {
			t = append(t, row)
		}
	}
	return t
}

// ParseRow parses "name: value[ | comment]". The name must not contain
// whitespace; a missing comment reads as NoComment.
func ParseRow(line string) (Row, bool) {
	m := reRow.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Row{}, false
	}
	value, comment := SplitValueComment(m[2])
	return Row{Name: m[1], Value: value, Comment: comment}, true
}

// SplitValueComment splits an annotation at the first '|' into a value and a
// comment. Without a '|' (or with nothing after it) the comment is NoComment.
func SplitValueComment(s string) (value, comment string) {
	s = strings.TrimSpace(s)
	i := strings.IndexByte(s, '|')
	if i < 0 {
		return s, NoComment
	}
	value = strings.TrimSpace(s[:i])
	comment = strings.TrimSpace(s[i+1:])
	if comment == "" {
		comment = NoComment
	}
	return value, comment
}
