package scan

import (
	"regexp"
	"strings"

	"mcomment/internal/header"
	"mcomment/internal/span"
	"mcomment/internal/textutil"
)

var (
	reDeclStart   = regexp.MustCompile(`^[ \t]*function\b`)
	reLeadPercent = regexp.MustCompile(`^%+`)
)

const continuation = "..."

// layout is the per-text line classification shared by all passes.
type layout struct {
	text  string
	lines []textutil.Line
	// code[i] is the code part of line i: empty for comment lines and
	// block-comment content, cut at the first '%' otherwise.
	code []string
	// block[i] is true for block-comment markers and their content.
	block []bool
	// doc[i] is true for lines of the documentation header.
	doc []bool
	// declFirst..declLast are the declaration lines, -1 when absent.
	declFirst, declLast int
}

func newLayout(text string) *layout {
	l := &layout{text: text, lines: textutil.SplitLines(text), declFirst: -1, declLast: -1}
	n := len(l.lines)
	l.code = make([]string, n)
	l.block = make([]bool, n)
	l.doc = make([]bool, n)

	inBlock := false
	for i, ln := range l.lines {
		t := ln.Trimmed()
		switch {
		case !inBlock && t == header.VerbatimOpen:
			inBlock = true
			l.block[i] = true
		case inBlock && t == header.VerbatimClose:
			inBlock = false
			l.block[i] = true
		case inBlock:
			l.block[i] = true
		default:
			l.code[i] = ln.Text[:commentStart(ln.Text)]
		}
	}

	for i := range l.lines {
		if !l.block[i] && reDeclStart.MatchString(l.code[i]) {
			l.declFirst, l.declLast = i, i
			for l.declLast+1 < n && strings.HasSuffix(strings.TrimSpace(l.code[l.declLast]), continuation) {
				l.declLast++
			}
			break
		}
	}

	l.markDoc(0)
	if l.declFirst >= 0 && l.titledRun(l.declLast+1) {
		l.markDoc(l.declLast + 1)
	}
	return l
}

// titledRun reports whether the run of comment lines starting at line i
// holds a section title outside block comments. Only such a run below the
// declaration is a header; anything else there annotates the code after it.
func (l *layout) titledRun(i int) bool {
	for ; i < len(l.lines) && l.isComment(i); i++ {
		if !l.block[i] && header.IsTitle(l.lines[i].Trimmed()) {
			return true
		}
	}
	return false
}

// markDoc flags the run of comment lines starting at line i.
func (l *layout) markDoc(i int) {
	for ; i < len(l.lines) && l.isComment(i); i++ {
		l.doc[i] = true
	}
}

// isComment reports whether line i holds no code: a comment line or part of
// a block comment.
func (l *layout) isComment(i int) bool {
	if l.block[i] {
		return true
	}
	return strings.HasPrefix(l.lines[i].Trimmed(), header.CommentMarker)
}

func (l *layout) isDecl(i int) bool {
	return l.declFirst >= 0 && i >= l.declFirst && i <= l.declLast
}

// lineAt returns the index of the line containing offset.
func (l *layout) lineAt(offset int) int {
	return textutil.LineIndexAt(l.lines, offset)
}

// inCode reports whether offset lies in the code part of its line.
func (l *layout) inCode(offset int) bool {
	i := l.lineAt(offset)
	if i < 0 || l.block[i] {
		return false
	}
	return offset < l.lines[i].Start+len(l.code[i])
}

// trailing returns the comment text after the code on line i with the
// leading '%' characters removed, and whether the line has a comment.
func (l *layout) trailing(i int) (string, bool) {
	if l.block[i] {
		return "", false
	}
	rest := l.lines[i].Text[len(l.code[i]):]
	if !strings.HasPrefix(rest, header.CommentMarker) {
		return "", false
	}
	return strings.TrimSpace(reLeadPercent.ReplaceAllString(rest, "")), true
}

// standalone returns the text of line i when it is a plain comment line
// outside the header, block comments and section titles.
func (l *layout) standalone(i int) (string, bool) {
	if i < 0 || i >= len(l.lines) || l.block[i] || l.doc[i] {
		return "", false
	}
	t := l.lines[i].Trimmed()
	if !strings.HasPrefix(t, header.CommentMarker) || header.IsTitle(t) ||
		t == header.VerbatimOpen || t == header.VerbatimClose {
		return "", false
	}
	return strings.TrimSpace(reLeadPercent.ReplaceAllString(t, "")), true
}

// commentStart returns the index of the first '%' that starts a comment,
// skipping quoted strings. A quote directly after an identifier, a closing
// bracket, a dot or another quote is the transpose operator.
func commentStart(line string) int {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == quote {
				if i+1 < len(line) && line[i+1] == quote {
					i++ // doubled quote escapes itself
					continue
				}
				quote = 0
			}
			continue
		}
		switch c {
		case '%':
			return i
		case '"':
			quote = c
		case '\'':
			if i > 0 && isTransposeLeft(line[i-1]) {
				continue
			}
			quote = c
		}
	}
	return len(line)
}

func isTransposeLeft(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '_', ')', ']', '}', '.', '\'':
		return true
	}
	return false
}

// DeclHeaderRange returns the span of a documentation header placed directly
// below the function declaration, as in
//
//	function y = f(a)
//	% 参数：
//	%   a: input
//
// ok is false when text starts with a comment, has no declaration, or the
// comment block below the declaration holds no section title.
func DeclHeaderRange(text string) (r span.Range, ok bool) {
	l := newLayout(text)
	if l.declFirst < 0 || l.isComment(0) {
		return span.Range{}, false
	}
	first := l.declLast + 1
	last := -1
	for i := first; i < len(l.lines) && l.doc[i]; i++ {
		last = i
	}
	if last < 0 {
		return span.Range{}, false
	}
	return span.Range{
		Start: l.lines[first].Start,
		End:   min(l.lines[last].End()+1, len(text)),
	}, true
}
