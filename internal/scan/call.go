package scan

import (
	"regexp"
	"strings"

	"mcomment/internal/header"
	"mcomment/internal/span"
)

var (
	reCall      = regexp.MustCompile(`\[([^\]\n]+)\][ \t]*=[ \t]*([A-Za-z_][\w.]*)[ \t]*\(([^\n]*)\)`)
	reCallNotes = regexp.MustCompile(`\[(.+)\]`)
)

// CallReturns finds multi-return call sites "[a, b] = name(args)". The
// comment line directly above may annotate the targets positionally:
//
//	% [distance | metres, heading | degrees]
//	[d, h] = locate(p);
//
// Without such a line every target has an empty value and comment.
func CallReturns(text string) []Call {
	return newLayout(text).calls()
}

func (l *layout) calls() []Call {
	var out []Call
	for m := range span.All(l.text, reCall) {
		if !l.inCode(m.Offset) {
			continue
		}
		i := l.lineAt(m.Offset)
		if l.isDecl(i) {
			continue
		}
		notes := l.callNotes(i - 1)
		call := Call{Name: m.Group(2), Args: splitArgs(m.Group(3)), Line: i + 1}

		targets := m.Group(1)
		base := m.GroupOffset(1)
		cursor := 0
		for pos, name := range reListSep.Split(strings.TrimSpace(targets), -1) {
			if name == "" {
				continue
			}
			at := findWord(targets, name, cursor)
			if at >= 0 {
				cursor = at + len(name)
			}
			if name == "~" || !ValidName(name) || at < 0 {
				continue
			}
			sym := Symbol{
				Name:  name,
				Range: span.Range{Start: base + at, End: base + at + len(name)},
				Line:  i + 1,
			}
			if pos < len(notes) {
				sym.Value, sym.Comment = notes[pos][0], notes[pos][1]
			}
			call.Returns = append(call.Returns, sym)
		}
		out = append(out, call)
	}
	return out
}

// callNotes reads "% [value | comment, ...]" from line i.
func (l *layout) callNotes(i int) [][2]string {
	t, ok := l.standalone(i)
	if !ok {
		return nil
	}
	m := reCallNotes.FindStringSubmatch(t)
	if m == nil {
		return nil
	}
	var notes [][2]string
	for _, part := range strings.Split(strings.TrimSpace(m[1]), ",") {
		v, c := header.SplitValueComment(part)
		notes = append(notes, [2]string{v, c})
	}
	return notes
}

func splitArgs(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
