package scan

import (
	"regexp"

	"mcomment/internal/header"
	"mcomment/internal/span"
)

// reAssign matches "<token> [<>~=]=". The optional relational character
// lets comparisons match so they can be told apart and rejected. Tokens
// never span the ';' and ',' statement separators.
var reAssign = regexp.MustCompile(`([^\s;,]+)[ \t]*([<>~=]?)=`)

// Assignments returns the plain assignment targets of text in order of first
// appearance. Targets containing brackets, commas or other non-identifier
// characters are skipped, as are comparisons, comments, block comments and
// the declaration line. The annotation is taken from a trailing comment on
// the same line ("x = 1 % value | comment"), or failing that from a plain
// comment line directly above.
func Assignments(text string) []Symbol {
	return newLayout(text).assignments()
}

func (l *layout) assignments() []Symbol {
	var out []Symbol
	seen := make(map[string]struct{})
	for m := range span.All(l.text, reAssign) {
		name := m.Group(1)
		if m.Group(2) != "" || !ValidName(name) {
			continue
		}
		if next := m.End; next < len(l.text) && l.text[next] == '=' {
			continue
		}
		if !l.inCode(m.Offset) {
			continue
		}
		i := l.lineAt(m.Offset)
		if l.isDecl(i) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		note, ok := l.trailing(i)
		if !ok || note == "" {
			if above, ok := l.standalone(i - 1); ok {
				note = above
			}
		}
		value, comment := header.SplitValueComment(note)
		out = append(out, Symbol{
			Name:    name,
			Value:   value,
			Comment: comment,
			Range:   span.Range{Start: m.Offset, End: m.Offset + len(name)},
			Line:    i + 1,
		})
	}
	return out
}
