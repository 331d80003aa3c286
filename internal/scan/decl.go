package scan

import (
	"regexp"
	"strings"

	"mcomment/internal/span"
)

var (
	reDecl = regexp.MustCompile(
		`^\s*function\s+(?:(\[[^\]]*\]|[A-Za-z_]\w*)\s*=\s*)?([A-Za-z_][\w.]*)\s*(?:\(([^)]*)\)?)?`)
	reListSep = regexp.MustCompile(`[\s,]+`)
)

// Declaration parses the first function declaration of text, following
// "..." continuations. ok is false for script files; the signature is then
// empty.
func Declaration(text string) (sig Signature, ok bool) {
	return newLayout(text).declaration()
}

func (l *layout) declaration() (Signature, bool) {
	if l.declFirst < 0 {
		return Signature{}, false
	}
	var joined strings.Builder
	for i := l.declFirst; i <= l.declLast; i++ {
		code := strings.TrimSpace(l.code[i])
		code = strings.TrimSuffix(code, continuation)
		joined.WriteString(code)
		joined.WriteByte(' ')
	}
	m := reDecl.FindStringSubmatch(joined.String())
	if m == nil {
		return Signature{}, true
	}

	regionStart := l.lines[l.declFirst].Start
	regionEnd := l.lines[l.declLast].Start + len(l.code[l.declLast])
	region := l.text[regionStart:regionEnd]

	sig := Signature{Name: m[2], Line: l.declFirst + 1}
	cursor := strings.Index(region, "function") + len("function")

	for _, name := range splitList(strings.Trim(m[1], "[]")) {
		at := findWord(region, name, cursor)
		if at >= 0 {
			cursor = at + len(name)
		}
		sig.Returns = append(sig.Returns, l.declSymbol(name, regionStart, at))
	}

	if at := findWord(region, sig.Name, cursor); at >= 0 {
		cursor = at + len(sig.Name)
	}
	if p := strings.IndexByte(region[cursor:], '('); p >= 0 {
		cursor += p + 1
	}
	for _, raw := range strings.Split(m[3], ",") {
		name := strings.Join(strings.Fields(raw), "")
		if name == "" {
			continue
		}
		at := findWord(region, name, cursor)
		if at >= 0 {
			cursor = at + len(name)
		}
		if name == "~" {
			continue
		}
		sig.Params = append(sig.Params, l.declSymbol(name, regionStart, at))
	}
	return sig, true
}

// declSymbol builds an unannotated symbol at region-relative offset at; an
// unlocated token points at the start of the declaration.
func (l *layout) declSymbol(name string, regionStart, at int) Symbol {
	start := regionStart
	end := regionStart
	if at >= 0 {
		start = regionStart + at
		end = start + len(name)
	}
	return Symbol{
		Name:  name,
		Range: span.Range{Start: start, End: end},
		Line:  span.LineOf(l.text, start),
	}
}

// splitList splits "a, b c" into names, dropping blanks and "~".
func splitList(s string) []string {
	var out []string
	for _, p := range reListSep.Split(strings.TrimSpace(s), -1) {
		if p != "" && p != "~" {
			out = append(out, p)
		}
	}
	return out
}

// findWord returns the offset of the first occurrence of word in s at or
// after from that is not part of a longer identifier, or -1.
func findWord(s, word string, from int) int {
	if word == "" || from < 0 {
		return -1
	}
	for from <= len(s) {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return -1
		}
		at := from + i
		end := at + len(word)
		if (at == 0 || !isIdentByte(s[at-1])) && (end == len(s) || !isIdentByte(s[end])) {
			return at
		}
		from = at + 1
	}
	return -1
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
