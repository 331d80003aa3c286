package header

import "strings"

// Render writes r in the canonical comment grammar. FormScript omits the
// parameter and return tables.
func Render(r Record, f Form) string {
	var b strings.Builder
	writeText(&b, TitleDescription, r.Description)
	if f == FormFunction {
		writeTable(&b, TitleParams, r.Params)
		writeTable(&b, TitleReturns, r.Returns)
	}
	writeTable(&b, TitleVariables, r.Variables)
	writeText(&b, TitleRemarks, r.Remarks)
	return b.String()
}

func writeTitle(b *strings.Builder, title string) {
	b.WriteString(titlePrefix)
	b.WriteString(title)
	b.WriteString(titleColon)
	b.WriteByte('\n')
}

// writeText emits one "%   " line per value line; verbatim blocks are
// copied unindented with their markers.
func writeText(b *strings.Builder, title, value string) {
	writeTitle(b, title)
	inBlock := false
	for _, line := range strings.Split(value, "\n") {
		t := strings.TrimSpace(line)
		switch {
		case !inBlock && t == VerbatimOpen:
			inBlock = true
			b.WriteString(VerbatimOpen)
		case inBlock && t == VerbatimClose:
			inBlock = false
			b.WriteString(VerbatimClose)
		case inBlock:
			b.WriteString(line)
		default:
			b.WriteString(linePrefix)
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
	if inBlock {
		b.WriteString(VerbatimClose)
		b.WriteByte('\n')
	}
}

func writeTable(b *strings.Builder, title string, rows Table) {
	writeTitle(b, title)
	if len(rows) == 0 {
		b.WriteString(linePrefix)
		b.WriteString(None)
		b.WriteByte('\n')
		return
	}
	for _, r := range rows {
		b.WriteString(linePrefix)
		b.WriteString(RenderRow(r))
		b.WriteByte('\n')
	}
}

// RenderRow formats a row as "name: value" with " | comment" appended when
// the comment is not the sentinel.
func RenderRow(r Row) string {
	s := r.Name + ": " + r.Value
	if r.Comment != "" && r.Comment != NoComment {
		s += " | " + r.Comment
	}
	return s
}
