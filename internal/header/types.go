// Package header parses, renders and locates the structured comment block
// at the top of a MATLAB source file:
//
//	% 功能：
//	%   Computes the weighted sum.
//	% 参数：
//	%   a: input vector | row vector
//	% 返回值：
//	%   y: weighted sum
//	% 核心变量：
//	%   w: weights
//	% 备注：
//	%{
//	free-form text kept verbatim
//	%}
//
// The grammar is the contract between the engine and the files it edits;
// Render reproduces it exactly and Parse(Render(r)) returns r.
package header

import "strings"

// Section titles as they appear after "% " on a title line.
const (
	TitleDescription = "功能"
	TitleParams      = "参数"
	TitleReturns     = "返回值"
	TitleVariables   = "核心变量"
	TitleRemarks     = "备注"
)

// Sentinels and markers of the comment grammar.
const (
	None          = "无" // section absent, or table without rows
	NoComment     = "-" // row without "| comment"
	VerbatimOpen  = "%{"
	VerbatimClose = "%}"
	CommentMarker = "%"

	titleColon  = "："
	titlePrefix = "% "
	linePrefix  = "%   "
)

// Row is one "name: value | comment" entry of a table section.
type Row struct {
	Name    string `json:"name" yaml:"name"`
	Value   string `json:"value" yaml:"value"`
	Comment string `json:"comment" yaml:"comment"`
}

// Documented reports whether the row carries a description.
func (r Row) Documented() bool { return r.Value != "" }

// Table is an ordered list of rows. Lookups return the first row with a
// given name; later duplicates are kept but never matched.
type Table []Row

// Find returns the first row named name.
func (t Table) Find(name string) (Row, bool) {
	for _, r := range t {
		if r.Name == name {
			return r, true
		}
	}
	return Row{}, false
}

// Has reports whether a row named name exists.
func (t Table) Has(name string) bool {
	_, ok := t.Find(name)
	return ok
}

// Record is the structured form of a header.
type Record struct {
	Description string `json:"description" yaml:"description"`
	Params      Table  `json:"params,omitempty" yaml:"params,omitempty"`
	Returns     Table  `json:"returns,omitempty" yaml:"returns,omitempty"`
	Variables   Table  `json:"variables,omitempty" yaml:"variables,omitempty"`
	Remarks     string `json:"remarks" yaml:"remarks"`
}

// Normalize maps a record onto the values Parse would produce for it:
// empty comments become NoComment, empty remarks become None, row fields
// and plain text lines are trimmed, and empty tables become nil.
func (r Record) Normalize() Record {
	return Record{
		Description: normalizeText(r.Description, ""),
		Params:      normalizeTable(r.Params),
		Returns:     normalizeTable(r.Returns),
		Variables:   normalizeTable(r.Variables),
		Remarks:     normalizeText(r.Remarks, None),
	}
}

func normalizeTable(t Table) Table {
	if len(t) == 0 {
		return nil
	}
	out := make(Table, 0, len(t))
	for _, r := range t {
		r.Name = strings.TrimSpace(r.Name)
		r.Value = strings.TrimSpace(r.Value)
		r.Comment = strings.TrimSpace(r.Comment)
		if r.Comment == "" {
			r.Comment = NoComment
		}
		out = append(out, r)
	}
	return out
}

func normalizeText(s, empty string) string {
	lines := strings.Split(s, "\n")
	inBlock := false
	for i, l := range lines {
		t := strings.TrimSpace(l)
		switch {
		case !inBlock && t == VerbatimOpen:
			inBlock = true
			lines[i] = VerbatimOpen
		case inBlock && t == VerbatimClose:
			inBlock = false
			lines[i] = VerbatimClose
		case inBlock:
			lines[i] = strings.TrimRight(l, "\r")
		default:
			lines[i] = t
		}
	}
	out := strings.Join(lines, "\n")
	if out == "" {
		return empty
	}
	return out
}

// Form selects which sections Render emits.
type Form int

const (
	// FormFunction renders all five sections.
	FormFunction Form = iota
	// FormScript renders description, core variables and remarks.
	FormScript
)

func (f Form) String() string {
	if f == FormScript {
		return "script"
	}
	return "function"
}
