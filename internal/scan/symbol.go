// Package scan discovers documented and undocumented symbols in the body of
// a MATLAB source file: plain assignments, the parameters and returns of the
// function declaration, and the targets of multi-return calls.
//
// Recognition is line and regular-expression based. Comments, block
// comments (%{ ... %}) and the declaration line are excluded from the
// assignment pass; annotations are read from same-line trailing comments.
package scan

import (
	"regexp"
	"strings"

	"mcomment/internal/span"
)

// MemberSep separates a struct variable from its member in a symbol name.
const MemberSep = "."

// Symbol is a named value discovered in the body.
type Symbol struct {
	Name    string     `json:"name" yaml:"name"`
	Value   string     `json:"value" yaml:"value"`
	Comment string     `json:"comment" yaml:"comment"`
	Range   span.Range `json:"range" yaml:"range"`
	Line    int        `json:"line" yaml:"line"` // 1-based
}

// Documented reports whether the symbol carries an annotation.
func (s Symbol) Documented() bool { return s.Value != "" }

// Base returns the struct part of a dotted name, or the name itself.
func (s Symbol) Base() string { return Base(s.Name) }

// Base returns name up to the first MemberSep.
func Base(name string) string {
	if i := strings.Index(name, MemberSep); i >= 0 {
		return name[:i]
	}
	return name
}

// IsMember reports whether name is a dotted struct-member name.
func IsMember(name string) bool { return strings.Contains(name, MemberSep) }

var reName = regexp.MustCompile(`^[A-Za-z_]\w*(?:\.[A-Za-z_]\w*)*$`)

// ValidName reports whether s is an identifier, optionally dotted.
func ValidName(s string) bool { return reName.MatchString(s) }

// Signature is the parameter and return list of the file's function
// declaration.
type Signature struct {
	Name    string   `json:"name" yaml:"name"`
	Params  []Symbol `json:"params" yaml:"params"`
	Returns []Symbol `json:"returns" yaml:"returns"`
	Line    int      `json:"line" yaml:"line"`
}

// Has reports whether name is a declared parameter or return.
func (s Signature) Has(name string) bool {
	for _, p := range s.Params {
		if p.Name == name {
			return true
		}
	}
	for _, r := range s.Returns {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Call is a multi-return call site "[a, b] = name(args)".
type Call struct {
	Name    string   `json:"name" yaml:"name"`
	Args    []string `json:"args" yaml:"args"`
	Returns []Symbol `json:"returns" yaml:"returns"`
	Line    int      `json:"line" yaml:"line"`
}

// Returns flattens the return symbols of calls in order.
func Returns(calls []Call) []Symbol {
	var out []Symbol
	for _, c := range calls {
		out = append(out, c.Returns...)
	}
	return out
}
