package engine

import (
	"cmp"
	"fmt"
	"slices"

	"mcomment/internal/registry"
	"mcomment/internal/scan"
	"mcomment/internal/span"
)

// Kind classifies a diagnostic.
type Kind int

const (
	KindVariableUndocumented Kind = iota + 1
	KindCallReturnUndocumented
	KindParamUndocumented
	KindUnknownType
)

func (k Kind) String() string {
	switch k {
	case KindVariableUndocumented:
		return "variable-undocumented"
	case KindCallReturnUndocumented:
		return "call-return-undocumented"
	case KindParamUndocumented:
		return "param-undocumented"
	case KindUnknownType:
		return "unknown-type"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Fix is the action that resolves a diagnostic.
type Fix int

const (
	FixNone Fix = iota
	// FixRegenerateHeader rewrites the header with RegenerateHeader.
	FixRegenerateHeader
	// FixInsertType adds the missing type to the registry.
	FixInsertType
)

func (f Fix) String() string {
	switch f {
	case FixRegenerateHeader:
		return "regenerate-header"
	case FixInsertType:
		return "insert-type"
	}
	return "none"
}

// Fix returns the action offered for diagnostics of kind k. Undocumented
// variables and call returns are documented in the body, so only parameter
// and type problems carry an automatic fix.
func (k Kind) Fix() Fix {
	switch k {
	case KindParamUndocumented:
		return FixRegenerateHeader
	case KindUnknownType:
		return FixInsertType
	}
	return FixNone
}

func (k Kind) message(name string) string {
	switch k {
	case KindVariableUndocumented:
		return fmt.Sprintf("variable %s is not documented", name)
	case KindCallReturnUndocumented:
		return fmt.Sprintf("return value %s is not documented", name)
	case KindParamUndocumented:
		return fmt.Sprintf("parameter %s is not documented", name)
	case KindUnknownType:
		return fmt.Sprintf("type %s does not exist", name)
	}
	return name
}

// Diagnostic is one problem found in a file. Line and Col are 1-based;
// Col counts bytes.
type Diagnostic struct {
	Kind    Kind       `json:"kind" yaml:"kind"`
	Name    string     `json:"name" yaml:"name"`
	Message string     `json:"message" yaml:"message"`
	Range   span.Range `json:"range" yaml:"range"`
	Line    int        `json:"line" yaml:"line"`
	Col     int        `json:"col" yaml:"col"`
}

func newDiagnostic(text string, k Kind, name string, r span.Range) Diagnostic {
	return Diagnostic{
		Kind:    k,
		Name:    name,
		Message: k.message(name),
		Range:   r,
		Line:    span.LineOf(text, r.Start),
		Col:     r.Start - span.LineStart(text, r.Start) + 1,
	}
}

// Diagnose reports undocumented symbols and, when reg is not nil, type
// markers naming types missing from the registry. Diagnostics are ordered
// by position.
func Diagnose(text string, reg *registry.Registry) []Diagnostic {
	var out []Diagnostic
	for _, f := range analyze(text).undocumented() {
		out = append(out, newDiagnostic(text, f.kind, f.sym.Name, f.sym.Range))
	}
	if reg != nil {
		for _, ref := range scan.TypeRefs(text) {
			if !reg.Has(ref.Name) {
				out = append(out, newDiagnostic(text, KindUnknownType, ref.Name, ref.Range))
			}
		}
	}
	sortDiagnostics(out)
	return out
}

func sortDiagnostics(ds []Diagnostic) {
	slices.SortStableFunc(ds, func(a, b Diagnostic) int {
		return cmp.Compare(a.Range.Start, b.Range.Start)
	})
}
