// Package engine is the boundary the command layer calls: it finds
// undocumented symbols, turns them into diagnostics and regenerates the
// header of a file as a single replace-range edit.
//
// Every function here is a pure function of its text arguments (plus the
// explicitly passed registry) and never fails on malformed input.
package engine

import (
	"cmp"
	"slices"

	"mcomment/internal/header"
	"mcomment/internal/reconcile"
	"mcomment/internal/scan"
	"mcomment/internal/span"
)

// Edit replaces Range of a text with NewText. An empty range at offset 0
// inserts in front of the text.
type Edit struct {
	Range   span.Range `json:"range" yaml:"range"`
	NewText string     `json:"newText" yaml:"newText"`
}

// Apply returns text with the edit applied. The range is clamped to text.
func (e Edit) Apply(text string) string {
	start := min(max(e.Range.Start, 0), len(text))
	end := min(max(e.Range.End, start), len(text))
	return text[:start] + e.NewText + text[end:]
}

// Changed reports whether applying the edit would modify text.
func (e Edit) Changed(text string) bool {
	return e.Range.Of(text) != e.NewText
}

// analysis is everything one pass over a text discovers.
type analysis struct {
	record     header.Record
	sig        scan.Signature
	isFunction bool
	// variables are the plain assignments and call returns that are not
	// declared parameters or returns.
	assigns []scan.Symbol
	returns []scan.Symbol
}

func analyze(text string) analysis {
	a := analysis{record: header.Parse(text)}
	a.sig, a.isFunction = scan.Declaration(text)
	for _, s := range scan.Assignments(text) {
		if !a.sig.Has(s.Name) {
			a.assigns = append(a.assigns, s)
		}
	}
	for _, s := range scan.Returns(scan.CallReturns(text)) {
		if !a.sig.Has(s.Name) {
			a.returns = append(a.returns, s)
		}
	}
	return a
}

// variables returns the core-variable candidates: assignments then call
// returns, one symbol per name. On a name collision the documented symbol
// wins, and between equals the assignment.
func (a analysis) variables() []scan.Symbol {
	out := make([]scan.Symbol, 0, len(a.assigns)+len(a.returns))
	at := make(map[string]int, cap(out))
	for _, s := range slices.Concat(a.assigns, a.returns) {
		i, dup := at[s.Name]
		if !dup {
			at[s.Name] = len(out)
			out = append(out, s)
			continue
		}
		if !out[i].Documented() && s.Documented() {
			out[i] = s
		}
	}
	return out
}

// finding is an undocumented symbol together with its class.
type finding struct {
	kind Kind
	sym  scan.Symbol
}

func (a analysis) undocumented() []finding {
	body := reconcile.DocumentedMap(a.variables())
	rows := reconcile.DocumentedRows(a.record.Params, a.record.Returns, a.record.Variables)
	doc := reconcile.Union(body, rows)

	var out []finding
	seen := make(map[string]struct{})
	report := func(k Kind, s scan.Symbol, documented bool) {
		if _, dup := seen[s.Name]; dup || documented {
			return
		}
		seen[s.Name] = struct{}{}
		out = append(out, finding{kind: k, sym: s})
	}
	for _, s := range a.assigns {
		report(KindVariableUndocumented, s, s.Documented() || doc.Has(s.Name))
	}
	for _, s := range a.returns {
		report(KindCallReturnUndocumented, s, s.Documented() || doc.Has(s.Name))
	}
	for _, s := range a.sig.Params {
		report(KindParamUndocumented, s, rows.Has(s.Name))
	}
	slices.SortStableFunc(out, func(x, y finding) int {
		return cmp.Compare(x.sym.Range.Start, y.sym.Range.Start)
	})
	return out
}

// ComputeUndocumented returns the assignments, call returns and parameters
// of text that have neither a body annotation nor a documented header row,
// ordered by position. Declared return values are documented through the
// header only and are never reported.
func ComputeUndocumented(text string) []scan.Symbol {
	fs := analyze(text).undocumented()
	out := make([]scan.Symbol, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.sym)
	}
	return out
}

// Regenerate returns the header record text would have after a fix: old
// rows merged with fresh symbols, and for function files the parameter and
// return tables aligned with the declaration.
func Regenerate(text string) (header.Record, header.Form) {
	a := analyze(text)
	rec := a.record
	out := header.Record{
		Description: rec.Description,
		Variables:   reconcile.Merge(rec.Variables, a.variables()),
		Remarks:     rec.Remarks,
	}
	if !a.isFunction {
		return out, header.FormScript
	}
	out.Params = reconcile.MergeSignature(rec.Params, a.sig.Params)
	out.Returns = reconcile.MergeSignature(rec.Returns, a.sig.Returns)
	return out, header.FormFunction
}

// RegenerateHeader computes the edit that replaces the leading comment
// block of text with the regenerated header. A function file documented
// below its declaration has that block replaced instead; a file with no
// header at all gets one inserted at the top.
func RegenerateHeader(text string) Edit {
	rec, form := Regenerate(text)
	rng := header.LocateRange(text)
	if rng.Empty() {
		if r, ok := scan.DeclHeaderRange(text); ok {
			rng = r
		}
	}
	return Edit{Range: rng, NewText: header.Render(rec, form)}
}
