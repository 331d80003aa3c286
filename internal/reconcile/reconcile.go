// Package reconcile decides which symbols are documented and merges the
// rows of an existing header with freshly scanned symbols.
package reconcile

import (
	"mcomment/internal/header"
	"mcomment/internal/scan"
)

// Merge builds the new table for fresh symbols, in scan order:
//
//   - a symbol with a body annotation becomes a row from that annotation;
//   - otherwise an existing row with the same name is carried forward;
//   - otherwise the symbol is left out.
//
// Rows of old naming a struct member ("p.x") whose base is among the fresh
// symbols are appended afterwards unless the result already has them, so
// member documentation survives even though member accesses are not
// scanned. Fresh names are handled once; the first occurrence wins.
func Merge(old header.Table, fresh []scan.Symbol) header.Table {
	var out header.Table
	present := make(map[string]struct{}, len(fresh))
	for _, s := range fresh {
		if _, dup := present[s.Name]; dup {
			continue
		}
		present[s.Name] = struct{}{}
		if row, ok := rowFor(old, s); ok {
			out = append(out, row)
		}
	}
	return appendSticky(out, old, present)
}

// MergeSignature builds the parameter or return table of a function. Unlike
// Merge it keeps every declared name: undocumented ones get an empty row so
// the table mirrors the declaration.
func MergeSignature(old header.Table, declared []scan.Symbol) header.Table {
	var out header.Table
	present := make(map[string]struct{}, len(declared))
	for _, s := range declared {
		if _, dup := present[s.Name]; dup {
			continue
		}
		present[s.Name] = struct{}{}
		row, ok := rowFor(old, s)
		if !ok {
			row = header.Row{Name: s.Name, Comment: header.NoComment}
		}
		out = append(out, row)
	}
	return appendSticky(out, old, present)
}

func rowFor(old header.Table, s scan.Symbol) (header.Row, bool) {
	if s.Documented() {
		comment := s.Comment
		if comment == "" {
			comment = header.NoComment
		}
		return header.Row{Name: s.Name, Value: s.Value, Comment: comment}, true
	}
	return old.Find(s.Name)
}

func appendSticky(out, old header.Table, present map[string]struct{}) header.Table {
	for _, r := range old {
		if !scan.IsMember(r.Name) || out.Has(r.Name) {
			continue
		}
		if _, ok := present[scan.Base(r.Name)]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Documented maps names to whether they carry documentation. A dotted
// name and its base form one unit: documenting either documents both.
type Documented map[string]bool

// Has reports whether name, or the unit it belongs to, is documented.
func (d Documented) Has(name string) bool {
	if d[name] {
		return true
	}
	base := scan.Base(name)
	return base != name && d[base]
}

func (d Documented) mark(name string, ok bool) {
	if !ok {
		if _, seen := d[name]; !seen {
			d[name] = false
		}
		return
	}
	d[name] = true
	d[scan.Base(name)] = true
}

// DocumentedMap returns the documentation state of symbols.
func DocumentedMap(symbols []scan.Symbol) Documented {
	d := make(Documented, len(symbols))
	for _, s := range symbols {
		d.mark(s.Name, s.Documented())
	}
	return d
}

// DocumentedRows returns the documentation state of header rows.
func DocumentedRows(tables ...header.Table) Documented {
	d := make(Documented)
	for _, t := range tables {
		for _, r := range t {
			d.mark(r.Name, r.Documented())
		}
	}
	return d
}

// Union returns a map documented wherever any of ds is.
func Union(ds ...Documented) Documented {
	out := make(Documented)
	for _, d := range ds {
		for k, v := range d {
			out[k] = out[k] || v
		}
	}
	return out
}
