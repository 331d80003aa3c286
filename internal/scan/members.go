package scan

import (
	"regexp"

	"mcomment/internal/span"
)

var (
	reStructUse = regexp.MustCompile(`\b([A-Za-z_]\w*)\.[A-Za-z_]`)
	reTypeMark  = regexp.MustCompile(`-->\s*([A-Za-z]+)`)
)

// Member is one field of a struct variable.
type Member struct {
	Name   string `json:"name" yaml:"name"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Members lists the distinct members accessed as "name.member" anywhere in
// text, including documentation rows, in order of first appearance. The
// detail is the annotation of the "name.member" assignment when there is one.
func Members(text, name string) []Member {
	if !ValidName(name) {
		return nil
	}
	re := regexp.MustCompile(`(?:^|[^\w.])` + regexp.QuoteMeta(name) + `\.([A-Za-z_]\w*(?:\.[A-Za-z_]\w*)*)`)
	l := newLayout(text)
	details := make(map[string]string)
	for _, s := range append(l.assignments(), Returns(l.calls())...) {
		if _, ok := details[s.Name]; !ok {
			details[s.Name] = s.Value
		}
	}

	var out []Member
	seen := make(map[string]struct{})
	for m := range span.All(text, re) {
		member := m.Group(1)
		if _, dup := seen[member]; dup {
			continue
		}
		seen[member] = struct{}{}
		out = append(out, Member{Name: member, Detail: details[name+MemberSep+member]})
	}
	return out
}

// StructNames lists identifiers used with member access ("s.x"), in order of
// first appearance and without duplicates. Names in exclude (typically the
// file's own function name) are skipped.
func StructNames(text string, exclude ...string) []string {
	skip := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		skip[e] = struct{}{}
	}
	var out []string
	for m := range span.All(text, reStructUse) {
		if at := m.GroupOffset(1); at > 0 && text[at-1] == '.' {
			continue
		}
		name := m.Group(1)
		if _, dup := skip[name]; dup {
			continue
		}
		skip[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// TypeRef is a "--> TypeName" marker found in a comment.
type TypeRef struct {
	Name  string     `json:"name" yaml:"name"`
	Range span.Range `json:"range" yaml:"range"`
	Line  int        `json:"line" yaml:"line"`
}

// TypeRefs returns every type marker that sits in a comment or
// documentation row.
func TypeRefs(text string) []TypeRef {
	l := newLayout(text)
	var out []TypeRef
	for m := range span.All(text, reTypeMark) {
		if l.inCode(m.Offset) {
			continue
		}
		at := m.GroupOffset(1)
		name := m.Group(1)
		out = append(out, TypeRef{
			Name:  name,
			Range: span.Range{Start: at, End: at + len(name)},
			Line:  span.LineOf(text, at),
		})
	}
	return out
}

// TypeOf extracts the type name from an annotation value such as
// "--> Point | origin".
func TypeOf(value string) (string, bool) {
	m := reTypeMark.FindStringSubmatch(value)
	if m == nil {
		return "", false
	}
	return m[1], true
}
