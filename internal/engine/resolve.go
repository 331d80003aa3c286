package engine

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"mcomment/internal/header"
	"mcomment/internal/registry"
	"mcomment/internal/scan"
)

// ErrTypeNotFound is returned when a type marker cannot be resolved through
// the registry or the referenced file cannot be read.
var ErrTypeNotFound = errors.New("type not found")

// Loader supplies the text of a file referenced by the registry.
type Loader interface {
	Load(rel string) (string, error)
}

// Resolver answers struct-member questions. Registry may be nil, in which
// case only members used in the text itself are known.
type Resolver struct {
	Registry *registry.Registry
	Loader   Loader
}

// Target is a struct variable of a file. Type is set for variables whose
// annotation carries a "--> Type" marker.
type Target struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// StructTargets lists the struct variables of text: names used with member
// access, then annotated variables whose type is registered. The function's
// own name is excluded.
func (r Resolver) StructTargets(text string) []Target {
	sig, _ := scan.Declaration(text)
	types := typedVariables(text)
	var out []Target
	for _, name := range scan.StructNames(text, sig.Name) {
		out = append(out, Target{Name: name, Type: types[name]})
	}
	for _, name := range slices.Sorted(maps.Keys(types)) {
		typ := types[name]
		if !r.Registry.Has(typ) || slices.ContainsFunc(out, func(t Target) bool { return t.Name == name }) {
			continue
		}
		out = append(out, Target{Name: name, Type: typ})
	}
	return out
}

// Members lists the members of struct variable name: those accessed in
// text, then those of its registered type. When both know a member the one
// with a detail is kept. A type that cannot be resolved still yields the
// local members together with an error wrapping ErrTypeNotFound.
func (r Resolver) Members(text, name string) ([]scan.Member, error) {
	members := scan.Members(text, name)
	typ := typedVariables(text)[name]
	if typ == "" {
		return members, nil
	}
	typed, err := r.TypeMembers(typ)
	return mergeMembers(members, typed), err
}

// TypeMembers loads the file registered for typeName and lists the members
// of the variable it names.
func (r Resolver) TypeMembers(typeName string) ([]scan.Member, error) {
	e, ok := r.Registry.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("%s: %w", typeName, ErrTypeNotFound)
	}
	if r.Loader == nil {
		return nil, fmt.Errorf("%s: no loader: %w", typeName, ErrTypeNotFound)
	}
	text, err := r.Loader.Load(e.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", typeName, ErrTypeNotFound, err)
	}
	return scan.Members(text, e.Name), nil
}

func mergeMembers(local, typed []scan.Member) []scan.Member {
	out := slices.Clone(local)
	for _, m := range typed {
		i := slices.IndexFunc(out, func(o scan.Member) bool { return o.Name == m.Name })
		switch {
		case i < 0:
			out = append(out, m)
		case out[i].Detail == "":
			out[i].Detail = m.Detail
		}
	}
	return out
}

// typedVariables maps every annotated symbol of text (header rows and body
// annotations) to the type its annotation names. Header rows take
// precedence.
func typedVariables(text string) map[string]string {
	out := make(map[string]string)
	rec := header.Parse(text)
	for _, t := range []header.Table{rec.Params, rec.Returns, rec.Variables} {
		for _, row := range t {
			if typ, ok := scan.TypeOf(row.Value); ok {
				if _, dup := out[row.Name]; !dup {
					out[row.Name] = typ
				}
			}
		}
	}
	body := slices.Concat(scan.Assignments(text), scan.Returns(scan.CallReturns(text)))
	for _, s := range body {
		if typ, ok := scan.TypeOf(s.Value); ok {
			if _, dup := out[s.Name]; !dup {
				out[s.Name] = typ
			}
		}
	}
	return out
}
