// Package registry reads and maintains the type registry: a file mapping a
// struct type name to the file and variable that define its members.
//
//	{"struct": {"Point": {"path": "types/point.m", "name": "p"}}}
//
// The flat form without the "struct" wrapper is accepted on load. Files
// ending in .yaml or .yml are YAML, anything else is JSON.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"mcomment/internal/scan"
	"mcomment/internal/workspace"
)

var (
	// ErrTypeExists is returned by Add for a name already registered.
	ErrTypeExists = errors.New("type already registered")
	// ErrInvalidName is returned by Add for names a type marker cannot spell.
	ErrInvalidName = errors.New("invalid type name")
)

// reTypeName mirrors the "--> Name" marker grammar.
var reTypeName = regexp.MustCompile(`^[A-Za-z]+$`)

// Entry locates the definition of a type.
type Entry struct {
	Path string `json:"path" yaml:"path"`
	Name string `json:"name" yaml:"name"`
}

// Registry is a set of named types. The zero value is empty and usable.
type Registry struct {
	types map[string]Entry
}

type document struct {
	Struct map[string]Entry `json:"struct" yaml:"struct"`
}

// New returns an empty registry.
func New() *Registry { return &Registry{types: make(map[string]Entry)} }

// Format is a registry file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatOf picks the encoding from the file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Parse decodes a registry in either the wrapped or the flat form. Empty
// input yields an empty registry.
func Parse(data []byte, f Format) (*Registry, error) {
	r := New()
	if len(strings.TrimSpace(string(data))) == 0 {
		return r, nil
	}
	unmarshal := json.Unmarshal
	if f == FormatYAML {
		unmarshal = yaml.Unmarshal
	}

	var raw map[string]any
	if err := unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	if _, wrapped := raw["struct"]; wrapped {
		var doc document
		if err := unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode registry: %w", err)
		}
		maps.Copy(r.types, doc.Struct)
		return r, nil
	}
	var flat map[string]Entry
	if err := unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	maps.Copy(r.types, flat)
	return r, nil
}

// Load reads the registry at path. A missing file yields an empty registry
// and no error, so a project without types still works.
func Load(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, err
	}
	r, err := Parse(b, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Marshal encodes the registry in the wrapped form.
func (r *Registry) Marshal(f Format) ([]byte, error) {
	doc := document{Struct: make(map[string]Entry, r.Len())}
	if r != nil {
		maps.Copy(doc.Struct, r.types)
	}
	if f == FormatYAML {
		return yaml.Marshal(doc)
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Save writes the registry to path atomically.
func (r *Registry) Save(path string) error {
	b, err := r.Marshal(FormatOf(path))
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	return workspace.WriteFileAtomic(path, b, 0o644)
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.types)
}

// Lookup returns the entry of name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	e, ok := r.types[name]
	return e, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.types))
}

// Add registers a new type.
func (r *Registry) Add(name string, e Entry) error {
	if !reTypeName.MatchString(name) {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	if r.Has(name) {
		return fmt.Errorf("%s: %w", name, ErrTypeExists)
	}
	if r.types == nil {
		r.types = make(map[string]Entry)
	}
	r.types[name] = Entry{Path: filepath.ToSlash(e.Path), Name: e.Name}
	return nil
}

// Validate checks every entry and reports all problems at once. When root
// is not empty, referenced files must exist below it.
func (r *Registry) Validate(root string) error {
	var errs errlist
	for _, name := range r.Names() {
		e := r.types[name]
		prefix := fmt.Sprintf("struct[%s]", name)
		if !reTypeName.MatchString(name) {
			errs.add("%s: name must contain letters only", prefix)
		}
		if !scan.ValidName(e.Name) || scan.IsMember(e.Name) {
			errs.add("%s: name %q must be a variable name", prefix, e.Name)
		}
		p := filepath.FromSlash(e.Path)
		switch {
		case strings.TrimSpace(e.Path) == "":
			errs.add("%s: path must be non-empty", prefix)
		case filepath.IsAbs(p):
			errs.add("%s: path must be relative (got %q)", prefix, e.Path)
		case strings.HasPrefix(filepath.Clean(p), ".."):
			errs.add("%s: path must stay inside the workspace (got %q)", prefix, e.Path)
		case root != "":
			fi, err := os.Stat(filepath.Join(root, p))
			if err != nil {
				errs.add("%s: %s: file not found", prefix, e.Path)
			} else if fi.IsDir() {
				errs.add("%s: %s: is a directory", prefix, e.Path)
			}
		}
	}
	return errs.err()
}

// errlist aggregates multiple validation issues into a single error.
type errlist struct {
	msgs []string
}

func (e *errlist) add(format string, args ...any) {
	e.msgs = append(e.msgs, fmt.Sprintf(format, args...))
}

func (e *errlist) err() error {
	if len(e.msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(e.msgs, "\n"))
}
