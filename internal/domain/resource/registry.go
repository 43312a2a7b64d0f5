package resource

import (
	"fmt"
	"sort"
)

// Registry indexes definitions by route path
type Registry struct {
	defs   []*Definition
	byPath map[string]*Definition
}

// NewRegistry validates and indexes defs
func NewRegistry(defs ...*Definition) (*Registry, error) {
	r := &Registry{byPath: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byPath[d.Path]; dup {
			return nil, fmt.Errorf("resource: duplicate path %q", d.Path)
		}
		r.byPath[d.Path] = d
		r.defs = append(r.defs, d)
	}
	return r, nil
}

// Lookup returns the definition registered under path
func (r *Registry) Lookup(path string) (*Definition, bool) {
	d, ok := r.byPath[path]
	return d, ok
}

// All returns definitions in registration order
func (r *Registry) All() []*Definition {
	out := make([]*Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Paths returns the registered paths, sorted
func (r *Registry) Paths() []string {
	paths := make([]string, 0, len(r.byPath))
	for p := range r.byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
