package colormap

import (
	"fmt"
	"sort"
	"strings"

	"hstin/lidarcmap/internal/bounds"
)

// Registry holds colormaps and boundary sets by name. Registering a name
// that already exists replaces the previous entry.
//
// A Registry is not safe for concurrent writers. Once populated it may be
// shared by any number of readers.
type Registry struct {
	maps   map[string]*Colormap
	bounds map[string]bounds.Set
}

func NewRegistry() *Registry {
	return &Registry{
		maps:   make(map[string]*Colormap),
		bounds: make(map[string]bounds.Set),
	}
}

// Register adds cm under its own name.
func (r *Registry) Register(cm *Colormap) {
	r.maps[cm.Name()] = cm
}

// RegisterBounds stores a copy of b under name.
func (r *Registry) RegisterBounds(name string, b bounds.Set) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	r.bounds[name] = b.Clone()
	return nil
}

func (r *Registry) Lookup(name string) (*Colormap, bool) {
	cm, ok := r.maps[name]
	return cm, ok
}

// Bounds returns a copy of the boundary set registered under name.
func (r *Registry) Bounds(name string) (bounds.Set, bool) {
	b, ok := r.bounds[name]
	if !ok {
		return nil, false
	}
	return b.Clone(), true
}

// Discrete pairs the colormap called name with the boundary set of the same
// name. Reversed maps share the boundary set of their forward map.
func (r *Registry) Discrete(name string) (*Discrete, error) {
	cm, ok := r.maps[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}
	b, ok := r.bounds[name]
	if !ok {
		b, ok = r.bounds[strings.TrimSuffix(name, ReversedSuffix)]
	}
	if !ok {
		return nil, fmt.Errorf("%w: no boundary set for %s", ErrResourceNotFound, name)
	}
	return NewDiscrete(cm, b)
}

// Names returns the registered colormap names in sorted order.
func (r *Registry) Names() []string {
	return sortedKeys(r.maps)
}

// BoundsNames returns the registered boundary set names in sorted order.
func (r *Registry) BoundsNames() []string {
	return sortedKeys(r.bounds)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
