package catalog

import (
	"fmt"
	"sort"
)

// Set is a collection of named catalogs, one per search page.
type Set struct {
	catalogs map[string]*Catalog
	order    []string
	fallback string
}

// NewSet builds a set. The first catalog is the fallback unless SetDefault is
// called.
func NewSet(catalogs ...*Catalog) (*Set, error) {
	s := &Set{catalogs: make(map[string]*Catalog, len(catalogs))}
	for _, c := range catalogs {
		if c == nil {
			continue
		}
		if _, exists := s.catalogs[c.Name()]; exists {
			return nil, fmt.Errorf("duplicate catalog %q", c.Name())
		}
		s.catalogs[c.Name()] = c
		s.order = append(s.order, c.Name())
	}
	if len(s.order) > 0 {
		s.fallback = s.order[0]
	}
	return s, nil
}

// SetDefault selects the catalog returned by Get("").
func (s *Set) SetDefault(name string) error {
	if _, ok := s.catalogs[name]; !ok {
		return fmt.Errorf("unknown catalog %q (available: %v)", name, s.Names())
	}
	s.fallback = name
	return nil
}

// Default returns the name of the default catalog.
func (s *Set) Default() string {
	return s.fallback
}

// Get returns the named catalog, or the default one when name is empty.
func (s *Set) Get(name string) (*Catalog, error) {
	if name == "" {
		name = s.fallback
	}
	c, ok := s.catalogs[name]
	if !ok {
		return nil, fmt.Errorf("unknown catalog %q (available: %v)", name, s.Names())
	}
	return c, nil
}

// Names returns catalog names in declaration order.
func (s *Set) Names() []string {
	return append([]string(nil), s.order...)
}

// SortedNames returns catalog names alphabetically.
func (s *Set) SortedNames() []string {
	names := s.Names()
	sort.Strings(names)
	return names
}
