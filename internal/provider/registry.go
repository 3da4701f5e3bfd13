package provider

import (
	"errors"
	"fmt"
)

// ErrDuplicateProvider indicates two providers share a name.
var ErrDuplicateProvider = errors.New("provider already registered")

// Registry is an immutable, ordered set of providers keyed by name. It is
// built once at startup and safe for concurrent reads.
type Registry struct {
	ordered []Provider
	byName  map[string]Provider
}

// NewRegistry builds a registry preserving the order of providers.
func NewRegistry(providers ...Provider) (*Registry, error) {
	r := &Registry{
		ordered: make([]Provider, 0, len(providers)),
		byName:  make(map[string]Provider, len(providers)),
	}
	for _, p := range providers {
		if p == nil {
			return nil, errors.New("provider must not be nil")
		}
		if _, exists := r.byName[p.Name()]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProvider, p.Name())
		}
		r.byName[p.Name()] = p
		r.ordered = append(r.ordered, p)
	}
	return r, nil
}

// First returns the earliest registered provider.
func (r *Registry) First() (Provider, error) {
	if r == nil || len(r.ordered) == 0 {
		return nil, ErrNoProvider
	}
	return r.ordered[0], nil
}

// Lookup returns the provider registered under name.
func (r *Registry) Lookup(name string) (Provider, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.byName[name]
	return p, ok
}

// Names lists provider names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.ordered))
	for _, p := range r.ordered {
		names = append(names, p.Name())
	}
	return names
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.ordered)
}
