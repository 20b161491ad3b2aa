// internal/loan/product/registry.go
package product

import "sort"

// Registry is the closed set of loan products, constructed once at process
// start and shared read-only across all sessions.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry builds the full catalog.
func NewRegistry() *Registry {
	defs := map[string]*Definition{}
	for _, d := range []*Definition{
		Education(), Home(), Personal(), Gold(), Business(), Car(),
	} {
		defs[d.ID] = d
	}
	return &Registry{defs: defs}
}

// Get returns the definition for a product id.
func (r *Registry) Get(id string) (*Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// IDs returns the available product ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
