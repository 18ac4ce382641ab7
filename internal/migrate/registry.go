package migrate

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the statically registered migration definitions. Migration
// files self-register from init(), the same pattern database/sql drivers use,
// so the set of migrations is fixed at build time with no filesystem scanning
// or dynamic loading.
type Registry struct {
	mu   sync.Mutex
	defs map[string]*Definition
}

// NewRegistry creates an empty registry. Production code uses the package
// default; tests build their own.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds a definition. It panics on an invalid or duplicate version:
// registration happens at init time, where a bad definition is a build
// problem, not a runtime condition.
func (r *Registry) Register(d *Definition) {
	if d == nil || d.Version == "" || d.Up == nil {
		panic("migrate: Register called with incomplete definition")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.defs[d.Version]; dup {
		panic(fmt.Sprintf("migrate: duplicate migration version %s", d.Version))
	}
	r.defs[d.Version] = d
}

// Migrations returns all definitions in ascending version order.
func (r *Registry) Migrations() []*Definition {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}

var defaultRegistry = NewRegistry()

// Register adds a definition to the default registry.
func Register(d *Definition) { defaultRegistry.Register(d) }

// DefaultRegistry returns the registry migration files register into.
func DefaultRegistry() *Registry { return defaultRegistry }
