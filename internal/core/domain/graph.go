package domain

import (
	"iter"
	"strings"

	"go.trai.ch/zerr"
)

// ResolvedGraph is a directed acyclic graph over module specs. Modules are
// kept in insertion order; the resolver inserts them in catalog declaration
// order so that Validate produces the same topological order on every run.
type ResolvedGraph struct {
	modules map[string]ModuleSpec
	names   []string
	order   []string
}

// NewResolvedGraph creates a new empty graph.
func NewResolvedGraph() *ResolvedGraph {
	return &ResolvedGraph{
		modules: make(map[string]ModuleSpec),
	}
}

// AddModule adds a module spec to the graph.
// It returns an error if a module with the same name is already present.
func (g *ResolvedGraph) AddModule(spec ModuleSpec) error {
	if _, exists := g.modules[spec.Name]; exists {
		return zerr.With(ErrModuleAlreadyResolved, "module", spec.Name)
	}
	g.modules[spec.Name] = spec
	g.names = append(g.names, spec.Name)
	return nil
}

// Has reports whether the named module is part of the graph.
func (g *ResolvedGraph) Has(name string) bool {
	_, ok := g.modules[name]
	return ok
}

// Module returns the spec for the named module.
func (g *ResolvedGraph) Module(name string) (ModuleSpec, bool) {
	spec, ok := g.modules[name]
	return spec, ok
}

// Len returns the number of modules in the graph.
func (g *ResolvedGraph) Len() int {
	return len(g.modules)
}

// Validate checks for cycles with a three-color depth-first traversal and
// populates the topological order on success. Edges to modules outside the
// graph are skipped here; the resolver accounts for them separately as
// unsatisfied requirements.
func (g *ResolvedGraph) Validate() error {
	g.order = make([]string, 0, len(g.modules))
	visited := make(map[string]int, len(g.modules)) // 0: unvisited, 1: in progress, 2: done
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		visited[name] = 1
		path = append(path, name)

		for _, dep := range g.modules[name].RequiredModules {
			if _, inGraph := g.modules[dep]; !inGraph {
				continue
			}
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[name] = 2
		path = path[:len(path)-1]
		g.order = append(g.order, name)
		return nil
	}

	// Insertion order makes the traversal, and with it the resulting
	// topological order, deterministic across runs.
	for _, name := range g.names {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error carrying the cycle path from the first
// occurrence of the repeated module back to itself, e.g. "A -> B -> A".
func (g *ResolvedGraph) buildCycleError(path []string, dep string) error {
	start := 0
	for i, node := range path {
		if node == dep {
			start = i
			break
		}
	}
	cycle := append(append([]string{}, path[start:]...), dep)
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(cycle, " -> "))
}

// Order returns the module names in topological order (dependencies first).
// It assumes Validate has been called and returned nil.
func (g *ResolvedGraph) Order() []string {
	return g.order
}

// Walk returns an iterator that yields module specs in topological order.
// It assumes Validate has been called and returned nil.
func (g *ResolvedGraph) Walk() iter.Seq[ModuleSpec] {
	return func(yield func(ModuleSpec) bool) {
		for _, name := range g.order {
			if !yield(g.modules[name]) {
				return
			}
		}
	}
}
