// Package resolve expands a requested module set into a full
// dependency-ordered graph against the detected platform facts.
package resolve

import (
	"context"
	"fmt"
	"runtime"

	"go.trai.ch/confgen/internal/core/domain"
	"go.trai.ch/confgen/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// linkCheckProgram is the implicit probe for libraries declared without one:
// an empty program linked against the library.
const linkCheckProgram = "int main(void) { return 0; }\n"

// Dropped records an optional module excluded from the graph because a
// requirement was unmet.
type Dropped struct {
	Module     string
	Missing    string
	Diagnostic string
}

// Report collects the non-fatal outcomes of a resolution: dropped optional
// modules and the library probes that were tried.
type Report struct {
	Dropped       []Dropped
	LibraryProbes []domain.ProbeResult
}

// Resolver implements module graph resolution.
type Resolver struct {
	runner    ports.ProbeRunner
	logger    ports.Logger
	telemetry ports.Telemetry
}

// NewResolver creates a new Resolver.
func NewResolver(runner ports.ProbeRunner, logger ports.Logger, telemetry ports.Telemetry) *Resolver {
	return &Resolver{
		runner:    runner,
		logger:    logger,
		telemetry: telemetry,
	}
}

// requirement is one unmet requirement of a module, kept for error metadata
// and the report.
type requirement struct {
	name       string
	diagnostic string
}

// Resolve expands the requested module set into a validated, topologically
// ordered graph.
//
// The expansion is deterministic: seeds are taken in catalog declaration
// order, dependencies in their declared order, so identical inputs always
// yield an identical graph. Explicitly requested modules that cannot be
// satisfied are a hard error; optional default-on modules are dropped
// silently and recorded in the report.
func (r *Resolver) Resolve(
	ctx context.Context,
	requested []string,
	catalog *domain.Catalog,
	facts *domain.PlatformFacts,
	parallelism int,
) (*domain.ResolvedGraph, *Report, error) {
	explicit := make(map[string]bool, len(requested))
	for _, name := range requested {
		if _, ok := catalog.Module(name); !ok {
			return nil, nil, zerr.With(domain.ErrUnknownModule, "module", name)
		}
		explicit[name] = true
	}

	closure := r.expand(catalog, explicit)

	// Cycle detection runs before satisfiability: the bottom-up pass below
	// relies on a valid topological order existing.
	if err := closure.Validate(); err != nil {
		return nil, nil, err
	}

	report := &Report{}
	libAvail, err := r.probeLibraries(ctx, closure, facts, parallelism, report)
	if err != nil {
		return nil, nil, err
	}

	unmet := r.evaluate(closure, facts, libAvail)

	for _, name := range closure.Order() {
		req, unsatisfied := unmet[name]
		if !unsatisfied {
			continue
		}
		if explicit[name] {
			failure := zerr.With(domain.ErrUnsatisfiedDependency, "module", name)
			failure = zerr.With(failure, "missing", req.name)
			if req.diagnostic != "" {
				failure = zerr.With(failure, "diagnostic", req.diagnostic)
			}
			return nil, nil, failure
		}
		report.Dropped = append(report.Dropped, Dropped{
			Module:     name,
			Missing:    req.name,
			Diagnostic: req.diagnostic,
		})
		r.logger.Warn(fmt.Sprintf("excluding optional module %q: requirement %q unmet", name, req.name))
	}

	graph, err := r.collect(catalog, closure, explicit, unmet)
	if err != nil {
		return nil, nil, err
	}
	return graph, report, nil
}

// expand computes the transitive closure over required modules, starting
// from the explicit request plus every default-on module, in catalog
// declaration order. Requirements on modules missing from the catalog stay
// out of the closure; they surface as unmet requirements of their dependents.
func (r *Resolver) expand(catalog *domain.Catalog, explicit map[string]bool) *domain.ResolvedGraph {
	closure := domain.NewResolvedGraph()

	var queue []string
	enqueue := func(name string) {
		spec, ok := catalog.Module(name)
		if !ok || closure.Has(name) {
			return
		}
		_ = closure.AddModule(spec)
		queue = append(queue, name)
	}

	for _, spec := range catalog.Modules() {
		if explicit[spec.Name] || spec.Default {
			enqueue(spec.Name)
		}
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		spec, _ := closure.Module(name)
		for _, dep := range spec.RequiredModules {
			enqueue(dep)
		}
	}

	return closure
}

// probeLibraries runs one bounded parallel wave of link-check probes for
// every library the closure may need. Libraries whose availability was
// already established by a detection-time feature probe are answered from
// the facts and not re-probed.
func (r *Resolver) probeLibraries(
	ctx context.Context,
	closure *domain.ResolvedGraph,
	facts *domain.PlatformFacts,
	parallelism int,
	report *Report,
) (map[string]bool, error) {
	if parallelism < 1 {
		parallelism = runtime.NumCPU()
	}

	avail := make(map[string]bool)
	var pending []domain.LibraryRef
	seen := make(map[string]bool)

	for _, name := range closure.Order() {
		spec, _ := closure.Module(name)
		for _, ref := range spec.RequiredLibs {
			if seen[ref.Name] {
				continue
			}
			seen[ref.Name] = true

			if ref.Probe != "" {
				avail[ref.Name] = facts.HasFeature(ref.Probe)
				continue
			}
			pending = append(pending, ref)
		}
	}

	results := make([]domain.ProbeResult, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, ref := range pending {
		g.Go(func() error {
			_, v := r.telemetry.Record(gctx, "check library -l"+ref.Name)
			res, err := r.runner.Run(gctx, ports.Probe{
				Feature:  domain.FeatureID("lib_" + ref.Name),
				Program:  linkCheckProgram,
				LinkLibs: []string{ref.Name},
			})
			if err != nil {
				v.Complete(err)
				return err
			}
			if res.Cached {
				v.Cached()
			}
			if !res.OK && res.Diagnostic != "" {
				v.Log(res.Diagnostic)
			}
			v.Complete(nil)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, ref := range pending {
		avail[ref.Name] = results[i].OK
		report.LibraryProbes = append(report.LibraryProbes, results[i])
	}
	return avail, nil
}

// evaluate walks the closure bottom-up and records, for every unsatisfied
// module, its first unmet requirement in declaration order: features, then
// libraries, then modules.
func (r *Resolver) evaluate(
	closure *domain.ResolvedGraph,
	facts *domain.PlatformFacts,
	libAvail map[string]bool,
) map[string]requirement {
	unmet := make(map[string]requirement)

	for _, name := range closure.Order() {
		spec, _ := closure.Module(name)

		if req, ok := firstUnmet(spec, facts, libAvail, closure, unmet); ok {
			unmet[name] = req
		}
	}

	return unmet
}

func firstUnmet(
	spec domain.ModuleSpec,
	facts *domain.PlatformFacts,
	libAvail map[string]bool,
	closure *domain.ResolvedGraph,
	unmet map[string]requirement,
) (requirement, bool) {
	for _, id := range spec.RequiredFeatures {
		if !facts.HasFeature(id) {
			return requirement{name: string(id), diagnostic: "feature not detected"}, true
		}
	}

	for _, ref := range spec.RequiredLibs {
		if !libAvail[ref.Name] {
			return requirement{name: "lib" + ref.Name, diagnostic: "library probe failed"}, true
		}
	}

	for _, dep := range spec.RequiredModules {
		if !closure.Has(dep) {
			return requirement{name: dep, diagnostic: "module not in catalog"}, true
		}
		if req, bad := unmet[dep]; bad {
			return requirement{name: dep, diagnostic: "requirement " + req.name + " unmet"}, true
		}
	}

	return requirement{}, false
}

// collect builds the final graph: satisfied modules reachable from the
// explicit request or from a surviving default-on seed, in the closure's
// deterministic insertion order.
func (r *Resolver) collect(
	catalog *domain.Catalog,
	closure *domain.ResolvedGraph,
	explicit map[string]bool,
	unmet map[string]requirement,
) (*domain.ResolvedGraph, error) {
	needed := make(map[string]bool)

	var mark func(name string)
	mark = func(name string) {
		if needed[name] {
			return
		}
		needed[name] = true
		spec, _ := closure.Module(name)
		for _, dep := range spec.RequiredModules {
			mark(dep)
		}
	}

	for _, spec := range catalog.Modules() {
		_, unsatisfied := unmet[spec.Name]
		if closure.Has(spec.Name) && !unsatisfied && (explicit[spec.Name] || spec.Default) {
			mark(spec.Name)
		}
	}

	graph := domain.NewResolvedGraph()
	for _, name := range closure.Order() {
		if !needed[name] {
			continue
		}
		spec, _ := closure.Module(name)
		if err := graph.AddModule(spec); err != nil {
			return nil, err
		}
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	return graph, nil
}
