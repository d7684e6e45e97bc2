// Package emit converts a resolved module graph plus detected platform
// facts into the two coupled output artifacts: the build plan and the
// capability header.
package emit

import (
	"path"
	"strings"

	"go.trai.ch/confgen/internal/core/domain"
)

const (
	// PlanFilename is the name of the emitted build plan artifact.
	PlanFilename = "build.plan"
	// HeaderFilename is the name of the emitted capability header artifact.
	HeaderFilename = "config.h"

	objDir      = "obj"
	binDir      = "bin"
	headerGuard = "CONFGEN_CONFIG_H"
)

// Emitter produces the build plan and capability header. Emission is pure:
// identical (graph, facts, catalog) inputs yield identical artifacts, byte
// for byte. Nothing here may consult clocks, absolute paths or unordered
// map iteration.
type Emitter struct{}

// NewEmitter creates a new Emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit builds the plan and the header from the resolved graph.
//
// One compile step is appended per source file of each module in topological
// order; a single link step over every object, in the same order, closes the
// plan. The header defines one symbol per detected feature and one per
// included module, both in catalog declaration order; on a symbol conflict
// the first declaration wins.
func (e *Emitter) Emit(graph *domain.ResolvedGraph, facts *domain.PlatformFacts, catalog *domain.Catalog) (domain.BuildPlan, domain.CapabilityHeader) {
	plan := e.emitPlan(graph, facts, catalog)
	header := e.emitHeader(graph, facts, catalog)
	return plan, header
}

func (e *Emitter) emitPlan(graph *domain.ResolvedGraph, facts *domain.PlatformFacts, catalog *domain.Catalog) domain.BuildPlan {
	compileFlags := compileFlagsFor(facts)

	var steps []domain.BuildStep
	var objects []string

	for spec := range graph.Walk() {
		for _, src := range spec.Sources {
			obj := objectPath(src)
			objects = append(objects, obj)
			steps = append(steps, domain.BuildStep{
				Kind:   domain.StepCompile,
				Inputs: []string{src},
				Output: obj,
				Flags:  compileFlags,
			})
		}
	}

	if len(objects) > 0 {
		steps = append(steps, domain.BuildStep{
			Kind:   domain.StepLink,
			Inputs: objects,
			Output: path.Join(binDir, catalog.Program()),
			Flags:  linkFlagsFor(graph),
		})
	}

	return domain.BuildPlan{Steps: steps}
}

func (e *Emitter) emitHeader(graph *domain.ResolvedGraph, facts *domain.PlatformFacts, catalog *domain.Catalog) domain.CapabilityHeader {
	var symbols []domain.CapabilitySymbol
	seen := make(map[string]bool)

	define := func(name, value string) {
		// First catalog declaration wins a symbol conflict.
		if seen[name] {
			return
		}
		seen[name] = true
		symbols = append(symbols, domain.CapabilitySymbol{Name: name, Value: value})
	}

	for _, spec := range catalog.Features() {
		if facts.HasFeature(spec.ID) {
			define(spec.HeaderSymbol(), spec.HeaderValue())
		}
	}

	for _, spec := range catalog.Modules() {
		if graph.Has(spec.Name) {
			define(moduleSymbol(spec.Name), "1")
		}
	}

	return domain.CapabilityHeader{Symbols: symbols}
}

// compileFlagsFor derives the per-source compile flags from the facts.
func compileFlagsFor(facts *domain.PlatformFacts) []string {
	flags := []string{"-c", "-O2", "-DHAVE_CONFIG_H"}
	if facts.WordSize() == 64 {
		flags = append(flags, "-m64")
	} else {
		flags = append(flags, "-m32")
	}
	return flags
}

// linkFlagsFor collects -l flags for every library required by an included
// module, deduplicated in first-mention order along the topological walk.
func linkFlagsFor(graph *domain.ResolvedGraph) []string {
	var flags []string
	seen := make(map[string]bool)
	for spec := range graph.Walk() {
		for _, ref := range spec.RequiredLibs {
			if seen[ref.Name] {
				continue
			}
			seen[ref.Name] = true
			flags = append(flags, "-l"+ref.Name)
		}
	}
	return flags
}

// objectPath derives the object file path for a source file, mirroring the
// source tree under obj/ to keep same-named sources from colliding.
func objectPath(src string) string {
	clean := path.Clean(strings.ReplaceAll(src, "\\", "/"))
	ext := path.Ext(clean)
	if ext != "" {
		clean = strings.TrimSuffix(clean, ext)
	}
	return path.Join(objDir, clean+".o")
}

// moduleSymbol derives the header symbol announcing a module's presence.
func moduleSymbol(name string) string {
	upper := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	return "CONFGEN_MOD_" + upper
}
