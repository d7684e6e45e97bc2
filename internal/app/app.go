// Package app implements the application layer for confgen: it drives the
// detect, resolve and emit pipeline and publishes the output artifacts.
package app

import (
	"context"
	"fmt"
	"runtime"

	"go.trai.ch/confgen/internal/core/domain"
	"go.trai.ch/confgen/internal/core/ports"
	"go.trai.ch/confgen/internal/engine/detect"
	"go.trai.ch/confgen/internal/engine/emit"
	"go.trai.ch/confgen/internal/engine/resolve"
	"go.trai.ch/zerr"
)

// RunOptions carries the per-invocation inputs from the CLI layer.
type RunOptions struct {
	// CatalogPath is the catalog file; empty selects the default filename.
	CatalogPath string
	// OutputDir receives the build plan and the capability header.
	OutputDir string
	// Modules are the explicitly requested module names.
	Modules []string
	// Enable forces the named features present, Disable forces them absent.
	Enable  []string
	Disable []string
	// Jobs bounds probe parallelism; zero or negative means NumCPU.
	Jobs int
}

// App represents the main application logic.
type App struct {
	loader   ports.CatalogLoader
	detector *detect.Detector
	resolver *resolve.Resolver
	emitter  *emit.Emitter
	writer   ports.ArtifactWriter
	logger   ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.CatalogLoader,
	detector *detect.Detector,
	resolver *resolve.Resolver,
	emitter *emit.Emitter,
	writer ports.ArtifactWriter,
	logger ports.Logger,
) *App {
	return &App{
		loader:   loader,
		detector: detector,
		resolver: resolver,
		emitter:  emitter,
		writer:   writer,
		logger:   logger,
	}
}

// Run executes one configure run: load catalog, detect the platform, apply
// overrides, resolve the module graph, emit and publish both artifacts.
// Dropped optional modules are reported but do not fail the run; a run
// succeeds only if every explicitly requested module resolved and both
// artifacts were written.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = runtime.NumCPU()
	}

	catalog, err := a.loader.Load(opts.CatalogPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load catalog")
	}

	facts, err := a.detector.Detect(ctx, catalog, jobs)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigureFailed.Error())
	}
	facts = facts.WithOverrides(toFeatureIDs(opts.Enable), toFeatureIDs(opts.Disable))

	graph, report, err := a.resolver.Resolve(ctx, opts.Modules, catalog, facts, jobs)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigureFailed.Error())
	}

	plan, header := a.emitter.Emit(graph, facts, catalog)

	artifacts := []ports.Artifact{
		{Name: emit.PlanFilename, Data: emit.RenderPlan(plan, facts)},
		{Name: emit.HeaderFilename, Data: emit.RenderHeader(header)},
	}
	if err := a.writer.WriteAll(opts.OutputDir, artifacts); err != nil {
		return zerr.Wrap(err, domain.ErrConfigureFailed.Error())
	}

	for _, dropped := range report.Dropped {
		a.logger.Warn(fmt.Sprintf("optional module %q excluded (missing %s)", dropped.Module, dropped.Missing))
	}
	a.logger.Info(fmt.Sprintf(
		"wrote %s and %s to %s (%d modules, %d symbols)",
		emit.PlanFilename, emit.HeaderFilename, opts.OutputDir, graph.Len(), len(header.Symbols),
	))
	return nil
}

func toFeatureIDs(ids []string) []domain.FeatureID {
	if len(ids) == 0 {
		return nil
	}
	res := make([]domain.FeatureID, len(ids))
	for i, id := range ids {
		res[i] = domain.FeatureID(id)
	}
	return res
}
