package resolve_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.trai.ch/confgen/internal/adapters/telemetry"
	"go.trai.ch/confgen/internal/core/domain"
	"go.trai.ch/confgen/internal/core/ports"
	"go.trai.ch/confgen/internal/core/ports/mocks"
	"go.trai.ch/confgen/internal/engine/resolve"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func unixFacts(features ...domain.FeatureID) *domain.PlatformFacts {
	detected := make(map[domain.FeatureID]bool, len(features))
	for _, id := range features {
		detected[id] = true
	}
	return domain.NewPlatformFacts(domain.FamilyUnix, "amd64", 64, domain.CompilerInfo{ID: "gcc"}, detected)
}

func newResolver(t *testing.T, ctrl *gomock.Controller) (*resolve.Resolver, *mocks.MockProbeRunner, *mocks.MockLogger) {
	t.Helper()
	runner := mocks.NewMockProbeRunner(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	return resolve.NewResolver(runner, logger, telemetry.NewNoOp()), runner, logger
}

// Requesting a module whose required feature probed true yields a graph
// containing that module.
func TestResolve_SatisfiedModule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	r, _, _ := newResolver(t, ctrl)

	c := domain.NewCatalog("demo")
	require.NoError(t, c.AddFeature(domain.FeatureSpec{ID: "F1", Program: "p"}))
	require.NoError(t, c.AddModule(domain.ModuleSpec{
		Name:             "M1",
		Sources:          []string{"m1/a.c", "m1/b.c"},
		RequiredFeatures: []domain.FeatureID{"F1"},
	}))

	graph, report, err := r.Resolve(context.Background(), []string{"M1"}, c, unixFacts("F1"), 1)
	require.NoError(t, err)
	require.True(t, graph.Has("M1"))
	require.Equal(t, 1, graph.Len())
	require.Empty(t, report.Dropped)
}

func TestResolve_UnknownModule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	r, _, _ := newResolver(t, ctrl)

	c := domain.NewCatalog("demo")

	_, _, err := r.Resolve(context.Background(), []string{"ghost"}, c, unixFacts(), 1)
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	require.Contains(t, zErr.Error(), domain.ErrUnknownModule.Error())
	require.Equal(t, "ghost", zErr.Metadata()["module"])
}

// A required module missing from the catalog is an unsatisfied dependency of
// its dependent, not an unknown-module error.
func TestResolve_DependencyMissingFromCatalog(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	r, _, _ := newResolver(t, ctrl)

	c := domain.NewCatalog("demo")
	require.NoError(t, c.AddModule(domain.ModuleSpec{
		Name:            "M2",
		RequiredModules: []string{"M3"},
	}))

	_, _, err := r.Resolve(context.Background(), []string{"M2"}, c, unixFacts(), 1)
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	require.Contains(t, zErr.Error(), domain.ErrUnsatisfiedDependency.Error())
	require.Equal(t, "M2", zErr.Metadata()["module"])
	require.Equal(t, "M3", zErr.Metadata()["missing"])
}

// An optional default-on module with an unmet feature is dropped silently;
// requesting it explicitly turns the same condition into a hard error.
func TestResolve_OptionalModuleDropped(t *testing.T) {
	newCatalog := func(t *testing.T) *domain.Catalog {
		c := domain.NewCatalog("demo")
		require.NoError(t, c.AddFeature(domain.FeatureSpec{ID: "F2", Program: "p"}))
		require.NoError(t, c.AddModule(domain.ModuleSpec{
			Name:             "M4",
			RequiredFeatures: []domain.FeatureID{"F2"},
			Optional:         true,
			Default:          true,
		}))
		return c
	}

	t.Run("default-on request drops the module", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		r, _, logger := newResolver(t, ctrl)
		logger.EXPECT().Warn(gomock.Any())

		graph, report, err := r.Resolve(context.Background(), nil, newCatalog(t), unixFacts(), 1)
		require.NoError(t, err)
		require.False(t, graph.Has("M4"))
		require.Len(t, report.Dropped, 1)
		require.Equal(t, "M4", report.Dropped[0].Module)
		require.Equal(t, "F2", report.Dropped[0].Missing)
	})

	t.Run("explicit request fails hard", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		r, _, _ := newResolver(t, ctrl)

		_, _, err := r.Resolve(context.Background(), []string{"M4"}, newCatalog(t), unixFacts(), 1)
		require.Error(t, err)

		zErr, ok := err.(*zerr.Error)
		require.True(t, ok, "expected *zerr.Error, got %T", err)
		require.Equal(t, "M4", zErr.Metadata()["module"])
		require.Equal(t, "F2", zErr.Metadata()["missing"])
	})
}

func TestResolve_TransitiveClosure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	r, _, _ := newResolver(t, ctrl)

	c := domain.NewCatalog("demo")
	require.NoError(t, c.AddModule(domain.ModuleSpec{Name: "core"}))
	require.NoError(t, c.AddModule(domain.ModuleSpec{Name: "net", RequiredModules: []string{"core"}}))
	require.NoError(t, c.AddModule(domain.ModuleSpec{Name: "cli", RequiredModules: []string{"net"}}))

	graph, _, err := r.Resolve(context.Background(), []string{"cli"}, c, unixFacts(), 1)
	require.NoError(t, err)
	require.Equal(t, []string{"core", "net", "cli"}, graph.Order())
}

func TestResolve_CycleInCatalog(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	r, _, _ := newResolver(t, ctrl)

	c := domain.NewCatalog("demo")
	require.NoError(t, c.AddModule(domain.ModuleSpec{Name: "A", RequiredModules: []string{"B"}}))
	require.NoError(t, c.AddModule(domain.ModuleSpec{Name: "B", RequiredModules: []string{"A"}}))

	_, _, err := r.Resolve(context.Background(), []string{"A"}, c, unixFacts(), 1)
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	require.Contains(t, zErr.Error(), domain.ErrCycleDetected.Error())
	require.NotEmpty(t, zErr.Metadata()["cycle"])
}

func TestResolve_DefaultModulesSeedTheGraph(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	r, _, _ := newResolver(t, ctrl)

	c := domain.NewCatalog("demo")
	require.NoError(t, c.AddModule(domain.ModuleSpec{Name: "core", Default: true}))
	require.NoError(t, c.AddModule(domain.ModuleSpec{Name: "extras", Optional: true}))

	graph, _, err := r.Resolve(context.Background(), nil, c, unixFacts(), 1)
	require.NoError(t, err)
	require.True(t, graph.Has("core"), "default-on modules join without being requested")
	require.False(t, graph.Has("extras"), "non-default optional modules need an explicit request")
}

func TestResolve_LibraryProbes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	r, runner, _ := newResolver(t, ctrl)

	c := domain.NewCatalog("demo")
	require.NoError(t, c.AddFeature(domain.FeatureSpec{ID: "zlib_inflate", Program: "p", LinkLibs: []string{"z"}}))
	require.NoError(t, c.AddLibrary(domain.LibraryRef{Name: "z", Probe: "zlib_inflate"}))
	require.NoError(t, c.AddModule(domain.ModuleSpec{
		Name:         "compress",
		RequiredLibs: []domain.LibraryRef{{Name: "z", Probe: "zlib_inflate"}, {Name: "m"}},
	}))
	require.NoError(t, c.AddModule(domain.ModuleSpec{
		Name:         "math2",
		RequiredLibs: []domain.LibraryRef{{Name: "m"}},
	}))

	// Only the bare "m" ref needs a link check; "z" was answered by the
	// detection-time feature probe. Two modules share "m": one probe total.
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, probe ports.Probe) (domain.ProbeResult, error) {
			require.Equal(t, domain.FeatureID("lib_m"), probe.Feature)
			require.Equal(t, []string{"m"}, probe.LinkLibs)
			return domain.ProbeResult{Feature: probe.Feature, OK: true}, nil
		}).Times(1)

	graph, report, err := r.Resolve(context.Background(), []string{"compress", "math2"}, c, unixFacts("zlib_inflate"), 1)
	require.NoError(t, err)
	require.True(t, graph.Has("compress"))
	require.True(t, graph.Has("math2"))
	require.Len(t, report.LibraryProbes, 1)
}

func TestResolve_MissingLibraryFailsExplicitModule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	r, runner, _ := newResolver(t, ctrl)

	c := domain.NewCatalog("demo")
	require.NoError(t, c.AddModule(domain.ModuleSpec{
		Name:         "audio",
		RequiredLibs: []domain.LibraryRef{{Name: "asound"}},
	}))

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(
		domain.ProbeResult{Feature: "lib_asound", Diagnostic: "cannot find -lasound"}, nil)

	_, _, err := r.Resolve(context.Background(), []string{"audio"}, c, unixFacts(), 1)
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	require.Equal(t, "audio", zErr.Metadata()["module"])
	require.Equal(t, "libasound", zErr.Metadata()["missing"])
}

// A dropped optional module takes its optional dependents down with it.
func TestResolve_DroppedModuleCascades(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	r, _, logger := newResolver(t, ctrl)
	logger.EXPECT().Warn(gomock.Any()).Times(2)

	c := domain.NewCatalog("demo")
	require.NoError(t, c.AddFeature(domain.FeatureSpec{ID: "F2", Program: "p"}))
	require.NoError(t, c.AddModule(domain.ModuleSpec{
		Name:             "base",
		RequiredFeatures: []domain.FeatureID{"F2"},
		Optional:         true,
		Default:          true,
	}))
	require.NoError(t, c.AddModule(domain.ModuleSpec{
		Name:            "ui",
		RequiredModules: []string{"base"},
		Optional:        true,
		Default:         true,
	}))

	graph, report, err := r.Resolve(context.Background(), nil, c, unixFacts(), 1)
	require.NoError(t, err)
	require.Equal(t, 0, graph.Len())
	require.Len(t, report.Dropped, 2)
	require.Equal(t, "base", report.Dropped[0].Module)
	require.Equal(t, "ui", report.Dropped[1].Module)
}

func TestResolve_Deterministic(t *testing.T) {
	run := func(t *testing.T) []string {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		r, _, _ := newResolver(t, ctrl)

		c := domain.NewCatalog("demo")
		require.NoError(t, c.AddModule(domain.ModuleSpec{Name: "zeta", Default: true}))
		require.NoError(t, c.AddModule(domain.ModuleSpec{Name: "alpha", Default: true, RequiredModules: []string{"zeta"}}))
		require.NoError(t, c.AddModule(domain.ModuleSpec{Name: "mid", Default: true}))

		graph, _, err := r.Resolve(context.Background(), nil, c, unixFacts(), 4)
		require.NoError(t, err)
		return graph.Order()
	}

	first := run(t)
	for range 10 {
		if diff := cmp.Diff(first, run(t)); diff != "" {
			t.Fatalf("resolution order not deterministic (-first +rerun):\n%s", diff)
		}
	}
}
