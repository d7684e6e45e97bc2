// Package detect implements platform and feature detection.
package detect

import (
	"context"
	"fmt"
	"runtime"

	"go.trai.ch/confgen/internal/core/domain"
	"go.trai.ch/confgen/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// wordSizeProgram fails to compile when pointers are not 64 bits wide.
// The negative array size trick keeps this a compile-only probe.
const wordSizeProgram = `int pointers_are_64_bit[sizeof(void *) == 8 ? 1 : -1];
int main(void) { return 0; }
`

// Detector determines OS family, architecture, word size and compiler
// identity, then probes every applicable catalog feature.
type Detector struct {
	runner    ports.ProbeRunner
	logger    ports.Logger
	telemetry ports.Telemetry
}

// NewDetector creates a new Detector.
func NewDetector(runner ports.ProbeRunner, logger ports.Logger, telemetry ports.Telemetry) *Detector {
	return &Detector{
		runner:    runner,
		logger:    logger,
		telemetry: telemetry,
	}
}

// Detect produces the immutable PlatformFacts for this run.
//
// The toolchain is sanity-checked before any feature probe runs: a broken
// compiler must abort the run instead of reporting every feature as absent.
// Feature probes are independent and side-effect free, so they run through a
// bounded pool; results are collected per index and merged once after the
// pool drains, which keeps the outcome independent of probe order.
func (d *Detector) Detect(ctx context.Context, catalog *domain.Catalog, parallelism int) (*domain.PlatformFacts, error) {
	if parallelism < 1 {
		parallelism = runtime.NumCPU()
	}

	family := osFamily(runtime.GOOS)
	arch := runtime.GOARCH

	_, vertex := d.telemetry.Record(ctx, "detect toolchain")
	compiler, err := d.checkToolchain(ctx)
	vertex.Complete(err)
	if err != nil {
		return nil, err
	}

	wordSize, err := d.probeWordSize(ctx)
	if err != nil {
		return nil, err
	}

	applicable := make([]domain.FeatureSpec, 0, len(catalog.Features()))
	for _, spec := range catalog.Features() {
		if spec.AppliesTo(family) {
			applicable = append(applicable, spec)
		}
	}

	results := make([]domain.ProbeResult, len(applicable))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, spec := range applicable {
		g.Go(func() error {
			_, v := d.telemetry.Record(gctx, "probe "+string(spec.ID))
			res, probeErr := d.runner.Run(gctx, ports.Probe{
				Feature:  spec.ID,
				Program:  spec.Program,
				LinkLibs: spec.LinkLibs,
				Run:      spec.Run,
			})
			if probeErr != nil {
				v.Complete(probeErr)
				return probeErr
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
		// Only environment failures reach here; negative probes are results.
		return nil, err
	}

	detected := make(map[domain.FeatureID]bool, len(results))
	for _, res := range results {
		if res.OK {
			detected[res.Feature] = true
		}
	}

	facts := domain.NewPlatformFacts(family, arch, wordSize, compiler, detected)
	d.logger.Info(fmt.Sprintf(
		"detected platform %s/%s (%d-bit, %s %s): %d of %d features present",
		family, arch, wordSize, compiler.ID, compiler.Version, len(detected), len(applicable),
	))
	return facts, nil
}

// checkToolchain identifies the compiler and compiles a minimal program
// end-to-end before any feature probe runs.
func (d *Detector) checkToolchain(ctx context.Context) (domain.CompilerInfo, error) {
	compiler, err := d.runner.Identify(ctx)
	if err != nil {
		return domain.CompilerInfo{}, err
	}
	if err := d.runner.Check(ctx); err != nil {
		return domain.CompilerInfo{}, err
	}
	return compiler, nil
}

// probeWordSize determines the target pointer width: 64 when the compile-only
// probe accepts 8-byte pointers, 32 otherwise.
func (d *Detector) probeWordSize(ctx context.Context) (int, error) {
	res, err := d.runner.Run(ctx, ports.Probe{
		Feature: "word_size_64",
		Program: wordSizeProgram,
	})
	if err != nil {
		return 0, err
	}
	if res.OK {
		return 64, nil
	}
	return 32, nil
}

// osFamily maps a GOOS value onto the catalog's OS family vocabulary.
func osFamily(goos string) domain.OSFamily {
	if goos == "windows" {
		return domain.FamilyWindows
	}
	return domain.FamilyUnix
}
