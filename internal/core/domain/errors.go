package domain

import "go.trai.ch/zerr"

var (
	// ErrToolchainUnavailable is returned when the configured compiler cannot
	// be invoked at all. It aborts the entire run: probing further would only
	// report every feature as absent.
	ErrToolchainUnavailable = zerr.New("compiler toolchain unusable")

	// ErrProbeTimeout is recorded in probe diagnostics when a probe
	// subprocess exceeded its time budget and was killed.
	ErrProbeTimeout = zerr.New("probe timed out")

	// ErrUnknownModule is returned when a requested module is not declared in
	// the catalog.
	ErrUnknownModule = zerr.New("unknown module")

	// ErrUnsatisfiedDependency is returned when an explicitly requested
	// module's required feature, library or module cannot be satisfied.
	ErrUnsatisfiedDependency = zerr.New("unsatisfied dependency")

	// ErrCycleDetected is returned when the module graph contains a
	// dependency cycle. Always a catalog defect.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrDuplicateFeature is returned when a feature id is declared twice.
	ErrDuplicateFeature = zerr.New("feature already declared")

	// ErrDuplicateLibrary is returned when a library name is declared twice.
	ErrDuplicateLibrary = zerr.New("library already declared")

	// ErrDuplicateModule is returned when a module name is declared twice.
	ErrDuplicateModule = zerr.New("module already declared")

	// ErrModuleAlreadyResolved is returned when the same module is added to a
	// resolved graph twice.
	ErrModuleAlreadyResolved = zerr.New("module already resolved")

	// ErrCatalogReadFailed is returned when the catalog file cannot be read.
	ErrCatalogReadFailed = zerr.New("failed to read catalog file")

	// ErrCatalogParseFailed is returned when the catalog file cannot be parsed.
	ErrCatalogParseFailed = zerr.New("failed to parse catalog file")

	// ErrCatalogInvalid is returned when the catalog is structurally invalid
	// (missing ids, empty probe programs, unknown references).
	ErrCatalogInvalid = zerr.New("invalid catalog")

	// ErrProbeCacheReadFailed is returned when the persistent probe cache
	// cannot be read.
	ErrProbeCacheReadFailed = zerr.New("failed to read probe cache")

	// ErrProbeCacheWriteFailed is returned when the persistent probe cache
	// cannot be written.
	ErrProbeCacheWriteFailed = zerr.New("failed to write probe cache")

	// ErrArtifactWriteFailed is returned when the output artifacts cannot be
	// published. The writer guarantees either both artifacts land or neither.
	ErrArtifactWriteFailed = zerr.New("failed to write output artifacts")

	// ErrConfigureFailed is the top-level error for a failed configure run.
	ErrConfigureFailed = zerr.New("configuration failed")
)
