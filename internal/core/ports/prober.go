// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/confgen/internal/core/domain"
)

// Probe is a single compile/link test against the configured toolchain.
type Probe struct {
	// Feature names the capability under test; it tags the result and
	// serves as the probe's identity in reporting.
	Feature domain.FeatureID
	// Program is the source text written to the scratch file.
	Program string
	// LinkLibs are appended to the link line as -l<name>.
	LinkLibs []string
	// Run executes the produced binary; its exit status decides the result.
	Run bool
}

// ProbeRunner compiles, links and optionally executes probe programs.
//
// Run returns a negative ProbeResult for probes that fail to compile, link
// or execute; the error return is reserved for environment failures such as
// a missing compiler binary. Probes are side-effect free and independent, so
// implementations must be safe for concurrent use.
//
//go:generate go run go.uber.org/mock/mockgen -source=prober.go -destination=mocks/mock_prober.go -package=mocks
type ProbeRunner interface {
	// Run executes a single probe against the configured toolchain.
	Run(ctx context.Context, probe Probe) (domain.ProbeResult, error)

	// Check verifies the toolchain works end-to-end by compiling a fixed
	// minimal program. A failure here is fatal for the whole run.
	Check(ctx context.Context) error

	// Identify reports the compiler's identity and version.
	Identify(ctx context.Context) (domain.CompilerInfo, error)
}
