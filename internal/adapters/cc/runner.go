// Package cc implements the probe runner on top of a C toolchain invoked
// through os/exec.
package cc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/confgen/internal/core/domain"
	"go.trai.ch/confgen/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	defaultTimeout  = 30 * time.Second
	memoSize        = 512
	sanityProgram   = "int main(void) { return 0; }\n"
	scratchPattern  = "confgen-probe-*"
	probeSourceName = "probe.c"
	probeBinaryName = "probe.bin"
)

// Runner implements ports.ProbeRunner by writing probe programs to a scratch
// directory and invoking the configured compiler on them. Probe results for
// identical inputs are memoized in-process; library probes repeat during
// resolution and must not pay for a second compile.
type Runner struct {
	compiler  string
	baseFlags []string
	timeout   time.Duration
	memo      *lru.Cache[string, domain.ProbeResult]
	cache     *probeCache
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds each probe subprocess. A probe that exceeds the bound
// is killed and reported as a probe failure, not a fatal error.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithBaseFlags sets extra compiler flags applied to every probe.
func WithBaseFlags(flags []string) Option {
	return func(r *Runner) {
		r.baseFlags = slices.Clone(flags)
	}
}

// WithPersistentCache enables the on-disk probe cache at the given path.
func WithPersistentCache(cache *probeCache) Option {
	return func(r *Runner) {
		r.cache = cache
	}
}

// New creates a Runner for the given compiler binary.
func New(compiler string, opts ...Option) (*Runner, error) {
	if compiler == "" {
		compiler = "cc"
	}

	memo, err := lru.New[string, domain.ProbeResult](memoSize)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create probe memo cache")
	}

	r := &Runner{
		compiler: compiler,
		timeout:  defaultTimeout,
		memo:     memo,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run executes a single probe. Compile, link and execution failures are
// normal negative results; only the inability to invoke the compiler at all
// is an error.
func (r *Runner) Run(ctx context.Context, probe ports.Probe) (domain.ProbeResult, error) {
	key := r.cacheKey(probe)

	if res, ok := r.memo.Get(key); ok {
		res.Feature = probe.Feature
		res.Cached = true
		return res, nil
	}
	if r.cache != nil {
		if res, ok := r.cache.Get(key); ok {
			res.Feature = probe.Feature
			r.memo.Add(key, res)
			res.Cached = true
			return res, nil
		}
	}

	res, err := r.runOnce(ctx, probe)
	if err != nil {
		return domain.ProbeResult{}, err
	}

	// A timeout is the only probe failure worth retrying: deterministic
	// compile failures fail identically on retry.
	if !res.OK && strings.Contains(res.Diagnostic, domain.ErrProbeTimeout.Error()) && ctx.Err() == nil {
		res, err = r.runOnce(ctx, probe)
		if err != nil {
			return domain.ProbeResult{}, err
		}
	}

	r.memo.Add(key, res)
	if r.cache != nil {
		if err := r.cache.Put(key, res); err != nil {
			return domain.ProbeResult{}, err
		}
	}
	return res, nil
}

// runOnce performs one compile (and optional execute) cycle in a private
// scratch directory that is removed on every exit path.
func (r *Runner) runOnce(ctx context.Context, probe ports.Probe) (domain.ProbeResult, error) {
	dir, err := os.MkdirTemp("", scratchPattern)
	if err != nil {
		return domain.ProbeResult{}, zerr.Wrap(err, "failed to create probe scratch directory")
	}
	defer func() { _ = os.RemoveAll(dir) }()

	src := filepath.Join(dir, probeSourceName)
	if err := os.WriteFile(src, []byte(probe.Program), 0o600); err != nil {
		return domain.ProbeResult{}, zerr.Wrap(err, "failed to write probe source")
	}

	bin := filepath.Join(dir, probeBinaryName)
	args := slices.Clone(r.baseFlags)
	args = append(args, "-o", bin, src)
	for _, lib := range probe.LinkLibs {
		args = append(args, "-l"+lib)
	}

	output, err := r.invoke(ctx, r.compiler, args)
	if err != nil {
		return domain.ProbeResult{}, err
	}
	if output != "" {
		// Compiler produced diagnostics and a non-zero exit: negative result.
		return domain.ProbeResult{Feature: probe.Feature, Diagnostic: output}, nil
	}

	if probe.Run {
		output, err = r.invoke(ctx, bin, nil)
		if err != nil {
			// The probe binary itself not being runnable (e.g. an exotic
			// target) is a negative result, never an environment failure.
			return domain.ProbeResult{Feature: probe.Feature, Diagnostic: err.Error()}, nil
		}
		if output != "" {
			return domain.ProbeResult{Feature: probe.Feature, Diagnostic: output}, nil
		}
	}

	return domain.ProbeResult{Feature: probe.Feature, OK: true}, nil
}

// invoke runs a subprocess under the probe timeout. It returns ("", nil) on
// success, a non-empty diagnostic for an ordinary failure, and an error only
// when the binary could not be invoked at all.
func (r *Runner) invoke(ctx context.Context, name string, args []string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, name, args...) //nolint:gosec // compiler and args come from the catalog
	output, err := cmd.CombinedOutput()
	if err == nil {
		return "", nil
	}

	// A killed subprocess says nothing about the feature under test when the
	// run itself is shutting down; recording it as a negative would poison
	// the probe caches.
	if cerr := ctx.Err(); cerr != nil {
		return "", zerr.Wrap(cerr, "probe cancelled")
	}

	if errors.Is(cctx.Err(), context.DeadlineExceeded) {
		return domain.ErrProbeTimeout.Error(), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		diag := strings.TrimSpace(string(output))
		if diag == "" {
			diag = exitErr.String()
		}
		return diag, nil
	}

	// Not an exit status: the binary was not found or not executable.
	envErr := zerr.Wrap(err, domain.ErrToolchainUnavailable.Error())
	return "", zerr.With(envErr, "compiler", name)
}

// Check compiles a fixed minimal program end-to-end. A negative result here
// means the toolchain is unusable and the whole run must abort.
func (r *Runner) Check(ctx context.Context) error {
	res, err := r.Run(ctx, ports.Probe{Feature: "toolchain_sanity", Program: sanityProgram})
	if err != nil {
		return err
	}
	if !res.OK {
		envErr := zerr.With(domain.ErrToolchainUnavailable, "compiler", r.compiler)
		return zerr.With(envErr, "diagnostic", res.Diagnostic)
	}
	return nil
}

// Identify reports the compiler's identity and version, parsed from the
// first line of `<compiler> --version`.
func (r *Runner) Identify(ctx context.Context) (domain.CompilerInfo, error) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, r.compiler, "--version") //nolint:gosec // compiler is operator-configured
	output, err := cmd.Output()
	if err != nil {
		envErr := zerr.Wrap(err, domain.ErrToolchainUnavailable.Error())
		return domain.CompilerInfo{}, zerr.With(envErr, "compiler", r.compiler)
	}

	return parseVersionLine(r.compiler, output), nil
}

// parseVersionLine extracts a compiler id and version from version output.
// The id falls back to the binary name when no known vendor string appears.
func parseVersionLine(compiler string, output []byte) domain.CompilerInfo {
	line, _, _ := strings.Cut(string(output), "\n")
	lower := strings.ToLower(line)

	id := filepath.Base(compiler)
	switch {
	case strings.Contains(lower, "clang"):
		id = "clang"
	case strings.Contains(lower, "gcc") || strings.Contains(lower, "free software foundation"):
		id = "gcc"
	}

	version := ""
	for _, field := range strings.Fields(line) {
		if field != "" && field[0] >= '0' && field[0] <= '9' && strings.Contains(field, ".") {
			version = field
			break
		}
	}

	return domain.CompilerInfo{ID: id, Version: version}
}

// cacheKey derives a stable key from everything that influences a probe's
// outcome: toolchain, flags, program text and link line.
func (r *Runner) cacheKey(probe ports.Probe) string {
	h := xxhash.New()
	_, _ = h.WriteString(r.compiler)
	for _, f := range r.baseFlags {
		_, _ = h.WriteString("\x00" + f)
	}
	_, _ = h.WriteString("\x01" + probe.Program)
	for _, lib := range probe.LinkLibs {
		_, _ = h.WriteString("\x02" + lib)
	}
	if probe.Run {
		_, _ = h.WriteString("\x03run")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
