// Package domain contains the core domain models and business logic for the
// configuration engine: platform facts, the feature/module catalog, the
// resolved module graph and the emitted build plan.
package domain

import (
	"slices"
)

// FeatureID is the stable identifier of a probeable capability,
// e.g. "large_file_support" or "symbol_fseeko".
type FeatureID string

// OSFamily classifies the host operating system for probe applicability.
type OSFamily string

const (
	// FamilyUnix covers every POSIX-ish platform (linux, darwin, the BSDs).
	FamilyUnix OSFamily = "unix"
	// FamilyWindows covers Windows hosts.
	FamilyWindows OSFamily = "windows"
)

// CompilerInfo identifies the probed C toolchain.
type CompilerInfo struct {
	ID      string
	Version string
}

// ProbeResult is the outcome of a single probe invocation.
// A failed probe is a normal negative result, not an error; Diagnostic
// carries the captured compiler output for reporting.
type ProbeResult struct {
	Feature    FeatureID
	OK         bool
	Diagnostic string

	// Cached reports that the result was answered from a probe cache
	// instead of a fresh compile.
	Cached bool
}

// PlatformFacts is the immutable record of everything detection learned
// about the host: OS family, architecture, word size, compiler identity and
// the set of detected features. It is created once per run and passed by
// read-only reference to the resolver and the emitter.
type PlatformFacts struct {
	family   OSFamily
	arch     string
	wordSize int
	compiler CompilerInfo
	detected map[FeatureID]bool
}

// NewPlatformFacts constructs the facts record. The detected set is copied,
// so the caller's map cannot mutate the facts afterwards.
func NewPlatformFacts(family OSFamily, arch string, wordSize int, compiler CompilerInfo, detected map[FeatureID]bool) *PlatformFacts {
	set := make(map[FeatureID]bool, len(detected))
	for id, ok := range detected {
		if ok {
			set[id] = true
		}
	}
	return &PlatformFacts{
		family:   family,
		arch:     arch,
		wordSize: wordSize,
		compiler: compiler,
		detected: set,
	}
}

// Family returns the detected OS family.
func (f *PlatformFacts) Family() OSFamily { return f.family }

// Arch returns the detected CPU architecture.
func (f *PlatformFacts) Arch() string { return f.arch }

// WordSize returns the probed pointer width in bits (32 or 64).
func (f *PlatformFacts) WordSize() int { return f.wordSize }

// Compiler returns the identity of the probed toolchain.
func (f *PlatformFacts) Compiler() CompilerInfo { return f.compiler }

// HasFeature reports whether the feature was detected (or force-enabled).
func (f *PlatformFacts) HasFeature(id FeatureID) bool {
	return f.detected[id]
}

// Features returns the detected feature set in lexical order.
// The order is only used for logging; artifact ordering follows the catalog.
func (f *PlatformFacts) Features() []FeatureID {
	ids := make([]FeatureID, 0, len(f.detected))
	for id := range f.detected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// WithOverrides returns a copy of the facts with the given features forced
// present or absent. The receiver is left untouched; overrides never mutate
// a facts value that other components may already hold.
func (f *PlatformFacts) WithOverrides(enable, disable []FeatureID) *PlatformFacts {
	set := make(map[FeatureID]bool, len(f.detected)+len(enable))
	for id := range f.detected {
		set[id] = true
	}
	for _, id := range enable {
		set[id] = true
	}
	for _, id := range disable {
		delete(set, id)
	}
	return &PlatformFacts{
		family:   f.family,
		arch:     f.arch,
		wordSize: f.wordSize,
		compiler: f.compiler,
		detected: set,
	}
}
