package domain

// StepKind distinguishes compile steps from the final link step.
type StepKind string

const (
	// StepCompile compiles a single source file into an object file.
	StepCompile StepKind = "compile"
	// StepLink links object files into the final target.
	StepLink StepKind = "link"
)

// BuildStep is one rule of the emitted build plan: explicit inputs, a single
// output and the exact invocation flags. Every input is either a source file
// or the output of an earlier step.
type BuildStep struct {
	Kind   StepKind
	Inputs []string
	Output string
	Flags  []string
}

// BuildPlan is the ordered sequence of steps an external build executor will
// carry out. The order respects the resolved graph's topological order.
type BuildPlan struct {
	Steps []BuildStep
}

// CapabilitySymbol is a single symbol definition in the capability header.
type CapabilitySymbol struct {
	Name  string
	Value string
}

// CapabilityHeader is the ordered set of symbols derived from the detected
// features and the modules included in the resolved graph. It is regenerated
// wholesale each run and never patched incrementally.
type CapabilityHeader struct {
	Symbols []CapabilitySymbol
}

// Defined reports whether the header defines the named symbol.
func (h CapabilityHeader) Defined(name string) bool {
	for _, s := range h.Symbols {
		if s.Name == name {
			return true
		}
	}
	return false
}
