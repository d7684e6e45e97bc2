package emit

import (
	"strings"

	"go.trai.ch/confgen/internal/core/domain"
)

// RenderPlan renders the build plan as a line-oriented, make-style rule
// file: one rule per output, dependencies on the rule line, the exact
// invocation as a tab-indented recipe.
func RenderPlan(plan domain.BuildPlan, facts *domain.PlatformFacts) []byte {
	var b strings.Builder

	b.WriteString("# Build plan generated by confgen. Do not edit.\n")

	for _, step := range plan.Steps {
		b.WriteString("\n")
		b.WriteString(step.Output)
		b.WriteString(":")
		for _, in := range step.Inputs {
			b.WriteString(" ")
			b.WriteString(in)
		}
		b.WriteString("\n\t")
		b.WriteString(renderCommand(step, facts))
		b.WriteString("\n")
	}

	return []byte(b.String())
}

func renderCommand(step domain.BuildStep, facts *domain.PlatformFacts) string {
	parts := []string{facts.Compiler().ID}

	switch step.Kind {
	case domain.StepCompile:
		parts = append(parts, step.Flags...)
		parts = append(parts, "-o", step.Output)
		parts = append(parts, step.Inputs...)
	case domain.StepLink:
		parts = append(parts, "-o", step.Output)
		parts = append(parts, step.Inputs...)
		parts = append(parts, step.Flags...)
	}

	return strings.Join(parts, " ")
}

// RenderHeader renders the capability header as a C header of #define
// lines. The file is regenerated wholesale each run; no timestamps or
// absolute paths may appear in it.
func RenderHeader(header domain.CapabilityHeader) []byte {
	var b strings.Builder

	b.WriteString("/* Capability header generated by confgen. Do not edit. */\n")
	b.WriteString("#ifndef " + headerGuard + "\n")
	b.WriteString("#define " + headerGuard + "\n\n")

	for _, sym := range header.Symbols {
		b.WriteString("#define ")
		b.WriteString(sym.Name)
		b.WriteString(" ")
		b.WriteString(sym.Value)
		b.WriteString("\n")
	}

	b.WriteString("\n#endif /* " + headerGuard + " */\n")

	return []byte(b.String())
}
