package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// FeatureSpec declares a probeable capability: the probe program text, the
// libraries it links against, the OS families it applies to and the symbol
// it contributes to the capability header.
type FeatureSpec struct {
	ID FeatureID
	// Program is the fixed probe source text.
	Program string
	// LinkLibs are appended to the probe link line (-l<name> each).
	LinkLibs []string
	// Families restricts the probe to specific OS families.
	// An empty list means the feature is universal.
	Families []OSFamily
	// Run requests that the probe binary is also executed; a non-zero exit
	// is a negative result even when the probe compiled.
	Run bool
	// Symbol is the capability header symbol. Empty means derived from ID.
	Symbol string
	// Value is the symbol value in the header. Empty means "1".
	Value string
}

// AppliesTo reports whether the feature is meaningful on the given family.
func (s FeatureSpec) AppliesTo(family OSFamily) bool {
	if len(s.Families) == 0 {
		return true
	}
	for _, f := range s.Families {
		if f == family {
			return true
		}
	}
	return false
}

// HeaderSymbol returns the symbol this feature defines in the capability
// header, deriving HAVE_<ID> when no explicit symbol was declared.
func (s FeatureSpec) HeaderSymbol() string {
	if s.Symbol != "" {
		return s.Symbol
	}
	return "HAVE_" + strings.ToUpper(string(s.ID))
}

// HeaderValue returns the value the symbol is defined to.
func (s FeatureSpec) HeaderValue() string {
	if s.Value != "" {
		return s.Value
	}
	return "1"
}

// LibraryRef names a system library a module links against. Availability is
// established by the named probe; when Probe is empty an implicit link-check
// probe (empty main linked against the library) is used instead.
type LibraryRef struct {
	Name  string
	Probe FeatureID
}

// ModuleSpec declares an optional, named unit of source files together with
// its requirements. Specs are loaded from the catalog at start and are
// read-only during resolution.
type ModuleSpec struct {
	Name             string
	Sources          []string
	RequiredFeatures []FeatureID
	RequiredLibs     []LibraryRef
	RequiredModules  []string
	// Optional modules may be dropped when their requirements are unmet,
	// unless the user requested them explicitly.
	Optional bool
	// Default marks an optional module as enabled-by-default: it joins the
	// resolution seed even when not explicitly requested.
	Default bool
}

// Catalog is the closed registry of features, libraries and modules.
// Declaration order is semantic: it breaks topological-order ties and
// decides which declaration wins a capability symbol conflict.
type Catalog struct {
	program string

	features     []FeatureSpec
	featureIndex map[FeatureID]int

	libraries []LibraryRef
	libIndex  map[string]int

	modules     []ModuleSpec
	moduleIndex map[string]int
}

// NewCatalog creates an empty catalog for the given link target name.
func NewCatalog(program string) *Catalog {
	if program == "" {
		program = "a.out"
	}
	return &Catalog{
		program:      program,
		featureIndex: make(map[FeatureID]int),
		libIndex:     make(map[string]int),
		moduleIndex:  make(map[string]int),
	}
}

// Program returns the name of the final link target.
func (c *Catalog) Program() string { return c.program }

// AddFeature appends a feature declaration.
// It returns an error if the feature id is already declared.
func (c *Catalog) AddFeature(spec FeatureSpec) error {
	if _, exists := c.featureIndex[spec.ID]; exists {
		return zerr.With(ErrDuplicateFeature, "feature", string(spec.ID))
	}
	c.featureIndex[spec.ID] = len(c.features)
	c.features = append(c.features, spec)
	return nil
}

// AddLibrary appends a library declaration.
// It returns an error if the library name is already declared.
func (c *Catalog) AddLibrary(ref LibraryRef) error {
	if _, exists := c.libIndex[ref.Name]; exists {
		return zerr.With(ErrDuplicateLibrary, "library", ref.Name)
	}
	c.libIndex[ref.Name] = len(c.libraries)
	c.libraries = append(c.libraries, ref)
	return nil
}

// AddModule appends a module declaration.
// It returns an error if the module name is already declared.
func (c *Catalog) AddModule(spec ModuleSpec) error {
	if _, exists := c.moduleIndex[spec.Name]; exists {
		return zerr.With(ErrDuplicateModule, "module", spec.Name)
	}
	c.moduleIndex[spec.Name] = len(c.modules)
	c.modules = append(c.modules, spec)
	return nil
}

// Feature looks up a feature declaration by id.
func (c *Catalog) Feature(id FeatureID) (FeatureSpec, bool) {
	i, ok := c.featureIndex[id]
	if !ok {
		return FeatureSpec{}, false
	}
	return c.features[i], true
}

// Library looks up a library declaration by name. Modules may reference
// libraries that were never declared; those get a zero-probe LibraryRef.
func (c *Catalog) Library(name string) (LibraryRef, bool) {
	i, ok := c.libIndex[name]
	if !ok {
		return LibraryRef{}, false
	}
	return c.libraries[i], true
}

// Module looks up a module declaration by name.
func (c *Catalog) Module(name string) (ModuleSpec, bool) {
	i, ok := c.moduleIndex[name]
	if !ok {
		return ModuleSpec{}, false
	}
	return c.modules[i], true
}

// Features returns all feature declarations in declaration order.
func (c *Catalog) Features() []FeatureSpec {
	return c.features
}

// Modules returns all module declarations in declaration order.
func (c *Catalog) Modules() []ModuleSpec {
	return c.modules
}

// ModuleRank returns the declaration position of a module, used as the
// deterministic tie-break during topological ordering. Unknown modules rank
// last.
func (c *Catalog) ModuleRank(name string) int {
	i, ok := c.moduleIndex[name]
	if !ok {
		return len(c.modules)
	}
	return i
}
