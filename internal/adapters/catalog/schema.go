package catalog

// File represents the structure of the confgen.yaml catalog file.
// Features, libraries and modules are sequences, not maps: declaration order
// is semantic (topological tie-breaks, symbol conflict precedence) and must
// survive parsing.
type File struct {
	Version   string       `yaml:"version"`
	Program   string       `yaml:"program"`
	Features  []FeatureDTO `yaml:"features"`
	Libraries []LibraryDTO `yaml:"libraries"`
	Modules   []ModuleDTO  `yaml:"modules"`
}

// FeatureDTO represents a feature declaration in the catalog file.
type FeatureDTO struct {
	ID       string   `yaml:"id"`
	Families []string `yaml:"families"`
	Program  string   `yaml:"program"`
	Link     []string `yaml:"link"`
	Run      bool     `yaml:"run"`
	Symbol   string   `yaml:"symbol"`
	Value    string   `yaml:"value"`
}

// LibraryDTO represents a library declaration in the catalog file.
type LibraryDTO struct {
	Name  string `yaml:"name"`
	Probe string `yaml:"probe"`
}

// ModuleDTO represents a module declaration in the catalog file.
type ModuleDTO struct {
	Name      string   `yaml:"name"`
	Sources   []string `yaml:"sources"`
	Features  []string `yaml:"features"`
	Libraries []string `yaml:"libraries"`
	Modules   []string `yaml:"modules"`
	Optional  bool     `yaml:"optional"`
	Default   bool     `yaml:"default"`
}
