// Package catalog provides the YAML loader for the feature/module catalog.
package catalog

import (
	"os"
	"regexp"

	"go.trai.ch/confgen/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the catalog file loaded when no path is given.
const DefaultFilename = "confgen.yaml"

var validName = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Loader implements ports.CatalogLoader using a YAML file.
type Loader struct{}

// NewLoader creates a new catalog Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a catalog file from the given path and returns a domain.Catalog.
func (l *Loader) Load(path string) (*domain.Catalog, error) {
	if path == "" {
		path = DefaultFilename
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by the user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCatalogReadFailed.Error()), "path", path)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCatalogParseFailed.Error()), "path", path)
	}

	return build(&file)
}

// build converts the parsed file into a domain catalog, preserving
// declaration order and rejecting structural defects.
func build(file *File) (*domain.Catalog, error) {
	c := domain.NewCatalog(file.Program)

	for _, dto := range file.Features {
		if dto.ID == "" {
			return nil, zerr.With(domain.ErrCatalogInvalid, "reason", "feature with empty id")
		}
		if dto.Program == "" {
			return nil, zerr.With(zerr.With(domain.ErrCatalogInvalid, "reason", "feature with empty probe program"), "feature", dto.ID)
		}

		families, err := parseFamilies(dto)
		if err != nil {
			return nil, err
		}

		spec := domain.FeatureSpec{
			ID:       domain.FeatureID(dto.ID),
			Program:  dto.Program,
			LinkLibs: dto.Link,
			Families: families,
			Run:      dto.Run,
			Symbol:   dto.Symbol,
			Value:    dto.Value,
		}
		if err := c.AddFeature(spec); err != nil {
			return nil, err
		}
	}

	for _, dto := range file.Libraries {
		if dto.Name == "" {
			return nil, zerr.With(domain.ErrCatalogInvalid, "reason", "library with empty name")
		}
		ref := domain.LibraryRef{
			Name:  dto.Name,
			Probe: domain.FeatureID(dto.Probe),
		}
		if err := c.AddLibrary(ref); err != nil {
			return nil, err
		}
	}

	for _, dto := range file.Modules {
		if !validName.MatchString(dto.Name) {
			invalid := zerr.With(domain.ErrCatalogInvalid, "reason", "module name can only contain alphanumeric characters, hyphens and underscores")
			return nil, zerr.With(invalid, "module", dto.Name)
		}

		spec := domain.ModuleSpec{
			Name:             dto.Name,
			Sources:          dto.Sources,
			RequiredFeatures: toFeatureIDs(dto.Features),
			RequiredLibs:     resolveLibraries(c, dto.Libraries),
			RequiredModules:  dto.Modules,
			Optional:         dto.Optional,
			Default:          dto.Default,
		}
		if err := c.AddModule(spec); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func parseFamilies(dto FeatureDTO) ([]domain.OSFamily, error) {
	families := make([]domain.OSFamily, 0, len(dto.Families))
	for _, f := range dto.Families {
		switch domain.OSFamily(f) {
		case domain.FamilyUnix, domain.FamilyWindows:
			families = append(families, domain.OSFamily(f))
		default:
			invalid := zerr.With(domain.ErrCatalogInvalid, "reason", "unknown OS family")
			invalid = zerr.With(invalid, "feature", dto.ID)
			return nil, zerr.With(invalid, "family", f)
		}
	}
	return families, nil
}

func toFeatureIDs(ids []string) []domain.FeatureID {
	if len(ids) == 0 {
		return nil
	}
	res := make([]domain.FeatureID, len(ids))
	for i, id := range ids {
		res[i] = domain.FeatureID(id)
	}
	return res
}

// resolveLibraries maps module library names to their catalog declarations.
// A name without a declaration becomes a bare LibraryRef, which resolves
// through an implicit link-check probe.
func resolveLibraries(c *domain.Catalog, names []string) []domain.LibraryRef {
	if len(names) == 0 {
		return nil
	}
	refs := make([]domain.LibraryRef, len(names))
	for i, name := range names {
		if ref, ok := c.Library(name); ok {
			refs[i] = ref
			continue
		}
		refs[i] = domain.LibraryRef{Name: name}
	}
	return refs
}
