package ports

import "go.trai.ch/confgen/internal/core/domain"

// CatalogLoader loads the feature/module catalog.
//
//go:generate go run go.uber.org/mock/mockgen -source=catalog_loader.go -destination=mocks/mock_catalog_loader.go -package=mocks
type CatalogLoader interface {
	// Load reads the catalog from the given path.
	Load(path string) (*domain.Catalog, error)
}
