package service

import (
	"fmt"

	"picturecards/internal/catalog"
	"picturecards/internal/domain"
	"picturecards/internal/repository"

	"go.uber.org/zap"
)

// CatalogService loads and imports picture card catalogs
type CatalogService struct {
	catalogRepo repository.CatalogRepository
	logger      *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo repository.CatalogRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// Load reads the stored catalog. An empty store yields the built-in
// catalog so the game is always playable.
func (s *CatalogService) Load() (*domain.Catalog, error) {
	items, err := s.catalogRepo.ListItems()
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}

	if len(items) == 0 {
		s.logger.Warn("Catalog table is empty, using built-in catalog")
		return catalog.Default().Build()
	}

	c, err := domain.NewCatalog(items)
	if err != nil {
		return nil, fmt.Errorf("stored catalog is invalid: %w", err)
	}

	s.logger.Info("Catalog loaded", zap.Int("items", c.Len()))
	return c, nil
}

// Import validates a catalog file and upserts its items
func (s *CatalogService) Import(cf *catalog.File) (int, error) {
	c, err := cf.Build()
	if err != nil {
		return 0, err
	}

	n, err := s.catalogRepo.UpsertItems(c.Items())
	if err != nil {
		return 0, fmt.Errorf("failed to store catalog: %w", err)
	}

	total, err := s.catalogRepo.CountItems()
	if err != nil {
		return n, fmt.Errorf("failed to count catalog items: %w", err)
	}

	s.logger.Info("Catalog imported",
		zap.Int("upserted", n),
		zap.Int("total", total),
	)
	return n, nil
}

// Export returns the stored catalog as a file
func (s *CatalogService) Export() (*catalog.File, error) {
	items, err := s.catalogRepo.ListItems()
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}
	return catalog.FromItems(items), nil
}
