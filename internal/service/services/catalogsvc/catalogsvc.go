package catalogsvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/mediswift/order/internal/dal/interfaces/icatalogrepo"
	"github.com/mediswift/order/internal/service/models/product"
)

// ErrConnectivity marks failures of the catalog's backing store, so the
// transport can distinguish "unreachable" from "not found".
var ErrConnectivity = errors.New("catalog unavailable")

// CatalogService serves the fixed product catalog.
type CatalogService struct {
	catalog icatalogrepo.ICatalogRepository
}

// option is a function that configures the CatalogService.
type option func(*CatalogService)

// MustNewCatalogService creates a new CatalogService.
func MustNewCatalogService(opts ...option) *CatalogService {
	s := &CatalogService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.catalog == nil {
		panic("catalogsvc: catalog repository is required")
	}

	return s
}

// WithCatalogRepository sets the catalog repository for the CatalogService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalogRepository(repo icatalogrepo.ICatalogRepository) option {
	return func(s *CatalogService) {
		s.catalog = repo
	}
}

// ListProducts returns the full catalog sequence. There is no filtering or
// pagination; callers filter client-side.
func (s *CatalogService) ListProducts(ctx context.Context) ([]product.Product, error) {
	products, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}

	return products, nil
}

// GetProduct returns a single catalog entry. Absence surfaces as
// icatalogrepo.ErrNotFound; backend failures as ErrConnectivity.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	p, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, icatalogrepo.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}

	return p, nil
}
