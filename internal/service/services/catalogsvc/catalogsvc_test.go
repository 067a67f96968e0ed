package catalogsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediswift/order/internal/dal/interfaces/icatalogrepo"
	"github.com/mediswift/order/internal/dal/memory"
	"github.com/mediswift/order/internal/service/models/product"
)

func TestListProducts(t *testing.T) {
	store := memory.NewStore()
	svc := MustNewCatalogService(
		WithCatalogRepository(memory.NewCatalogRepository(store)),
	)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, products)

	seen := make(map[string]bool)
	for _, p := range products {
		assert.NotEmpty(t, p.Name)
		assert.GreaterOrEqual(t, p.Price, int64(0))
		assert.False(t, seen[p.ID], "duplicate product id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestGetProduct(t *testing.T) {
	store := memory.NewStore()
	svc := MustNewCatalogService(
		WithCatalogRepository(memory.NewCatalogRepository(store)),
	)

	p, err := svc.GetProduct(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol 500mg", p.Name)
	assert.Equal(t, int64(599), p.Price)

	_, err = svc.GetProduct(context.Background(), "99")
	assert.ErrorIs(t, err, icatalogrepo.ErrNotFound)
}

type brokenCatalogRepo struct{}

func (brokenCatalogRepo) List(ctx context.Context) ([]product.Product, error) {
	return nil, errors.New("connection refused")
}

func (brokenCatalogRepo) GetByID(ctx context.Context, id string) (*product.Product, error) {
	return nil, errors.New("connection refused")
}

func TestListProducts_BackendDown(t *testing.T) {
	svc := MustNewCatalogService(WithCatalogRepository(brokenCatalogRepo{}))

	_, err := svc.ListProducts(context.Background())
	assert.ErrorIs(t, err, ErrConnectivity)

	_, err = svc.GetProduct(context.Background(), "1")
	assert.ErrorIs(t, err, ErrConnectivity)
}
