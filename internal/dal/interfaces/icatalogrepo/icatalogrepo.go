package icatalogrepo

import (
	"context"
	"errors"

	"github.com/mediswift/order/internal/service/models/product"
)

var ErrNotFound = errors.New("product not found")

// ICatalogRepository is an interface for the product catalog repository.
type ICatalogRepository interface {
	List(ctx context.Context) ([]product.Product, error)
	GetByID(ctx context.Context, id string) (*product.Product, error)
}
