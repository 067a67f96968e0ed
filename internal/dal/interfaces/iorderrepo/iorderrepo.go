package iorderrepo

import (
	"context"
	"errors"

	"github.com/mediswift/order/internal/service/models/order"
)

// ErrNotFound is returned when no order matches the requested id. Absence
// is an expected outcome, not a failure.
var ErrNotFound = errors.New("order not found")

// IOrderRepository is an interface for the order repository.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (*order.Order, error)
	GetByID(ctx context.Context, id string) (*order.Order, error)
	ListByUser(ctx context.Context, userID string) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id string, status order.Status, progress int) (*order.Order, error)

	// UpdateProgress sets the courier display progress. The write applies
	// only while the order is Out for Delivery; for any other status the
	// stored order is returned unchanged.
	UpdateProgress(ctx context.Context, id string, progress int) (*order.Order, error)
}
