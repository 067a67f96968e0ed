package iauditrepo

import (
	"context"

	"github.com/mediswift/order/internal/service/models/order"
)

// IAuditorRepository is interface for the auditor repository.
type IAuditorRepository interface {
	LogStatusChange(ctx context.Context, orders []order.Order) error
}
