package listproducts

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mediswift/order/internal/service/models/product"
	"github.com/mediswift/order/internal/transport/http/httperr"
)

type service interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
}

func ListProducts(w http.ResponseWriter, r *http.Request, service service) {
	products, err := service.ListProducts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), httperr.StatusCode(err))
		slog.Error("Error listing products", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(products); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}
