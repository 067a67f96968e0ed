package getproduct

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mediswift/order/internal/service/models/product"
	"github.com/mediswift/order/internal/transport/http/httperr"
)

type service interface {
	GetProduct(ctx context.Context, id string) (*product.Product, error)
}

func GetProduct(w http.ResponseWriter, r *http.Request, service service) {
	productID := chi.URLParam(r, "productID")

	p, err := service.GetProduct(r.Context(), productID)
	if err != nil {
		http.Error(w, err.Error(), httperr.StatusCode(err))
		slog.Error("Error getting product", "product_id", productID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}
