package getorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mediswift/order/internal/service/models/order"
	"github.com/mediswift/order/internal/transport/http/httperr"
)

type service interface {
	GetOrder(ctx context.Context, id string) (*order.Order, error)
}

func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID := chi.URLParam(r, "orderID")

	o, err := service.GetOrder(r.Context(), orderID)
	if err != nil {
		http.Error(w, err.Error(), httperr.StatusCode(err))
		slog.Error("Error getting order", "order_id", orderID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(o); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}
