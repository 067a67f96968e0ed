package trackorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mediswift/order/internal/service/models/order"
	"github.com/mediswift/order/internal/transport/http/httperr"
)

type service interface {
	TrackOrder(ctx context.Context, id string) (*order.Order, error)
}

// trackOrderResponse is the tracking view of an order: just enough for a
// polling progress screen.
type trackOrderResponse struct {
	OrderID   string       `json:"orderId"`
	Status    order.Status `json:"status"`
	Progress  int          `json:"progress"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func TrackOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID := chi.URLParam(r, "orderID")

	o, err := service.TrackOrder(r.Context(), orderID)
	if err != nil {
		http.Error(w, err.Error(), httperr.StatusCode(err))
		slog.Error("Error tracking order", "order_id", orderID, "error", err)

		return
	}

	resp := trackOrderResponse{
		OrderID:   o.ID,
		Status:    o.Status,
		Progress:  o.Progress,
		UpdatedAt: o.UpdatedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}
