package updatestatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mediswift/order/internal/service/models/order"
	"github.com/mediswift/order/internal/transport/http/httperr"
)

type service interface {
	UpdateStatus(ctx context.Context, id string, next order.Status) (*order.Order, error)
}

// updateStatusRequest represents an update status request.
type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Validate validates the update status request.
func (r *updateStatusRequest) Validate() error {
	return validator.New().Struct(r)
}

func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	orderID := chi.URLParam(r, "orderID")

	statusReq := updateStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&statusReq); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for update status", "error", err)

		return
	}

	if err := statusReq.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for update status", "error", err)

		return
	}

	next, err := order.ParseStatus(statusReq.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error parsing status for update status", "error", err)

		return
	}

	updated, err := service.UpdateStatus(r.Context(), orderID, next)
	if err != nil {
		http.Error(w, err.Error(), httperr.StatusCode(err))
		slog.Error("Error updating order status", "order_id", orderID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(updated); err != nil {
		slog.Error("Error sending response for update status", "error", err)
	}
}
