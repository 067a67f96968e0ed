package listpharmacies

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mediswift/order/internal/service/models/pharmacy"
	"github.com/mediswift/order/internal/transport/http/httperr"
)

type service interface {
	ListPharmacies(ctx context.Context) ([]pharmacy.Pharmacy, error)
}

func ListPharmacies(w http.ResponseWriter, r *http.Request, service service) {
	pharmacies, err := service.ListPharmacies(r.Context())
	if err != nil {
		http.Error(w, err.Error(), httperr.StatusCode(err))
		slog.Error("Error listing pharmacies", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(pharmacies); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}
