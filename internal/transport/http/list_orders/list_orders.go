package listorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/mediswift/order/internal/service/models/order"
	"github.com/mediswift/order/internal/transport/http/httperr"
)

type service interface {
	ListOrdersForUser(ctx context.Context, userID string) ([]order.Order, error)
}

type queryOrdersRequest struct {
	UserID string `schema:"userId,required"`
}

// queryDecoder is shared across requests. Unknown query parameters (cache
// busters, analytics tags) are ignored rather than rejected.
var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	query := &queryOrdersRequest{}
	err := queryDecoder.Decode(query, r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	orders, err := service.ListOrdersForUser(r.Context(), query.UserID)
	if err != nil {
		http.Error(w, err.Error(), httperr.StatusCode(err))
		slog.Error("Error listing orders", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}
