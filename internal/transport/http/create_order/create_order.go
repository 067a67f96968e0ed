package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/mediswift/order/internal/service/models/order"
	"github.com/mediswift/order/internal/service/models/orderitem"
	"github.com/mediswift/order/internal/service/models/prescription"
	"github.com/mediswift/order/internal/service/services/ordersvc"
	"github.com/mediswift/order/internal/transport/http/httperr"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, m ordersvc.CreateOrderModel) (*order.Order, error)
}

// itemInCreateOrderRequest represents an item in a create order request.
type itemInCreateOrderRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"gt=0"`
	Price     int64  `json:"price"     validate:"gte=0"`
}

// toModel converts itemInCreateOrderRequest to orderitem.OrderItem.
func (r *itemInCreateOrderRequest) toModel() orderitem.OrderItem {
	return orderitem.OrderItem{
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Price:     r.Price,
	}
}

// prescriptionInCreateOrderRequest carries the uploaded prescription.
type prescriptionInCreateOrderRequest struct {
	Image       string `json:"image" validate:"required"`
	Description string `json:"description"`
}

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	UserID       string                            `json:"userId"      validate:"required"`
	Kind         string                            `json:"kind"        validate:"omitempty,oneof=standard prescription"`
	Items        []itemInCreateOrderRequest        `json:"items"       validate:"required,min=1,dive"`
	TotalAmount  int64                             `json:"totalAmount" validate:"gte=0"`
	PharmacyID   string                            `json:"pharmacyId"`
	Prescription *prescriptionInCreateOrderRequest `json:"prescriptionDetails"`
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// toModel converts createOrderRequest to ordersvc.CreateOrderModel.
func (r *createOrderRequest) toModel() ordersvc.CreateOrderModel {
	items := make([]orderitem.OrderItem, len(r.Items))
	for i := range r.Items {
		items[i] = r.Items[i].toModel()
	}

	m := ordersvc.CreateOrderModel{
		UserID:      r.UserID,
		Kind:        order.Kind(r.Kind),
		Items:       items,
		TotalAmount: r.TotalAmount,
		PharmacyID:  r.PharmacyID,
	}
	if r.Prescription != nil {
		m.Prescription = &prescription.Prescription{
			Image:       r.Prescription.Image,
			Description: r.Prescription.Description,
		}
	}

	return m
}

// CreateOrder handles the create order request.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderReq := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&orderReq); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := orderReq.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create order", "error", err)

		return
	}

	created, err := service.CreateOrder(r.Context(), orderReq.toModel())
	if err != nil {
		http.Error(w, err.Error(), httperr.StatusCode(err))
		slog.Error("Error creating order", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		slog.Error("Error sending response for create order", "error", err)
	}
}
