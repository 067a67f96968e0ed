package order

import (
	"errors"
	"time"

	"github.com/mediswift/order/internal/service/models/currency"
	"github.com/mediswift/order/internal/service/models/orderitem"
	"github.com/mediswift/order/internal/service/models/prescription"
)

// Status is the delivery lifecycle state of an order.
type Status string

const (
	StatusPending        Status = "Pending"
	StatusProcessing     Status = "Processing"
	StatusShipped        Status = "Shipped"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
	StatusCancelled      Status = "Cancelled"
)

var ErrInvalidStatus = errors.New("invalid order status")

// statusRank orders the forward delivery chain. Cancelled is not part of
// the chain and is handled separately.
var statusRank = map[Status]int{
	StatusPending:        0,
	StatusProcessing:     1,
	StatusShipped:        2,
	StatusOutForDelivery: 3,
	StatusDelivered:      4,
}

func (s Status) String() string {
	return string(s)
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusShipped,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Terminal reports whether no transition may leave the status.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether the status machine permits moving from s
// to next. Transitions only move forward along the delivery chain, one step
// at a time; Cancelled is reachable from any non-terminal status.
func (s Status) CanTransitionTo(next Status) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}

	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}

	return to == from+1
}

// Display-progress bounds for the Out for Delivery courier simulation.
const (
	ProgressStep          = 5
	MaxCourierProgress    = 90
	unknownStatusProgress = 5
)

// Progress maps a status to its display progress percentage. The mapping is
// total: unrecognized statuses map to a low non-zero value so the tracking
// bar never looks finished for data the service does not understand.
func (s Status) Progress() int {
	switch s {
	case StatusPending:
		return 10
	case StatusProcessing:
		return 30
	case StatusShipped:
		return 50
	case StatusOutForDelivery:
		return 75
	case StatusDelivered:
		return 100
	case StatusCancelled:
		return 0
	default:
		return unknownStatusProgress
	}
}

// Kind discriminates catalog purchases from prescription-fulfillment
// requests, which carry a delivery-fee-only total.
type Kind string

const (
	KindStandard     Kind = "standard"
	KindPrescription Kind = "prescription"
)

// Order represents a customer's purchase or prescription-fulfillment
// request tracked through the delivery lifecycle.
type Order struct {
	ID           string                     `json:"id"`
	UserID       string                     `json:"userId"`
	Kind         Kind                       `json:"kind"`
	OrderDate    time.Time                  `json:"orderDate"`
	Items        []orderitem.OrderItem      `json:"items"`
	TotalAmount  int64                      `json:"totalAmount"`
	Currency     currency.Currency          `json:"currency"`
	Status       Status                     `json:"status"`
	Progress     int                        `json:"progress"`
	PharmacyID   string                     `json:"pharmacyId,omitempty"`
	Prescription *prescription.Prescription `json:"prescriptionDetails,omitempty"`
	CreatedAt    time.Time                  `json:"createdAt"`
	UpdatedAt    time.Time                  `json:"updatedAt"`
}

// ItemsTotal returns the sum of line subtotals.
func (o *Order) ItemsTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}

	return total
}

// IsPrescription reports whether the order is a prescription-fulfillment
// request.
func (o *Order) IsPrescription() bool {
	return o.Kind == KindPrescription
}
