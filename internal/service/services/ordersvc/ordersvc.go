package ordersvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mediswift/order/internal/dal/interfaces/iauditrepo"
	"github.com/mediswift/order/internal/dal/interfaces/iorderrepo"
	"github.com/mediswift/order/internal/dal/interfaces/ioutboxrepo"
	"github.com/mediswift/order/internal/dal/interfaces/itxmanager"
	"github.com/mediswift/order/internal/service/models/currency"
	"github.com/mediswift/order/internal/service/models/order"
	"github.com/mediswift/order/internal/service/models/orderitem"
	"github.com/mediswift/order/internal/service/models/outbox"
	"github.com/mediswift/order/internal/service/models/pharmacy"
	"github.com/mediswift/order/internal/service/models/prescription"
)

const createdQueueName = "pharmacy.orders.created"

const outboxMaxRetries = 5

var (
	ErrValidation        = errors.New("invalid order input")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTerminalStatus    = errors.New("order is in a terminal status")
)

// OrderService is a service for managing orders.
type OrderService struct {
	orders iorderrepo.IOrderRepository
	outbox ioutboxrepo.IOutboxRepository
	audit  iauditrepo.IAuditorRepository
	tx     itxmanager.ITxManager
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.orders == nil || s.outbox == nil || s.tx == nil {
		panic("ordersvc: order repository, outbox repository and tx manager are required")
	}

	return s
}

// WithOrderRepository sets the order repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *OrderService) {
		s.orders = repo
	}
}

// WithOutboxRepository sets the outbox repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOutboxRepository(repo ioutboxrepo.IOutboxRepository) option {
	return func(s *OrderService) {
		s.outbox = repo
	}
}

// WithAuditRepository sets the audit repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditRepository(repo iauditrepo.IAuditorRepository) option {
	return func(s *OrderService) {
		s.audit = repo
	}
}

// WithTxManager sets the transaction manager for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTxManager(tx itxmanager.ITxManager) option {
	return func(s *OrderService) {
		s.tx = tx
	}
}

// CreateOrderModel carries the caller-supplied fields of a new order.
// ID, OrderDate, Status and Progress are assigned by the service.
type CreateOrderModel struct {
	UserID       string
	Kind         order.Kind
	Items        []orderitem.OrderItem
	TotalAmount  int64
	PharmacyID   string
	Prescription *prescription.Prescription
}

// inferKind keeps compatibility with clients that do not send an explicit
// kind: a single prescription-upload sentinel line marks a prescription
// order.
func (m *CreateOrderModel) inferKind() order.Kind {
	if m.Kind != "" {
		return m.Kind
	}
	if len(m.Items) == 1 && m.Items[0].IsPrescriptionUpload() {
		return order.KindPrescription
	}

	return order.KindStandard
}

func (m *CreateOrderModel) validate() (order.Kind, error) {
	if m.UserID == "" {
		return "", fmt.Errorf("%w: userId is required", ErrValidation)
	}
	if len(m.Items) == 0 {
		return "", fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	if m.TotalAmount < 0 {
		return "", fmt.Errorf("%w: totalAmount must not be negative", ErrValidation)
	}
	for _, item := range m.Items {
		if item.Quantity <= 0 {
			return "", fmt.Errorf("%w: item quantity must be positive", ErrValidation)
		}
		if item.Price < 0 {
			return "", fmt.Errorf("%w: item price must not be negative", ErrValidation)
		}
	}

	kind := m.inferKind()
	switch kind {
	case order.KindStandard:
		if err := m.validateStandard(); err != nil {
			return "", err
		}
	case order.KindPrescription:
		if err := m.validatePrescription(); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%w: unknown order kind %q", ErrValidation, kind)
	}

	return kind, nil
}

// validateStandard enforces the total invariant for catalog orders:
// totalAmount equals the sum of the line subtotals.
func (m *CreateOrderModel) validateStandard() error {
	var itemsTotal int64
	for _, item := range m.Items {
		if item.IsPrescriptionUpload() {
			return fmt.Errorf("%w: standard order must not contain the prescription sentinel", ErrValidation)
		}
		itemsTotal += item.Subtotal()
	}
	if m.TotalAmount != itemsTotal {
		return fmt.Errorf(
			"%w: totalAmount %d does not match items total %d",
			ErrValidation, m.TotalAmount, itemsTotal,
		)
	}
	if m.PharmacyID != "" {
		if _, err := pharmacy.ByID(m.PharmacyID); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	return nil
}

// validatePrescription enforces the delivery-fee-only shape: the single
// sentinel line priced at zero, a known pharmacy, an uploaded image, and a
// total equal to that pharmacy's delivery fee.
func (m *CreateOrderModel) validatePrescription() error {
	if len(m.Items) != 1 || !m.Items[0].IsPrescriptionUpload() {
		return fmt.Errorf("%w: prescription order must contain exactly the prescription sentinel item", ErrValidation)
	}
	if m.Items[0].Quantity != 1 || m.Items[0].Price != 0 {
		return fmt.Errorf("%w: prescription sentinel item must have quantity 1 and price 0", ErrValidation)
	}
	if m.Prescription == nil || m.Prescription.Image == "" {
		return fmt.Errorf("%w: prescription order requires an uploaded prescription image", ErrValidation)
	}
	if m.PharmacyID == "" {
		return fmt.Errorf("%w: prescription order requires a pharmacy", ErrValidation)
	}

	ph, err := pharmacy.ByID(m.PharmacyID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if m.TotalAmount != ph.DeliveryFee {
		return fmt.Errorf(
			"%w: totalAmount %d does not match the %s delivery fee %d",
			ErrValidation, m.TotalAmount, ph.Name, ph.DeliveryFee,
		)
	}

	return nil
}

// CreateOrder stores a new order in status Pending together with its
// order-created outbox event, atomically.
func (s *OrderService) CreateOrder(ctx context.Context, m CreateOrderModel) (*order.Order, error) {
	kind, err := m.validate()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o := order.Order{
		ID:           uuid.NewString(),
		UserID:       m.UserID,
		Kind:         kind,
		OrderDate:    now,
		Items:        m.Items,
		TotalAmount:  m.TotalAmount,
		Currency:     currency.CurrencyKES,
		Status:       order.StatusPending,
		Progress:     order.StatusPending.Progress(),
		PharmacyID:   m.PharmacyID,
		Prescription: m.Prescription,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var created *order.Order
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		created, err = s.orders.Insert(ctx, o)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(created)
		if err != nil {
			return fmt.Errorf("failed to marshal order-created event: %w", err)
		}

		return s.outbox.Insert(ctx, outbox.OutboxMessage{
			QueueName:   createdQueueName,
			RoutingKey:  createdQueueName,
			Payload:     payload,
			ContentType: "application/json",
			MaxRetries:  outboxMaxRetries,
			CreatedAt:   now,
			UpdatedAt:   now,
			NextRetryAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetOrder returns the order with the given id. Absence surfaces as
// iorderrepo.ErrNotFound.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListOrdersForUser returns the user's orders, newest first.
func (s *OrderService) ListOrdersForUser(ctx context.Context, userID string) ([]order.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}

	return s.orders.ListByUser(ctx, userID)
}

// TrackOrder returns the order for the tracking view. While the courier is
// out for delivery, each poll advances the stored progress a step, capped
// below completion so only the Delivered transition reaches 100.
func (s *OrderService) TrackOrder(ctx context.Context, id string) (*order.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.Status != order.StatusOutForDelivery || o.Progress >= order.MaxCourierProgress {
		return o, nil
	}

	progress := o.Progress + order.ProgressStep
	if progress > order.MaxCourierProgress {
		progress = order.MaxCourierProgress
	}

	return s.orders.UpdateProgress(ctx, id, progress)
}

// UpdateStatus moves an order along the delivery lifecycle, recomputes its
// display progress and emits an audit event.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, next order.Status) (*order.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s", ErrTerminalStatus, o.Status)
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}

	updated, err := s.orders.UpdateStatus(ctx, id, next, next.Progress())
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		if err := s.audit.LogStatusChange(ctx, []order.Order{*updated}); err != nil {
			slog.Error("Failed to publish status change audit event", "order_id", id, "error", err)
		}
	}

	return updated, nil
}

// ListPharmacies returns the static partner pharmacy directory.
func (s *OrderService) ListPharmacies(ctx context.Context) ([]pharmacy.Pharmacy, error) {
	return pharmacy.Directory(), nil
}
