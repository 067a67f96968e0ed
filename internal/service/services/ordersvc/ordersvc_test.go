package ordersvc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediswift/order/internal/dal/interfaces/iorderrepo"
	"github.com/mediswift/order/internal/dal/memory"
	"github.com/mediswift/order/internal/service/models/currency"
	"github.com/mediswift/order/internal/service/models/order"
	"github.com/mediswift/order/internal/service/models/orderitem"
	"github.com/mediswift/order/internal/service/models/prescription"
)

func setup(t *testing.T) (*OrderService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()

	svc := MustNewOrderService(
		WithOrderRepository(memory.NewOrderRepository(store)),
		WithOutboxRepository(memory.NewOutboxRepository(store)),
		WithTxManager(memory.NewTxManager(store)),
	)

	return svc, store
}

func standardModel() CreateOrderModel {
	return CreateOrderModel{
		UserID:      "u1",
		Items:       []orderitem.OrderItem{{ProductID: "1", Quantity: 2, Price: 599}},
		TotalAmount: 1198,
	}
}

func prescriptionModel() CreateOrderModel {
	return CreateOrderModel{
		UserID:       "u1",
		Items:        []orderitem.OrderItem{{ProductID: orderitem.ProductIDPrescriptionUpload, Quantity: 1, Price: 0}},
		TotalAmount:  155,
		PharmacyID:   "pharma3",
		Prescription: &prescription.Prescription{Image: "data:image/png;base64,xyz"},
	}
}

func TestCreateOrder_Standard(t *testing.T) {
	ctx := context.Background()
	svc, store := setup(t)

	created, err := svc.CreateOrder(ctx, standardModel())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, order.KindStandard, created.Kind)
	assert.Equal(t, order.StatusPending, created.Status)
	assert.Equal(t, 10, created.Progress)
	assert.Equal(t, int64(1198), created.TotalAmount)
	assert.Equal(t, currency.CurrencyKES, created.Currency)
	assert.False(t, created.OrderDate.IsZero())

	// the order-created event is enqueued atomically with the order
	pending, err := memory.NewOutboxRepository(store).GetPendingMessages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "pharmacy.orders.created", pending[0].QueueName)

	var event order.Order
	require.NoError(t, json.Unmarshal(pending[0].Payload, &event))
	assert.Equal(t, created.ID, event.ID)
}

func TestCreateOrder_InfersPrescriptionKind(t *testing.T) {
	svc, _ := setup(t)

	created, err := svc.CreateOrder(context.Background(), prescriptionModel())
	require.NoError(t, err)

	assert.Equal(t, order.KindPrescription, created.Kind)
	assert.Equal(t, "pharma3", created.PharmacyID)
	require.NotNil(t, created.Prescription)
	assert.Equal(t, int64(155), created.TotalAmount)
}

func TestCreateOrder_Validation(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	cases := map[string]func(m *CreateOrderModel){
		"missing user": func(m *CreateOrderModel) { m.UserID = "" },
		"no items":     func(m *CreateOrderModel) { m.Items = nil },
		"zero quantity": func(m *CreateOrderModel) {
			m.Items = []orderitem.OrderItem{{ProductID: "1", Quantity: 0, Price: 599}}
		},
		"negative price": func(m *CreateOrderModel) {
			m.Items = []orderitem.OrderItem{{ProductID: "1", Quantity: 1, Price: -10}}
			m.TotalAmount = -10
		},
		"total mismatch": func(m *CreateOrderModel) { m.TotalAmount = 999 },
		"sentinel in standard order": func(m *CreateOrderModel) {
			m.Kind = order.KindStandard
			m.Items = append(m.Items, orderitem.OrderItem{
				ProductID: orderitem.ProductIDPrescriptionUpload, Quantity: 1, Price: 0,
			})
		},
		"unknown pharmacy": func(m *CreateOrderModel) { m.PharmacyID = "pharma99" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			m := standardModel()
			mutate(&m)
			_, err := svc.CreateOrder(ctx, m)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateOrder_PrescriptionValidation(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	cases := map[string]func(m *CreateOrderModel){
		"missing image":    func(m *CreateOrderModel) { m.Prescription = nil },
		"missing pharmacy": func(m *CreateOrderModel) { m.PharmacyID = "" },
		"unknown pharmacy": func(m *CreateOrderModel) { m.PharmacyID = "pharma99" },
		"wrong fee total":  func(m *CreateOrderModel) { m.TotalAmount = 150 },
		"priced sentinel": func(m *CreateOrderModel) {
			m.Items = []orderitem.OrderItem{{ProductID: orderitem.ProductIDPrescriptionUpload, Quantity: 1, Price: 50}}
		},
		"extra items": func(m *CreateOrderModel) {
			m.Kind = order.KindPrescription
			m.Items = append(m.Items, orderitem.OrderItem{ProductID: "1", Quantity: 1, Price: 599})
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			m := prescriptionModel()
			mutate(&m)
			_, err := svc.CreateOrder(ctx, m)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.GetOrder(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, iorderrepo.ErrNotFound)
}

func TestListOrdersForUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	first, err := svc.CreateOrder(ctx, standardModel())
	require.NoError(t, err)
	second, err := svc.CreateOrder(ctx, standardModel())
	require.NoError(t, err)

	other := standardModel()
	other.UserID = "u2"
	_, err = svc.CreateOrder(ctx, other)
	require.NoError(t, err)

	orders, err := svc.ListOrdersForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)

	_, err = svc.ListOrdersForUser(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)

	orders, err = svc.ListOrdersForUser(ctx, "u3")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

// advance walks the order along the forward chain up to target.
func advance(t *testing.T, svc *OrderService, id string, target order.Status) *order.Order {
	t.Helper()
	chain := []order.Status{
		order.StatusProcessing,
		order.StatusShipped,
		order.StatusOutForDelivery,
		order.StatusDelivered,
	}

	var latest *order.Order
	for _, next := range chain {
		var err error
		latest, err = svc.UpdateStatus(context.Background(), id, next)
		require.NoError(t, err)
		if next == target {
			break
		}
	}
	require.NotNil(t, latest)

	return latest
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	created, err := svc.CreateOrder(ctx, standardModel())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, created.ID, order.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, updated.Status)
	assert.Equal(t, 30, updated.Progress)

	// skipping a step is rejected
	_, err = svc.UpdateStatus(ctx, created.ID, order.StatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// cancel from an active status zeroes progress
	cancelled, err := svc.UpdateStatus(ctx, created.ID, order.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, cancelled.Status)
	assert.Equal(t, 0, cancelled.Progress)

	// terminal orders reject any further transition
	_, err = svc.UpdateStatus(ctx, created.ID, order.StatusProcessing)
	assert.ErrorIs(t, err, ErrTerminalStatus)
}

func TestUpdateStatus_DeliveredIsTerminal(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	created, err := svc.CreateOrder(ctx, standardModel())
	require.NoError(t, err)

	delivered := advance(t, svc, created.ID, order.StatusDelivered)
	assert.Equal(t, 100, delivered.Progress)

	_, err = svc.UpdateStatus(ctx, created.ID, order.StatusCancelled)
	assert.ErrorIs(t, err, ErrTerminalStatus)
}

func TestTrackOrder_ProgressCreep(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	created, err := svc.CreateOrder(ctx, standardModel())
	require.NoError(t, err)

	// before dispatch, polling does not move progress
	tracked, err := svc.TrackOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, tracked.Progress)

	out := advance(t, svc, created.ID, order.StatusOutForDelivery)
	assert.Equal(t, 75, out.Progress)

	for _, want := range []int{80, 85, 90, 90} {
		tracked, err = svc.TrackOrder(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, want, tracked.Progress)
	}

	// the creep is persisted, not per-response
	got, err := svc.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, got.Progress)

	// delivery still completes the bar
	delivered, err := svc.UpdateStatus(ctx, created.ID, order.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, 100, delivered.Progress)
}

// deliveredMidPollRepo delivers the order between the tracking read and the
// progress write, simulating a status transition racing a poll.
type deliveredMidPollRepo struct {
	iorderrepo.IOrderRepository
	armed bool
}

func (r *deliveredMidPollRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	o, err := r.IOrderRepository.GetByID(ctx, id)
	if err != nil || !r.armed {
		return o, err
	}
	r.armed = false
	if _, err := r.IOrderRepository.UpdateStatus(ctx, id, order.StatusDelivered, order.StatusDelivered.Progress()); err != nil {
		return nil, err
	}

	return o, nil
}

func TestTrackOrder_DeliveredBetweenReadAndWrite(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := &deliveredMidPollRepo{IOrderRepository: memory.NewOrderRepository(store)}
	svc := MustNewOrderService(
		WithOrderRepository(repo),
		WithOutboxRepository(memory.NewOutboxRepository(store)),
		WithTxManager(memory.NewTxManager(store)),
	)

	created, err := svc.CreateOrder(ctx, standardModel())
	require.NoError(t, err)
	advance(t, svc, created.ID, order.StatusOutForDelivery)

	// the delivery lands after the poll reads Out for Delivery; the stale
	// creep must not drag the terminal order below 100
	repo.armed = true
	tracked, err := svc.TrackOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, tracked.Status)
	assert.Equal(t, 100, tracked.Progress)

	got, err := svc.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)
}

func TestTrackOrder_NotFound(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.TrackOrder(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, iorderrepo.ErrNotFound)
}

func TestListPharmacies(t *testing.T) {
	svc, _ := setup(t)

	pharmacies, err := svc.ListPharmacies(context.Background())
	require.NoError(t, err)
	require.Len(t, pharmacies, 5)

	seen := make(map[string]bool)
	for _, p := range pharmacies {
		assert.NotEmpty(t, p.Name)
		assert.Positive(t, p.DeliveryFee)
		assert.False(t, seen[p.ID], "duplicate pharmacy id %s", p.ID)
		seen[p.ID] = true
	}
}
