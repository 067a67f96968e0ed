// Package memory provides mutex-guarded in-memory implementations of the
// repository interfaces. They back the service and transport tests; the
// semantics mirror the Postgres repositories: writes are serialized,
// reads return copies and never observe a partially written order.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mediswift/order/internal/dal/interfaces/icatalogrepo"
	"github.com/mediswift/order/internal/dal/interfaces/iorderrepo"
	"github.com/mediswift/order/internal/service/models/order"
	"github.com/mediswift/order/internal/service/models/orderitem"
	"github.com/mediswift/order/internal/service/models/outbox"
	"github.com/mediswift/order/internal/service/models/product"
)

// Store is the shared in-memory state behind the memory repositories.
type Store struct {
	mu           sync.RWMutex
	ordersByID   map[string]order.Order
	insertionSeq map[string]int
	nextSeq      int
	products     []product.Product
	outbox       []outbox.OutboxMessage
	nextOutboxID int64
}

func NewStore() *Store {
	return &Store{
		ordersByID:   make(map[string]order.Order),
		insertionSeq: make(map[string]int),
		products:     product.Defaults(),
		nextOutboxID: 1,
	}
}

// transaction-aware locking: WithTransaction already holds the write lock,
// so repository methods must not lock again inside it.
type txKey struct{}

func isTx(ctx context.Context) bool {
	v, ok := ctx.Value(txKey{}).(bool)
	return ok && v
}

func (s *Store) rlock(ctx context.Context) {
	if !isTx(ctx) {
		s.mu.RLock()
	}
}

func (s *Store) runlock(ctx context.Context) {
	if !isTx(ctx) {
		s.mu.RUnlock()
	}
}

func (s *Store) wlock(ctx context.Context) {
	if !isTx(ctx) {
		s.mu.Lock()
	}
}

func (s *Store) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		s.mu.Unlock()
	}
}

func cloneOrder(o order.Order) order.Order {
	cp := o
	cp.Items = append([]orderitem.OrderItem(nil), o.Items...)
	if o.Prescription != nil {
		p := *o.Prescription
		cp.Prescription = &p
	}

	return cp
}

// TxManager emulates a transaction boundary with the store's write lock.
type TxManager struct{ store *Store }

func NewTxManager(store *Store) *TxManager { return &TxManager{store: store} }

func (tx *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	return fn(context.WithValue(ctx, txKey{}, true))
}

// OrderRepository is the in-memory order repository.
type OrderRepository struct{ store *Store }

func NewOrderRepository(store *Store) *OrderRepository { return &OrderRepository{store: store} }

func (r *OrderRepository) Insert(ctx context.Context, o order.Order) (*order.Order, error) {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)

	r.store.ordersByID[o.ID] = cloneOrder(o)
	r.store.insertionSeq[o.ID] = r.store.nextSeq
	r.store.nextSeq++

	cp := cloneOrder(o)

	return &cp, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)

	o, ok := r.store.ordersByID[id]
	if !ok {
		return nil, iorderrepo.ErrNotFound
	}
	cp := cloneOrder(o)

	return &cp, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)

	result := make([]order.Order, 0)
	for _, o := range r.store.ordersByID {
		if o.UserID == userID {
			result = append(result, cloneOrder(o))
		}
	}

	// newest first, insertion order breaking timestamp ties
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].OrderDate.Equal(result[j].OrderDate) {
			return r.store.insertionSeq[result[i].ID] > r.store.insertionSeq[result[j].ID]
		}

		return result[i].OrderDate.After(result[j].OrderDate)
	})

	return result, nil
}

func (r *OrderRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status order.Status,
	progress int,
) (*order.Order, error) {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)

	o, ok := r.store.ordersByID[id]
	if !ok {
		return nil, iorderrepo.ErrNotFound
	}

	o.Status = status
	o.Progress = progress
	o.UpdatedAt = time.Now().UTC()
	r.store.ordersByID[id] = o

	cp := cloneOrder(o)

	return &cp, nil
}

// UpdateProgress applies the courier progress only while the order is still
// Out for Delivery; the status is re-checked under the write lock so a
// concurrent delivery or cancellation is never overwritten.
func (r *OrderRepository) UpdateProgress(ctx context.Context, id string, progress int) (*order.Order, error) {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)

	o, ok := r.store.ordersByID[id]
	if !ok {
		return nil, iorderrepo.ErrNotFound
	}

	if o.Status == order.StatusOutForDelivery {
		o.Progress = progress
		o.UpdatedAt = time.Now().UTC()
		r.store.ordersByID[id] = o
	}

	cp := cloneOrder(o)

	return &cp, nil
}

// CatalogRepository serves the seed catalog from memory.
type CatalogRepository struct{ store *Store }

func NewCatalogRepository(store *Store) *CatalogRepository { return &CatalogRepository{store: store} }

func (r *CatalogRepository) List(ctx context.Context) ([]product.Product, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)

	return append([]product.Product(nil), r.store.products...), nil
}

func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)

	for _, p := range r.store.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}

	return nil, icatalogrepo.ErrNotFound
}

// OutboxRepository is the in-memory outbox, used by service tests to
// assert that creating an order enqueues its event.
type OutboxRepository struct{ store *Store }

func NewOutboxRepository(store *Store) *OutboxRepository { return &OutboxRepository{store: store} }

func (r *OutboxRepository) Insert(ctx context.Context, msg outbox.OutboxMessage) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)

	msg.ID = r.store.nextOutboxID
	r.store.nextOutboxID++
	r.store.outbox = append(r.store.outbox, msg)

	return nil
}

func (r *OutboxRepository) GetPendingMessages(ctx context.Context, limit int) ([]outbox.OutboxMessage, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)

	now := time.Now()
	result := make([]outbox.OutboxMessage, 0)
	for _, msg := range r.store.outbox {
		if len(result) == limit {
			break
		}
		if msg.RetryCount < msg.MaxRetries && !msg.NextRetryAt.After(now) {
			result = append(result, msg)
		}
	}

	return result, nil
}

func (r *OutboxRepository) Delete(ctx context.Context, id int64) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)

	for i, msg := range r.store.outbox {
		if msg.ID == id {
			r.store.outbox = append(r.store.outbox[:i], r.store.outbox[i+1:]...)
			return nil
		}
	}

	return nil
}

func (r *OutboxRepository) UpdateRetry(
	ctx context.Context,
	id int64,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)

	for i := range r.store.outbox {
		if r.store.outbox[i].ID == id {
			r.store.outbox[i].RetryCount = retryCount
			r.store.outbox[i].LastError = lastError
			r.store.outbox[i].NextRetryAt = nextRetryAt
			r.store.outbox[i].UpdatedAt = time.Now()

			return nil
		}
	}

	return nil
}
