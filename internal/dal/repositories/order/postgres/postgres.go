package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mediswift/order/internal/dal/interfaces/iorderrepo"
	"github.com/mediswift/order/internal/dal/postgres"
	"github.com/mediswift/order/internal/service/models/currency"
	"github.com/mediswift/order/internal/service/models/order"
	"github.com/mediswift/order/internal/service/models/orderitem"
	"github.com/mediswift/order/internal/service/models/prescription"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id                string      `db:"id"`
	UserId            string      `db:"user_id"`
	Kind              string      `db:"kind"`
	OrderDate         time.Time   `db:"order_date"`
	TotalAmount       int64       `db:"total_amount"`
	Currency          string      `db:"currency"`
	Status            string      `db:"status"`
	Progress          int         `db:"progress"`
	PharmacyId        pgtype.Text `db:"pharmacy_id"`
	PrescriptionImage pgtype.Text `db:"prescription_image"`
	PrescriptionNote  pgtype.Text `db:"prescription_note"`
	CreatedAt         time.Time   `db:"created_at"`
	UpdatedAt         time.Time   `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	cur, err := currency.ParseCurrency(o.Currency)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}

	model := &order.Order{
		ID:          o.Id,
		UserID:      o.UserId,
		Kind:        order.Kind(o.Kind),
		OrderDate:   o.OrderDate,
		TotalAmount: o.TotalAmount,
		Currency:    cur,
		Status:      status,
		Progress:    o.Progress,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Items:       []orderitem.OrderItem{}, // populated separately
	}

	if o.PharmacyId.Valid {
		model.PharmacyID = o.PharmacyId.String
	}
	if o.PrescriptionImage.Valid {
		model.Prescription = &prescription.Prescription{
			Image:       o.PrescriptionImage.String,
			Description: o.PrescriptionNote.String,
		}
	}

	return model, nil
}

// OrderDalFromModel converts the service layer Order model to OrderDal.
func OrderDalFromModel(o *order.Order) *OrderDal {
	dal := &OrderDal{
		Id:          o.ID,
		UserId:      o.UserID,
		Kind:        string(o.Kind),
		OrderDate:   o.OrderDate,
		TotalAmount: o.TotalAmount,
		Currency:    o.Currency.String(),
		Status:      o.Status.String(),
		Progress:    o.Progress,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}

	if o.PharmacyID != "" {
		dal.PharmacyId = pgtype.Text{String: o.PharmacyID, Valid: true}
	}
	if o.Prescription != nil {
		dal.PrescriptionImage = pgtype.Text{String: o.Prescription.Image, Valid: true}
		dal.PrescriptionNote = pgtype.Text{String: o.Prescription.Description, Valid: true}
	}

	return dal
}

var orderColumns = []string{
	"id",
	"user_id",
	"kind",
	"order_date",
	"total_amount",
	"currency",
	"status",
	"progress",
	"pharmacy_id",
	"prescription_image",
	"prescription_note",
	"created_at",
	"updated_at",
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	client *postgres.Client
	sb     sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(client *postgres.Client) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		client: client,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert stores an order with its items and returns the stored order.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (*order.Order, error) {
	conn := r.client.Conn(ctx)
	dal := OrderDalFromModel(&o)

	sql, args, err := r.sb.Insert("orders").
		Columns(orderColumns...).
		Values(
			dal.Id,
			dal.UserId,
			dal.Kind,
			dal.OrderDate,
			dal.TotalAmount,
			dal.Currency,
			dal.Status,
			dal.Progress,
			dal.PharmacyId,
			dal.PrescriptionImage,
			dal.PrescriptionNote,
			dal.CreatedAt,
			dal.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := conn.Exec(ctx, sql, args...); err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	if len(o.Items) > 0 {
		itemsInsert := r.sb.Insert("order_items").
			Columns("order_id", "product_id", "quantity", "price")
		for _, item := range o.Items {
			itemsInsert = itemsInsert.Values(o.ID, item.ProductID, item.Quantity, item.Price)
		}

		sql, args, err = itemsInsert.ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build items insert query: %w", err)
		}

		if _, err := conn.Exec(ctx, sql, args...); err != nil {
			return nil, fmt.Errorf("failed to insert order items: %w", err)
		}
	}

	return r.GetByID(ctx, o.ID)
}

// GetByID returns the order with the given id, or iorderrepo.ErrNotFound.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	orders, err := r.query(ctx, &order.QueryOrdersModel{Ids: []string{id}})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, iorderrepo.ErrNotFound
	}

	return &orders[0], nil
}

// ListByUser returns the user's orders, newest first.
func (r *PostgresOrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	return r.query(ctx, &order.QueryOrdersModel{UserIds: []string{userID}})
}

// UpdateStatus sets the order's status and display progress.
func (r *PostgresOrderRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status order.Status,
	progress int,
) (*order.Order, error) {
	sql, args, err := r.sb.Update("orders").
		Set("status", status.String()).
		Set("progress", progress).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.client.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, iorderrepo.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// UpdateProgress sets the courier display progress. The write is guarded on
// the order still being Out for Delivery, so a delivery or cancellation that
// lands between a caller's read and this write is never clobbered; the
// stored order is returned either way.
func (r *PostgresOrderRepository) UpdateProgress(
	ctx context.Context,
	id string,
	progress int,
) (*order.Order, error) {
	sql, args, err := r.sb.Update("orders").
		Set("progress", progress).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "status": order.StatusOutForDelivery.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.client.Conn(ctx).Exec(ctx, sql, args...); err != nil {
		return nil, fmt.Errorf("failed to update order progress: %w", err)
	}

	return r.GetByID(ctx, id)
}

// query retrieves orders with their items based on filter criteria.
func (r *PostgresOrderRepository) query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	conn := r.client.Conn(ctx)

	query := r.sb.
		Select(orderColumns...).
		From("orders").
		OrderBy("order_date DESC", "created_at DESC")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}
	if len(filter.UserIds) > 0 {
		query = query.Where(sq.Eq{"user_id": filter.UserIds})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		err := rows.Scan(
			&dal.Id,
			&dal.UserId,
			&dal.Kind,
			&dal.OrderDate,
			&dal.TotalAmount,
			&dal.Currency,
			&dal.Status,
			&dal.Progress,
			&dal.PharmacyId,
			&dal.PrescriptionImage,
			&dal.PrescriptionNote,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	if err := r.attachItems(ctx, result); err != nil {
		return nil, err
	}

	return result, nil
}

// attachItems loads order items for the given orders in one query.
func (r *PostgresOrderRepository) attachItems(ctx context.Context, orders []order.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	sql, args, err := r.sb.
		Select("order_id", "product_id", "quantity", "price").
		From("order_items").
		Where(sq.Eq{"order_id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build items query: %w", err)
	}

	rows, err := r.client.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}

		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	itemsByOrder := make(map[string][]orderitem.OrderItem, len(orders))
	for rows.Next() {
		var item orderitem.OrderItem
		if err := rows.Scan(&item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}

	for i := range orders {
		if items, ok := itemsByOrder[orders[i].ID]; ok {
			orders[i].Items = items
		}
	}

	return nil
}
