package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mediswift/order/internal/dal/interfaces/icatalogrepo"
	"github.com/mediswift/order/internal/dal/postgres"
	"github.com/mediswift/order/internal/service/models/product"
)

// ProductDal represents the product data access layer model.
type ProductDal struct {
	Id          string        `db:"id"`
	Name        string        `db:"name"`
	Description pgtype.Text   `db:"description"`
	Price       int64         `db:"price"`
	ImageUrl    string        `db:"image_url"`
	Category    pgtype.Text   `db:"category"`
	Rating      pgtype.Float8 `db:"rating"`
}

// ToModel converts ProductDal to the service layer Product model.
func (p *ProductDal) ToModel() *product.Product {
	model := &product.Product{
		ID:       p.Id,
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: p.ImageUrl,
	}
	if p.Description.Valid {
		model.Description = p.Description.String
	}
	if p.Category.Valid {
		model.Category = product.Category(p.Category.String)
	}
	if p.Rating.Valid {
		model.Rating = p.Rating.Float64
	}

	return model
}

// PostgresCatalogRepository represents a Postgres product catalog repository.
type PostgresCatalogRepository struct {
	client *postgres.Client
	sb     sq.StatementBuilderType
}

// NewPostgresCatalogRepository creates a new Postgres catalog repository.
func NewPostgresCatalogRepository(client *postgres.Client) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{
		client: client,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// List returns the full catalog. Callers filter client-side.
func (r *PostgresCatalogRepository) List(ctx context.Context) ([]product.Product, error) {
	sql, args, err := r.sb.
		Select("id", "name", "description", "price", "image_url", "category", "rating").
		From("products").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.client.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var result []product.Product
	for rows.Next() {
		var dal ProductDal
		err := rows.Scan(
			&dal.Id,
			&dal.Name,
			&dal.Description,
			&dal.Price,
			&dal.ImageUrl,
			&dal.Category,
			&dal.Rating,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// GetByID returns a single product, or icatalogrepo.ErrNotFound.
func (r *PostgresCatalogRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	sql, args, err := r.sb.
		Select("id", "name", "description", "price", "image_url", "category", "rating").
		From("products").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var dal ProductDal
	row := r.client.Conn(ctx).QueryRow(ctx, sql, args...)
	err = row.Scan(
		&dal.Id,
		&dal.Name,
		&dal.Description,
		&dal.Price,
		&dal.ImageUrl,
		&dal.Category,
		&dal.Rating,
	)
	if err != nil {
		return nil, icatalogrepo.ErrNotFound
	}

	return dal.ToModel(), nil
}
