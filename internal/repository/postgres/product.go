package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/crmgrid/internal/models"
)

type ProductStore struct {
	pool *pgxpool.Pool
}

func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

const productColumns = `id, sku, name, unit_price, is_subscription, created_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID,
		&p.SKU,
		&p.Name,
		&p.UnitPrice,
		&p.IsSubscription,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductStore) Create(ctx context.Context, sku, name string, unitPrice float64, subscription bool) (*models.Product, error) {
	query := `
		INSERT INTO products (sku, name, unit_price, is_subscription)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + productColumns

	p, err := scanProduct(s.pool.QueryRow(ctx, query, sku, name, unitPrice, subscription))
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (s *ProductStore) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE sku = $1`

	p, err := scanProduct(s.pool.QueryRow(ctx, query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

func (s *ProductStore) List(ctx context.Context) ([]models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY sku`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// UpdatePrice changes the unit price AND recomputes total_price on every
// opportunity item that references the product — one transaction, because
// a committed price with stale line totals silently corrupts every revenue
// rollup built on total_price.
//
// The item recompute runs as a single SQL UPDATE using the same formula
// (and the same cents rounding) as models.LineTotal. If you change one,
// change the other.
func (s *ProductStore) UpdatePrice(ctx context.Context, productID uuid.UUID, unitPrice float64) (*models.Product, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := scanProduct(tx.QueryRow(ctx, `
		UPDATE products
		SET unit_price = $2
		WHERE id = $1
		RETURNING `+productColumns, productID, unitPrice))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update product price: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE opportunity_items
		SET total_price = ROUND(quantity * $2::numeric * (1 - discount_percentage / 100), 2)
		WHERE product_id = $1`, productID, unitPrice); err != nil {
		return nil, fmt.Errorf("recompute line totals: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit price update: %w", err)
	}
	return p, nil
}
