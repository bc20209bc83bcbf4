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

type OpportunityStore struct {
	pool *pgxpool.Pool
}

func NewOpportunityStore(pool *pgxpool.Pool) *OpportunityStore {
	return &OpportunityStore{pool: pool}
}

const opportunityColumns = `id, account_id, contact_id, owner_id, name, stage, amount, probability, forecast_category, expected_close_date, created_at`

func scanOpportunity(row pgx.Row) (*models.Opportunity, error) {
	var o models.Opportunity
	err := row.Scan(
		&o.ID,
		&o.AccountID,
		&o.ContactID,
		&o.OwnerID,
		&o.Name,
		&o.Stage,
		&o.Amount,
		&o.Probability,
		&o.ForecastCategory,
		&o.ExpectedCloseAt,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

const itemColumns = `id, opportunity_id, product_id, quantity, discount_percentage, total_price`

func scanItem(row pgx.Row) (*models.OpportunityItem, error) {
	var it models.OpportunityItem
	err := row.Scan(
		&it.ID,
		&it.OpportunityID,
		&it.ProductID,
		&it.Quantity,
		&it.DiscountPercentage,
		&it.TotalPrice,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *OpportunityStore) Create(ctx context.Context, o *models.Opportunity) (*models.Opportunity, error) {
	stage := o.Stage
	if stage == "" {
		stage = models.StageDiscovery
	}
	if !stage.Valid() {
		return nil, fmt.Errorf("create opportunity: invalid stage %q", stage)
	}

	query := `
		INSERT INTO opportunities (account_id, contact_id, owner_id, name, stage, amount, probability, forecast_category, expected_close_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + opportunityColumns

	created, err := scanOpportunity(s.pool.QueryRow(ctx, query,
		o.AccountID, o.ContactID, o.OwnerID, o.Name, stage, o.Amount,
		o.Probability, o.ForecastCategory, o.ExpectedCloseAt))
	if err != nil {
		return nil, fmt.Errorf("insert opportunity: %w", err)
	}
	return created, nil
}

func (s *OpportunityStore) GetByID(ctx context.Context, opportunityID uuid.UUID) (*models.Opportunity, error) {
	query := `
		SELECT ` + opportunityColumns + `
		FROM opportunities
		WHERE id = $1`

	o, err := scanOpportunity(s.pool.QueryRow(ctx, query, opportunityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get opportunity: %w", err)
	}
	return o, nil
}

func (s *OpportunityStore) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Opportunity, error) {
	query := `
		SELECT ` + opportunityColumns + `
		FROM opportunities
		WHERE account_id = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	opps := make([]models.Opportunity, 0)
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan opportunity: %w", err)
		}
		opps = append(opps, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate opportunities: %w", err)
	}

	return opps, nil
}

// Update rewrites the mutable deal fields (stage, amount, probability,
// forecast category, expected close date, contact, owner). A probability
// outside [0,100] or an unknown stage is stopped by the table's CHECK
// constraints; the driver's error passes through unchanged.
func (s *OpportunityStore) Update(ctx context.Context, o *models.Opportunity) (*models.Opportunity, error) {
	if !o.Stage.Valid() {
		return nil, fmt.Errorf("update opportunity: invalid stage %q", o.Stage)
	}

	query := `
		UPDATE opportunities
		SET contact_id = $2, owner_id = $3, name = $4, stage = $5, amount = $6,
		    probability = $7, forecast_category = $8, expected_close_date = $9
		WHERE id = $1
		RETURNING ` + opportunityColumns

	updated, err := scanOpportunity(s.pool.QueryRow(ctx, query,
		o.ID, o.ContactID, o.OwnerID, o.Name, o.Stage, o.Amount,
		o.Probability, o.ForecastCategory, o.ExpectedCloseAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update opportunity: %w", err)
	}
	return updated, nil
}

// AddItem inserts a line item with total_price computed from the product's
// CURRENT unit price. FOR SHARE on the product row keeps a concurrent
// UpdatePrice from changing the price between our read and our insert —
// UpdatePrice's recompute would then miss a row it never saw committed.
func (s *OpportunityStore) AddItem(ctx context.Context, opportunityID, productID uuid.UUID, quantity int, discountPct float64) (*models.OpportunityItem, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var unitPrice float64
	err = tx.QueryRow(ctx, `
		SELECT unit_price FROM products
		WHERE id = $1
		FOR SHARE`, productID).Scan(&unitPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("add item: product %s not found", productID)
		}
		return nil, fmt.Errorf("read unit price: %w", err)
	}

	total := models.LineTotal(quantity, unitPrice, discountPct)

	item, err := scanItem(tx.QueryRow(ctx, `
		INSERT INTO opportunity_items (opportunity_id, product_id, quantity, discount_percentage, total_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+itemColumns,
		opportunityID, productID, quantity, discountPct, total))
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit item: %w", err)
	}
	return item, nil
}

// UpdateItem changes quantity and/or discount and recomputes total_price
// from the referenced product's current unit price, in one transaction.
func (s *OpportunityStore) UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int, discountPct float64) (*models.OpportunityItem, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var unitPrice float64
	err = tx.QueryRow(ctx, `
		SELECT p.unit_price
		FROM opportunity_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.id = $1
		FOR SHARE OF p`, itemID).Scan(&unitPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read unit price: %w", err)
	}

	total := models.LineTotal(quantity, unitPrice, discountPct)

	item, err := scanItem(tx.QueryRow(ctx, `
		UPDATE opportunity_items
		SET quantity = $2, discount_percentage = $3, total_price = $4
		WHERE id = $1
		RETURNING `+itemColumns,
		itemID, quantity, discountPct, total))
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit item update: %w", err)
	}
	return item, nil
}

func (s *OpportunityStore) ListItems(ctx context.Context, opportunityID uuid.UUID) ([]models.OpportunityItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM opportunity_items
		WHERE opportunity_id = $1`

	rows, err := s.pool.Query(ctx, query, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]models.OpportunityItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}
