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

type AccountStore struct {
	pool *pgxpool.Pool
}

func NewAccountStore(pool *pgxpool.Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

const accountColumns = `id, tenant_id, parent_account_id, name, industry, annual_revenue, billing_address, owner_id, created_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID,
		&a.TenantID,
		&a.ParentAccountID,
		&a.Name,
		&a.Industry,
		&a.AnnualRevenue,
		&a.BillingAddress,
		&a.OwnerID,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AccountStore) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (tenant_id, parent_account_id, name, industry, annual_revenue, billing_address, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + accountColumns

	created, err := scanAccount(s.pool.QueryRow(ctx, query,
		a.TenantID, a.ParentAccountID, a.Name, a.Industry, a.AnnualRevenue, a.BillingAddress, a.OwnerID))
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return created, nil
}

func (s *AccountStore) GetByID(ctx context.Context, tenantID, accountID uuid.UUID) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1 AND tenant_id = $2`

	a, err := scanAccount(s.pool.QueryRow(ctx, query, accountID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (s *AccountStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1
		ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]models.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

// SetParent reparents an account.
//
// The cycle guard: walk the PROPOSED parent's ancestor chain to its root.
// If the account being moved shows up in that chain, the move would make
// the account its own ancestor, and every recursive traversal over the
// subtree would stop terminating. Check and update share a transaction so
// a concurrent reparent can't slip a cycle in between them.
func (s *AccountStore) SetParent(ctx context.Context, tenantID, accountID uuid.UUID, parentID *uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if parentID != nil {
		if *parentID == accountID {
			return fmt.Errorf("account %s parenting itself: %w", accountID, models.ErrHierarchyCycle)
		}

		chainQuery := `
			WITH RECURSIVE chain AS (
				SELECT id, parent_account_id, 0 AS depth
				FROM accounts
				WHERE id = $1 AND tenant_id = $3
				UNION ALL
				SELECT a.id, a.parent_account_id, c.depth + 1
				FROM accounts a
				JOIN chain c ON a.id = c.parent_account_id
				WHERE c.depth < 64
			)
			SELECT EXISTS (SELECT 1 FROM chain WHERE id = $2)`

		var inChain bool
		if err := tx.QueryRow(ctx, chainQuery, *parentID, accountID, tenantID).Scan(&inChain); err != nil {
			return fmt.Errorf("walk ancestor chain: %w", err)
		}
		if inChain {
			return fmt.Errorf("account %s is an ancestor of proposed parent %s: %w",
				accountID, *parentID, models.ErrHierarchyCycle)
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE accounts
		SET parent_account_id = $3
		WHERE id = $1 AND tenant_id = $2`,
		accountID, tenantID, parentID)
	if err != nil {
		return fmt.Errorf("set parent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set parent: account %s not found", accountID)
	}

	return tx.Commit(ctx)
}

// Ancestors returns the account and its chain up to the root, nearest
// first. Depth 0 is the account itself.
func (s *AccountStore) Ancestors(ctx context.Context, tenantID, accountID uuid.UUID) ([]models.Account, error) {
	query := `
		WITH RECURSIVE chain AS (
			SELECT ` + accountColumns + `, 0 AS depth
			FROM accounts
			WHERE id = $1 AND tenant_id = $2
			UNION ALL
			SELECT a.id, a.tenant_id, a.parent_account_id, a.name, a.industry,
			       a.annual_revenue, a.billing_address, a.owner_id, a.created_at, c.depth + 1
			FROM accounts a
			JOIN chain c ON a.id = c.parent_account_id
			WHERE c.depth < 64
		)
		SELECT ` + accountColumns + `
		FROM chain
		ORDER BY depth`

	return s.queryAccounts(ctx, query, accountID, tenantID)
}

// Subtree returns the account and every descendant, shallowest first.
func (s *AccountStore) Subtree(ctx context.Context, tenantID, accountID uuid.UUID) ([]models.Account, error) {
	query := `
		WITH RECURSIVE sub AS (
			SELECT ` + accountColumns + `, 0 AS depth
			FROM accounts
			WHERE id = $1 AND tenant_id = $2
			UNION ALL
			SELECT a.id, a.tenant_id, a.parent_account_id, a.name, a.industry,
			       a.annual_revenue, a.billing_address, a.owner_id, a.created_at, s.depth + 1
			FROM accounts a
			JOIN sub s ON a.parent_account_id = s.id
			WHERE s.depth < 64
		)
		SELECT ` + accountColumns + `
		FROM sub
		ORDER BY depth, created_at`

	return s.queryAccounts(ctx, query, accountID, tenantID)
}

// SubtreeRevenue rolls up annual_revenue across the subtree rooted at the
// account (the account's own revenue included).
func (s *AccountStore) SubtreeRevenue(ctx context.Context, tenantID, accountID uuid.UUID) (float64, error) {
	query := `
		WITH RECURSIVE sub AS (
			SELECT id, annual_revenue, 0 AS depth
			FROM accounts
			WHERE id = $1 AND tenant_id = $2
			UNION ALL
			SELECT a.id, a.annual_revenue, s.depth + 1
			FROM accounts a
			JOIN sub s ON a.parent_account_id = s.id
			WHERE s.depth < 64
		)
		SELECT COALESCE(SUM(annual_revenue), 0) FROM sub`

	var total float64
	if err := s.pool.QueryRow(ctx, query, accountID, tenantID).Scan(&total); err != nil {
		return 0, fmt.Errorf("subtree revenue: %w", err)
	}
	return total, nil
}

// Delete removes the account. Contacts go with it (ON DELETE CASCADE);
// anything else still pointing at the account — an opportunity, a child
// account — blocks the delete with a foreign-key violation, which we pass
// through untouched. That asymmetry is intentional: contacts are owned by
// the account, deals are not.
func (s *AccountStore) Delete(ctx context.Context, tenantID, accountID uuid.UUID) error {
	query := `
		DELETE FROM accounts
		WHERE id = $1 AND tenant_id = $2`

	_, err := s.pool.Exec(ctx, query, accountID, tenantID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func (s *AccountStore) queryAccounts(ctx context.Context, query string, args ...any) ([]models.Account, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]models.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}
