package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/crmgrid/internal/models"
)

type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

const userColumns = `id, tenant_id, role_id, name, email, reports_to, is_active, last_login_at, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.TenantID,
		&u.RoleID,
		&u.Name,
		&u.Email,
		&u.ReportsTo,
		&u.IsActive,
		&u.LastLoginAt,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user row. Postgres generates the UUID and timestamp.
// A reportsTo pointing at a nonexistent user hits the foreign key and the
// driver's error surfaces unchanged; a reportsTo that would close a cycle
// can't happen on insert (a new row has no reports yet), so no walk needed
// here — only SetManager has to check.
func (s *UserStore) Create(ctx context.Context, tenantID uuid.UUID, roleID *int32, name, email string, reportsTo *uuid.UUID) (*models.User, error) {
	query := `
		INSERT INTO users (tenant_id, role_id, name, email, reports_to)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, query, tenantID, roleID, name, email, reportsTo))
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND tenant_id = $2`

	u, err := scanUser(s.pool.QueryRow(ctx, query, userID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE tenant_id = $1
		ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// SetManager re-points reports_to, refusing any assignment that would make
// the user their own (transitive) manager.
//
// The check and the update run in one transaction: walk the proposed
// manager's chain upward, and if the user appears in it, the new edge would
// close a loop. The walk is a recursive CTE capped at depth 64 so an
// already-cyclic chain cannot recurse forever.
func (s *UserStore) SetManager(ctx context.Context, tenantID, userID uuid.UUID, managerID *uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if managerID != nil {
		if *managerID == userID {
			return fmt.Errorf("user %s managing themselves: %w", userID, models.ErrHierarchyCycle)
		}

		chainQuery := `
			WITH RECURSIVE chain AS (
				SELECT id, reports_to, 0 AS depth
				FROM users
				WHERE id = $1 AND tenant_id = $3
				UNION ALL
				SELECT u.id, u.reports_to, c.depth + 1
				FROM users u
				JOIN chain c ON u.id = c.reports_to
				WHERE c.depth < 64
			)
			SELECT EXISTS (SELECT 1 FROM chain WHERE id = $2)`

		var inChain bool
		if err := tx.QueryRow(ctx, chainQuery, *managerID, userID, tenantID).Scan(&inChain); err != nil {
			return fmt.Errorf("walk reporting chain: %w", err)
		}
		if inChain {
			return fmt.Errorf("user %s is an ancestor of proposed manager %s: %w",
				userID, *managerID, models.ErrHierarchyCycle)
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET reports_to = $3
		WHERE id = $1 AND tenant_id = $2`,
		userID, tenantID, managerID)
	if err != nil {
		return fmt.Errorf("set manager: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set manager: user %s not found", userID)
	}

	return tx.Commit(ctx)
}

// ListReports answers "who rolls up to this user?" — direct reports plus
// everyone under them, breadth-first by depth.
func (s *UserStore) ListReports(ctx context.Context, tenantID, userID uuid.UUID) ([]models.User, error) {
	query := `
		WITH RECURSIVE reports AS (
			SELECT ` + userColumns + `, 0 AS depth
			FROM users
			WHERE reports_to = $1 AND tenant_id = $2
			UNION ALL
			SELECT u.id, u.tenant_id, u.role_id, u.name, u.email, u.reports_to,
			       u.is_active, u.last_login_at, u.created_at, r.depth + 1
			FROM users u
			JOIN reports r ON u.reports_to = r.id
			WHERE r.depth < 64
		)
		SELECT ` + userColumns + `
		FROM reports
		ORDER BY depth, created_at`

	rows, err := s.pool.Query(ctx, query, userID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return users, nil
}

func (s *UserStore) RecordLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	query := `
		UPDATE users
		SET last_login_at = $2
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, userID, at)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}
