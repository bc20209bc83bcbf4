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

type TenantStore struct {
	pool *pgxpool.Pool
}

func NewTenantStore(pool *pgxpool.Pool) *TenantStore {
	return &TenantStore{pool: pool}
}

func (s *TenantStore) Create(ctx context.Context, name, plan string) (*models.Tenant, error) {
	query := `
		INSERT INTO tenants (name, plan)
		VALUES ($1, $2)
		RETURNING id, name, plan, is_active, created_at`

	var t models.Tenant
	err := s.pool.QueryRow(ctx, query, name, plan).Scan(
		&t.ID,
		&t.Name,
		&t.Plan,
		&t.IsActive,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert tenant: %w", err)
	}
	return &t, nil
}

func (s *TenantStore) GetByID(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	query := `
		SELECT id, name, plan, is_active, created_at
		FROM tenants
		WHERE id = $1`

	var t models.Tenant
	err := s.pool.QueryRow(ctx, query, tenantID).Scan(
		&t.ID,
		&t.Name,
		&t.Plan,
		&t.IsActive,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &t, nil
}

func (s *TenantStore) GetByName(ctx context.Context, name string) (*models.Tenant, error) {
	query := `
		SELECT id, name, plan, is_active, created_at
		FROM tenants
		WHERE name = $1`

	var t models.Tenant
	err := s.pool.QueryRow(ctx, query, name).Scan(
		&t.ID,
		&t.Name,
		&t.Plan,
		&t.IsActive,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant by name: %w", err)
	}
	return &t, nil
}

// SetActive is the only "off switch" a tenant has — no deletes, because a
// tenant_id is referenced from everywhere and history must stay queryable.
func (s *TenantStore) SetActive(ctx context.Context, tenantID uuid.UUID, active bool) error {
	query := `
		UPDATE tenants
		SET is_active = $2
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, tenantID, active)
	if err != nil {
		return fmt.Errorf("set tenant active: %w", err)
	}
	return nil
}
