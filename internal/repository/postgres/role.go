package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/crmgrid/internal/models"
)

type RoleStore struct {
	pool *pgxpool.Pool
}

func NewRoleStore(pool *pgxpool.Pool) *RoleStore {
	return &RoleStore{pool: pool}
}

// Create inserts a role. A duplicate name hits the UNIQUE constraint and
// surfaces as the driver's error, unchanged — there is no custom taxonomy
// for what the database already enforces.
func (s *RoleStore) Create(ctx context.Context, name, permissions string) (*models.Role, error) {
	query := `
		INSERT INTO roles (name, permissions)
		VALUES ($1, $2)
		RETURNING id, name, permissions`

	var r models.Role
	err := s.pool.QueryRow(ctx, query, name, permissions).Scan(
		&r.ID,
		&r.Name,
		&r.Permissions,
	)
	if err != nil {
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return &r, nil
}

func (s *RoleStore) List(ctx context.Context) ([]models.Role, error) {
	query := `
		SELECT id, name, permissions
		FROM roles
		ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	roles := make([]models.Role, 0)
	for rows.Next() {
		var r models.Role
		if err := rows.Scan(&r.ID, &r.Name, &r.Permissions); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}

	return roles, nil
}
