package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/crmgrid/internal/models"
)

type LeadSourceStore struct {
	pool *pgxpool.Pool
}

func NewLeadSourceStore(pool *pgxpool.Pool) *LeadSourceStore {
	return &LeadSourceStore{pool: pool}
}

// Create inserts a source. ON CONFLICT DO NOTHING would be tempting here,
// but then RETURNING yields no row for an existing name — so we conflict-
// update the name onto itself, which makes "create Webinar twice" return
// the same row both times instead of erroring.
func (s *LeadSourceStore) Create(ctx context.Context, name string) (*models.LeadSource, error) {
	query := `
		INSERT INTO lead_sources (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`

	var ls models.LeadSource
	if err := s.pool.QueryRow(ctx, query, name).Scan(&ls.ID, &ls.Name); err != nil {
		return nil, fmt.Errorf("insert lead source: %w", err)
	}
	return &ls, nil
}

func (s *LeadSourceStore) List(ctx context.Context) ([]models.LeadSource, error) {
	query := `
		SELECT id, name
		FROM lead_sources
		ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list lead sources: %w", err)
	}
	defer rows.Close()

	sources := make([]models.LeadSource, 0)
	for rows.Next() {
		var ls models.LeadSource
		if err := rows.Scan(&ls.ID, &ls.Name); err != nil {
			return nil, fmt.Errorf("scan lead source: %w", err)
		}
		sources = append(sources, ls)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lead sources: %w", err)
	}

	return sources, nil
}
