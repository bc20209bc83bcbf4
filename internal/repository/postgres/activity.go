package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/crmgrid/internal/models"
)

type ActivityStore struct {
	pool *pgxpool.Pool
}

func NewActivityStore(pool *pgxpool.Pool) *ActivityStore {
	return &ActivityStore{pool: pool}
}

const activityColumns = `id, owner_id, activity_type, subject, description, due_date, status, related_to_type, related_to_id, created_at`

func scanActivity(row pgx.Row) (*models.Activity, error) {
	var a models.Activity
	err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.Type,
		&a.Subject,
		&a.Description,
		&a.DueDate,
		&a.Status,
		&a.RelatedToType,
		&a.RelatedToID,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// relatedTable maps the polymorphic type tag to the table it names.
// The tag has already passed RelatedType.Valid() before this is consulted,
// so table names come from this fixed map and never from input.
var relatedTable = map[models.RelatedType]string{
	models.RelatedLead:        "leads",
	models.RelatedAccount:     "accounts",
	models.RelatedOpportunity: "opportunities",
}

// Log inserts an activity.
//
// (related_to_type, related_to_id) is a reference no single foreign key can
// express — the target table depends on the tag. So we do what a foreign
// key would have done: probe the right table for existence, inside the same
// transaction as the insert, and fail with ErrDanglingReference when the
// row isn't there. The existence check holds only as long as referenced
// entities are never hard-deleted out from under their activities; accounts
// are the one deletable entity, and their activities are accepted as
// orphaned history (the read path tolerates them).
func (s *ActivityStore) Log(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	if !a.RelatedToType.Valid() {
		return nil, fmt.Errorf("related_to_type %q: %w", a.RelatedToType, models.ErrDanglingReference)
	}
	if !a.Type.Valid() {
		return nil, fmt.Errorf("log activity: invalid type %q", a.Type)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	probe := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, relatedTable[a.RelatedToType])
	var exists bool
	if err := tx.QueryRow(ctx, probe, a.RelatedToID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("probe %s: %w", a.RelatedToType, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s %s: %w", a.RelatedToType, a.RelatedToID, models.ErrDanglingReference)
	}

	status := a.Status
	if status == "" {
		status = models.ActivityOpen
	}

	created, err := scanActivity(tx.QueryRow(ctx, `
		INSERT INTO activities (owner_id, activity_type, subject, description, due_date, status, related_to_type, related_to_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+activityColumns,
		a.OwnerID, a.Type, a.Subject, a.Description, a.DueDate, status,
		a.RelatedToType, a.RelatedToID))
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit activity: %w", err)
	}
	return created, nil
}

// ListFor returns all activities attached to one entity, soonest due first.
// NULLS LAST: an activity without a due date is a someday-task, not an
// overdue one.
func (s *ActivityStore) ListFor(ctx context.Context, relatedType models.RelatedType, relatedID uuid.UUID) ([]models.Activity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE related_to_type = $1 AND related_to_id = $2
		ORDER BY due_date ASC NULLS LAST, created_at`

	rows, err := s.pool.Query(ctx, query, relatedType, relatedID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	activities := make([]models.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}

	return activities, nil
}

func (s *ActivityStore) SetStatus(ctx context.Context, activityID uuid.UUID, status models.ActivityStatus) error {
	query := `
		UPDATE activities
		SET status = $2
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, activityID, status)
	if err != nil {
		return fmt.Errorf("set activity status: %w", err)
	}
	return nil
}
