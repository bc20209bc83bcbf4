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

type ContactStore struct {
	pool *pgxpool.Pool
}

func NewContactStore(pool *pgxpool.Pool) *ContactStore {
	return &ContactStore{pool: pool}
}

const contactColumns = `id, account_id, name, email, phone, title, is_primary, marketing_opt_in, created_at`

func scanContact(row pgx.Row) (*models.Contact, error) {
	var c models.Contact
	err := row.Scan(
		&c.ID,
		&c.AccountID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Title,
		&c.IsPrimary,
		&c.MarketingOptIn,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a contact. When the new contact is flagged primary, the
// previous primary on the same account is demoted first, in the same
// transaction — "at most one primary per account" is a rule the schema
// can't state, so every write that sets the flag maintains it.
func (s *ContactStore) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if c.IsPrimary {
		if _, err := tx.Exec(ctx, `
			UPDATE contacts
			SET is_primary = FALSE
			WHERE account_id = $1 AND is_primary`, c.AccountID); err != nil {
			return nil, fmt.Errorf("demote primary contact: %w", err)
		}
	}

	query := `
		INSERT INTO contacts (account_id, name, email, phone, title, is_primary, marketing_opt_in)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + contactColumns

	created, err := scanContact(tx.QueryRow(ctx, query,
		c.AccountID, c.Name, c.Email, c.Phone, c.Title, c.IsPrimary, c.MarketingOptIn))
	if err != nil {
		return nil, fmt.Errorf("insert contact: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit contact: %w", err)
	}
	return created, nil
}

func (s *ContactStore) GetByID(ctx context.Context, contactID uuid.UUID) (*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = $1`

	c, err := scanContact(s.pool.QueryRow(ctx, query, contactID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

func (s *ContactStore) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE account_id = $1
		ORDER BY is_primary DESC, created_at`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]models.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}

	return contacts, nil
}

// SetPrimary promotes the contact and demotes the account's previous
// primary, atomically. Idempotent: promoting the current primary is a
// harmless no-op pair of updates.
func (s *ContactStore) SetPrimary(ctx context.Context, contactID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var accountID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT account_id FROM contacts WHERE id = $1`, contactID).Scan(&accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("set primary: contact %s not found", contactID)
		}
		return fmt.Errorf("get contact account: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE contacts
		SET is_primary = FALSE
		WHERE account_id = $1 AND is_primary`, accountID); err != nil {
		return fmt.Errorf("demote primary contact: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE contacts
		SET is_primary = TRUE
		WHERE id = $1`, contactID); err != nil {
		return fmt.Errorf("promote contact: %w", err)
	}

	return tx.Commit(ctx)
}
