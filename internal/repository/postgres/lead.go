package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/crmgrid/internal/models"
	"github.com/lalith-99/crmgrid/internal/repository"
)

type LeadStore struct {
	pool *pgxpool.Pool
}

func NewLeadStore(pool *pgxpool.Pool) *LeadStore {
	return &LeadStore{pool: pool}
}

const leadColumns = `id, tenant_id, source_id, name, company, status, assigned_to, score, converted_at, converted_contact_id, created_at`

func scanLead(row pgx.Row) (*models.Lead, error) {
	var l models.Lead
	err := row.Scan(
		&l.ID,
		&l.TenantID,
		&l.SourceID,
		&l.Name,
		&l.Company,
		&l.Status,
		&l.AssignedTo,
		&l.Score,
		&l.ConvertedAt,
		&l.ConvertedContactID,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserts a lead. Every lead starts its life as New — the status on
// the input struct is ignored, because the state machine has exactly one
// entry point.
func (s *LeadStore) Create(ctx context.Context, l *models.Lead) (*models.Lead, error) {
	query := `
		INSERT INTO leads (tenant_id, source_id, name, company, assigned_to, score)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + leadColumns

	created, err := scanLead(s.pool.QueryRow(ctx, query,
		l.TenantID, l.SourceID, l.Name, l.Company, l.AssignedTo, l.Score))
	if err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return created, nil
}

func (s *LeadStore) GetByID(ctx context.Context, tenantID, leadID uuid.UUID) (*models.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE id = $1 AND tenant_id = $2`

	l, err := scanLead(s.pool.QueryRow(ctx, query, leadID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

func (s *LeadStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE tenant_id = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]models.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}

	return leads, nil
}

// Transition moves a lead through the state machine.
//
// SELECT ... FOR UPDATE pins the current status for the duration of the
// transaction. Without the lock, two concurrent "qualify" calls could both
// read New, both decide the move is legal, and both write — harmless for
// the same target status, but the same race with Lost vs Qualified would
// let a terminal lead reopen.
//
// Converted is not reachable through here: conversion creates a contact as
// a side effect, so it has its own method (Convert) and Transition treats
// it as illegal.
func (s *LeadStore) Transition(ctx context.Context, tenantID, leadID uuid.UUID, to models.LeadStatus) (*models.Lead, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("status %q: %w", to, models.ErrIllegalTransition)
	}
	if to == models.LeadConverted {
		return nil, fmt.Errorf("use Convert for %s: %w", to, models.ErrIllegalTransition)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var current models.LeadStatus
	err = tx.QueryRow(ctx, `
		SELECT status FROM leads
		WHERE id = $1 AND tenant_id = $2
		FOR UPDATE`, leadID, tenantID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock lead: %w", err)
	}

	if !current.CanTransition(to) {
		return nil, fmt.Errorf("%s → %s: %w", current, to, models.ErrIllegalTransition)
	}

	l, err := scanLead(tx.QueryRow(ctx, `
		UPDATE leads
		SET status = $3
		WHERE id = $1 AND tenant_id = $2
		RETURNING `+leadColumns, leadID, tenantID, to))
	if err != nil {
		return nil, fmt.Errorf("update lead status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transition: %w", err)
	}
	return l, nil
}

// Convert is the two-table operation at the heart of the pipeline: insert
// the Contact the lead has become, then stamp the lead Converted with
// converted_at and converted_contact_id. One transaction — a contact
// without its converted lead (or the reverse) must never be observable,
// and the leads_converted_iff_contact CHECK would reject a half-done
// update anyway.
func (s *LeadStore) Convert(ctx context.Context, tenantID, leadID, accountID uuid.UUID, fields repository.ContactFields) (*models.Lead, *models.Contact, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var current models.LeadStatus
	err = tx.QueryRow(ctx, `
		SELECT status FROM leads
		WHERE id = $1 AND tenant_id = $2
		FOR UPDATE`, leadID, tenantID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("lock lead: %w", err)
	}

	if !current.CanTransition(models.LeadConverted) {
		return nil, nil, fmt.Errorf("%s → %s: %w", current, models.LeadConverted, models.ErrIllegalTransition)
	}

	if fields.IsPrimary {
		if _, err := tx.Exec(ctx, `
			UPDATE contacts
			SET is_primary = FALSE
			WHERE account_id = $1 AND is_primary`, accountID); err != nil {
			return nil, nil, fmt.Errorf("demote primary contact: %w", err)
		}
	}

	contact, err := scanContact(tx.QueryRow(ctx, `
		INSERT INTO contacts (account_id, name, email, phone, title, is_primary, marketing_opt_in)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+contactColumns,
		accountID, fields.Name, fields.Email, fields.Phone, fields.Title,
		fields.IsPrimary, fields.MarketingOptIn))
	if err != nil {
		return nil, nil, fmt.Errorf("insert converted contact: %w", err)
	}

	lead, err := scanLead(tx.QueryRow(ctx, `
		UPDATE leads
		SET status = $3, converted_at = now(), converted_contact_id = $4
		WHERE id = $1 AND tenant_id = $2
		RETURNING `+leadColumns,
		leadID, tenantID, models.LeadConverted, contact.ID))
	if err != nil {
		return nil, nil, fmt.Errorf("mark lead converted: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit conversion: %w", err)
	}
	return lead, contact, nil
}
