package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/crmgrid/internal/models"
)

// Why context.Context as the first parameter on every method?
//
//   - It's idiomatic Go for anything that does I/O.
//   - It carries deadlines: if the HTTP request is cancelled, the DB query
//     gets cancelled too. No wasted work.
//   - Rule of thumb: if a function touches the network, it takes ctx.

// Why do stores return nil, nil for "not found"?
//
//   - Absence isn't failure at this layer. The handler decides whether a
//     missing row is a 404 or a 409 or nothing at all.
//   - The alternative (a sentinel ErrNotFound) is fine too; nil-nil is the
//     convention this codebase uses everywhere, so keep to it.

// TenantRepository manages the isolation boundary itself.
type TenantRepository interface {
	Create(ctx context.Context, name, plan string) (*models.Tenant, error)

	// GetByID returns nil, nil if not found.
	GetByID(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error)

	// GetByName returns nil, nil if not found. Used by the demo seeder to
	// stay idempotent.
	GetByName(ctx context.Context, name string) (*models.Tenant, error)

	// SetActive soft-disables (or re-enables) a tenant. Rows are never
	// deleted; is_active is the only off switch.
	SetActive(ctx context.Context, tenantID uuid.UUID, active bool) error
}

// RoleRepository manages the permission lookup table. Permissions are an
// opaque blob here — stored, listed, never interpreted.
type RoleRepository interface {
	Create(ctx context.Context, name, permissions string) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
}

// UserRepository manages operators and the reporting forest.
type UserRepository interface {
	// Create validates that reportsTo, if set, references an existing user.
	Create(ctx context.Context, tenantID uuid.UUID, roleID *int32, name, email string, reportsTo *uuid.UUID) (*models.User, error)

	GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*models.User, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.User, error)

	// SetManager re-points reports_to. Returns models.ErrHierarchyCycle if
	// the new manager is (transitively) a report of the user.
	SetManager(ctx context.Context, tenantID, userID uuid.UUID, managerID *uuid.UUID) error

	// ListReports returns every direct and transitive report of the user,
	// via recursive traversal of reports_to.
	ListReports(ctx context.Context, tenantID, userID uuid.UUID) ([]models.User, error)

	RecordLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

// AccountRepository manages the account forest.
type AccountRepository interface {
	Create(ctx context.Context, a *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, tenantID, accountID uuid.UUID) (*models.Account, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Account, error)

	// SetParent reparents an account. Returns models.ErrHierarchyCycle if
	// the move would make the account its own ancestor (self-parenting
	// included).
	SetParent(ctx context.Context, tenantID, accountID uuid.UUID, parentID *uuid.UUID) error

	// Ancestors returns the chain from the account up to its root,
	// starting with the account itself.
	Ancestors(ctx context.Context, tenantID, accountID uuid.UUID) ([]models.Account, error)

	// Subtree returns the account and every descendant.
	Subtree(ctx context.Context, tenantID, accountID uuid.UUID) ([]models.Account, error)

	// SubtreeRevenue sums annual_revenue over the subtree rooted at the
	// account.
	SubtreeRevenue(ctx context.Context, tenantID, accountID uuid.UUID) (float64, error)

	// Delete removes the account. Contacts cascade; opportunities do NOT —
	// deleting an account that still has deals fails with the engine's
	// foreign-key violation, surfaced unchanged.
	Delete(ctx context.Context, tenantID, accountID uuid.UUID) error
}

// ContactRepository manages people at accounts.
type ContactRepository interface {
	// Create inserts a contact. If c.IsPrimary, any existing primary
	// contact on the account is demoted in the same transaction.
	Create(ctx context.Context, c *models.Contact) (*models.Contact, error)

	GetByID(ctx context.Context, contactID uuid.UUID) (*models.Contact, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Contact, error)

	// SetPrimary flags the contact primary and demotes the previous one,
	// atomically.
	SetPrimary(ctx context.Context, contactID uuid.UUID) error
}

// LeadSourceRepository manages the acquisition-channel lookup table.
type LeadSourceRepository interface {
	Create(ctx context.Context, name string) (*models.LeadSource, error)
	List(ctx context.Context) ([]models.LeadSource, error)
}

// ContactFields is the payload for the contact a conversion creates.
// A struct (not a *models.Contact) because the caller controls only these
// fields — IDs and timestamps are the store's business.
type ContactFields struct {
	Name           string
	Email          string
	Phone          string
	Title          string
	IsPrimary      bool
	MarketingOptIn bool
}

// LeadRepository manages the lead state machine.
type LeadRepository interface {
	Create(ctx context.Context, l *models.Lead) (*models.Lead, error)
	GetByID(ctx context.Context, tenantID, leadID uuid.UUID) (*models.Lead, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Lead, error)

	// Transition moves the lead to a new status. Only New→Qualified and
	// Qualified→Lost go through here; conversion has its own method since
	// it creates a contact as a side effect. Returns
	// models.ErrIllegalTransition for any move the state machine forbids.
	Transition(ctx context.Context, tenantID, leadID uuid.UUID, to models.LeadStatus) (*models.Lead, error)

	// Convert qualifies the lead out of the pipeline: inserts a Contact
	// under accountID and stamps the lead Converted with converted_at and
	// converted_contact_id — one transaction, both writes or neither.
	// The lead must currently be Qualified.
	Convert(ctx context.Context, tenantID, leadID, accountID uuid.UUID, contact ContactFields) (*models.Lead, *models.Contact, error)
}

// ProductRepository manages the SKU catalog.
type ProductRepository interface {
	Create(ctx context.Context, sku, name string, unitPrice float64, subscription bool) (*models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)

	// UpdatePrice changes the unit price and, in the same transaction,
	// recomputes total_price on every opportunity item referencing the
	// product. The two writes are inseparable — a price change that left
	// stale line totals behind would quietly corrupt revenue rollups.
	UpdatePrice(ctx context.Context, productID uuid.UUID, unitPrice float64) (*models.Product, error)
}

// OpportunityRepository manages deals and their line items.
type OpportunityRepository interface {
	Create(ctx context.Context, o *models.Opportunity) (*models.Opportunity, error)
	GetByID(ctx context.Context, opportunityID uuid.UUID) (*models.Opportunity, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.Opportunity, error)

	// Update changes stage, probability, forecast category, amount and/or
	// expected close date.
	Update(ctx context.Context, o *models.Opportunity) (*models.Opportunity, error)

	// AddItem inserts a line item. total_price is computed from the
	// product's current unit price — the caller never supplies it.
	AddItem(ctx context.Context, opportunityID, productID uuid.UUID, quantity int, discountPct float64) (*models.OpportunityItem, error)

	// UpdateItem changes quantity and/or discount, recomputing total_price
	// in the same transaction.
	UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int, discountPct float64) (*models.OpportunityItem, error)

	ListItems(ctx context.Context, opportunityID uuid.UUID) ([]models.OpportunityItem, error)
}

// ActivityRepository manages polymorphic engagement records.
type ActivityRepository interface {
	// Log validates that (a.RelatedToType, a.RelatedToID) names an existing
	// row before inserting; returns models.ErrDanglingReference otherwise.
	Log(ctx context.Context, a *models.Activity) (*models.Activity, error)

	// ListFor returns all activities attached to one entity, ordered by
	// due date.
	ListFor(ctx context.Context, relatedType models.RelatedType, relatedID uuid.UUID) ([]models.Activity, error)

	SetStatus(ctx context.Context, activityID uuid.UUID, status models.ActivityStatus) error
}

// ReportRepository reads the three aggregation views. Read-only by
// construction — there is no write path back from a view.
type ReportRepository interface {
	SalesFunnel(ctx context.Context) ([]models.FunnelStage, error)
	RevenueForecast(ctx context.Context) ([]models.ForecastBucket, error)
	LeadConversionBySource(ctx context.Context) ([]models.SourceConversion, error)
}
