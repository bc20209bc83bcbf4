package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the top-level isolation boundary (one paying CRM customer).
// Every user, account, and lead belongs to exactly one tenant.
// This is what makes the system "multi-tenant": company A never sees company B's pipeline.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Plan      string    `json:"plan"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Role is a named permission bundle.
//
// Why is Permissions a string and not a parsed struct?
//   - The data layer stores it, the consuming application interprets it.
//     We deliberately treat it as opaque JSON text — parsing it here would
//     couple the schema to whatever permission model the app uses.
//
// Why int32 and not uuid.UUID for the ID?
//   - Roles and lead sources are tiny lookup tables (a handful of rows,
//     referenced from everywhere). A serial integer is smaller in every
//     referencing row and trivially readable in query output.
//   - UUIDs earn their keep on entities created at volume; lookup tables
//     don't need them.
type Role struct {
	ID          int32  `json:"id"`
	Name        string `json:"name"`
	Permissions string `json:"permissions"`
}

// User is an operator within a tenant.
//
// ReportsTo is a self-reference: users form a forest (an org has multiple
// roots — nobody above the CEO). It's a *uuid.UUID because "reports to
// nobody" must be representable; pgx scans SQL NULL into a nil pointer.
//
// The reporting chain must never contain a cycle. The schema cannot say
// that declaratively, so UserStore refuses any write that would create one.
type User struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	RoleID      *int32     `json:"role_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	ReportsTo   *uuid.UUID `json:"reports_to"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Account is a company record, possibly part of a hierarchy
// (subsidiaries under a parent). Same forest rules as User.ReportsTo:
// ParentAccountID nil means "root", and cycles are rejected at write time.
type Account struct {
	ID              uuid.UUID  `json:"id"`
	TenantID        uuid.UUID  `json:"tenant_id"`
	ParentAccountID *uuid.UUID `json:"parent_account_id"`
	Name            string     `json:"name"`
	Industry        string     `json:"industry"`
	AnnualRevenue   float64    `json:"annual_revenue"`
	BillingAddress  string     `json:"billing_address"`
	OwnerID         *uuid.UUID `json:"owner_id"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Contact is a person at an account. Deleting the account deletes its
// contacts — the one cascade rule in the whole schema, because a contact
// without an account is meaningless.
//
// IsPrimary: at most one contact per account may carry this flag.
// The database can't express "at most one true per group" with a plain
// constraint, so ContactStore clears the previous primary in the same
// transaction whenever a new one is flagged.
type Contact struct {
	ID             uuid.UUID `json:"id"`
	AccountID      uuid.UUID `json:"account_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Title          string    `json:"title"`
	IsPrimary      bool      `json:"is_primary"`
	MarketingOptIn bool      `json:"marketing_opt_in"`
	CreatedAt      time.Time `json:"created_at"`
}

// LeadSource is an enumerable acquisition channel (Webinar, Referral, ...).
type LeadSource struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// Lead is a prospective, unqualified contact/deal.
//
// ConvertedContactID is set if and only if Status is Converted — conversion
// creates the Contact and stamps the lead in one transaction, and a CHECK
// constraint in the schema holds the iff even against out-of-band writes.
type Lead struct {
	ID                 uuid.UUID  `json:"id"`
	TenantID           uuid.UUID  `json:"tenant_id"`
	SourceID           *int32     `json:"source_id"`
	Name               string     `json:"name"`
	Company            string     `json:"company"`
	Status             LeadStatus `json:"status"`
	AssignedTo         *uuid.UUID `json:"assigned_to"`
	Score              int        `json:"score"`
	ConvertedAt        *time.Time `json:"converted_at"`
	ConvertedContactID *uuid.UUID `json:"converted_contact_id"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Product is a sellable SKU.
type Product struct {
	ID             uuid.UUID `json:"id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	UnitPrice      float64   `json:"unit_price"`
	IsSubscription bool      `json:"is_subscription"`
	CreatedAt      time.Time `json:"created_at"`
}

// Opportunity is an active, quantifiable sales deal.
//
// Probability is an independent input (a rep's judgement), not derived from
// Stage — the schema constrains it to [0,100] and nothing more. The forecast
// view, however, treats any "Closed*" stage as resolved and drops it from
// the open pipeline.
type Opportunity struct {
	ID               uuid.UUID  `json:"id"`
	AccountID        uuid.UUID  `json:"account_id"`
	ContactID        *uuid.UUID `json:"contact_id"`
	OwnerID          *uuid.UUID `json:"owner_id"`
	Name             string     `json:"name"`
	Stage            Stage      `json:"stage"`
	Amount           float64    `json:"amount"`
	Probability      int        `json:"probability"`
	ForecastCategory string     `json:"forecast_category"`
	ExpectedCloseAt  *time.Time `json:"expected_close_date"`
	CreatedAt        time.Time  `json:"created_at"`
}

// OpportunityItem binds a product to an opportunity.
//
// TotalPrice is derived: quantity × unit_price × (1 − discount/100),
// rounded to cents. It is stored (the reporting surface reads it straight
// off the table) but never accepted from a caller — every write path that
// touches quantity, discount, or the product's unit price recomputes it
// via LineTotal inside the same transaction. A stale total here silently
// corrupts every revenue rollup downstream, so there is exactly one
// function that computes it and no way around it.
type OpportunityItem struct {
	ID                 uuid.UUID `json:"id"`
	OpportunityID      uuid.UUID `json:"opportunity_id"`
	ProductID          uuid.UUID `json:"product_id"`
	Quantity           int       `json:"quantity"`
	DiscountPercentage float64   `json:"discount_percentage"`
	TotalPrice         float64   `json:"total_price"`
}

// Activity is a logged interaction (call, email, meeting, task) attached to
// a Lead, an Account, or an Opportunity.
//
// The attachment is polymorphic: (RelatedToType, RelatedToID) names a row in
// one of three tables. No single foreign key can express that, so
// ActivityStore probes the right table for existence before every insert
// and rejects dangling references with ErrDanglingReference.
type Activity struct {
	ID            uuid.UUID      `json:"id"`
	OwnerID       *uuid.UUID     `json:"owner_id"`
	Type          ActivityType   `json:"type"`
	Subject       string         `json:"subject"`
	Description   string         `json:"description"`
	DueDate       *time.Time     `json:"due_date"`
	Status        ActivityStatus `json:"status"`
	RelatedToType RelatedType    `json:"related_to_type"`
	RelatedToID   uuid.UUID      `json:"related_to_id"`
	CreatedAt     time.Time      `json:"created_at"`
}
