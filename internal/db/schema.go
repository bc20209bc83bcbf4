package db

import (
	"context"
	"fmt"
)

// The whole schema lives here as DDL constants and is applied idempotently
// at startup (Bootstrap). IF NOT EXISTS / OR REPLACE makes re-running a
// no-op, so "deployment" stays what it always was: run the process against
// an empty database and the schema appears.
//
// Ordering matters: tables are created leaf-first (lookup tables, then
// tenants/users, then accounts/contacts, then the pipeline), because each
// statement's foreign keys must already have a target.
//
// A few invariants are deliberately NOT here because DDL cannot express
// them: hierarchy acyclicity (accounts.parent_account_id, users.reports_to),
// "at most one primary contact per account", activity reference integrity,
// and the lead status transition order. Those live in the stores — see
// internal/repository/postgres.

const schemaDDL = `
CREATE TABLE IF NOT EXISTS tenants (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name        TEXT NOT NULL,
	plan        TEXT NOT NULL DEFAULT 'free',
	is_active   BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS roles (
	id           SERIAL PRIMARY KEY,
	name         TEXT NOT NULL UNIQUE,
	permissions  TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS lead_sources (
	id    SERIAL PRIMARY KEY,
	name  TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS products (
	id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	sku              TEXT NOT NULL UNIQUE,
	name             TEXT NOT NULL,
	unit_price       NUMERIC(12,2) NOT NULL,
	is_subscription  BOOLEAN NOT NULL DEFAULT FALSE,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS users (
	id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	tenant_id      UUID NOT NULL REFERENCES tenants(id),
	role_id        INTEGER REFERENCES roles(id),
	name           TEXT NOT NULL,
	email          TEXT NOT NULL UNIQUE,
	reports_to     UUID REFERENCES users(id),
	is_active      BOOLEAN NOT NULL DEFAULT TRUE,
	last_login_at  TIMESTAMPTZ,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS accounts (
	id                 UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	tenant_id          UUID NOT NULL REFERENCES tenants(id),
	parent_account_id  UUID REFERENCES accounts(id),
	name               TEXT NOT NULL,
	industry           TEXT NOT NULL DEFAULT '',
	annual_revenue     NUMERIC(14,2) NOT NULL DEFAULT 0,
	billing_address    TEXT NOT NULL DEFAULT '',
	owner_id           UUID REFERENCES users(id),
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT accounts_no_self_parent CHECK (parent_account_id IS DISTINCT FROM id)
);

CREATE TABLE IF NOT EXISTS contacts (
	id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	account_id        UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	name              TEXT NOT NULL,
	email             TEXT NOT NULL DEFAULT '',
	phone             TEXT NOT NULL DEFAULT '',
	title             TEXT NOT NULL DEFAULT '',
	is_primary        BOOLEAN NOT NULL DEFAULT FALSE,
	marketing_opt_in  BOOLEAN NOT NULL DEFAULT FALSE,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS leads (
	id                    UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	tenant_id             UUID NOT NULL REFERENCES tenants(id),
	source_id             INTEGER REFERENCES lead_sources(id),
	name                  TEXT NOT NULL,
	company               TEXT NOT NULL DEFAULT '',
	status                TEXT NOT NULL DEFAULT 'New'
	                      CHECK (status IN ('New', 'Qualified', 'Converted', 'Lost')),
	assigned_to           UUID REFERENCES users(id),
	score                 INTEGER NOT NULL DEFAULT 0,
	converted_at          TIMESTAMPTZ,
	converted_contact_id  UUID REFERENCES contacts(id),
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT leads_converted_iff_contact
		CHECK ((status = 'Converted') = (converted_contact_id IS NOT NULL))
);

CREATE TABLE IF NOT EXISTS opportunities (
	id                 UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	account_id         UUID NOT NULL REFERENCES accounts(id),
	contact_id         UUID REFERENCES contacts(id),
	owner_id           UUID REFERENCES users(id),
	name               TEXT NOT NULL,
	stage              TEXT NOT NULL DEFAULT 'Discovery'
	                   CHECK (stage IN ('Discovery', 'Proposal', 'Negotiation', 'Closed Won', 'Closed Lost')),
	amount             NUMERIC(14,2) NOT NULL DEFAULT 0,
	probability        INTEGER NOT NULL DEFAULT 0 CHECK (probability BETWEEN 0 AND 100),
	forecast_category  TEXT NOT NULL DEFAULT 'Pipeline',
	expected_close_date DATE,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS opportunity_items (
	id                   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	opportunity_id       UUID NOT NULL REFERENCES opportunities(id),
	product_id           UUID NOT NULL REFERENCES products(id),
	quantity             INTEGER NOT NULL CHECK (quantity > 0),
	discount_percentage  NUMERIC(5,2) NOT NULL DEFAULT 0
	                     CHECK (discount_percentage BETWEEN 0 AND 100),
	total_price          NUMERIC(14,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS activities (
	id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	owner_id         UUID REFERENCES users(id),
	activity_type    TEXT NOT NULL
	                 CHECK (activity_type IN ('Call', 'Email', 'Meeting', 'Task')),
	subject          TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	due_date         DATE,
	status           TEXT NOT NULL DEFAULT 'Open'
	                 CHECK (status IN ('Open', 'Completed', 'Canceled')),
	related_to_type  TEXT NOT NULL
	                 CHECK (related_to_type IN ('Lead', 'Account', 'Opportunity')),
	related_to_id    UUID NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_accounts_tenant ON accounts (tenant_id);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads (status);
CREATE INDEX IF NOT EXISTS idx_opportunities_stage_amount ON opportunities (stage, amount);
CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts (email);
`

// The three reporting views. CREATE OR REPLACE so a changed definition
// rolls out on the next start without a migration dance.
//
// view_revenue_forecast: the two WHERE clauses are the contract — closed
// deals are out of the open pipeline, and a deal with no expected close
// date has no (year, month) bucket to land in, so it appears nowhere.
//
// view_lead_conversion_by_source: LEFT JOIN keeps sources with zero leads
// in the output, and NULLIF turns their rate into NULL instead of a
// division error.
const viewDDL = `
CREATE OR REPLACE VIEW view_sales_funnel AS
SELECT
	stage,
	COUNT(*)                          AS deal_count,
	SUM(amount)                       AS total_value,
	ROUND(AVG(probability)::numeric, 2) AS avg_probability
FROM opportunities
GROUP BY stage;

CREATE OR REPLACE VIEW view_revenue_forecast AS
SELECT
	EXTRACT(YEAR FROM expected_close_date)::int  AS close_year,
	EXTRACT(MONTH FROM expected_close_date)::int AS close_month,
	ROUND(SUM(amount * probability / 100.0), 2)  AS weighted_forecast,
	SUM(amount)                                  AS raw_pipeline
FROM opportunities
WHERE stage NOT LIKE 'Closed%'
  AND expected_close_date IS NOT NULL
GROUP BY close_year, close_month;

CREATE OR REPLACE VIEW view_lead_conversion_by_source AS
SELECT
	ls.id   AS source_id,
	ls.name AS source_name,
	COUNT(l.id) AS total_leads,
	COUNT(l.id) FILTER (WHERE l.status = 'Converted') AS converted_count,
	ROUND(
		COUNT(l.id) FILTER (WHERE l.status = 'Converted')::numeric
			/ NULLIF(COUNT(l.id), 0) * 100,
		2
	) AS conversion_rate
FROM lead_sources ls
LEFT JOIN leads l ON l.source_id = ls.id
GROUP BY ls.id, ls.name;
`

// Bootstrap applies the schema and views. Safe to run on every start.
func (db *DB) Bootstrap(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := db.pool.Exec(ctx, viewDDL); err != nil {
		return fmt.Errorf("apply views: %w", err)
	}
	db.logger.Info("schema bootstrap complete")
	return nil
}
