package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests pin down the parts of the DDL that carry behavior: which
// deletes cascade, which constraints exist, what the views filter. Wire
// formats and schema text are contracts — a careless edit here changes
// referential behavior in production, so the strings are asserted
// structurally.

func TestSchemaCascadeIsContactsOnly(t *testing.T) {
	// Deleting an account removes its contacts and nothing else. Exactly
	// one cascade clause in the whole schema, and it's on contacts.
	require.Equal(t, 1, strings.Count(schemaDDL, "ON DELETE CASCADE"))

	contactsTable := tableDef(t, schemaDDL, "contacts")
	assert.Contains(t, contactsTable, "REFERENCES accounts(id) ON DELETE CASCADE")
}

func TestSchemaConstraints(t *testing.T) {
	opps := tableDef(t, schemaDDL, "opportunities")
	assert.Contains(t, opps, "probability BETWEEN 0 AND 100")

	items := tableDef(t, schemaDDL, "opportunity_items")
	assert.Contains(t, items, "discount_percentage BETWEEN 0 AND 100")
	assert.Contains(t, items, "quantity > 0")

	leads := tableDef(t, schemaDDL, "leads")
	assert.Contains(t, leads, "(status = 'Converted') = (converted_contact_id IS NOT NULL)",
		"converted_contact_id must be set iff the lead is Converted")

	accounts := tableDef(t, schemaDDL, "accounts")
	assert.Contains(t, accounts, "parent_account_id IS DISTINCT FROM id",
		"self-parenting is rejected in the schema itself")
}

func TestSchemaUniqueness(t *testing.T) {
	assert.Contains(t, tableDef(t, schemaDDL, "roles"), "name         TEXT NOT NULL UNIQUE")
	assert.Contains(t, tableDef(t, schemaDDL, "users"), "email          TEXT NOT NULL UNIQUE")
	assert.Contains(t, tableDef(t, schemaDDL, "products"), "sku              TEXT NOT NULL UNIQUE")
}

func TestSchemaIndexes(t *testing.T) {
	for _, idx := range []string{
		"idx_accounts_tenant ON accounts (tenant_id)",
		"idx_leads_status ON leads (status)",
		"idx_opportunities_stage_amount ON opportunities (stage, amount)",
		"idx_contacts_email ON contacts (email)",
	} {
		assert.Contains(t, schemaDDL, idx)
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	// Every table and index guards with IF NOT EXISTS; every view with
	// OR REPLACE. Bootstrap must be safe to run on every start.
	assert.Equal(t,
		strings.Count(schemaDDL, "CREATE TABLE"),
		strings.Count(schemaDDL, "CREATE TABLE IF NOT EXISTS"))
	assert.Equal(t,
		strings.Count(schemaDDL, "CREATE INDEX"),
		strings.Count(schemaDDL, "CREATE INDEX IF NOT EXISTS"))
	assert.Equal(t,
		strings.Count(viewDDL, "CREATE"),
		strings.Count(viewDDL, "CREATE OR REPLACE VIEW"))
}

func TestForecastViewExcludesClosedAndUndated(t *testing.T) {
	forecast := viewBody(t, "view_revenue_forecast")
	assert.Contains(t, forecast, "stage NOT LIKE 'Closed%'")
	assert.Contains(t, forecast, "expected_close_date IS NOT NULL")
	assert.Contains(t, forecast, "amount * probability / 100.0")
}

func TestConversionViewIsNullSafe(t *testing.T) {
	conv := viewBody(t, "view_lead_conversion_by_source")
	assert.Contains(t, conv, "NULLIF(COUNT(l.id), 0)",
		"a source with zero leads must report NULL, not divide by zero")
	assert.Contains(t, conv, "LEFT JOIN leads",
		"sources with no leads still appear in the report")
}

func TestFunnelViewShape(t *testing.T) {
	funnel := viewBody(t, "view_sales_funnel")
	assert.Contains(t, funnel, "GROUP BY stage")
	assert.Contains(t, funnel, "ROUND(AVG(probability)::numeric, 2)")
}

// tableDef slices one CREATE TABLE block out of the DDL.
func tableDef(t *testing.T, ddl, table string) string {
	t.Helper()
	marker := "CREATE TABLE IF NOT EXISTS " + table + " ("
	start := strings.Index(ddl, marker)
	require.NotEqual(t, -1, start, "table %s not found", table)
	end := strings.Index(ddl[start:], ";")
	require.NotEqual(t, -1, end)
	return ddl[start : start+end]
}

// viewBody slices one CREATE VIEW statement out of the view DDL.
func viewBody(t *testing.T, view string) string {
	t.Helper()
	marker := "CREATE OR REPLACE VIEW " + view + " AS"
	start := strings.Index(viewDDL, marker)
	require.NotEqual(t, -1, start, "view %s not found", view)
	end := strings.Index(viewDDL[start:], ";")
	require.NotEqual(t, -1, end)
	return viewDDL[start : start+end]
}
