// Package seed loads the illustrative demo dataset: one tenant, two users,
// a two-level account hierarchy, three lead sources, two leads (one
// converted), one product, and one open opportunity. It exists for
// demonstration and testing, not production configuration — SEED_DEMO=true
// turns it on.
package seed

import "time"

// The demo values live here as named constants rather than inline in
// Apply, so tests can assert the relationships between them (the line
// item must multiply out to the deal amount, the Webinar source must end
// up at a 100% conversion rate) without a database.
const (
	TenantName = "Acme"
	TenantPlan = "pro"

	RoleAdmin    = "admin"
	RoleSalesRep = "sales-rep"

	ManagerName  = "Dana Whitfield"
	ManagerEmail = "dana@acme.example"
	RepName      = "Riley Okafor"
	RepEmail     = "riley@acme.example"

	SourceWebinar  = "Webinar"
	SourceReferral = "Referral"
	SourceColdCall = "Cold Call"

	AccountHQ   = "Acme Corp HQ"
	AccountEast = "Acme East"
	HQIndustry  = "Manufacturing"
	HQRevenue   = 5_000_000
	EastRevenue = 1_200_000
	HQAddress   = "100 Industrial Way, Cleveland, OH"
	EastAddress = "12 Harbor St, Boston, MA"

	ContactName  = "Jane Doherty"
	ContactEmail = "jane.doherty@acmeeast.example"
	ContactTitle = "VP Operations"

	// ConvertedLeadName goes Webinar → Qualified → Converted, producing
	// the contact above. OpenLeadName stays New on the Cold Call source,
	// which leaves Referral with zero leads — and therefore a NULL
	// conversion rate, the edge the conversion view has to get right.
	ConvertedLeadName    = "Jane Doherty"
	ConvertedLeadCompany = "Acme East"
	OpenLeadName         = "Marcus Feld"
	OpenLeadCompany      = "Feldware GmbH"

	ProductSKU   = "CRM-SUB-01"
	ProductName  = "CRM Platform Subscription"
	ProductPrice = 1250.00

	OpportunityName        = "Acme East expansion"
	OpportunityAmount      = 150000
	OpportunityProbability = 60

	ItemQuantity = 120
	ItemDiscount = 0
)

// OpportunityCloseDate returns the expected close date of the seeded deal:
// the last day of the month, three months out. Relative rather than fixed
// so the deal stays in the open-pipeline forecast no matter when the demo
// is loaded.
func OpportunityCloseDate(now time.Time) time.Time {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 4, -1)
}
