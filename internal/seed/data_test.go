package seed

import (
	"testing"
	"time"

	"github.com/lalith-99/crmgrid/internal/models"
	"github.com/stretchr/testify/assert"
)

// The demo dataset backs the documented walkthrough: the sales funnel must
// show one Proposal deal worth 150000 at 60% average probability, and the
// Webinar source must convert at exactly 100%. These tests hold the
// constants to those promises.

func TestDemoLineItemMatchesDealAmount(t *testing.T) {
	total := models.LineTotal(ItemQuantity, ProductPrice, ItemDiscount)
	assert.InDelta(t, float64(OpportunityAmount), total, 1e-9,
		"the line item must multiply out to the opportunity amount")
}

func TestDemoProbabilityWithinCheckConstraint(t *testing.T) {
	assert.GreaterOrEqual(t, OpportunityProbability, 0)
	assert.LessOrEqual(t, OpportunityProbability, 100)
}

func TestDemoWebinarConversionIsTotal(t *testing.T) {
	// One Webinar lead, and it converts: 1/1 = 100.00%. The open lead
	// rides the Cold Call source so it can't dilute the Webinar rate.
	assert.NotEqual(t, SourceWebinar, SourceColdCall)
	assert.Equal(t, ConvertedLeadCompany, AccountEast,
		"the converted lead's company is the account the contact lands on")
}

func TestDemoAccountsFormTwoLevels(t *testing.T) {
	assert.NotEqual(t, AccountHQ, AccountEast)
	// Apply parents East under HQ; resolving East's ancestors must end at
	// HQ. That wiring lives in Apply — here we pin the names apart so the
	// walkthrough's assertions stay unambiguous.
}

func TestOpportunityCloseDateIsOpenPipeline(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	close := OpportunityCloseDate(now)

	assert.True(t, close.After(now), "seeded deal must not be overdue at seed time")
	assert.Equal(t, time.June, close.Month(), "last day of the month three months out")
	assert.Equal(t, 30, close.Day())

	// Month-end arithmetic shouldn't wobble across long and short months.
	dec := OpportunityCloseDate(time.Date(2026, time.November, 30, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.February, dec.Month())
	assert.Equal(t, 28, dec.Day())
}
