package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/lalith-99/crmgrid/internal/models"
	"github.com/lalith-99/crmgrid/internal/repository"
	"go.uber.org/zap"
)

// Stores collects the repositories the seeder writes through. Going
// through the repositories (not raw SQL) means the demo data takes the
// same validated paths as real data: the lead really transitions, the
// conversion really runs its two-table transaction, the line item's total
// is really derived.
type Stores struct {
	Tenants       repository.TenantRepository
	Roles         repository.RoleRepository
	Users         repository.UserRepository
	Sources       repository.LeadSourceRepository
	Accounts      repository.AccountRepository
	Leads         repository.LeadRepository
	Products      repository.ProductRepository
	Opportunities repository.OpportunityRepository
}

// Apply loads the demo dataset. Idempotent: if the demo tenant already
// exists, it does nothing — the tenant is created first and so acts as the
// marker for the whole batch.
func Apply(ctx context.Context, s Stores, logger *zap.Logger) error {
	existing, err := s.Tenants.GetByName(ctx, TenantName)
	if err != nil {
		return fmt.Errorf("check demo tenant: %w", err)
	}
	if existing != nil {
		logger.Info("demo data already present, skipping seed")
		return nil
	}

	tenant, err := s.Tenants.Create(ctx, TenantName, TenantPlan)
	if err != nil {
		return fmt.Errorf("seed tenant: %w", err)
	}

	admin, err := s.Roles.Create(ctx, RoleAdmin, `{"*": true}`)
	if err != nil {
		return fmt.Errorf("seed admin role: %w", err)
	}
	rep, err := s.Roles.Create(ctx, RoleSalesRep, `{"leads": "rw", "opportunities": "rw"}`)
	if err != nil {
		return fmt.Errorf("seed sales role: %w", err)
	}

	manager, err := s.Users.Create(ctx, tenant.ID, &admin.ID, ManagerName, ManagerEmail, nil)
	if err != nil {
		return fmt.Errorf("seed manager: %w", err)
	}
	seller, err := s.Users.Create(ctx, tenant.ID, &rep.ID, RepName, RepEmail, &manager.ID)
	if err != nil {
		return fmt.Errorf("seed rep: %w", err)
	}

	webinar, err := s.Sources.Create(ctx, SourceWebinar)
	if err != nil {
		return fmt.Errorf("seed webinar source: %w", err)
	}
	if _, err := s.Sources.Create(ctx, SourceReferral); err != nil {
		return fmt.Errorf("seed referral source: %w", err)
	}
	coldCall, err := s.Sources.Create(ctx, SourceColdCall)
	if err != nil {
		return fmt.Errorf("seed cold call source: %w", err)
	}

	hq, err := s.Accounts.Create(ctx, &models.Account{
		TenantID:       tenant.ID,
		Name:           AccountHQ,
		Industry:       HQIndustry,
		AnnualRevenue:  HQRevenue,
		BillingAddress: HQAddress,
		OwnerID:        &manager.ID,
	})
	if err != nil {
		return fmt.Errorf("seed hq account: %w", err)
	}
	east, err := s.Accounts.Create(ctx, &models.Account{
		TenantID:        tenant.ID,
		ParentAccountID: &hq.ID,
		Name:            AccountEast,
		Industry:        HQIndustry,
		AnnualRevenue:   EastRevenue,
		BillingAddress:  EastAddress,
		OwnerID:         &seller.ID,
	})
	if err != nil {
		return fmt.Errorf("seed east account: %w", err)
	}

	product, err := s.Products.Create(ctx, ProductSKU, ProductName, ProductPrice, true)
	if err != nil {
		return fmt.Errorf("seed product: %w", err)
	}

	// The converted lead walks the full state machine: New at creation,
	// qualified, then converted — which inserts the demo contact and
	// stamps the lead, atomically.
	converted, err := s.Leads.Create(ctx, &models.Lead{
		TenantID:   tenant.ID,
		SourceID:   &webinar.ID,
		Name:       ConvertedLeadName,
		Company:    ConvertedLeadCompany,
		AssignedTo: &seller.ID,
		Score:      85,
	})
	if err != nil {
		return fmt.Errorf("seed webinar lead: %w", err)
	}
	if _, err := s.Leads.Transition(ctx, tenant.ID, converted.ID, models.LeadQualified); err != nil {
		return fmt.Errorf("qualify webinar lead: %w", err)
	}
	_, contact, err := s.Leads.Convert(ctx, tenant.ID, converted.ID, east.ID, repository.ContactFields{
		Name:           ContactName,
		Email:          ContactEmail,
		Title:          ContactTitle,
		IsPrimary:      true,
		MarketingOptIn: true,
	})
	if err != nil {
		return fmt.Errorf("convert webinar lead: %w", err)
	}

	if _, err := s.Leads.Create(ctx, &models.Lead{
		TenantID:   tenant.ID,
		SourceID:   &coldCall.ID,
		Name:       OpenLeadName,
		Company:    OpenLeadCompany,
		AssignedTo: &seller.ID,
		Score:      30,
	}); err != nil {
		return fmt.Errorf("seed cold call lead: %w", err)
	}

	closeDate := OpportunityCloseDate(time.Now().UTC())
	opp, err := s.Opportunities.Create(ctx, &models.Opportunity{
		AccountID:        east.ID,
		ContactID:        &contact.ID,
		OwnerID:          &seller.ID,
		Name:             OpportunityName,
		Stage:            models.StageProposal,
		Amount:           OpportunityAmount,
		Probability:      OpportunityProbability,
		ForecastCategory: string(models.ForecastBestCase),
		ExpectedCloseAt:  &closeDate,
	})
	if err != nil {
		return fmt.Errorf("seed opportunity: %w", err)
	}

	if _, err := s.Opportunities.AddItem(ctx, opp.ID, product.ID, ItemQuantity, ItemDiscount); err != nil {
		return fmt.Errorf("seed line item: %w", err)
	}

	logger.Info("demo data seeded",
		zap.String("tenant", tenant.ID.String()),
		zap.String("opportunity", opp.ID.String()),
	)
	return nil
}
