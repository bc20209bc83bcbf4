package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/crmgrid/internal/models"
	"github.com/lalith-99/crmgrid/internal/repository"
	"go.uber.org/zap"
)

type AccountHandler struct {
	repo   repository.AccountRepository
	logger *zap.Logger
}

func NewAccountHandler(repo repository.AccountRepository, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{repo: repo, logger: logger}
}

type createAccountRequest struct {
	Name            string     `json:"name" binding:"required"`
	ParentAccountID *uuid.UUID `json:"parent_account_id"`
	Industry        string     `json:"industry"`
	AnnualRevenue   float64    `json:"annual_revenue"`
	BillingAddress  string     `json:"billing_address"`
	OwnerID         *uuid.UUID `json:"owner_id"`
}

// Create handles POST /v1/tenants/:tenantID/accounts
func (h *AccountHandler) Create(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}

	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.repo.Create(c.Request.Context(), &models.Account{
		TenantID:        tenantID,
		ParentAccountID: req.ParentAccountID,
		Name:            req.Name,
		Industry:        req.Industry,
		AnnualRevenue:   req.AnnualRevenue,
		BillingAddress:  req.BillingAddress,
		OwnerID:         req.OwnerID,
	})
	if err != nil {
		respondStoreError(c, h.logger, "create account", err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

// GetByID handles GET /v1/tenants/:tenantID/accounts/:accountID
func (h *AccountHandler) GetByID(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}
	accountID, ok := pathUUID(c, "accountID")
	if !ok {
		return
	}

	a, err := h.repo.GetByID(c.Request.Context(), tenantID, accountID)
	if err != nil {
		respondStoreError(c, h.logger, "get account", err)
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	c.JSON(http.StatusOK, a)
}

// List handles GET /v1/tenants/:tenantID/accounts
func (h *AccountHandler) List(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}

	accounts, err := h.repo.ListByTenant(c.Request.Context(), tenantID)
	if err != nil {
		respondStoreError(c, h.logger, "list accounts", err)
		return
	}

	c.JSON(http.StatusOK, accounts)
}

type setParentRequest struct {
	// nil detaches the account (it becomes a root).
	ParentAccountID *uuid.UUID `json:"parent_account_id"`
}

// SetParent handles PUT /v1/tenants/:tenantID/accounts/:accountID/parent
//
// A reparent that would close a loop — the account becoming its own
// ancestor — is a 409 (models.ErrHierarchyCycle).
func (h *AccountHandler) SetParent(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}
	accountID, ok := pathUUID(c, "accountID")
	if !ok {
		return
	}

	var req setParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.SetParent(c.Request.Context(), tenantID, accountID, req.ParentAccountID); err != nil {
		respondStoreError(c, h.logger, "set account parent", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Ancestors handles GET /v1/tenants/:tenantID/accounts/:accountID/ancestors
func (h *AccountHandler) Ancestors(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}
	accountID, ok := pathUUID(c, "accountID")
	if !ok {
		return
	}

	chain, err := h.repo.Ancestors(c.Request.Context(), tenantID, accountID)
	if err != nil {
		respondStoreError(c, h.logger, "get ancestors", err)
		return
	}

	c.JSON(http.StatusOK, chain)
}

// Subtree handles GET /v1/tenants/:tenantID/accounts/:accountID/subtree
func (h *AccountHandler) Subtree(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}
	accountID, ok := pathUUID(c, "accountID")
	if !ok {
		return
	}

	subtree, err := h.repo.Subtree(c.Request.Context(), tenantID, accountID)
	if err != nil {
		respondStoreError(c, h.logger, "get subtree", err)
		return
	}

	c.JSON(http.StatusOK, subtree)
}

// Revenue handles GET /v1/tenants/:tenantID/accounts/:accountID/revenue —
// annual_revenue rolled up over the subtree.
func (h *AccountHandler) Revenue(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}
	accountID, ok := pathUUID(c, "accountID")
	if !ok {
		return
	}

	total, err := h.repo.SubtreeRevenue(c.Request.Context(), tenantID, accountID)
	if err != nil {
		respondStoreError(c, h.logger, "get subtree revenue", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account_id": accountID, "subtree_revenue": total})
}

// Delete handles DELETE /v1/tenants/:tenantID/accounts/:accountID
//
// Contacts cascade with the account. Opportunities do not — an account
// with open deals refuses to die, and the foreign-key violation surfaces
// as a 409 saying exactly which constraint objected.
func (h *AccountHandler) Delete(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}
	accountID, ok := pathUUID(c, "accountID")
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), tenantID, accountID); err != nil {
		respondStoreError(c, h.logger, "delete account", err)
		return
	}

	c.Status(http.StatusNoContent)
}
