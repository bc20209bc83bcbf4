package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/crmgrid/internal/models"
	"github.com/lalith-99/crmgrid/internal/repository"
	"go.uber.org/zap"
)

type ContactHandler struct {
	repo   repository.ContactRepository
	logger *zap.Logger
}

func NewContactHandler(repo repository.ContactRepository, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{repo: repo, logger: logger}
}

type createContactRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Title          string `json:"title"`
	IsPrimary      bool   `json:"is_primary"`
	MarketingOptIn bool   `json:"marketing_opt_in"`
}

// Create handles POST /v1/tenants/:tenantID/accounts/:accountID/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	accountID, ok := pathUUID(c, "accountID")
	if !ok {
		return
	}

	var req createContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact, err := h.repo.Create(c.Request.Context(), &models.Contact{
		AccountID:      accountID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Title:          req.Title,
		IsPrimary:      req.IsPrimary,
		MarketingOptIn: req.MarketingOptIn,
	})
	if err != nil {
		respondStoreError(c, h.logger, "create contact", err)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// ListByAccount handles GET /v1/tenants/:tenantID/accounts/:accountID/contacts
func (h *ContactHandler) ListByAccount(c *gin.Context) {
	accountID, ok := pathUUID(c, "accountID")
	if !ok {
		return
	}

	contacts, err := h.repo.ListByAccount(c.Request.Context(), accountID)
	if err != nil {
		respondStoreError(c, h.logger, "list contacts", err)
		return
	}

	c.JSON(http.StatusOK, contacts)
}

// GetByID handles GET /v1/contacts/:contactID
func (h *ContactHandler) GetByID(c *gin.Context) {
	contactID, ok := pathUUID(c, "contactID")
	if !ok {
		return
	}

	contact, err := h.repo.GetByID(c.Request.Context(), contactID)
	if err != nil {
		respondStoreError(c, h.logger, "get contact", err)
		return
	}
	if contact == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
		return
	}

	c.JSON(http.StatusOK, contact)
}

// SetPrimary handles PUT /v1/contacts/:contactID/primary — promotes this
// contact and demotes the account's previous primary in one step.
func (h *ContactHandler) SetPrimary(c *gin.Context) {
	contactID, ok := pathUUID(c, "contactID")
	if !ok {
		return
	}

	if err := h.repo.SetPrimary(c.Request.Context(), contactID); err != nil {
		respondStoreError(c, h.logger, "set primary contact", err)
		return
	}

	c.Status(http.StatusNoContent)
}
