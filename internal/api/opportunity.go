package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/crmgrid/internal/models"
	"github.com/lalith-99/crmgrid/internal/repository"
	"go.uber.org/zap"
)

type OpportunityHandler struct {
	repo   repository.OpportunityRepository
	logger *zap.Logger
}

func NewOpportunityHandler(repo repository.OpportunityRepository, logger *zap.Logger) *OpportunityHandler {
	return &OpportunityHandler{repo: repo, logger: logger}
}

type opportunityRequest struct {
	AccountID        uuid.UUID    `json:"account_id" binding:"required"`
	ContactID        *uuid.UUID   `json:"contact_id"`
	OwnerID          *uuid.UUID   `json:"owner_id"`
	Name             string       `json:"name" binding:"required"`
	Stage            models.Stage `json:"stage"`
	Amount           float64      `json:"amount" binding:"gte=0"`
	Probability      int          `json:"probability" binding:"gte=0,lte=100"`
	ForecastCategory string       `json:"forecast_category"`
	ExpectedCloseAt  *time.Time   `json:"expected_close_date"`
}

// Create handles POST /v1/opportunities
func (h *OpportunityHandler) Create(c *gin.Context) {
	var req opportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ForecastCategory == "" {
		req.ForecastCategory = string(models.ForecastPipeline)
	}

	o, err := h.repo.Create(c.Request.Context(), &models.Opportunity{
		AccountID:        req.AccountID,
		ContactID:        req.ContactID,
		OwnerID:          req.OwnerID,
		Name:             req.Name,
		Stage:            req.Stage,
		Amount:           req.Amount,
		Probability:      req.Probability,
		ForecastCategory: req.ForecastCategory,
		ExpectedCloseAt:  req.ExpectedCloseAt,
	})
	if err != nil {
		respondStoreError(c, h.logger, "create opportunity", err)
		return
	}

	c.JSON(http.StatusCreated, o)
}

// GetByID handles GET /v1/opportunities/:opportunityID.
// ?items=true embeds the line items.
func (h *OpportunityHandler) GetByID(c *gin.Context) {
	opportunityID, ok := pathUUID(c, "opportunityID")
	if !ok {
		return
	}

	o, err := h.repo.GetByID(c.Request.Context(), opportunityID)
	if err != nil {
		respondStoreError(c, h.logger, "get opportunity", err)
		return
	}
	if o == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "opportunity not found"})
		return
	}

	if c.Query("items") != "true" {
		c.JSON(http.StatusOK, o)
		return
	}

	items, err := h.repo.ListItems(c.Request.Context(), opportunityID)
	if err != nil {
		respondStoreError(c, h.logger, "list items", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"opportunity": o, "items": items})
}

// ListByAccount handles GET /v1/tenants/:tenantID/accounts/:accountID/opportunities
func (h *OpportunityHandler) ListByAccount(c *gin.Context) {
	accountID, ok := pathUUID(c, "accountID")
	if !ok {
		return
	}

	opps, err := h.repo.ListByAccount(c.Request.Context(), accountID)
	if err != nil {
		respondStoreError(c, h.logger, "list opportunities", err)
		return
	}

	c.JSON(http.StatusOK, opps)
}

// Update handles PUT /v1/opportunities/:opportunityID — stage moves,
// probability revisions, forecast recategorization, close-date slips.
func (h *OpportunityHandler) Update(c *gin.Context) {
	opportunityID, ok := pathUUID(c, "opportunityID")
	if !ok {
		return
	}

	var req opportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.repo.Update(c.Request.Context(), &models.Opportunity{
		ID:               opportunityID,
		AccountID:        req.AccountID,
		ContactID:        req.ContactID,
		OwnerID:          req.OwnerID,
		Name:             req.Name,
		Stage:            req.Stage,
		Amount:           req.Amount,
		Probability:      req.Probability,
		ForecastCategory: req.ForecastCategory,
		ExpectedCloseAt:  req.ExpectedCloseAt,
	})
	if err != nil {
		respondStoreError(c, h.logger, "update opportunity", err)
		return
	}
	if o == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "opportunity not found"})
		return
	}

	c.JSON(http.StatusOK, o)
}

type itemRequest struct {
	ProductID          uuid.UUID `json:"product_id" binding:"required"`
	Quantity           int       `json:"quantity" binding:"required,gt=0"`
	DiscountPercentage float64   `json:"discount_percentage" binding:"gte=0,lte=100"`
}

// AddItem handles POST /v1/opportunities/:opportunityID/items.
// No total_price in the request — it is always derived, never dictated.
func (h *OpportunityHandler) AddItem(c *gin.Context) {
	opportunityID, ok := pathUUID(c, "opportunityID")
	if !ok {
		return
	}

	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.repo.AddItem(c.Request.Context(), opportunityID, req.ProductID, req.Quantity, req.DiscountPercentage)
	if err != nil {
		respondStoreError(c, h.logger, "add item", err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

type updateItemRequest struct {
	Quantity           int     `json:"quantity" binding:"required,gt=0"`
	DiscountPercentage float64 `json:"discount_percentage" binding:"gte=0,lte=100"`
}

// UpdateItem handles PUT /v1/items/:itemID
func (h *OpportunityHandler) UpdateItem(c *gin.Context) {
	itemID, ok := pathUUID(c, "itemID")
	if !ok {
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.repo.UpdateItem(c.Request.Context(), itemID, req.Quantity, req.DiscountPercentage)
	if err != nil {
		respondStoreError(c, h.logger, "update item", err)
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// ListItems handles GET /v1/opportunities/:opportunityID/items
func (h *OpportunityHandler) ListItems(c *gin.Context) {
	opportunityID, ok := pathUUID(c, "opportunityID")
	if !ok {
		return
	}

	items, err := h.repo.ListItems(c.Request.Context(), opportunityID)
	if err != nil {
		respondStoreError(c, h.logger, "list items", err)
		return
	}

	c.JSON(http.StatusOK, items)
}
