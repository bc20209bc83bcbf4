package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/crmgrid/internal/models"
	"github.com/lalith-99/crmgrid/internal/repository"
	"go.uber.org/zap"
)

type LeadHandler struct {
	repo    repository.LeadRepository
	sources repository.LeadSourceRepository
	logger  *zap.Logger
}

func NewLeadHandler(repo repository.LeadRepository, sources repository.LeadSourceRepository, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{repo: repo, sources: sources, logger: logger}
}

type createLeadRequest struct {
	Name       string     `json:"name" binding:"required"`
	Company    string     `json:"company"`
	SourceID   *int32     `json:"source_id"`
	AssignedTo *uuid.UUID `json:"assigned_to"`
	Score      int        `json:"score"`
}

// Create handles POST /v1/tenants/:tenantID/leads.
// No status field in the request — every lead is born New.
func (h *LeadHandler) Create(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}

	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, err := h.repo.Create(c.Request.Context(), &models.Lead{
		TenantID:   tenantID,
		SourceID:   req.SourceID,
		Name:       req.Name,
		Company:    req.Company,
		AssignedTo: req.AssignedTo,
		Score:      req.Score,
	})
	if err != nil {
		respondStoreError(c, h.logger, "create lead", err)
		return
	}

	c.JSON(http.StatusCreated, lead)
}

// GetByID handles GET /v1/tenants/:tenantID/leads/:leadID
func (h *LeadHandler) GetByID(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}
	leadID, ok := pathUUID(c, "leadID")
	if !ok {
		return
	}

	lead, err := h.repo.GetByID(c.Request.Context(), tenantID, leadID)
	if err != nil {
		respondStoreError(c, h.logger, "get lead", err)
		return
	}
	if lead == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}

	c.JSON(http.StatusOK, lead)
}

// List handles GET /v1/tenants/:tenantID/leads
func (h *LeadHandler) List(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}

	leads, err := h.repo.ListByTenant(c.Request.Context(), tenantID)
	if err != nil {
		respondStoreError(c, h.logger, "list leads", err)
		return
	}

	c.JSON(http.StatusOK, leads)
}

type transitionRequest struct {
	Status models.LeadStatus `json:"status" binding:"required"`
}

// Transition handles POST /v1/tenants/:tenantID/leads/:leadID/transition
//
// The state machine is New→Qualified→{Converted, Lost}, and Converted goes
// through Convert (it creates a contact), never through here. Anything
// else is a 409.
func (h *LeadHandler) Transition(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}
	leadID, ok := pathUUID(c, "leadID")
	if !ok {
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, err := h.repo.Transition(c.Request.Context(), tenantID, leadID, req.Status)
	if err != nil {
		respondStoreError(c, h.logger, "transition lead", err)
		return
	}
	if lead == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}

	c.JSON(http.StatusOK, lead)
}

type convertLeadRequest struct {
	AccountID uuid.UUID `json:"account_id" binding:"required"`
	Contact   struct {
		Name           string `json:"name" binding:"required"`
		Email          string `json:"email"`
		Phone          string `json:"phone"`
		Title          string `json:"title"`
		IsPrimary      bool   `json:"is_primary"`
		MarketingOptIn bool   `json:"marketing_opt_in"`
	} `json:"contact" binding:"required"`
}

// Convert handles POST /v1/tenants/:tenantID/leads/:leadID/convert —
// the atomic two-table operation: contact created, lead stamped Converted.
func (h *LeadHandler) Convert(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}
	leadID, ok := pathUUID(c, "leadID")
	if !ok {
		return
	}

	var req convertLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, contact, err := h.repo.Convert(c.Request.Context(), tenantID, leadID, req.AccountID,
		repository.ContactFields{
			Name:           req.Contact.Name,
			Email:          req.Contact.Email,
			Phone:          req.Contact.Phone,
			Title:          req.Contact.Title,
			IsPrimary:      req.Contact.IsPrimary,
			MarketingOptIn: req.Contact.MarketingOptIn,
		})
	if err != nil {
		respondStoreError(c, h.logger, "convert lead", err)
		return
	}
	if lead == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lead": lead, "contact": contact})
}

type createSourceRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateSource handles POST /v1/lead-sources
func (h *LeadHandler) CreateSource(c *gin.Context) {
	var req createSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source, err := h.sources.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondStoreError(c, h.logger, "create lead source", err)
		return
	}

	c.JSON(http.StatusCreated, source)
}

// ListSources handles GET /v1/lead-sources
func (h *LeadHandler) ListSources(c *gin.Context) {
	sources, err := h.sources.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, h.logger, "list lead sources", err)
		return
	}

	c.JSON(http.StatusOK, sources)
}
