package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/crmgrid/internal/repository"
	"go.uber.org/zap"
)

type TenantHandler struct {
	repo   repository.TenantRepository
	logger *zap.Logger
}

func NewTenantHandler(repo repository.TenantRepository, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{repo: repo, logger: logger}
}

type createTenantRequest struct {
	Name string `json:"name" binding:"required"`
	Plan string `json:"plan"`
}

// Create handles POST /v1/tenants
func (h *TenantHandler) Create(c *gin.Context) {
	var req createTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Plan == "" {
		req.Plan = "free"
	}

	t, err := h.repo.Create(c.Request.Context(), req.Name, req.Plan)
	if err != nil {
		respondStoreError(c, h.logger, "create tenant", err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// GetByID handles GET /v1/tenants/:tenantID
func (h *TenantHandler) GetByID(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}

	t, err := h.repo.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		respondStoreError(c, h.logger, "get tenant", err)
		return
	}
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		return
	}

	c.JSON(http.StatusOK, t)
}

type setActiveRequest struct {
	// A pointer so "false" and "missing" are distinguishable — binding
	// can't require a bool that is allowed to be false.
	Active *bool `json:"active" binding:"required"`
}

// SetActive handles PATCH /v1/tenants/:tenantID/active — the soft-disable
// switch. No delete exists; a departed tenant's rows stay queryable.
func (h *TenantHandler) SetActive(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.SetActive(c.Request.Context(), tenantID, *req.Active); err != nil {
		respondStoreError(c, h.logger, "set tenant active", err)
		return
	}

	c.Status(http.StatusNoContent)
}
