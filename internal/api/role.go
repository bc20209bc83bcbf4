package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/crmgrid/internal/repository"
	"go.uber.org/zap"
)

type RoleHandler struct {
	repo   repository.RoleRepository
	logger *zap.Logger
}

func NewRoleHandler(repo repository.RoleRepository, logger *zap.Logger) *RoleHandler {
	return &RoleHandler{repo: repo, logger: logger}
}

type createRoleRequest struct {
	Name string `json:"name" binding:"required"`
	// Permissions is stored verbatim and never interpreted here — whatever
	// application consumes this data decides what the blob means.
	Permissions string `json:"permissions"`
}

// Create handles POST /v1/roles
func (h *RoleHandler) Create(c *gin.Context) {
	var req createRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Permissions == "" {
		req.Permissions = "{}"
	}

	role, err := h.repo.Create(c.Request.Context(), req.Name, req.Permissions)
	if err != nil {
		respondStoreError(c, h.logger, "create role", err)
		return
	}

	c.JSON(http.StatusCreated, role)
}

// List handles GET /v1/roles
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, h.logger, "list roles", err)
		return
	}

	c.JSON(http.StatusOK, roles)
}
