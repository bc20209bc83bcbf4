package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/crmgrid/internal/repository"
	"go.uber.org/zap"
)

// UserHandler handles user and reporting-chain operations.
//
// Why repository.UserRepository (interface) and not *postgres.UserStore?
//   - The handler doesn't know or care that Postgres is behind the
//     interface. In tests, a stub implementation stands in — no DB needed.
type UserHandler struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewUserHandler(repo repository.UserRepository, logger *zap.Logger) *UserHandler {
	return &UserHandler{repo: repo, logger: logger}
}

// createUserRequest is the expected JSON body for POST /v1/tenants/:tenantID/users.
//
// Why a separate struct and not models.User?
//   - The client controls name, email, role, manager — and nothing else.
//     IDs and timestamps are the server's business; reusing the model
//     would let clients set their own.
type createUserRequest struct {
	Name      string     `json:"name" binding:"required"`
	Email     string     `json:"email" binding:"required,email"`
	RoleID    *int32     `json:"role_id"`
	ReportsTo *uuid.UUID `json:"reports_to"`
}

// Create handles POST /v1/tenants/:tenantID/users
func (h *UserHandler) Create(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.repo.Create(c.Request.Context(), tenantID, req.RoleID, req.Name, req.Email, req.ReportsTo)
	if err != nil {
		respondStoreError(c, h.logger, "create user", err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetByID handles GET /v1/tenants/:tenantID/users/:userID
func (h *UserHandler) GetByID(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "userID")
	if !ok {
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), tenantID, userID)
	if err != nil {
		respondStoreError(c, h.logger, "get user", err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// List handles GET /v1/tenants/:tenantID/users
func (h *UserHandler) List(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}

	users, err := h.repo.ListByTenant(c.Request.Context(), tenantID)
	if err != nil {
		respondStoreError(c, h.logger, "list users", err)
		return
	}

	c.JSON(http.StatusOK, users)
}

type setManagerRequest struct {
	// nil clears the manager (the user becomes a root of the forest).
	ManagerID *uuid.UUID `json:"manager_id"`
}

// SetManager handles PUT /v1/tenants/:tenantID/users/:userID/manager
//
// A move that would make the user their own (transitive) manager comes
// back as 409 via models.ErrHierarchyCycle.
func (h *UserHandler) SetManager(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "userID")
	if !ok {
		return
	}

	var req setManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.SetManager(c.Request.Context(), tenantID, userID, req.ManagerID); err != nil {
		respondStoreError(c, h.logger, "set manager", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Reports handles GET /v1/tenants/:tenantID/users/:userID/reports —
// everyone who rolls up to this user, direct and transitive.
func (h *UserHandler) Reports(c *gin.Context) {
	tenantID, ok := pathUUID(c, "tenantID")
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "userID")
	if !ok {
		return
	}

	reports, err := h.repo.ListReports(c.Request.Context(), tenantID, userID)
	if err != nil {
		respondStoreError(c, h.logger, "list reports", err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

// RecordLogin handles POST /v1/tenants/:tenantID/users/:userID/login —
// stamps last_login_at. Whatever authenticates the user lives outside this
// system; it just tells us the login happened.
func (h *UserHandler) RecordLogin(c *gin.Context) {
	userID, ok := pathUUID(c, "userID")
	if !ok {
		return
	}

	if err := h.repo.RecordLogin(c.Request.Context(), userID, time.Now().UTC()); err != nil {
		respondStoreError(c, h.logger, "record login", err)
		return
	}

	c.Status(http.StatusNoContent)
}
