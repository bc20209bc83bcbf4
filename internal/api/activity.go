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

type ActivityHandler struct {
	repo   repository.ActivityRepository
	logger *zap.Logger
}

func NewActivityHandler(repo repository.ActivityRepository, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{repo: repo, logger: logger}
}

type logActivityRequest struct {
	OwnerID       *uuid.UUID          `json:"owner_id"`
	Type          models.ActivityType `json:"type" binding:"required"`
	Subject       string              `json:"subject" binding:"required"`
	Description   string              `json:"description"`
	DueDate       *time.Time          `json:"due_date"`
	RelatedToType models.RelatedType  `json:"related_to_type" binding:"required"`
	RelatedToID   uuid.UUID           `json:"related_to_id" binding:"required"`
}

// Log handles POST /v1/activities
//
// (related_to_type, related_to_id) must name an existing Lead, Account or
// Opportunity — a dangling reference is a 409, because no foreign key is
// there to catch it for us.
func (h *ActivityHandler) Log(c *gin.Context) {
	var req logActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.RelatedToType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "related_to_type must be Lead, Account or Opportunity"})
		return
	}
	if !req.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be Call, Email, Meeting or Task"})
		return
	}

	activity, err := h.repo.Log(c.Request.Context(), &models.Activity{
		OwnerID:       req.OwnerID,
		Type:          req.Type,
		Subject:       req.Subject,
		Description:   req.Description,
		DueDate:       req.DueDate,
		RelatedToType: req.RelatedToType,
		RelatedToID:   req.RelatedToID,
	})
	if err != nil {
		respondStoreError(c, h.logger, "log activity", err)
		return
	}

	c.JSON(http.StatusCreated, activity)
}

// ListFor handles GET /v1/activities?related_to_type=Lead&related_to_id=...
// — the timeline of one entity, ordered by due date.
func (h *ActivityHandler) ListFor(c *gin.Context) {
	relatedType := models.RelatedType(c.Query("related_to_type"))
	if !relatedType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "related_to_type must be Lead, Account or Opportunity"})
		return
	}

	relatedID, err := uuid.Parse(c.Query("related_to_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid related_to_id"})
		return
	}

	activities, err := h.repo.ListFor(c.Request.Context(), relatedType, relatedID)
	if err != nil {
		respondStoreError(c, h.logger, "list activities", err)
		return
	}

	c.JSON(http.StatusOK, activities)
}

type activityStatusRequest struct {
	Status models.ActivityStatus `json:"status" binding:"required"`
}

// SetStatus handles PUT /v1/activities/:activityID/status
func (h *ActivityHandler) SetStatus(c *gin.Context) {
	activityID, ok := pathUUID(c, "activityID")
	if !ok {
		return
	}

	var req activityStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case models.ActivityOpen, models.ActivityCompleted, models.ActivityCanceled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be Open, Completed or Canceled"})
		return
	}

	if err := h.repo.SetStatus(c.Request.Context(), activityID, req.Status); err != nil {
		respondStoreError(c, h.logger, "set activity status", err)
		return
	}

	c.Status(http.StatusNoContent)
}
