package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/crmgrid/internal/repository"
	"go.uber.org/zap"
)

// ReportHandler exposes the three aggregation views to BI tooling and
// dashboards. Strictly read-only: a report is a SELECT against a view,
// recomputed by the database on every call.
type ReportHandler struct {
	repo   repository.ReportRepository
	logger *zap.Logger
}

func NewReportHandler(repo repository.ReportRepository, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{repo: repo, logger: logger}
}

// SalesFunnel handles GET /v1/reports/sales-funnel —
// per-stage deal count, total value, average probability.
func (h *ReportHandler) SalesFunnel(c *gin.Context) {
	funnel, err := h.repo.SalesFunnel(c.Request.Context())
	if err != nil {
		respondStoreError(c, h.logger, "read sales funnel", err)
		return
	}

	c.JSON(http.StatusOK, funnel)
}

// RevenueForecast handles GET /v1/reports/revenue-forecast —
// open pipeline by expected close month, probability-weighted and raw.
// Closed deals and deals without a close date appear in no bucket.
func (h *ReportHandler) RevenueForecast(c *gin.Context) {
	forecast, err := h.repo.RevenueForecast(c.Request.Context())
	if err != nil {
		respondStoreError(c, h.logger, "read revenue forecast", err)
		return
	}

	c.JSON(http.StatusOK, forecast)
}

// LeadConversion handles GET /v1/reports/lead-conversion —
// per-source lead totals and conversion rate (null for sources with no
// leads yet).
func (h *ReportHandler) LeadConversion(c *gin.Context) {
	conversions, err := h.repo.LeadConversionBySource(c.Request.Context())
	if err != nil {
		respondStoreError(c, h.logger, "read lead conversion", err)
		return
	}

	c.JSON(http.StatusOK, conversions)
}
