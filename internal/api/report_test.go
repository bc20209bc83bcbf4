package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/crmgrid/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubReportRepo struct {
	funnel      []models.FunnelStage
	forecast    []models.ForecastBucket
	conversions []models.SourceConversion
	err         error
}

func (s *stubReportRepo) SalesFunnel(ctx context.Context) ([]models.FunnelStage, error) {
	return s.funnel, s.err
}

func (s *stubReportRepo) RevenueForecast(ctx context.Context) ([]models.ForecastBucket, error) {
	return s.forecast, s.err
}

func (s *stubReportRepo) LeadConversionBySource(ctx context.Context) ([]models.SourceConversion, error) {
	return s.conversions, s.err
}

func reportRouter(repo *stubReportRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(repo, zap.NewNop())
	r := gin.New()
	r.GET("/v1/reports/sales-funnel", h.SalesFunnel)
	r.GET("/v1/reports/revenue-forecast", h.RevenueForecast)
	r.GET("/v1/reports/lead-conversion", h.LeadConversion)
	return r
}

func TestSalesFunnelOK(t *testing.T) {
	repo := &stubReportRepo{
		funnel: []models.FunnelStage{
			{Stage: models.StageProposal, DealCount: 1, TotalValue: 150000, AvgProbability: 60},
		},
	}
	r := reportRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/reports/sales-funnel", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stage":"Proposal"`)
	assert.Contains(t, w.Body.String(), `"deal_count":1`)
}

func TestLeadConversionNullRateStaysNull(t *testing.T) {
	rate := 100.0
	repo := &stubReportRepo{
		conversions: []models.SourceConversion{
			{SourceID: 1, SourceName: "Webinar", TotalLeads: 1, ConvertedCount: 1, ConversionRate: &rate},
			{SourceID: 2, SourceName: "Referral", TotalLeads: 0, ConvertedCount: 0, ConversionRate: nil},
		},
	}
	r := reportRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/reports/lead-conversion", nil))

	require.Equal(t, http.StatusOK, w.Code)
	// The zero-lead source serializes as JSON null, not 0 — the difference
	// between "no data" and "0% of many".
	assert.Contains(t, w.Body.String(), `"conversion_rate":null`)
	assert.Contains(t, w.Body.String(), `"conversion_rate":100`)
}

func TestRevenueForecastStoreFailureIs500(t *testing.T) {
	repo := &stubReportRepo{err: errors.New("connection reset")}
	r := reportRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/reports/revenue-forecast", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed to read revenue forecast")
}
