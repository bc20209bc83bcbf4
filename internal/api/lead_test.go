package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/crmgrid/internal/models"
	"github.com/lalith-99/crmgrid/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubLeadRepo satisfies repository.LeadRepository with canned responses,
// so handler behavior (status codes, error mapping) is testable without a
// database.
type stubLeadRepo struct {
	lead          *models.Lead
	contact       *models.Contact
	transitionErr error
	convertErr    error
}

func (s *stubLeadRepo) Create(ctx context.Context, l *models.Lead) (*models.Lead, error) {
	out := *l
	out.ID = uuid.New()
	out.Status = models.LeadNew
	return &out, nil
}

func (s *stubLeadRepo) GetByID(ctx context.Context, tenantID, leadID uuid.UUID) (*models.Lead, error) {
	return s.lead, nil
}

func (s *stubLeadRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Lead, error) {
	if s.lead == nil {
		return []models.Lead{}, nil
	}
	return []models.Lead{*s.lead}, nil
}

func (s *stubLeadRepo) Transition(ctx context.Context, tenantID, leadID uuid.UUID, to models.LeadStatus) (*models.Lead, error) {
	if s.transitionErr != nil {
		return nil, s.transitionErr
	}
	if s.lead == nil {
		return nil, nil
	}
	out := *s.lead
	out.Status = to
	return &out, nil
}

func (s *stubLeadRepo) Convert(ctx context.Context, tenantID, leadID, accountID uuid.UUID, fields repository.ContactFields) (*models.Lead, *models.Contact, error) {
	if s.convertErr != nil {
		return nil, nil, s.convertErr
	}
	return s.lead, s.contact, nil
}

type stubSourceRepo struct{}

func (s *stubSourceRepo) Create(ctx context.Context, name string) (*models.LeadSource, error) {
	return &models.LeadSource{ID: 1, Name: name}, nil
}

func (s *stubSourceRepo) List(ctx context.Context) ([]models.LeadSource, error) {
	return []models.LeadSource{{ID: 1, Name: "Webinar"}}, nil
}

func leadRouter(repo repository.LeadRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewLeadHandler(repo, &stubSourceRepo{}, zap.NewNop())
	r := gin.New()
	r.POST("/v1/tenants/:tenantID/leads", h.Create)
	r.POST("/v1/tenants/:tenantID/leads/:leadID/transition", h.Transition)
	r.POST("/v1/tenants/:tenantID/leads/:leadID/convert", h.Convert)
	return r
}

func TestLeadTransitionIllegalMoveIs409(t *testing.T) {
	repo := &stubLeadRepo{
		transitionErr: fmt.Errorf("New → Lost: %w", models.ErrIllegalTransition),
	}
	r := leadRouter(repo)

	req := httptest.NewRequest(http.MethodPost,
		"/v1/tenants/"+uuid.NewString()+"/leads/"+uuid.NewString()+"/transition",
		strings.NewReader(`{"status": "Lost"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "illegal lead status transition")
}

func TestLeadTransitionUnknownLeadIs404(t *testing.T) {
	r := leadRouter(&stubLeadRepo{})

	req := httptest.NewRequest(http.MethodPost,
		"/v1/tenants/"+uuid.NewString()+"/leads/"+uuid.NewString()+"/transition",
		strings.NewReader(`{"status": "Qualified"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeadTransitionOK(t *testing.T) {
	lead := &models.Lead{ID: uuid.New(), Status: models.LeadNew, Name: "Jane"}
	r := leadRouter(&stubLeadRepo{lead: lead})

	req := httptest.NewRequest(http.MethodPost,
		"/v1/tenants/"+uuid.NewString()+"/leads/"+lead.ID.String()+"/transition",
		strings.NewReader(`{"status": "Qualified"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Qualified"`)
}

func TestLeadTransitionBadUUIDIs400(t *testing.T) {
	r := leadRouter(&stubLeadRepo{})

	req := httptest.NewRequest(http.MethodPost,
		"/v1/tenants/not-a-uuid/leads/"+uuid.NewString()+"/transition",
		strings.NewReader(`{"status": "Qualified"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeadConvertMissingContactIs400(t *testing.T) {
	r := leadRouter(&stubLeadRepo{})

	// account_id present, contact.name missing — binding must refuse it
	// before the repository is ever called.
	req := httptest.NewRequest(http.MethodPost,
		"/v1/tenants/"+uuid.NewString()+"/leads/"+uuid.NewString()+"/convert",
		strings.NewReader(`{"account_id": "`+uuid.NewString()+`", "contact": {"email": "x@y.z"}}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeadConvertTerminalLeadIs409(t *testing.T) {
	repo := &stubLeadRepo{
		convertErr: fmt.Errorf("Converted → Converted: %w", models.ErrIllegalTransition),
	}
	r := leadRouter(repo)

	req := httptest.NewRequest(http.MethodPost,
		"/v1/tenants/"+uuid.NewString()+"/leads/"+uuid.NewString()+"/convert",
		strings.NewReader(`{"account_id": "`+uuid.NewString()+`", "contact": {"name": "Jane"}}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLeadCreateStartsNew(t *testing.T) {
	r := leadRouter(&stubLeadRepo{})

	// The request can't smuggle a status in; every lead is born New.
	req := httptest.NewRequest(http.MethodPost,
		"/v1/tenants/"+uuid.NewString()+"/leads",
		strings.NewReader(`{"name": "Marcus", "company": "Feldware", "status": "Converted"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"New"`)
}
