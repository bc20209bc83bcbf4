package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lalith-99/crmgrid/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func recordStoreError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondStoreError(c, zap.NewNop(), "test op", err)
	return w
}

func TestRespondStoreErrorSentinelsAre409(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"cycle", models.ErrHierarchyCycle},
		{"illegal transition", fmt.Errorf("Qualified → New: %w", models.ErrIllegalTransition)},
		{"dangling reference", models.ErrDanglingReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := recordStoreError(t, tt.err)
			assert.Equal(t, http.StatusConflict, w.Code)
			assert.Contains(t, w.Body.String(), tt.err.Error())
		})
	}
}

func TestRespondStoreErrorConstraintViolationIs409(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:    "23505",
		Message: `duplicate key value violates unique constraint "products_sku_key"`,
	}
	w := recordStoreError(t, fmt.Errorf("create product: %w", pgErr))

	assert.Equal(t, http.StatusConflict, w.Code)
	// The engine's message goes through verbatim.
	assert.Contains(t, w.Body.String(), "products_sku_key")
}

func TestRespondStoreErrorOtherPgErrorIs500(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "40001", Message: "serialization failure"}
	w := recordStoreError(t, pgErr)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed to test op")
	assert.NotContains(t, w.Body.String(), "serialization failure")
}

func TestRespondStoreErrorGenericIs500(t *testing.T) {
	w := recordStoreError(t, fmt.Errorf("dial tcp: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed to test op")
}
