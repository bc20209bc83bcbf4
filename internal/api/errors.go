package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lalith-99/crmgrid/internal/models"
	"go.uber.org/zap"
)

// respondStoreError translates a store error into an HTTP response.
//
// Three tiers:
//  1. Application-enforced invariants (cycle, illegal transition, dangling
//     reference) → 409 Conflict with the sentinel's message. These are the
//     rules the schema can't hold; the caller did something consistent
//     JSON but inconsistent data.
//  2. Database constraint violations (SQLSTATE class 23: foreign key,
//     unique, check) → 409 with the engine's own message, passed through
//     unchanged. No rewording — "duplicate key value violates unique
//     constraint products_sku_key" tells the caller more than any
//     paraphrase would.
//  3. Everything else → 500, logged, generic body. Internal failures are
//     our problem, not the caller's.
func respondStoreError(c *gin.Context, logger *zap.Logger, action string, err error) {
	switch {
	case errors.Is(err, models.ErrHierarchyCycle),
		errors.Is(err, models.ErrIllegalTransition),
		errors.Is(err, models.ErrDanglingReference):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23" {
		c.JSON(http.StatusConflict, gin.H{"error": pgErr.Message})
		return
	}

	logger.Error("request failed", zap.String("action", action), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
}
