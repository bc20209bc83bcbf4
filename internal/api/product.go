package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/crmgrid/internal/repository"
	"go.uber.org/zap"
)

type ProductHandler struct {
	repo   repository.ProductRepository
	logger *zap.Logger
}

func NewProductHandler(repo repository.ProductRepository, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{repo: repo, logger: logger}
}

type createProductRequest struct {
	SKU            string  `json:"sku" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	UnitPrice      float64 `json:"unit_price" binding:"required,gte=0"`
	IsSubscription bool    `json:"is_subscription"`
}

// Create handles POST /v1/products. A duplicate SKU is a 409 straight from
// the UNIQUE constraint.
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.repo.Create(c.Request.Context(), req.SKU, req.Name, req.UnitPrice, req.IsSubscription)
	if err != nil {
		respondStoreError(c, h.logger, "create product", err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// List handles GET /v1/products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, h.logger, "list products", err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetBySKU handles GET /v1/products/:sku.
// SKUs are the catalog's natural key — URLs carry them, not UUIDs.
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	p, err := h.repo.GetBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondStoreError(c, h.logger, "get product", err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	c.JSON(http.StatusOK, p)
}

type updatePriceRequest struct {
	UnitPrice float64 `json:"unit_price" binding:"required,gte=0"`
}

// UpdatePrice handles PUT /v1/products/:sku/price
//
// The price change and the recompute of every referencing line item's
// total_price commit together — see ProductStore.UpdatePrice.
func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	var req updatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.repo.GetBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondStoreError(c, h.logger, "get product", err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	updated, err := h.repo.UpdatePrice(c.Request.Context(), p.ID, req.UnitPrice)
	if err != nil {
		respondStoreError(c, h.logger, "update product price", err)
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	c.JSON(http.StatusOK, updated)
}
