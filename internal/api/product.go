package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercatto/loja-api/internal/domain/product"
	"github.com/mercatto/loja-api/internal/pricing"
)

// productRequest is the payload for creating or updating a product. Absent or
// zero prices mean "not set" and fall back through the retail chain.
type productRequest struct {
	Code          string   `json:"code"`
	Name          string   `json:"name" binding:"required"`
	Brand         string   `json:"brand"`
	Category      string   `json:"category"`
	Preco         *float64 `json:"preco"`
	PrecoVarejo   *float64 `json:"preco_varejo"`
	PrecoCartao   *float64 `json:"preco_cartao"`
	PrecoPix      *float64 `json:"preco_pix"`
	PrecoDinheiro *float64 `json:"preco_dinheiro"`
}

type productResponse struct {
	ID            string   `json:"id"`
	Code          string   `json:"code,omitempty"`
	Name          string   `json:"name"`
	Brand         string   `json:"brand,omitempty"`
	Category      string   `json:"category,omitempty"`
	Preco         *float64 `json:"preco,omitempty"`
	PrecoVarejo   *float64 `json:"preco_varejo,omitempty"`
	PrecoCartao   *float64 `json:"preco_cartao,omitempty"`
	PrecoPix      *float64 `json:"preco_pix,omitempty"`
	PrecoDinheiro *float64 `json:"preco_dinheiro,omitempty"`
	Active        bool     `json:"active"`
}

// ListProducts returns every active product in the catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	c.JSON(http.StatusOK, out)
}

// GetProduct returns a single product by ID.
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "product not found")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*p))
}

// CreateProduct inserts a new catalog item.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	p := product.Product{
		ID:       "prod-" + uuid.New().String(),
		Code:     req.Code,
		Name:     req.Name,
		Brand:    req.Brand,
		Category: req.Category,
		Prices:   toPriceSet(req),
		Active:   true,
	}
	if err := h.products.Create(c.Request.Context(), &p); err != nil {
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(p))
}

// UpdateProduct overwrites an existing catalog item.
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	p := product.Product{
		ID:       c.Param("id"),
		Code:     req.Code,
		Name:     req.Name,
		Brand:    req.Brand,
		Category: req.Category,
		Prices:   toPriceSet(req),
		Active:   true,
	}
	if err := h.products.Update(c.Request.Context(), &p); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "product not found")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

// DeleteProduct soft-deletes a catalog item.
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "product not found")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(http.StatusNoContent)
}

func toPriceSet(req productRequest) pricing.PriceSet {
	return pricing.PriceSet{
		Preco:         toNullDecimal(req.Preco),
		PrecoVarejo:   toNullDecimal(req.PrecoVarejo),
		PrecoCartao:   toNullDecimal(req.PrecoCartao),
		PrecoPix:      toNullDecimal(req.PrecoPix),
		PrecoDinheiro: toNullDecimal(req.PrecoDinheiro),
	}
}

func toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Brand:         p.Brand,
		Category:      p.Category,
		Preco:         toFloatPtr(p.Prices.Preco),
		PrecoVarejo:   toFloatPtr(p.Prices.PrecoVarejo),
		PrecoCartao:   toFloatPtr(p.Prices.PrecoCartao),
		PrecoPix:      toFloatPtr(p.Prices.PrecoPix),
		PrecoDinheiro: toFloatPtr(p.Prices.PrecoDinheiro),
		Active:        p.Active,
	}
}

func toNullDecimal(v *float64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(*v), Valid: true}
}

func toFloatPtr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}
