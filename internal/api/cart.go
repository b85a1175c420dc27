package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"github.com/mercatto/loja-api/internal/domain/cart"
	"github.com/mercatto/loja-api/internal/pricing"
)

// quoteRequest is the cart snapshot sent by the storefront on every mutation.
// Modalidade carries the customer's current selection, if any.
type quoteRequest struct {
	Items      []quoteRequestItem `json:"items"`
	Modalidade string             `json:"modalidade"`
}

type quoteRequestItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type quoteResponse struct {
	Items        []quoteResponseItem       `json:"items"`
	Availability map[string]modalityResult `json:"availability"`
	Totals       map[string]float64        `json:"totals"`
	Modalidade   string                    `json:"modalidade"`
}

type quoteResponseItem struct {
	Product       productResponse `json:"product"`
	Quantity      int             `json:"quantity"`
	PrecoUnitario float64         `json:"preco_unitario"`
}

type modalityResult struct {
	Valid      bool   `json:"valid"`
	Reason     string `json:"reason,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// QuoteCart validates modality eligibility for the submitted cart snapshot and
// prices it under the reconciled modality.
func (h *Handler) QuoteCart(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	lines := make([]cart.LineItem, len(req.Items))
	for i, item := range req.Items {
		lines[i] = cart.LineItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	quote, err := h.cart.Quote(c.Request.Context(), lines, pricing.Modality(req.Modalidade))
	if err != nil {
		var pnfErr *cart.ProductNotFoundError
		if errors.As(err, &pnfErr) {
			errorResponse(c, http.StatusUnprocessableEntity, pnfErr.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

func toQuoteResponse(q *cart.Quote) quoteResponse {
	items := make([]quoteResponseItem, len(q.Items))
	for i, item := range q.Items {
		items[i] = quoteResponseItem{
			Product:       toProductResponse(item.Product),
			Quantity:      item.Quantity,
			PrecoUnitario: item.UnitPrice.InexactFloat64(),
		}
	}

	availability := make(map[string]modalityResult, len(q.Availability))
	for m, res := range q.Availability {
		availability[string(m)] = modalityResult{
			Valid:      res.Valid,
			Reason:     res.Reason,
			Suggestion: res.Suggestion,
		}
	}

	totals := make(map[string]float64, len(q.Totals))
	for m, total := range q.Totals {
		totals[string(m)] = total.InexactFloat64()
	}

	return quoteResponse{
		Items:        items,
		Availability: availability,
		Totals:       totals,
		Modalidade:   string(q.Selected),
	}
}
