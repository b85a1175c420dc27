package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"github.com/mercatto/loja-api/internal/domain/order"
	"github.com/mercatto/loja-api/internal/pricing"
)

// placeOrderRequest is the checkout submission payload.
type placeOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	Items      []quoteRequestItem `json:"items"`
	Modalidade string             `json:"modalidade"`
}

type orderResponse struct {
	ID         string              `json:"id"`
	CustomerID string              `json:"customer_id,omitempty"`
	Items      []orderItemResponse `json:"items"`
	Modalidade string              `json:"modalidade"`
	Total      float64             `json:"total"`
	Status     string              `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	ArchivedAt *time.Time          `json:"archived_at,omitempty"`
}

type orderItemResponse struct {
	ProductID     string  `json:"product_id"`
	Quantity      int     `json:"quantity"`
	PrecoUnitario float64 `json:"preco_unitario"`
}

// PlaceOrder finalizes a cart into an order. Eligibility is re-validated
// against the submitted snapshot; a gated modality that no longer qualifies
// rejects the submission with the validator's reason and suggestion.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	items := make([]order.RequestItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.RequestItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	result, err := h.orders.Place(c.Request.Context(), order.PlaceOrderRequest{
		CustomerID: req.CustomerID,
		Items:      items,
		Modality:   pricing.Modality(req.Modalidade),
	})
	if err != nil {
		h.mapOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*result.Order))
}

// ListOrders returns orders newest first. Pass ?archived=true to include
// archived ones.
func (h *Handler) ListOrders(c *gin.Context) {
	includeArchived := c.Query("archived") == "true"

	orders, err := h.orders.List(c.Request.Context(), includeArchived)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	c.JSON(http.StatusOK, out)
}

// GetOrder returns a single order by ID.
func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.orders.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "order not found")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*o))
}

// ArchiveOrder moves an order out of the active views.
func (h *Handler) ArchiveOrder(c *gin.Context) {
	if err := h.orders.Archive(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "order not found")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(http.StatusNoContent)
}

// mapOrderError converts domain errors to HTTP error responses.
func (h *Handler) mapOrderError(c *gin.Context, err error) {
	if errors.Is(err, order.ErrEmptyItems) {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var iqErr *order.InvalidQuantityError
	if errors.As(err, &iqErr) {
		errorResponse(c, http.StatusUnprocessableEntity, iqErr.Error())
		return
	}

	var pnfErr *order.ProductNotFoundError
	if errors.As(err, &pnfErr) {
		errorResponse(c, http.StatusUnprocessableEntity, pnfErr.Error())
		return
	}

	var mnaErr *order.ModalityNotAvailableError
	if errors.As(err, &mnaErr) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"code":       http.StatusUnprocessableEntity,
			"message":    mnaErr.Error(),
			"reason":     mnaErr.Reason,
			"suggestion": mnaErr.Suggestion,
		})
		return
	}

	errorResponse(c, http.StatusInternalServerError, "internal error")
}

func toOrderResponse(o order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderItemResponse{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			PrecoUnitario: item.UnitPrice.InexactFloat64(),
		}
	}

	return orderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Items:      items,
		Modalidade: string(o.Modality),
		Total:      o.Total.InexactFloat64(),
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
		ArchivedAt: o.ArchivedAt,
	}
}
