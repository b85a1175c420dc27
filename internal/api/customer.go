package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mercatto/loja-api/internal/domain/customer"
)

type customerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

type customerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// ListCustomers returns every customer ordered by name.
func (h *Handler) ListCustomers(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]customerResponse, len(customers))
	for i, cust := range customers {
		out[i] = toCustomerResponse(cust)
	}
	c.JSON(http.StatusOK, out)
}

// GetCustomer returns a single customer by ID.
func (h *Handler) GetCustomer(c *gin.Context) {
	cust, err := h.customers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "customer not found")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(*cust))
}

// CreateCustomer inserts a new CRM record.
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cust := customer.Customer{
		ID:    "cust-" + uuid.New().String(),
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	}
	if err := h.customers.Create(c.Request.Context(), &cust); err != nil {
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusCreated, toCustomerResponse(cust))
}

// UpdateCustomer overwrites an existing CRM record.
func (h *Handler) UpdateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cust := customer.Customer{
		ID:    c.Param("id"),
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	}
	if err := h.customers.Update(c.Request.Context(), &cust); err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "customer not found")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(cust))
}

// DeleteCustomer removes a CRM record.
func (h *Handler) DeleteCustomer(c *gin.Context) {
	if err := h.customers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "customer not found")
			return
		}
		errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(http.StatusNoContent)
}

func toCustomerResponse(c customer.Customer) customerResponse {
	return customerResponse{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
		Notes: c.Notes,
	}
}
