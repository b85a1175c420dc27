package api

import (
	"github.com/gin-gonic/gin"

	"github.com/mercatto/loja-api/internal/domain/cart"
	"github.com/mercatto/loja-api/internal/domain/customer"
	"github.com/mercatto/loja-api/internal/domain/order"
	"github.com/mercatto/loja-api/internal/domain/product"
)

// Write scopes required by the mutating endpoints.
const (
	ScopeWriteProducts  = "write:products"
	ScopeWriteCustomers = "write:customers"
	ScopeCreateOrders   = "create:orders"
)

// Handler exposes the storefront and back-office endpoints, delegating
// business logic to the injected domain services and repositories.
type Handler struct {
	products  product.Repository
	customers customer.Repository
	cart      *cart.Service
	orders    *order.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	products product.Repository,
	customers customer.Repository,
	cartSvc *cart.Service,
	orderSvc *order.Service,
) *Handler {
	return &Handler{
		products:  products,
		customers: customers,
		cart:      cartSvc,
		orders:    orderSvc,
	}
}

// Register mounts all API routes under /api. Reads are public; writes require
// an API key with the matching scope.
func (h *Handler) Register(r gin.IRouter, keys *KeyAuthorizer) {
	api := r.Group("/api")

	products := api.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)

		write := products.Group("", keys.RequireScope(ScopeWriteProducts))
		{
			write.POST("", h.CreateProduct)
			write.PUT("/:id", h.UpdateProduct)
			write.DELETE("/:id", h.DeleteProduct)
		}
	}

	api.POST("/cart/quote", h.QuoteCart)

	orders := api.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("", keys.RequireScope(ScopeCreateOrders), h.PlaceOrder)
		orders.POST("/:id/archive", keys.RequireScope(ScopeCreateOrders), h.ArchiveOrder)
	}

	customers := api.Group("/customers")
	{
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)

		write := customers.Group("", keys.RequireScope(ScopeWriteCustomers))
		{
			write.POST("", h.CreateCustomer)
			write.PUT("/:id", h.UpdateCustomer)
			write.DELETE("/:id", h.DeleteCustomer)
		}
	}
}

// errorBody is the uniform error response shape.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func errorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorBody{Code: status, Message: message})
}
