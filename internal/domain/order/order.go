package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/mercatto/loja-api/internal/pricing"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Status tracks an order through its lifecycle.
type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// Order represents a placed customer order. UnitPrice on each item is the
// price resolved for the chosen modality at checkout time; it is persisted as
// shown to the customer and never re-resolved.
type Order struct {
	ID         string
	CustomerID string
	Items      []OrderItem
	Modality   pricing.Modality
	Total      decimal.Decimal
	Status     Status
	CreatedAt  time.Time
	ArchivedAt *time.Time
}

// OrderItem represents a single line item in an order.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"preco_unitario"`
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	List(ctx context.Context, includeArchived bool) ([]Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	Archive(ctx context.Context, id string, at time.Time) error
}
