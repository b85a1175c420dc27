package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/mercatto/loja-api/internal/pricing"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for sale. Prices carries the
// per-modality price columns consumed by the pricing engine; Brand groups
// products for the wholesale quantity thresholds.
type Product struct {
	ID        string
	Code      string
	Name      string
	Brand     string
	Category  string
	Prices    pricing.PriceSet
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PricingItem converts the product into a pricing engine line item with the
// given quantity.
func (p Product) PricingItem(quantity int) pricing.Item {
	return pricing.Item{
		ProductID: p.ID,
		Brand:     p.Brand,
		Quantity:  quantity,
		Prices:    p.Prices,
	}
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}
