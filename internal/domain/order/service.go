package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercatto/loja-api/internal/domain/product"
	"github.com/mercatto/loja-api/internal/pricing"
)

// Sentinel errors for order validation.
var (
	ErrEmptyItems      = fmt.Errorf("items required")
	ErrInvalidQuantity = fmt.Errorf("quantity must be greater than 0")
)

// ProductNotFoundError indicates a requested product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// ModalityNotAvailableError indicates the chosen payment modality does not
// qualify for the submitted cart. Reason and Suggestion come straight from the
// eligibility validator.
type ModalityNotAvailableError struct {
	Modality   pricing.Modality
	Reason     string
	Suggestion string
}

func (e *ModalityNotAvailableError) Error() string {
	return fmt.Sprintf("modality %s not available: %s", e.Modality, e.Reason)
}

// RequestItem is one line of a place-order request.
type RequestItem struct {
	ProductID string
	Quantity  int
}

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	CustomerID string
	Items      []RequestItem
	Modality   pricing.Modality
}

// PlaceOrderResult holds the output of a successfully placed order.
type PlaceOrderResult struct {
	Order    *Order
	Products []product.Product
}

// Service encapsulates order placement and lifecycle business logic.
type Service struct {
	products product.Repository
	orders   Repository
	now      func() time.Time
}

// NewService creates an order Service with the required domain dependencies.
func NewService(products product.Repository, orders Repository) *Service {
	return &Service{
		products: products,
		orders:   orders,
		now:      time.Now,
	}
}

// Place validates items, fetches products in a single batch, re-checks
// modality eligibility against the final cart state, resolves per-item unit
// prices for the chosen modality, and persists the order. Eligibility is a
// blocking precondition: whatever the storefront displayed earlier, a gated
// modality that no longer qualifies rejects the submission.
func (s *Service) Place(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	// Validate quantities and collect product IDs.
	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		ids[i] = item.ProductID
	}

	// Batch fetch all products in a single query.
	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	productMap := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		productMap[p.ID] = p
	}

	// Verify every requested product was found and build the pricing items.
	products := make([]product.Product, 0, len(req.Items))
	pricingItems := make([]pricing.Item, len(req.Items))
	for i, item := range req.Items {
		p, ok := productMap[item.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		products = append(products, p)
		pricingItems[i] = p.PricingItem(item.Quantity)
	}

	// Re-validate eligibility on the final cart snapshot.
	av := pricing.Validate(pricingItems)
	modality := req.Modality
	if modality == "" {
		modality = pricing.BestAvailable(av)
	}
	if res, ok := av[modality]; !ok || !res.Valid {
		return nil, &ModalityNotAvailableError{
			Modality:   modality,
			Reason:     av[modality].Reason,
			Suggestion: av[modality].Suggestion,
		}
	}

	// Resolve the unit price each line was quoted at and total the order.
	orderItems := make([]OrderItem, len(req.Items))
	total := decimal.Zero
	for i, item := range req.Items {
		unit := pricing.Resolve(products[i].Prices, modality)
		orderItems[i] = OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unit,
		}
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	total = total.Round(2)

	o := &Order{
		ID:         uuid.New().String(),
		CustomerID: req.CustomerID,
		Items:      orderItems,
		Modality:   modality,
		Total:      total,
		Status:     StatusOpen,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return &PlaceOrderResult{
		Order:    o,
		Products: products,
	}, nil
}

// List returns orders, optionally including archived ones.
func (s *Service) List(ctx context.Context, includeArchived bool) ([]Order, error) {
	orders, err := s.orders.List(ctx, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetByID returns a single order.
func (s *Service) GetByID(ctx context.Context, id string) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

// Archive moves an order out of the active views.
func (s *Service) Archive(ctx context.Context, id string) error {
	if err := s.orders.Archive(ctx, id, s.now().UTC()); err != nil {
		return fmt.Errorf("archive order %q: %w", id, err)
	}
	return nil
}
