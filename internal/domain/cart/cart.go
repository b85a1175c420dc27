package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mercatto/loja-api/internal/domain/product"
	"github.com/mercatto/loja-api/internal/pricing"
)

// ProductNotFoundError indicates a quoted product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// LineItem is one requested cart line. Lines with non-positive quantities are
// treated as removed and dropped before quoting.
type LineItem struct {
	ProductID string
	Quantity  int
}

// QuotedItem is one cart line enriched with its product and the unit price it
// would be sold at under the selected modality.
type QuotedItem struct {
	Product   product.Product
	Quantity  int
	UnitPrice decimal.Decimal
}

// Quote is the full checkout view of a cart snapshot: per-modality
// eligibility, per-modality payable totals, and the reconciled selection.
type Quote struct {
	Items        []QuotedItem
	Availability pricing.Availability
	Totals       map[pricing.Modality]decimal.Decimal
	Selected     pricing.Modality
}

// Service computes cart quotes against the product catalog.
type Service struct {
	products product.Repository
}

// NewService creates a cart Service backed by the given product repository.
func NewService(products product.Repository) *Service {
	return &Service{products: products}
}

// Quote fetches the quoted products in a single batch, validates modality
// eligibility for the snapshot, and prices every line under the reconciled
// modality. The previously selected modality is kept when still valid and
// replaced with the best available one otherwise, so the caller never shows a
// stale selection against a newer cart.
func (s *Service) Quote(ctx context.Context, lines []LineItem, selected pricing.Modality) (*Quote, error) {
	lines = dropRemoved(lines)

	ids := make([]string, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}

	var productMap map[string]product.Product
	if len(ids) > 0 {
		fetched, err := s.products.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("get products: %w", err)
		}
		productMap = make(map[string]product.Product, len(fetched))
		for _, p := range fetched {
			productMap[p.ID] = p
		}
	}

	items := make([]pricing.Item, len(lines))
	quoted := make([]QuotedItem, len(lines))
	for i, line := range lines {
		p, ok := productMap[line.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: line.ProductID}
		}
		items[i] = p.PricingItem(line.Quantity)
		quoted[i] = QuotedItem{Product: p, Quantity: line.Quantity}
	}

	av := pricing.Validate(items)
	if selected == "" {
		selected = pricing.BestAvailable(av)
	} else {
		selected = pricing.ReconcileSelection(selected, av)
	}

	totals := make(map[pricing.Modality]decimal.Decimal, len(av))
	for m := range av {
		totals[m] = pricing.Subtotal(items, m).Round(2)
	}

	for i := range quoted {
		quoted[i].UnitPrice = pricing.Resolve(quoted[i].Product.Prices, selected)
	}

	return &Quote{
		Items:        quoted,
		Availability: av,
		Totals:       totals,
		Selected:     selected,
	}, nil
}

// dropRemoved filters out lines whose quantity fell to zero or below.
func dropRemoved(lines []LineItem) []LineItem {
	kept := make([]LineItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	return kept
}
