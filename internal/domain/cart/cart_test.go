package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercatto/loja-api/internal/domain/product"
	"github.com/mercatto/loja-api/internal/pricing"
)

type mockProductRepo struct {
	byID map[string]*product.Product
	err  error
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) { return nil, nil }

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) Create(_ context.Context, _ *product.Product) error { return nil }
func (m *mockProductRepo) Update(_ context.Context, _ *product.Product) error { return nil }
func (m *mockProductRepo) Delete(_ context.Context, _ string) error           { return nil }

func np(v float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
}

func catalog(products ...product.Product) *mockProductRepo {
	byID := make(map[string]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return &mockProductRepo{byID: byID}
}

func TestQuote_EmptyCart(t *testing.T) {
	svc := NewService(catalog())

	q, err := svc.Quote(context.Background(), nil, "")
	require.NoError(t, err)

	assert.Empty(t, q.Items)
	assert.True(t, q.Availability[pricing.ModalityVarejo].Valid)
	assert.False(t, q.Availability[pricing.ModalityCartao].Valid)
	assert.Equal(t, pricing.ModalityVarejo, q.Selected)
	assert.True(t, q.Totals[pricing.ModalityVarejo].IsZero())
}

func TestQuote_DropsRemovedLines(t *testing.T) {
	svc := NewService(catalog(product.Product{
		ID:     "p1",
		Prices: pricing.PriceSet{PrecoVarejo: np(10)},
	}))

	q, err := svc.Quote(context.Background(), []LineItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "ghost", Quantity: 0},
	}, "")
	require.NoError(t, err)

	// The zero-quantity line is treated as removed, so the unknown product
	// never reaches the catalog lookup.
	require.Len(t, q.Items, 1)
	assert.Equal(t, "p1", q.Items[0].Product.ID)
}

func TestQuote_ProductNotFound(t *testing.T) {
	svc := NewService(catalog())

	_, err := svc.Quote(context.Background(), []LineItem{{ProductID: "nope", Quantity: 1}}, "")

	var pnfErr *ProductNotFoundError
	require.ErrorAs(t, err, &pnfErr)
	assert.Equal(t, "nope", pnfErr.ProductID)
}

func TestQuote_ReconcilesStaleSelection(t *testing.T) {
	svc := NewService(catalog(product.Product{
		ID:     "p1",
		Brand:  "Sabor",
		Prices: pricing.PriceSet{PrecoVarejo: np(10), PrecoCartao: np(9), PrecoPix: np(8.5)},
	}))

	// 10 units: cartao valid, pix/dinheiro not. A stale pix selection must
	// fall back to the best available modality.
	q, err := svc.Quote(context.Background(), []LineItem{{ProductID: "p1", Quantity: 10}}, pricing.ModalityPix)
	require.NoError(t, err)

	assert.Equal(t, pricing.ModalityCartao, q.Selected)
	assert.True(t, decimal.NewFromInt(9).Equal(q.Items[0].UnitPrice))
}

func TestQuote_TotalsPerModality(t *testing.T) {
	svc := NewService(catalog(product.Product{
		ID:     "p1",
		Brand:  "Sabor",
		Prices: pricing.PriceSet{PrecoVarejo: np(10), PrecoDinheiro: np(8)},
	}))

	q, err := svc.Quote(context.Background(), []LineItem{{ProductID: "p1", Quantity: 20}}, "")
	require.NoError(t, err)

	// 20 units of one brand qualifies everything; dinheiro is the default.
	assert.Equal(t, pricing.ModalityDinheiro, q.Selected)
	assert.True(t, decimal.NewFromInt(200).Equal(q.Totals[pricing.ModalityVarejo]))
	assert.True(t, decimal.NewFromInt(160).Equal(q.Totals[pricing.ModalityDinheiro]))
	// No card price set: the card total falls back to retail.
	assert.True(t, decimal.NewFromInt(200).Equal(q.Totals[pricing.ModalityCartao]))
}
