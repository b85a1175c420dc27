package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineAt builds an unbranded item priced at the given retail unit price.
func lineAt(id string, unitPrice float64, qty int) Item {
	return Item{
		ProductID: id,
		Quantity:  qty,
		Prices:    PriceSet{PrecoVarejo: price(unitPrice)},
	}
}

func TestValidate_EmptyCart(t *testing.T) {
	av := Validate(nil)

	assert.True(t, av[ModalityVarejo].Valid)
	for _, m := range []Modality{ModalityCartao, ModalityPix, ModalityDinheiro, ModalityOferta} {
		assert.False(t, av[m].Valid, "modality %s", m)
		assert.Equal(t, "Carrinho vazio", av[m].Reason, "modality %s", m)
	}
}

func TestValidate_ValueThresholdInclusive(t *testing.T) {
	// Exactly R$ 300.00 with no grouped quantity worth mentioning.
	av := Validate([]Item{lineAt("p1", 300, 1)})

	assert.True(t, av[ModalityVarejo].Valid)
	assert.True(t, av[ModalityCartao].Valid)
	assert.True(t, av[ModalityPix].Valid)
	assert.True(t, av[ModalityDinheiro].Valid)
	assert.False(t, av[ModalityOferta].Valid)
}

func TestValidate_BrandMixReachesCardThreshold(t *testing.T) {
	items := []Item{
		{ProductID: "a", Brand: "X", Quantity: 6, Prices: PriceSet{PrecoVarejo: price(5)}},
		{ProductID: "b", Brand: "X", Quantity: 6, Prices: PriceSet{PrecoVarejo: price(5)}},
	}

	av := Validate(items)

	// Grouped quantity 12: card (10) qualifies, pix and dinheiro (15) do not.
	assert.True(t, av[ModalityCartao].Valid)
	assert.False(t, av[ModalityPix].Valid)
	assert.False(t, av[ModalityDinheiro].Valid)
}

func TestValidate_UnbrandedIsolationBlocksCard(t *testing.T) {
	items := []Item{
		lineAt("c", 5, 8),
		lineAt("d", 5, 8),
	}

	av := Validate(items)

	// Total R$ 80, max group 8: below both dimensions.
	require.False(t, av[ModalityCartao].Valid)
	assert.Equal(t, "Necessário 10 unidades do mesmo produto/marca ou R$ 300.00", av[ModalityCartao].Reason)
	assert.Equal(t, "Adicione 2 unidades ou R$ 220.00", av[ModalityCartao].Suggestion)
}

func TestValidate_SuggestionGaps(t *testing.T) {
	items := []Item{
		{ProductID: "a", Brand: "X", Quantity: 4, Prices: PriceSet{PrecoVarejo: price(12.5)}},
	}

	av := Validate(items)

	// totalVarejo = 50.00, maxQty = 4.
	require.False(t, av[ModalityPix].Valid)
	assert.Equal(t, "Necessário 15 unidades do mesmo produto/marca ou R$ 300.00", av[ModalityPix].Reason)
	assert.Equal(t, "Adicione 11 unidades ou R$ 250.00", av[ModalityPix].Suggestion)

	require.False(t, av[ModalityDinheiro].Valid)
	assert.Equal(t, "Adicione 11 unidades ou R$ 250.00", av[ModalityDinheiro].Suggestion)

	require.False(t, av[ModalityCartao].Valid)
	assert.Equal(t, "Adicione 6 unidades ou R$ 250.00", av[ModalityCartao].Suggestion)
}

func TestValidate_GapsNeverNegative(t *testing.T) {
	// Quantity qualifies for card but the oferta gap math must not go below
	// zero on the value side either; exercise a cart over the value threshold
	// where only oferta stays invalid.
	items := []Item{lineAt("p1", 400, 1)}

	av := Validate(items)

	require.False(t, av[ModalityOferta].Valid)
	assert.Equal(t, "Adicione 29 unidades", av[ModalityOferta].Suggestion)
}

func TestValidate_ZeroPricedLines(t *testing.T) {
	items := []Item{
		{ProductID: "brinde", Quantity: 3, Prices: PriceSet{}},
		lineAt("p1", 10, 2),
	}

	av := Validate(items)

	// Zero-priced lines contribute nothing to the total but still count units.
	require.False(t, av[ModalityCartao].Valid)
	assert.Equal(t, "Adicione 7 unidades ou R$ 280.00", av[ModalityCartao].Suggestion)
}

func TestValidate_Oferta(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		valid bool
	}{
		{
			name: "30 units of one product qualifies",
			items: []Item{
				{ProductID: "a", Brand: "X", Quantity: 30, Prices: PriceSet{PrecoVarejo: price(2)}},
			},
			valid: true,
		},
		{
			name: "brand mix does not qualify oferta",
			items: []Item{
				{ProductID: "a", Brand: "X", Quantity: 15, Prices: PriceSet{PrecoVarejo: price(2)}},
				{ProductID: "b", Brand: "X", Quantity: 15, Prices: PriceSet{PrecoVarejo: price(2)}},
			},
			valid: false,
		},
		{
			name: "high value alone does not qualify oferta",
			items: []Item{
				lineAt("caro", 500, 1),
			},
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			av := Validate(tt.items)
			assert.Equal(t, tt.valid, av[ModalityOferta].Valid)
		})
	}
}

func TestValidate_Idempotent(t *testing.T) {
	items := []Item{
		{ProductID: "a", Brand: "X", Quantity: 6, Prices: PriceSet{PrecoVarejo: price(5), PrecoPix: price(4.5)}},
		lineAt("c", 8, 3),
	}

	first := Validate(items)
	second := Validate(items)

	assert.Equal(t, first, second)
}

func TestBestAvailable(t *testing.T) {
	tests := []struct {
		name string
		av   Availability
		want Modality
	}{
		{
			name: "all gated valid picks dinheiro",
			av: Availability{
				ModalityVarejo:   {Valid: true},
				ModalityCartao:   {Valid: true},
				ModalityPix:      {Valid: true},
				ModalityDinheiro: {Valid: true},
			},
			want: ModalityDinheiro,
		},
		{
			name: "only card valid picks cartao",
			av: Availability{
				ModalityVarejo: {Valid: true},
				ModalityCartao: {Valid: true},
			},
			want: ModalityCartao,
		},
		{
			name: "none gated valid defaults to varejo",
			av: Availability{
				ModalityVarejo: {Valid: true},
			},
			want: ModalityVarejo,
		},
		{
			name: "oferta validity never auto-selected",
			av: Availability{
				ModalityVarejo: {Valid: true},
				ModalityOferta: {Valid: true},
			},
			want: ModalityVarejo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BestAvailable(tt.av))
		})
	}
}

func TestReconcileSelection(t *testing.T) {
	av := Availability{
		ModalityVarejo: {Valid: true},
		ModalityCartao: {Valid: true},
	}

	assert.Equal(t, ModalityCartao, ReconcileSelection(ModalityCartao, av))
	assert.Equal(t, ModalityCartao, ReconcileSelection(ModalityDinheiro, av))

	onlyVarejo := Availability{ModalityVarejo: {Valid: true}}
	assert.Equal(t, ModalityVarejo, ReconcileSelection(ModalityPix, onlyVarejo))
}

func TestValidate_QualifyingTotalUsesRetailPrices(t *testing.T) {
	// The pix price would push the total over the threshold, but eligibility
	// is judged on the retail total, which stays under it.
	items := []Item{
		{ProductID: "a", Quantity: 1, Prices: PriceSet{
			PrecoVarejo: price(299.99),
			PrecoPix:    price(320),
		}},
	}

	av := Validate(items)

	assert.False(t, av[ModalityPix].Valid)
	assert.True(t, decimal.NewFromFloat(299.99).Equal(Subtotal(items, ModalityVarejo)))
}
