package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func price(v float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
}

func noPrice() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		prices   PriceSet
		modality Modality
		want     decimal.Decimal
	}{
		{
			name: "modality price wins",
			prices: PriceSet{
				PrecoVarejo: price(10),
				PrecoCartao: price(9.5),
			},
			modality: ModalityCartao,
			want:     decimal.NewFromFloat(9.5),
		},
		{
			name: "missing modality price falls back to varejo",
			prices: PriceSet{
				PrecoVarejo: price(10),
			},
			modality: ModalityCartao,
			want:     decimal.NewFromInt(10),
		},
		{
			name: "zero modality price counts as unset",
			prices: PriceSet{
				PrecoVarejo: price(10),
				PrecoPix:    decimal.NullDecimal{Decimal: decimal.Zero, Valid: true},
			},
			modality: ModalityPix,
			want:     decimal.NewFromInt(10),
		},
		{
			name: "missing varejo falls back to legacy preco",
			prices: PriceSet{
				Preco: price(7.25),
			},
			modality: ModalityDinheiro,
			want:     decimal.NewFromFloat(7.25),
		},
		{
			name:     "no prices at all degrades to zero",
			prices:   PriceSet{},
			modality: ModalityVarejo,
			want:     decimal.Zero,
		},
		{
			name: "varejo ignores modality columns",
			prices: PriceSet{
				PrecoVarejo:   price(12),
				PrecoDinheiro: price(8),
			},
			modality: ModalityVarejo,
			want:     decimal.NewFromInt(12),
		},
		{
			name: "oferta has no own column and uses the retail chain",
			prices: PriceSet{
				PrecoVarejo: price(11),
				PrecoCartao: price(9),
			},
			modality: ModalityOferta,
			want:     decimal.NewFromInt(11),
		},
		{
			name: "negative price treated as unset",
			prices: PriceSet{
				Preco:       price(5),
				PrecoVarejo: decimal.NullDecimal{Decimal: decimal.NewFromInt(-1), Valid: true},
			},
			modality: ModalityVarejo,
			want:     decimal.NewFromInt(5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.prices, tt.modality)
			assert.True(t, tt.want.Equal(got), "expected %s, got %s", tt.want, got)
		})
	}
}

func TestSubtotal(t *testing.T) {
	items := []Item{
		{ProductID: "p1", Quantity: 3, Prices: PriceSet{PrecoVarejo: price(10), PrecoPix: price(9)}},
		{ProductID: "p2", Quantity: 2, Prices: PriceSet{Preco: price(4.5)}},
	}

	assert.True(t, decimal.NewFromInt(39).Equal(Subtotal(items, ModalityVarejo)))
	assert.True(t, decimal.NewFromInt(36).Equal(Subtotal(items, ModalityPix)))
	assert.True(t, decimal.Zero.Equal(Subtotal(nil, ModalityVarejo)))
}
