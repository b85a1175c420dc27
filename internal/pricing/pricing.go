package pricing

import (
	"github.com/shopspring/decimal"
)

// Modality enumerates the payment modalities offered at checkout.
// Each modality selects its own price column and eligibility rule.
type Modality string

const (
	// ModalityVarejo is the retail default: always available, no minimum.
	ModalityVarejo Modality = "varejo"
	// ModalityCartao is card payment, gated by a value-or-quantity threshold.
	ModalityCartao Modality = "cartao"
	// ModalityPix is instant transfer, gated by a stricter quantity threshold.
	ModalityPix Modality = "pix"
	// ModalityDinheiro is cash or wire transfer, gated like pix.
	ModalityDinheiro Modality = "dinheiro"
	// ModalityOferta is the special-offer surface: 30 units of one exact
	// product, no brand grouping and no value alternative.
	ModalityOferta Modality = "oferta"
)

// PriceSet holds the per-modality price columns of a product. A price that is
// absent or non-positive counts as "not set" and falls back to the retail
// chain (preco_varejo, then preco).
type PriceSet struct {
	Preco         decimal.NullDecimal
	PrecoVarejo   decimal.NullDecimal
	PrecoCartao   decimal.NullDecimal
	PrecoPix      decimal.NullDecimal
	PrecoDinheiro decimal.NullDecimal
}

// Item is a cart line item as seen by the pricing engine.
type Item struct {
	ProductID string
	Brand     string
	Quantity  int
	Prices    PriceSet
}

// Result is the per-modality eligibility verdict. Reason and Suggestion are
// populated only when the modality is not valid.
type Result struct {
	Valid      bool
	Reason     string
	Suggestion string
}

// Availability maps every modality to its Result for one cart snapshot. It is
// recomputed on each cart mutation and never persisted.
type Availability map[Modality]Result

// Eligibility thresholds. The value threshold applies to all three gated
// modalities; the quantity thresholds are alternative, not cumulative.
var (
	minOrderValue = decimal.NewFromInt(300)

	minGroupQty = map[Modality]int{
		ModalityCartao:   10,
		ModalityPix:      15,
		ModalityDinheiro: 15,
	}
)

// ofertaMinQty is the single-product quantity required by the oferta rule.
const ofertaMinQty = 30

// gatedModalities is the evaluation order for the generic threshold rule.
var gatedModalities = []Modality{ModalityCartao, ModalityPix, ModalityDinheiro}

// priceValue reports the decimal behind d and whether it counts as set.
// Zero and negative prices are treated the same as absent ones.
func priceValue(d decimal.NullDecimal) (decimal.Decimal, bool) {
	if !d.Valid || !d.Decimal.IsPositive() {
		return decimal.Zero, false
	}
	return d.Decimal, true
}
