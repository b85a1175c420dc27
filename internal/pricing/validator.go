package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// reasonEmptyCart is surfaced on every gated modality when the cart is empty.
const reasonEmptyCart = "Carrinho vazio"

// Validate evaluates every modality against the given cart snapshot and
// returns a fresh Availability. Varejo is always valid. Each gated modality is
// valid when the retail-priced cart total reaches the value threshold OR the
// maximum grouped quantity reaches the modality's quantity threshold. The
// qualifying total always uses retail prices, whichever modality is being
// evaluated. The function is total and side-effect free: the same snapshot
// always yields the same result.
func Validate(items []Item) Availability {
	av := Availability{
		ModalityVarejo: {Valid: true},
	}

	if len(items) == 0 {
		for _, m := range gatedModalities {
			av[m] = Result{Reason: reasonEmptyCart}
		}
		av[ModalityOferta] = Result{Reason: reasonEmptyCart}
		return av
	}

	totalVarejo := Subtotal(items, ModalityVarejo)
	maxQty := MaxGroupedQuantity(items)

	for _, m := range gatedModalities {
		av[m] = gatedResult(m, totalVarejo, maxQty)
	}
	av[ModalityOferta] = ofertaResult(MaxProductQuantity(items))

	return av
}

// gatedResult applies the value-or-quantity rule for one gated modality.
func gatedResult(m Modality, totalVarejo decimal.Decimal, maxQty int) Result {
	qtyNeeded := minGroupQty[m]
	if totalVarejo.GreaterThanOrEqual(minOrderValue) || maxQty >= qtyNeeded {
		return Result{Valid: true}
	}

	return Result{
		Reason: fmt.Sprintf("Necessário %d unidades do mesmo produto/marca ou R$ %s",
			qtyNeeded, minOrderValue.StringFixed(2)),
		Suggestion: fmt.Sprintf("Adicione %d unidades ou R$ %s",
			clampQty(qtyNeeded-maxQty), clampValue(minOrderValue.Sub(totalVarejo)).StringFixed(2)),
	}
}

// ofertaResult applies the special-offer rule: 30 units of one exact product,
// no brand grouping and no value alternative.
func ofertaResult(maxProductQty int) Result {
	if maxProductQty >= ofertaMinQty {
		return Result{Valid: true}
	}

	return Result{
		Reason:     fmt.Sprintf("Necessário %d unidades do mesmo produto", ofertaMinQty),
		Suggestion: fmt.Sprintf("Adicione %d unidades", clampQty(ofertaMinQty-maxProductQty)),
	}
}

// bestOrder ranks auto-selectable modalities from cheapest to the customer to
// the retail default. Oferta is opt-in only and never auto-selected.
var bestOrder = []Modality{ModalityDinheiro, ModalityPix, ModalityCartao, ModalityVarejo}

// BestAvailable returns the cheapest-to-customer modality that is currently
// valid, defaulting to varejo.
func BestAvailable(av Availability) Modality {
	for _, m := range bestOrder {
		if av[m].Valid {
			return m
		}
	}
	return ModalityVarejo
}

// ReconcileSelection keeps the previously selected modality when it is still
// valid, otherwise falls back to BestAvailable. Callers invoke it right after
// Validate on every cart mutation, so the selection shown to the customer
// never goes stale against a newer cart.
func ReconcileSelection(prev Modality, av Availability) Modality {
	if av[prev].Valid {
		return prev
	}
	return BestAvailable(av)
}

// clampQty floors a unit gap at zero so suggestions never ask for a negative
// number of units.
func clampQty(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// clampValue floors a currency gap at zero.
func clampValue(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
