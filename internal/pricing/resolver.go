package pricing

import "github.com/shopspring/decimal"

// Resolve returns the unit price of a product for the given modality.
// A modality-specific price that is absent or non-positive degrades to
// preco_varejo, then to preco, then to zero. The function is total: it never
// errors, whatever the shape of the price set.
func Resolve(prices PriceSet, m Modality) decimal.Decimal {
	var specific decimal.NullDecimal
	switch m {
	case ModalityCartao:
		specific = prices.PrecoCartao
	case ModalityPix:
		specific = prices.PrecoPix
	case ModalityDinheiro:
		specific = prices.PrecoDinheiro
	}

	if v, ok := priceValue(specific); ok {
		return v
	}
	if v, ok := priceValue(prices.PrecoVarejo); ok {
		return v
	}
	if v, ok := priceValue(prices.Preco); ok {
		return v
	}
	return decimal.Zero
}

// Subtotal returns the sum of Resolve(item, m) * quantity across all items.
func Subtotal(items []Item, m Modality) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		line := Resolve(item.Prices, m).Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}
