package pricing

import "strings"

// groupKey partitions cart items for the quantity threshold. Branded items
// accumulate under their brand; unbranded items each form their own group.
// The kind flag keeps a brand named like a product id from colliding with it.
type groupKey struct {
	byBrand bool
	key     string
}

// MaxGroupedQuantity returns the largest summed quantity across all brand
// groups and per-product groups. A customer can reach a wholesale threshold
// either with many units of one product or with a mix of products under the
// same brand. Empty cart returns 0.
func MaxGroupedQuantity(items []Item) int {
	groups := make(map[groupKey]int, len(items))
	for _, item := range items {
		brand := strings.TrimSpace(item.Brand)
		k := groupKey{byBrand: true, key: brand}
		if brand == "" {
			k = groupKey{key: item.ProductID}
		}
		groups[k] += item.Quantity
	}

	maxQty := 0
	for _, qty := range groups {
		if qty > maxQty {
			maxQty = qty
		}
	}
	return maxQty
}

// MaxProductQuantity returns the largest summed quantity of any single exact
// product, ignoring brands. Only the oferta rule uses it.
func MaxProductQuantity(items []Item) int {
	perProduct := make(map[string]int, len(items))
	for _, item := range items {
		perProduct[item.ProductID] += item.Quantity
	}

	maxQty := 0
	for _, qty := range perProduct {
		if qty > maxQty {
			maxQty = qty
		}
	}
	return maxQty
}
