package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxGroupedQuantity(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		want  int
	}{
		{
			name:  "empty cart",
			items: nil,
			want:  0,
		},
		{
			name: "same brand across products sums",
			items: []Item{
				{ProductID: "a", Brand: "X", Quantity: 6},
				{ProductID: "b", Brand: "X", Quantity: 6},
			},
			want: 12,
		},
		{
			name: "unbranded products stay isolated",
			items: []Item{
				{ProductID: "c", Quantity: 8},
				{ProductID: "d", Quantity: 8},
			},
			want: 8,
		},
		{
			name: "whitespace brand counts as no brand",
			items: []Item{
				{ProductID: "c", Brand: "   ", Quantity: 5},
				{ProductID: "d", Brand: "   ", Quantity: 4},
			},
			want: 5,
		},
		{
			name: "brand groups and product groups compared together",
			items: []Item{
				{ProductID: "a", Brand: "X", Quantity: 3},
				{ProductID: "b", Brand: "X", Quantity: 4},
				{ProductID: "c", Quantity: 9},
			},
			want: 9,
		},
		{
			name: "brand named like a product id does not collide",
			items: []Item{
				{ProductID: "a", Brand: "p1", Quantity: 2},
				{ProductID: "p1", Quantity: 3},
			},
			want: 3,
		},
		{
			name: "same product split across lines sums",
			items: []Item{
				{ProductID: "c", Quantity: 4},
				{ProductID: "c", Quantity: 7},
			},
			want: 11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaxGroupedQuantity(tt.items))
		})
	}
}

func TestMaxProductQuantity(t *testing.T) {
	items := []Item{
		{ProductID: "a", Brand: "X", Quantity: 20},
		{ProductID: "b", Brand: "X", Quantity: 15},
		{ProductID: "a", Quantity: 5},
	}

	// Brand grouping reaches 35, but the per-product view tops out at 25.
	assert.Equal(t, 35, MaxGroupedQuantity(items))
	assert.Equal(t, 25, MaxProductQuantity(items))
	assert.Equal(t, 0, MaxProductQuantity(nil))
}
