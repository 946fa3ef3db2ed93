package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"Order", "Order", 0},
		{"", "Order", 5},
		{"Order", "Ordr", 1},
		{"Order", "Orders", 1},
		{"Customer", "Costumer", 2},
		{"kitten", "sitting", 3},
		{"CreatedAt", "UpdatedAt", 3},
		{"Shop.Order", "shop.order", 2},
		{"Größe", "Grösse", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, Distance(tt.b, tt.a), "distance must be symmetric")
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("Order", "Order"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.8, Similarity("Order", "Ordr"), 1e-9)
	assert.InDelta(t, 1-3.0/7.0, Similarity("kitten", "sitting"), 1e-9)
}

func BenchmarkDistance(b *testing.B) {
	for b.Loop() {
		Distance("Shop.Sales.CustomerOrder", "Shop.Sales.CustomerOrders")
	}
}
