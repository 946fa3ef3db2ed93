package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	known := []string{"Shop.Order", "Shop.OrderLine", "Shop.Customer", "Shop.Product", "Billing.Invoice"}

	tests := []struct {
		name string
		want []string
	}{
		{name: "Shop.Ordr", want: []string{"Shop.Order", "Shop.OrderLine"}},
		{name: "shop.order_line", want: []string{"Shop.OrderLine", "Shop.Order"}},
		{name: "Shop.Costumer", want: []string{"Shop.Customer", "Shop.Order"}},
		{name: "Warehouse.Bin", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.name, known))
		})
	}
}

func TestRank_ExcludesExactAndOrdersByScore(t *testing.T) {
	ranked := Rank("abcd", []string{"abcd", "abce", "abxx", "zzzz"}, 0.5)

	if assert.Len(t, ranked, 2) {
		assert.Equal(t, "abce", ranked[0].Name)
		assert.Equal(t, "abxx", ranked[1].Name)
		assert.Greater(t, ranked[0].Score, ranked[1].Score)
	}
}
