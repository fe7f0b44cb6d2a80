package pricing

import (
	"testing"

	"tably/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		items    []model.OrderItem
		rate     float64
		expected Totals
	}{
		{
			name: "Two line items at 15 percent",
			items: []model.OrderItem{
				{Price: 120, Quantity: 2},
				{Price: 80, Quantity: 1},
			},
			rate:     0.15,
			expected: Totals{Subtotal: 320, Tax: 48, Total: 368},
		},
		{
			name:     "Empty order",
			items:    nil,
			rate:     0.15,
			expected: Totals{Subtotal: 0, Tax: 0, Total: 0},
		},
		{
			name: "Single item",
			items: []model.OrderItem{
				{Price: 99.99, Quantity: 1},
			},
			rate:     0.15,
			expected: Totals{Subtotal: 99.99, Tax: 15, Total: 114.99},
		},
		{
			name: "Tax rounds half away from zero",
			items: []model.OrderItem{
				{Price: 17.83, Quantity: 1},
			},
			rate:     0.15,
			expected: Totals{Subtotal: 17.83, Tax: 2.67, Total: 20.5},
		},
		{
			name: "Half-cent tax rounds up not to even",
			items: []model.OrderItem{
				{Price: 17.9, Quantity: 1},
			},
			rate:     0.15,
			// 17.90 * 0.15 = 2.685 exactly; half away from zero gives 2.69.
			expected: Totals{Subtotal: 17.9, Tax: 2.69, Total: 20.59},
		},
		{
			name: "Zero rate",
			items: []model.OrderItem{
				{Price: 50, Quantity: 3},
			},
			rate:     0,
			expected: Totals{Subtotal: 150, Tax: 0, Total: 150},
		},
		{
			name: "Alternate rate",
			items: []model.OrderItem{
				{Price: 100, Quantity: 1},
			},
			rate:     0.12,
			expected: Totals{Subtotal: 100, Tax: 12, Total: 112},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.items, tt.rate)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCompute_TotalMatchesSubtotalPlusTax(t *testing.T) {
	// Simulate a sequence of item mutations, recomputing after each one.
	states := [][]model.OrderItem{
		{{Price: 120, Quantity: 2}},
		{{Price: 120, Quantity: 2}, {Price: 80, Quantity: 1}},
		{{Price: 120, Quantity: 3}, {Price: 80, Quantity: 1}},
		{{Price: 80, Quantity: 1}},
		{},
	}

	for _, items := range states {
		got := Compute(items, DefaultTaxRate)
		assert.InDelta(t, got.Subtotal+got.Tax, got.Total, 0.001)
	}
}
